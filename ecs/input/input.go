// Package input defines backend-neutral platform events and a keyboard state
// resource fed from the event phase.
package input

import (
	"fmt"

	"github.com/plus3/phasecs/ecs"
)

// EventKind enumerates the platform events understood by the runtime.
type EventKind uint8

const (
	KeyPressed EventKind = iota + 1
	KeyReleased
	MouseMoved
	MousePressed
	MouseReleased
	Resized
	FocusChanged
	CloseRequested
)

func (k EventKind) String() string {
	switch k {
	case KeyPressed:
		return "key-pressed"
	case KeyReleased:
		return "key-released"
	case MouseMoved:
		return "mouse-moved"
	case MousePressed:
		return "mouse-pressed"
	case MouseReleased:
		return "mouse-released"
	case Resized:
		return "resized"
	case FocusChanged:
		return "focus-changed"
	case CloseRequested:
		return "close-requested"
	default:
		return fmt.Sprintf("event-kind(%d)", uint8(k))
	}
}

// Key names a keyboard key, e.g. "A", "ArrowUp" or "Escape".
type Key string

// MouseButton identifies a mouse button.
type MouseButton uint8

const (
	MouseLeft MouseButton = iota
	MouseRight
	MouseMiddle
)

// Event is the payload of ecs.EventPhase runs produced by a platform layer.
// Only the fields relevant to Kind are set.
type Event struct {
	Kind    EventKind
	Key     Key
	Button  MouseButton
	X, Y    float64
	Width   int
	Height  int
	Focused bool
}

func (e Event) String() string {
	switch e.Kind {
	case KeyPressed, KeyReleased:
		return fmt.Sprintf("%s %s", e.Kind, e.Key)
	case MouseMoved, MousePressed, MouseReleased:
		return fmt.Sprintf("%s (%.0f, %.0f)", e.Kind, e.X, e.Y)
	case Resized:
		return fmt.Sprintf("%s %dx%d", e.Kind, e.Width, e.Height)
	case FocusChanged:
		return fmt.Sprintf("%s %t", e.Kind, e.Focused)
	default:
		return e.Kind.String()
	}
}

// From extracts an input Event from a phase.
func From(phase ecs.RunPhase) (Event, bool) {
	return ecs.EventAs[Event](phase)
}

// Keyboard tracks which keys are held down.
type Keyboard struct {
	pressed map[Key]bool
}

// NewKeyboard creates a keyboard state with no keys held.
func NewKeyboard() Keyboard {
	return Keyboard{pressed: make(map[Key]bool, 128)}
}

// Handle applies a key event. Other events are ignored. Losing focus
// releases every key.
func (k *Keyboard) Handle(e Event) {
	if k.pressed == nil {
		k.pressed = make(map[Key]bool, 128)
	}
	switch e.Kind {
	case KeyPressed:
		k.pressed[e.Key] = true
	case KeyReleased:
		delete(k.pressed, e.Key)
	case FocusChanged:
		if !e.Focused {
			clear(k.pressed)
		}
	}
}

// Pressed reports whether key is held down.
func (k *Keyboard) Pressed(key Key) bool {
	return k.pressed[key]
}

// Held returns the number of keys held down.
func (k *Keyboard) Held() int {
	return len(k.pressed)
}

// Axis returns -1, 0 or 1 depending on which of the two keys is held.
func (k *Keyboard) Axis(negative, positive Key) float64 {
	var v float64
	if k.pressed[negative] {
		v--
	}
	if k.pressed[positive] {
		v++
	}
	return v
}

func trackKeys(resources *ecs.Resources, phase ecs.RunPhase) {
	if e, ok := From(phase); ok {
		ecs.MustResource[Keyboard](resources).Handle(e)
	}
}

// Module installs a Keyboard resource updated before every event phase.
func Module() ecs.Module {
	return ecs.Module{
		Name: "input",
		Load: func(w *ecs.World) error {
			ecs.SetResource(w.Resources, NewKeyboard())
			w.AddBeforeService(ecs.ServiceAtEvent(trackKeys).Named("input.trackKeys"))
			return nil
		},
	}
}
