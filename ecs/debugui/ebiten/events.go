package ebiten

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/plus3/phasecs/ecs/input"
)

var mouseButtons = []struct {
	ebiten ebiten.MouseButton
	input  input.MouseButton
}{
	{ebiten.MouseButtonLeft, input.MouseLeft},
	{ebiten.MouseButtonRight, input.MouseRight},
	{ebiten.MouseButtonMiddle, input.MouseMiddle},
}

// frameInput is the raw input state sampled from Ebiten for one frame.
type frameInput struct {
	pressed  []ebiten.Key
	released []ebiten.Key
	cursorX  int
	cursorY  int
	down     []input.MouseButton
	up       []input.MouseButton
	focused  bool
	closing  bool
}

// inputTracker turns per-frame input samples into discrete events.
type inputTracker struct {
	primed  bool
	cursorX int
	cursorY int
	focused bool
	width   int
	height  int
	resized bool
}

func (g *Game) poll() frameInput {
	g.keys = inpututil.AppendJustPressedKeys(g.keys[:0])
	pressed := append([]ebiten.Key(nil), g.keys...)
	g.keys = inpututil.AppendJustReleasedKeys(g.keys[:0])
	released := append([]ebiten.Key(nil), g.keys...)

	in := frameInput{
		pressed:  pressed,
		released: released,
		focused:  ebiten.IsFocused(),
		closing:  ebiten.IsWindowBeingClosed(),
	}
	in.cursorX, in.cursorY = ebiten.CursorPosition()

	for _, b := range mouseButtons {
		if inpututil.IsMouseButtonJustPressed(b.ebiten) {
			in.down = append(in.down, b.input)
		}
		if inpututil.IsMouseButtonJustReleased(b.ebiten) {
			in.up = append(in.up, b.input)
		}
	}
	return in
}

func (t *inputTracker) layout(width, height int) {
	if width != t.width || height != t.height {
		t.width, t.height = width, height
		t.resized = true
	}
}

// translate appends the events implied by in to events. The first sample only
// primes the cursor and focus state.
func (t *inputTracker) translate(in frameInput, events []input.Event) []input.Event {
	if !t.primed {
		t.primed = true
		t.cursorX, t.cursorY = in.cursorX, in.cursorY
		t.focused = in.focused
	}

	if t.resized {
		t.resized = false
		events = append(events, input.Event{Kind: input.Resized, Width: t.width, Height: t.height})
	}

	if in.focused != t.focused {
		t.focused = in.focused
		events = append(events, input.Event{Kind: input.FocusChanged, Focused: in.focused})
	}

	for _, k := range in.pressed {
		events = append(events, input.Event{Kind: input.KeyPressed, Key: input.Key(k.String())})
	}
	for _, k := range in.released {
		events = append(events, input.Event{Kind: input.KeyReleased, Key: input.Key(k.String())})
	}

	x, y := float64(in.cursorX), float64(in.cursorY)
	if in.cursorX != t.cursorX || in.cursorY != t.cursorY {
		t.cursorX, t.cursorY = in.cursorX, in.cursorY
		events = append(events, input.Event{Kind: input.MouseMoved, X: x, Y: y})
	}
	for _, b := range in.down {
		events = append(events, input.Event{Kind: input.MousePressed, Button: b, X: x, Y: y})
	}
	for _, b := range in.up {
		events = append(events, input.Event{Kind: input.MouseReleased, Button: b, X: x, Y: y})
	}

	if in.closing {
		events = append(events, input.Event{Kind: input.CloseRequested})
	}
	return events
}
