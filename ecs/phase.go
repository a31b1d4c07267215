package ecs

import "fmt"

// Phase is the dispatch category a system or service belongs to.
type Phase uint8

const (
	PhaseUpdate Phase = iota
	PhaseEvent
	PhaseTick
	PhaseRender

	phaseCount
)

// Phases lists every phase in dispatch-table order.
var Phases = [...]Phase{PhaseUpdate, PhaseEvent, PhaseTick, PhaseRender}

func (p Phase) String() string {
	switch p {
	case PhaseUpdate:
		return "update"
	case PhaseEvent:
		return "event"
	case PhaseTick:
		return "tick"
	case PhaseRender:
		return "render"
	default:
		return fmt.Sprintf("phase(%d)", uint8(p))
	}
}

// UpdateKey distinguishes independent update channels sharing PhaseUpdate.
// Applications declare their keys as a closed set of constants:
//
//	const (
//		FPSRefresh ecs.UpdateKey = iota + 1
//		Autosave
//	)
type UpdateKey uint16

// NoUpdateKey is the zero key. Update units cannot be registered with it.
const NoUpdateKey UpdateKey = 0

// ServiceSlot selects whether a service runs before or after a phase's systems.
type ServiceSlot uint8

const (
	SlotBefore ServiceSlot = iota
	SlotAfter
)

func (s ServiceSlot) String() string {
	if s == SlotAfter {
		return "after"
	}
	return "before"
}

// RunPhase is the value handed to RunSystems and passed through to every
// callback invoked during that run.
type RunPhase struct {
	Phase Phase
	Key   UpdateKey
	Event any
}

// Update runs the update channel identified by key.
func Update(key UpdateKey) RunPhase {
	return RunPhase{Phase: PhaseUpdate, Key: key}
}

// EventPhase runs the event phase carrying a platform event payload.
func EventPhase(payload any) RunPhase {
	return RunPhase{Phase: PhaseEvent, Event: payload}
}

// Tick runs the tick phase.
func Tick() RunPhase {
	return RunPhase{Phase: PhaseTick}
}

// Render runs the render phase.
func Render() RunPhase {
	return RunPhase{Phase: PhaseRender}
}

// EventAs returns the event payload of p as a T.
func EventAs[T any](p RunPhase) (T, bool) {
	if p.Phase != PhaseEvent {
		var zero T
		return zero, false
	}
	v, ok := p.Event.(T)
	return v, ok
}

func (p RunPhase) String() string {
	switch p.Phase {
	case PhaseUpdate:
		return fmt.Sprintf("update(%d)", p.Key)
	case PhaseEvent:
		return fmt.Sprintf("event(%T)", p.Event)
	default:
		return p.Phase.String()
	}
}
