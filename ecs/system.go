package ecs

import (
	"reflect"
	"runtime"
	"strings"

	"github.com/rotisserie/eris"
)

// SystemFunc is the callback of a System. It only sees the matched entity,
// the resources and the running phase.
type SystemFunc func(entity *Entity, resources *Resources, phase RunPhase)

// ServiceFunc is the callback of a Service.
type ServiceFunc func(resources *Resources, phase RunPhase)

// System is per-entity logic bound to a phase and gated by a shape query.
// Systems are values; configure them before registering.
type System struct {
	name  string
	phase Phase
	query Shape
	fn    SystemFunc
	key   UpdateKey
}

// SystemAtUpdate creates a system for the update channel key.
func SystemAtUpdate(key UpdateKey, query Shape, fn SystemFunc) System {
	return newSystem(PhaseUpdate, key, query, fn)
}

// SystemAtEvent creates a system for the event phase.
func SystemAtEvent(query Shape, fn SystemFunc) System {
	return newSystem(PhaseEvent, NoUpdateKey, query, fn)
}

// SystemAtTick creates a system for the tick phase.
func SystemAtTick(query Shape, fn SystemFunc) System {
	return newSystem(PhaseTick, NoUpdateKey, query, fn)
}

// SystemAtRender creates a system for the render phase.
func SystemAtRender(query Shape, fn SystemFunc) System {
	return newSystem(PhaseRender, NoUpdateKey, query, fn)
}

func newSystem(phase Phase, key UpdateKey, query Shape, fn SystemFunc) System {
	if fn == nil {
		panic(eris.New("system callback cannot be nil"))
	}
	return System{
		name:  funcName(fn),
		phase: phase,
		query: query.Clone(),
		fn:    fn,
		key:   key,
	}
}

// Named returns a copy of the system with a display name used in stats and logs.
func (s System) Named(name string) System {
	s.name = name
	return s
}

func (s System) Name() string         { return s.name }
func (s System) Phase() Phase         { return s.phase }
func (s System) Query() Shape         { return s.query.Clone() }
func (s System) UpdateKey() UpdateKey { return s.key }

// Service is global logic bound to a phase. It runs before or after the
// phase's systems depending on how it is registered.
type Service struct {
	name  string
	phase Phase
	fn    ServiceFunc
	key   UpdateKey
}

// ServiceAtUpdate creates a service for the update channel key.
func ServiceAtUpdate(key UpdateKey, fn ServiceFunc) Service {
	return newService(PhaseUpdate, key, fn)
}

// ServiceAtEvent creates a service for the event phase.
func ServiceAtEvent(fn ServiceFunc) Service {
	return newService(PhaseEvent, NoUpdateKey, fn)
}

// ServiceAtTick creates a service for the tick phase.
func ServiceAtTick(fn ServiceFunc) Service {
	return newService(PhaseTick, NoUpdateKey, fn)
}

// ServiceAtRender creates a service for the render phase.
func ServiceAtRender(fn ServiceFunc) Service {
	return newService(PhaseRender, NoUpdateKey, fn)
}

func newService(phase Phase, key UpdateKey, fn ServiceFunc) Service {
	if fn == nil {
		panic(eris.New("service callback cannot be nil"))
	}
	return Service{
		name:  funcName(fn),
		phase: phase,
		fn:    fn,
		key:   key,
	}
}

// Named returns a copy of the service with a display name used in stats and logs.
func (s Service) Named(name string) Service {
	s.name = name
	return s
}

func (s Service) Name() string         { return s.name }
func (s Service) Phase() Phase         { return s.phase }
func (s Service) UpdateKey() UpdateKey { return s.key }

// funcName derives a short display name from a function value,
// e.g. "game.moveParticles".
func funcName(fn any) string {
	pc := reflect.ValueOf(fn).Pointer()
	f := runtime.FuncForPC(pc)
	if f == nil {
		return "anonymous"
	}
	name := f.Name()
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	return name
}
