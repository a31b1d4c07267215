package ecs

import (
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// Module is a startup unit that installs resources, entities, systems and
// services into a world. Applications build the module list explicitly and
// hand it to World.Load.
type Module struct {
	Name string
	Load func(w *World) error
}

// Load runs the modules in order. Loading stops at the first failing module.
func (w *World) Load(modules ...Module) error {
	for _, m := range modules {
		if m.Load == nil {
			return eris.Errorf("module %q has no loader", m.Name)
		}
		if err := m.Load(w); err != nil {
			return eris.Wrapf(err, "failed to load module %s", m.Name)
		}
		w.modules = append(w.modules, m.Name)
		w.logger.Debug().Str("module", m.Name).Msg("module loaded")
	}
	return nil
}

// Modules returns the names of the modules loaded so far.
func (w *World) Modules() []string {
	return append([]string(nil), w.modules...)
}

// LogSummary logs the loaded modules, resources and the dispatch table.
func (w *World) LogSummary(level zerolog.Level) {
	event := w.logger.WithLevel(level)
	if event == nil {
		return
	}

	modules := zerolog.Arr()
	for _, name := range w.modules {
		modules = modules.Str(name)
	}

	resources := zerolog.Arr()
	for _, info := range w.Resources.Entries() {
		resources = resources.Str(info.String())
	}

	phases := zerolog.Dict()
	for _, phase := range Phases {
		phases = phases.Dict(phase.String(), phaseDict(w.scheduler, phase))
	}

	event.
		Int("entities", w.arena.Len()).
		Array("modules", modules).
		Array("resources", resources).
		Dict("systems", phases).
		Msg("world summary")
}

func phaseDict(s *Scheduler, phase Phase) *zerolog.Event {
	names := func(services []Service) *zerolog.Array {
		arr := zerolog.Arr()
		for _, svc := range services {
			arr = arr.Str(svc.Name())
		}
		return arr
	}

	systems := zerolog.Arr()
	for _, sys := range s.Systems(phase) {
		systems = systems.Str(sys.Name())
	}

	return zerolog.Dict().
		Array("before", names(s.Services(phase, SlotBefore))).
		Array("systems", systems).
		Array("after", names(s.Services(phase, SlotAfter)))
}
