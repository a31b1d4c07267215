package ecs

import (
	"iter"

	"github.com/rs/zerolog"
)

// World composes the entity arena, the resource registry and the scheduler.
// It is driven by an external frame loop calling RunSystems once per phase.
// A World is not safe for concurrent use.
type World struct {
	// Resources holds the process-wide singletons shared by all callbacks.
	Resources *Resources

	arena     *Arena
	scheduler *Scheduler
	logger    zerolog.Logger
	modules   []string
}

// Option configures a World.
type Option func(*World)

// WithLogger sets the logger used for module loading, panics and summaries.
func WithLogger(logger zerolog.Logger) Option {
	return func(w *World) {
		w.logger = logger
	}
}

// NewWorld creates an empty world. A Commands resource is installed and
// flushed after every phase run.
func NewWorld(opts ...Option) *World {
	w := &World{
		Resources: NewResources(),
		arena:     NewArena(),
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.scheduler = NewScheduler(w.logger)
	SetResource(w.Resources, Commands{})
	return w
}

// Logger returns the world's logger.
func (w *World) Logger() zerolog.Logger {
	return w.logger
}

// AddEntity inserts the entity and returns its handle. Entities added between
// runs are visited by the next run.
func (w *World) AddEntity(e *Entity) Handle {
	h := w.arena.Insert(e)
	w.logger.Trace().Stringer("handle", h).Stringer("shape", e.shape).Msg("entity added")
	return h
}

// RemoveEntity removes the entity behind h. It fails with ErrStaleHandle when
// h no longer refers to a live entity. Do not call it from callbacks; queue a
// Commands.Despawn instead.
func (w *World) RemoveEntity(h Handle) error {
	if err := w.arena.Remove(h); err != nil {
		return err
	}
	w.logger.Trace().Stringer("handle", h).Msg("entity removed")
	return nil
}

// Entity resolves a handle.
func (w *World) Entity(h Handle) (*Entity, bool) {
	return w.arena.Get(h)
}

// Entities iterates every live entity in arena order.
func (w *World) Entities() iter.Seq2[Handle, *Entity] {
	return w.arena.All()
}

// Len returns the number of live entities.
func (w *World) Len() int {
	return w.arena.Len()
}

// AddSystem registers a system. Panics once the first phase has run.
func (w *World) AddSystem(system System) {
	w.scheduler.Add(system)
}

// AddBeforeService registers a service that runs before its phase's systems.
func (w *World) AddBeforeService(service Service) {
	w.scheduler.AddService(service, SlotBefore)
}

// AddAfterService registers a service that runs after its phase's systems.
func (w *World) AddAfterService(service Service) {
	w.scheduler.AddService(service, SlotAfter)
}

// RunSystems dispatches one phase and then applies queued Commands.
func (w *World) RunSystems(phase RunPhase) {
	w.scheduler.Run(phase, w.arena, w.Resources)

	if cmds := GetResource[Commands](w.Resources); cmds != nil && cmds.Len() > 0 {
		cmds.Flush(w)
	}
}

// QueryExact returns every live entity whose shape contains all kinds of
// shape. Extra components on an entity do not prevent a match.
func (w *World) QueryExact(shape Shape) []*Entity {
	var matching []*Entity
	for _, e := range w.arena.All() {
		if e.shape.Contains(shape) {
			matching = append(matching, e)
		}
	}
	return matching
}

// Query iterates the entities matched by QueryExact together with their handles.
func (w *World) Query(shape Shape) iter.Seq2[Handle, *Entity] {
	return func(yield func(Handle, *Entity) bool) {
		for h, e := range w.arena.All() {
			if !e.shape.Contains(shape) {
				continue
			}
			if !yield(h, e) {
				return
			}
		}
	}
}

// Scheduler exposes the world's scheduler for inspection.
func (w *World) Scheduler() *Scheduler {
	return w.scheduler
}

// Stats returns the scheduler's execution statistics.
func (w *World) Stats() *SchedulerStats {
	return w.scheduler.GetStats()
}
