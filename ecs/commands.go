package ecs

// Commands buffers structural changes requested while a phase is running.
// The World installs a Commands resource and flushes it after every
// RunSystems call, so callbacks never add or remove entities mid-sweep.
//
//	ecs.MustResource[ecs.Commands](resources).Despawn(entity.Handle())
type Commands struct {
	spawns   []*Entity
	despawns []Handle
	defers   []func()
}

// Spawn queues an entity insertion.
func (c *Commands) Spawn(entity *Entity) {
	c.spawns = append(c.spawns, entity)
}

// Despawn queues an entity removal.
func (c *Commands) Despawn(h Handle) {
	c.despawns = append(c.despawns, h)
}

// Defer queues a function to run after the structural changes are applied.
func (c *Commands) Defer(fn func()) {
	c.defers = append(c.defers, fn)
}

// Len returns the number of queued operations.
func (c *Commands) Len() int {
	return len(c.spawns) + len(c.despawns) + len(c.defers)
}

// Flush applies queued operations to the world and resets the buffer.
// Removals run first, then insertions, then deferred functions. Commands
// queued by deferred functions stay buffered for the next flush.
func (c *Commands) Flush(w *World) {
	despawns, spawns, defers := c.despawns, c.spawns, c.defers
	c.despawns, c.spawns, c.defers = nil, nil, nil

	for _, h := range despawns {
		if err := w.RemoveEntity(h); err != nil {
			w.logger.Debug().Err(err).Stringer("handle", h).Msg("skipping despawn")
		}
	}

	for _, e := range spawns {
		w.AddEntity(e)
	}

	for _, fn := range defers {
		fn()
	}
}
