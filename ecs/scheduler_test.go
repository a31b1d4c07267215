package ecs_test

import (
	"bytes"
	"testing"

	"github.com/plus3/phasecs/ecs"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler(t *testing.T) {
	posQuery := ecs.ShapeOf[struct{ *Position }]()

	t.Run("before service runs once and the system once per entity", func(t *testing.T) {
		w := ecs.NewWorld()
		rec := &recorder{}
		w.AddBeforeService(ecs.ServiceAtTick(rec.service("S")))
		w.AddSystem(ecs.SystemAtTick(posQuery, rec.system("T")))

		for _, n := range []string{"a", "b", "c"} {
			w.AddEntity(named(n, Position{}))
		}

		w.RunSystems(ecs.Tick())

		assert.Equal(t, []string{"S", "T:a", "T:b", "T:c"}, rec.calls)
	})

	t.Run("entities outer, systems inner, services around", func(t *testing.T) {
		w := ecs.NewWorld()
		rec := &recorder{}
		w.AddAfterService(ecs.ServiceAtTick(rec.service("after")))
		w.AddSystem(ecs.SystemAtTick(posQuery, rec.system("A")))
		w.AddSystem(ecs.SystemAtTick(posQuery, rec.system("B")))
		w.AddBeforeService(ecs.ServiceAtTick(rec.service("before")))

		w.AddEntity(named("1", Position{}))
		w.AddEntity(named("2", Position{}))

		w.RunSystems(ecs.Tick())

		assert.Equal(t, []string{"before", "A:1", "B:1", "A:2", "B:2", "after"}, rec.calls)
	})

	t.Run("registration order decides observable effects", func(t *testing.T) {
		w := ecs.NewWorld()
		w.AddSystem(ecs.SystemAtTick(posQuery, func(e *ecs.Entity, _ *ecs.Resources, _ ecs.RunPhase) {
			ecs.Get[Position](e).X = 1
		}))
		w.AddSystem(ecs.SystemAtTick(posQuery, func(e *ecs.Entity, _ *ecs.Resources, _ ecs.RunPhase) {
			ecs.Get[Position](e).X *= 10
		}))
		e := ecs.NewEntity().With(Position{})
		w.AddEntity(e)

		w.RunSystems(ecs.Tick())

		assert.Equal(t, float32(10), ecs.Get[Position](e).X)
	})

	t.Run("systems only see matching entities", func(t *testing.T) {
		w := ecs.NewWorld()
		rec := &recorder{}
		w.AddSystem(ecs.SystemAtTick(ecs.ShapeOf[struct {
			*Position
			*Velocity
		}](), rec.system("move")))

		w.AddEntity(named("moving", Position{}, Velocity{}))
		w.AddEntity(named("static", Position{}))
		w.AddEntity(named("ghost", Velocity{}))

		w.RunSystems(ecs.Tick())

		assert.Equal(t, []string{"move:moving"}, rec.calls)
	})

	t.Run("phases are isolated", func(t *testing.T) {
		w := ecs.NewWorld()
		rec := &recorder{}
		w.AddSystem(ecs.SystemAtTick(ecs.Shape{}, rec.system("tick")))
		w.AddSystem(ecs.SystemAtRender(ecs.Shape{}, rec.system("render")))
		w.AddAfterService(ecs.ServiceAtEvent(rec.service("event")))
		w.AddEntity(ecs.NewEntity())

		w.RunSystems(ecs.Render())
		w.RunSystems(ecs.EventPhase("click"))

		assert.Equal(t, []string{"render", "event"}, rec.calls)
	})

	t.Run("update keys gate systems and services", func(t *testing.T) {
		w := ecs.NewWorld()
		rec := &recorder{}
		w.AddBeforeService(ecs.ServiceAtUpdate(updateFPS, rec.service("fps-before")))
		w.AddSystem(ecs.SystemAtUpdate(updateFPS, ecs.Shape{}, rec.system("fps")))
		w.AddSystem(ecs.SystemAtUpdate(updateAutosave, ecs.Shape{}, rec.system("save")))
		w.AddAfterService(ecs.ServiceAtUpdate(updateAutosave, rec.service("save-after")))
		w.AddEntity(ecs.NewEntity())

		w.RunSystems(ecs.Update(updateFPS))
		assert.Equal(t, []string{"fps-before", "fps"}, rec.calls)

		rec.calls = nil
		w.RunSystems(ecs.Update(updateAutosave))
		assert.Equal(t, []string{"save", "save-after"}, rec.calls)

		rec.calls = nil
		w.RunSystems(ecs.Update(ecs.UpdateKey(99)))
		assert.Empty(t, rec.calls)
	})

	t.Run("callbacks receive the running phase", func(t *testing.T) {
		w := ecs.NewWorld()
		var got []ecs.RunPhase
		w.AddBeforeService(ecs.ServiceAtEvent(func(_ *ecs.Resources, phase ecs.RunPhase) {
			got = append(got, phase)
		}))

		w.RunSystems(ecs.EventPhase("key"))

		require.Len(t, got, 1)
		payload, ok := ecs.EventAs[string](got[0])
		assert.True(t, ok)
		assert.Equal(t, "key", payload)

		_, ok = ecs.EventAs[int](got[0])
		assert.False(t, ok)
		_, ok = ecs.EventAs[string](ecs.Tick())
		assert.False(t, ok)
	})

	t.Run("update units require a key", func(t *testing.T) {
		w := ecs.NewWorld()
		err := recoverError(func() {
			w.AddSystem(ecs.SystemAtUpdate(ecs.NoUpdateKey, ecs.Shape{}, func(*ecs.Entity, *ecs.Resources, ecs.RunPhase) {}))
		})
		assert.ErrorIs(t, err, ecs.ErrInvalidUpdateKey)
		assert.Panics(t, func() {
			w.AddBeforeService(ecs.ServiceAtUpdate(ecs.NoUpdateKey, func(*ecs.Resources, ecs.RunPhase) {}))
		})
	})

	t.Run("nil callbacks are rejected", func(t *testing.T) {
		assert.Panics(t, func() { ecs.SystemAtTick(ecs.Shape{}, nil) })
		assert.Panics(t, func() { ecs.ServiceAtTick(nil) })
	})

	t.Run("registration is sealed after the first run", func(t *testing.T) {
		w := ecs.NewWorld()
		assert.False(t, w.Scheduler().Sealed())

		w.RunSystems(ecs.Tick())
		assert.True(t, w.Scheduler().Sealed())

		err := recoverError(func() {
			w.AddSystem(ecs.SystemAtTick(ecs.Shape{}, func(*ecs.Entity, *ecs.Resources, ecs.RunPhase) {}).Named("late"))
		})
		assert.ErrorIs(t, err, ecs.ErrSchedulerSealed)
	})

	t.Run("panics are logged and re-raised", func(t *testing.T) {
		var buf bytes.Buffer
		w := ecs.NewWorld(ecs.WithLogger(zerolog.New(&buf)))
		rec := &recorder{}
		w.AddSystem(ecs.SystemAtTick(posQuery, func(e *ecs.Entity, _ *ecs.Resources, _ ecs.RunPhase) {
			ecs.Get[Position](e).X = 5
		}))
		w.AddSystem(ecs.SystemAtTick(posQuery, func(*ecs.Entity, *ecs.Resources, ecs.RunPhase) {
			ecs.MustResource[GameConfig](w.Resources)
		}).Named("needsConfig"))
		w.AddAfterService(ecs.ServiceAtTick(rec.service("after")))

		e := ecs.NewEntity().With(Position{})
		w.AddEntity(e)

		assert.Panics(t, func() { w.RunSystems(ecs.Tick()) })
		assert.Equal(t, float32(5), ecs.Get[Position](e).X, "effects before the panic are kept")
		assert.Empty(t, rec.calls, "the rest of the sweep is aborted")
		assert.Contains(t, buf.String(), `"unit":"needsConfig"`)
		assert.Contains(t, buf.String(), `"phase":"tick"`)
	})

	t.Run("introspection", func(t *testing.T) {
		w := ecs.NewWorld()
		w.AddSystem(ecs.SystemAtTick(posQuery, func(*ecs.Entity, *ecs.Resources, ecs.RunPhase) {}).Named("a"))
		w.AddBeforeService(ecs.ServiceAtTick(func(*ecs.Resources, ecs.RunPhase) {}).Named("b"))
		w.AddAfterService(ecs.ServiceAtTick(func(*ecs.Resources, ecs.RunPhase) {}).Named("c"))

		systems := w.Scheduler().Systems(ecs.PhaseTick)
		require.Len(t, systems, 1)
		assert.Equal(t, "a", systems[0].Name())
		assert.True(t, systems[0].Query().Equal(posQuery))
		assert.Equal(t, "b", w.Scheduler().Services(ecs.PhaseTick, ecs.SlotBefore)[0].Name())
		assert.Equal(t, "c", w.Scheduler().Services(ecs.PhaseTick, ecs.SlotAfter)[0].Name())
		assert.Empty(t, w.Scheduler().Systems(ecs.PhaseRender))
	})

	t.Run("default names come from the function", func(t *testing.T) {
		s := ecs.SystemAtTick(ecs.Shape{}, moveForTest)
		assert.Equal(t, "ecs_test.moveForTest", s.Name())
	})
}

func moveForTest(*ecs.Entity, *ecs.Resources, ecs.RunPhase) {}

// recoverError runs fn and returns the error it panicked with, if any.
func recoverError(fn func()) (err error) {
	defer func() {
		err, _ = recover().(error)
	}()
	fn()
	return nil
}
