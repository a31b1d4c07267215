package ecs_test

import (
	"bytes"
	"testing"

	"github.com/plus3/phasecs/ecs"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("modules load in order", func(t *testing.T) {
		w := ecs.NewWorld()
		var order []string
		err := w.Load(
			ecs.Module{Name: "config", Load: func(w *ecs.World) error {
				order = append(order, "config")
				ecs.SetResource(w.Resources, GameConfig{Title: "t"})
				return nil
			}},
			ecs.Module{Name: "game", Load: func(w *ecs.World) error {
				order = append(order, "game")
				cfg, err := ecs.LookupResource[GameConfig](w.Resources)
				if err != nil {
					return err
				}
				w.AddEntity(named(cfg.Title))
				return nil
			}},
		)

		require.NoError(t, err)
		assert.Equal(t, []string{"config", "game"}, order)
		assert.Equal(t, []string{"config", "game"}, w.Modules())
		assert.Equal(t, 1, w.Len())
	})

	t.Run("loading stops at the first failure", func(t *testing.T) {
		w := ecs.NewWorld()
		boom := eris.New("boom")
		err := w.Load(
			ecs.Module{Name: "bad", Load: func(*ecs.World) error { return boom }},
			ecs.Module{Name: "never", Load: func(*ecs.World) error {
				t.Fatal("module after a failure must not load")
				return nil
			}},
		)

		assert.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), "bad")
		assert.Empty(t, w.Modules())
	})

	t.Run("missing dependencies surface as errors", func(t *testing.T) {
		w := ecs.NewWorld()
		err := w.Load(ecs.Module{Name: "needs-config", Load: func(w *ecs.World) error {
			_, err := ecs.LookupResource[GameConfig](w.Resources)
			return err
		}})
		assert.ErrorIs(t, err, ecs.ErrResourceNotFound)
	})

	t.Run("nil loader", func(t *testing.T) {
		assert.Error(t, ecs.NewWorld().Load(ecs.Module{Name: "empty"}))
	})

	t.Run("summary", func(t *testing.T) {
		var buf bytes.Buffer
		w := ecs.NewWorld(ecs.WithLogger(zerolog.New(&buf)))
		require.NoError(t, w.Load(ecs.Module{Name: "game", Load: func(w *ecs.World) error {
			w.AddSystem(ecs.SystemAtTick(ecs.Shape{}, func(*ecs.Entity, *ecs.Resources, ecs.RunPhase) {}).Named("move"))
			w.AddBeforeService(ecs.ServiceAtRender(func(*ecs.Resources, ecs.RunPhase) {}).Named("clear"))
			return nil
		}}))

		buf.Reset()
		w.LogSummary(zerolog.InfoLevel)

		out := buf.String()
		assert.Contains(t, out, `"modules":["game"]`)
		assert.Contains(t, out, `"ecs.Commands"`)
		assert.Contains(t, out, `"tick":{"before":[],"systems":["move"],"after":[]}`)
		assert.Contains(t, out, `"render":{"before":["clear"],"systems":[],"after":[]}`)
	})
}
