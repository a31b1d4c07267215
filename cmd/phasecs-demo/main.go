package main

import (
	"math/rand/v2"
	"os"

	"github.com/plus3/phasecs/ecs"
	"github.com/plus3/phasecs/ecs/debugui"
	debugui_ebiten "github.com/plus3/phasecs/ecs/debugui/ebiten"
	"github.com/plus3/phasecs/ecs/input"
	"github.com/plus3/phasecs/ecs/timer"
	"github.com/plus3/phasecs/ecs/timing"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Fatal().Err(err).Msg("invalid configuration")
	}
	logger := cfg.logger()

	var opts []debugui_ebiten.GameOption
	if cfg.DebugUI {
		opts = append(opts, debugui_ebiten.WithImgui(debugui_ebiten.NewImguiBackend()))
	}

	world, err := newWorld(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build world")
	}
	world.LogSummary(zerolog.InfoLevel)

	game := debugui_ebiten.NewGame(world, opts...)
	if err := debugui_ebiten.Run(game, cfg.Title, cfg.Width, cfg.Height); err != nil {
		logger.Fatal().Err(err).Msg("game loop failed")
	}
	logger.Info().Msg("bye")
}

// gameModule registers the demo's resources, systems and starting entities.
func gameModule(cfg Config) ecs.Module {
	return ecs.Module{
		Name: "demo",
		Load: func(w *ecs.World) error {
			channel, err := ecs.LookupResource[timer.Channel](w.Resources)
			if err != nil {
				return eris.Wrap(err, "demo requires the timer module")
			}
			channel.Schedule(updateFPS, cfg.FPSInterval, true)

			ecs.SetResource(w.Resources, Bounds{Width: float32(cfg.Width), Height: float32(cfg.Height)})
			ecs.SetResource(w.Resources, DebugInfo{})
			ecs.SetResource(w.Resources, Population{})

			w.AddAfterService(ecs.ServiceAtEvent(handleWindowEvents).Named("demo.handleWindowEvents"))
			w.AddAfterService(ecs.ServiceAtEvent(spawnBurst).Named("demo.spawnBurst"))
			w.AddSystem(ecs.SystemAtTick(steered, steer).Named("demo.steer"))
			w.AddSystem(ecs.SystemAtTick(moving, move).Named("demo.move"))
			w.AddBeforeService(ecs.ServiceAtTick(startCount).Named("demo.startCount"))
			w.AddSystem(ecs.SystemAtTick(ecs.Shape{}, countEntity).Named("demo.countEntity"))
			w.AddAfterService(ecs.ServiceAtTick(publishCount).Named("demo.publishCount"))
			w.AddAfterService(ecs.ServiceAtUpdate(updateFPS, refreshDebugInfo).Named("demo.refreshDebugInfo"))
			w.AddBeforeService(ecs.ServiceAtRender(clearScreen).Named("demo.clearScreen"))
			w.AddSystem(ecs.SystemAtRender(drawable, draw).Named("demo.draw"))

			w.AddEntity(newPlayer(float32(cfg.Width)/2, float32(cfg.Height)/2))
			for i := 0; i < cfg.Particles; i++ {
				w.AddEntity(newParticle(rand.Float32()*float32(cfg.Width), rand.Float32()*float32(cfg.Height)))
			}
			return nil
		},
	}
}

func newWorld(cfg Config, logger zerolog.Logger) (*ecs.World, error) {
	world := ecs.NewWorld(ecs.WithLogger(logger))

	modules := []ecs.Module{
		input.Module(),
		timer.Module(),
		timing.Module(nil),
		gameModule(cfg),
	}
	if cfg.DebugUI {
		modules = append(modules, debugui.Module(), overlayModule())
	} else {
		modules = append(modules, textOverlayModule())
	}

	if err := world.Load(modules...); err != nil {
		return nil, err
	}
	return world, nil
}

// overlayModule shows DebugInfo in an ImGui window.
func overlayModule() ecs.Module {
	return ecs.Module{
		Name: "demo.overlay",
		Load: func(w *ecs.World) error {
			info := ecs.MustResource[DebugInfo](w.Resources)
			w.AddEntity(ecs.NewEntity().With(debugui.ImguiItem{Render: debugInfoWindow(info)}))
			return nil
		},
	}
}

// textOverlayModule prints DebugInfo onto the screen when ImGui is disabled.
func textOverlayModule() ecs.Module {
	return ecs.Module{
		Name: "demo.textOverlay",
		Load: func(w *ecs.World) error {
			w.AddAfterService(ecs.ServiceAtRender(drawOverlay).Named("demo.drawOverlay"))
			return nil
		},
	}
}
