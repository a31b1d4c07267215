package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"runtime"
	"time"

	"github.com/pkg/profile"
	"github.com/plus3/phasecs/ecs"
	"github.com/rs/zerolog"
)

const systemCount = 50

func main() {
	duration := flag.Duration("duration", 10*time.Second, "The total duration the test should run for.")
	entityCount := flag.Int("entities", 10000, "The initial number of entities to create.")
	churnCount := flag.Int("churn", 0, "Entities replaced through Commands every tick.")
	seed := flag.Int64("seed", time.Now().UnixNano(), "Seed for entity shapes and system queries.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	profileMode := flag.String("profile", "", "Write a profile to the working directory: cpu or mem.")
	verbose := flag.Bool("v", false, "Log at debug level.")
	flag.Parse()

	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	switch *profileMode {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	default:
		logger.Fatal().Str("profile", *profileMode).Msg("unknown profile mode, expected cpu or mem")
	}

	logger.Info().Msg("Starting ECS stress test...")
	rng := rand.New(rand.NewSource(*seed))

	// 1. Setup the world and its systems
	world := ecs.NewWorld(ecs.WithLogger(logger))
	RegisterRandomSystems(world, rng, systemCount)

	chn := &churn{n: *churnCount, rng: rng}
	world.AddAfterService(ecs.ServiceAtTick(chn.service).Named("stress.churn"))

	// 2. Populate the arena with initial entities
	logger.Info().Int("entities", *entityCount).Msg("Populating world...")
	for i := 0; i < *entityCount; i++ {
		// Spawn an entity with 1 to 5 random components
		world.AddEntity(NewRandomEntity(rng, rng.Intn(5)+1))
	}
	chn.track(world)
	world.LogSummary(zerolog.DebugLevel)
	logger.Info().Msg("Population complete.")

	// 3. Run the simulation loop
	report := &Report{
		Duration:       *duration,
		Entities:       *entityCount,
		Components:     len(components),
		Systems:        systemCount,
		Churn:          *churnCount,
		Seed:           *seed,
		GCPauseMetrics: *gcPauseMetrics,
		FrameTime: Stats{
			Samples: make([]time.Duration, 0),
		},
	}

	runtime.ReadMemStats(&report.MemStatsStart)

	logger.Info().Stringer("duration", *duration).Msg("Running simulation...")
	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	startTime := time.Now()
	var frame int64

Loop:
	for {
		select {
		case <-ctx.Done():
			break Loop
		default:
			frameStart := time.Now()
			for _, key := range updateKeys {
				world.RunSystems(ecs.Update(key))
			}
			world.RunSystems(ecs.EventPhase(frameEvent{Frame: frame}))
			world.RunSystems(ecs.Tick())
			world.RunSystems(ecs.Render())
			report.FrameTime.Samples = append(report.FrameTime.Samples, time.Since(frameStart))
			frame++
		}
	}

	report.TotalTime = time.Since(startTime)
	report.TotalFrames = frame
	report.FinalEntities = world.Len()
	report.FrameTime.Finalize()
	report.Units = slowestUnits(world.Stats(), 10)
	runtime.ReadMemStats(&report.MemStatsEnd)

	logger.Info().Int64("frames", frame).Msg("Simulation finished.")

	// 4. Generate Report to Console
	fmt.Println("\n\n--- Stress Test Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		logger.Fatal().Err(err).Msg("Failed to generate report")
	}
	fmt.Println("--- End of Report ---")

	logger.Info().Msg("Stress test complete.")
}
