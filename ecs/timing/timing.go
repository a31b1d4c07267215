// Package timing tracks frame durations and derives the frame rate from them.
package timing

import (
	"time"

	"github.com/plus3/phasecs/ecs"
)

// LogFrames is the number of frame durations kept for averaging.
const LogFrames = 200

const initialDelta = 16 * time.Millisecond

// Context records the duration of recent frames in a ring buffer.
type Context struct {
	start      time.Time
	last       time.Time
	durations  [LogFrames]time.Duration
	head       int
	samples    int
	frameCount int
	clock      func() time.Time
}

// NewContext creates a Context seeded with a single 16ms frame.
func NewContext(clock func() time.Time) Context {
	if clock == nil {
		clock = time.Now
	}
	now := clock()
	c := Context{
		start:   now,
		last:    now,
		samples: 1,
		clock:   clock,
	}
	c.durations[0] = initialDelta
	return c
}

// Tick records the time elapsed since the previous tick as one frame.
func (c *Context) Tick() {
	now := c.clock()
	c.push(now.Sub(c.last))
	c.last = now
	c.frameCount++
}

func (c *Context) push(d time.Duration) {
	c.head = (c.head + 1) % LogFrames
	c.durations[c.head] = d
	if c.samples < LogFrames {
		c.samples++
	}
}

// Delta returns the duration of the latest frame.
func (c *Context) Delta() time.Duration {
	return c.durations[c.head]
}

// DeltaSeconds returns the latest frame duration in seconds.
func (c *Context) DeltaSeconds() float64 {
	return c.Delta().Seconds()
}

// AverageDelta returns the mean of the recorded frame durations.
func (c *Context) AverageDelta() time.Duration {
	var sum time.Duration
	for i := 0; i < c.samples; i++ {
		sum += c.durations[i]
	}
	return sum / time.Duration(c.samples)
}

// FPS returns the frame rate derived from AverageDelta.
func (c *Context) FPS() float64 {
	avg := c.AverageDelta()
	if avg <= 0 {
		return 0
	}
	return 1 / avg.Seconds()
}

// Frames returns the number of ticks recorded.
func (c *Context) Frames() int {
	return c.frameCount
}

// Elapsed returns the time between creation and the latest tick.
func (c *Context) Elapsed() time.Duration {
	return c.last.Sub(c.start)
}

func tickFrame(resources *ecs.Resources, _ ecs.RunPhase) {
	ecs.MustResource[Context](resources).Tick()
}

// Module installs a Context resource ticked after every render phase.
// A nil clock means time.Now.
func Module(clock func() time.Time) ecs.Module {
	return ecs.Module{
		Name: "timing",
		Load: func(w *ecs.World) error {
			ecs.SetResource(w.Resources, NewContext(clock))
			w.AddAfterService(ecs.ServiceAtRender(tickFrame).Named("timing.tickFrame"))
			return nil
		},
	}
}
