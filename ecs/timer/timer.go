// Package timer converts wall-clock deadlines into update-channel triggers.
// A Channel is installed as a world resource; the frame loop polls it once
// per iteration and runs ecs.Update(key) for every timer that fired.
package timer

import (
	"slices"
	"time"

	"github.com/plus3/phasecs/ecs"
)

// Policy decides how a repeating timer reschedules when a poll arrives late.
type Policy uint8

const (
	// PolicySkip fires once and moves the deadline to the first point of the
	// timer's original interval grid after now. Missed intervals are dropped
	// and the timer never drifts.
	PolicySkip Policy = iota
	// PolicyCatchUp fires once for every interval that elapsed.
	PolicyCatchUp
	// PolicyLag fires once and advances the deadline by a single interval.
	// Under slow polling the deadline falls further behind on every poll.
	PolicyLag
)

func (p Policy) String() string {
	switch p {
	case PolicySkip:
		return "skip"
	case PolicyCatchUp:
		return "catch-up"
	case PolicyLag:
		return "lag"
	default:
		return "unknown"
	}
}

// Timer is a scheduled trigger for an update channel.
type Timer struct {
	Key      ecs.UpdateKey
	Deadline time.Time
	Interval time.Duration
	Repeat   bool
}

// Channel holds pending timers.
type Channel struct {
	timers    []Timer
	clock     func() time.Time
	policy    Policy
	polling   bool
	cancelled []ecs.UpdateKey
}

// Option configures a Channel.
type Option func(*Channel)

// WithClock replaces time.Now as the channel's time source.
func WithClock(clock func() time.Time) Option {
	return func(c *Channel) {
		c.clock = clock
	}
}

// WithPolicy sets the repeat policy. The default is PolicySkip.
func WithPolicy(policy Policy) Option {
	return func(c *Channel) {
		c.policy = policy
	}
}

// NewChannel creates an empty channel.
func NewChannel(opts ...Option) Channel {
	c := Channel{
		clock:  time.Now,
		policy: PolicySkip,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Schedule adds a timer firing key after interval, and every interval after
// that when repeat is set.
func (c *Channel) Schedule(key ecs.UpdateKey, interval time.Duration, repeat bool) {
	if repeat && interval <= 0 {
		panic("timer: repeating timers need a positive interval")
	}
	c.timers = append(c.timers, Timer{
		Key:      key,
		Deadline: c.now().Add(interval),
		Interval: interval,
		Repeat:   repeat,
	})
}

// Issue adds a one-shot timer that fires on the next poll.
func (c *Channel) Issue(key ecs.UpdateKey) {
	c.timers = append(c.timers, Timer{
		Key:      key,
		Deadline: c.now(),
	})
}

// Cancel removes every timer for key. Called from inside a Poll callback, it
// also stops the timers of that poll that have not fired yet.
func (c *Channel) Cancel(key ecs.UpdateKey) {
	c.timers = slices.DeleteFunc(c.timers, func(t Timer) bool {
		return t.Key == key
	})
	if c.polling {
		c.cancelled = append(c.cancelled, key)
	}
}

// Len returns the number of pending timers.
func (c *Channel) Len() int {
	return len(c.timers)
}

// Timers returns a copy of the pending timers.
func (c *Channel) Timers() []Timer {
	return slices.Clone(c.timers)
}

// Policy returns the channel's repeat policy.
func (c *Channel) Policy() Policy {
	return c.policy
}

// Poll calls fire for every timer whose deadline is not after now, in
// scheduling order. One-shot timers are dropped after firing. Timers added by
// fire are not considered until the next poll. Cancel called from fire stops
// the cancelled key for the rest of the poll and drops its repeating timers.
func (c *Channel) Poll(fire func(ecs.UpdateKey)) {
	now := c.now()

	pending := c.timers
	c.timers = nil
	c.polling = true
	defer func() {
		c.polling = false
		c.cancelled = nil
	}()

	kept := pending[:0]
	for _, t := range pending {
		if c.isCancelled(t.Key) {
			continue
		}
		if t.Deadline.After(now) {
			kept = append(kept, t)
			continue
		}

		if !t.Repeat {
			fire(t.Key)
			continue
		}

		for range c.reschedule(&t, now) {
			fire(t.Key)
			if c.isCancelled(t.Key) {
				break
			}
		}
		kept = append(kept, t)
	}

	kept = slices.DeleteFunc(kept, func(t Timer) bool {
		return c.isCancelled(t.Key)
	})

	// Timers scheduled from inside fire landed in c.timers.
	c.timers = append(kept, c.timers...)
}

func (c *Channel) isCancelled(key ecs.UpdateKey) bool {
	return slices.Contains(c.cancelled, key)
}

// reschedule moves a due repeating timer past now and returns how many times
// it fires.
func (c *Channel) reschedule(t *Timer, now time.Time) int {
	switch c.policy {
	case PolicyLag:
		t.Deadline = t.Deadline.Add(t.Interval)
		return 1
	case PolicyCatchUp:
		missed := int(now.Sub(t.Deadline)/t.Interval) + 1
		t.Deadline = t.Deadline.Add(time.Duration(missed) * t.Interval)
		return missed
	default:
		missed := int(now.Sub(t.Deadline)/t.Interval) + 1
		t.Deadline = t.Deadline.Add(time.Duration(missed) * t.Interval)
		return 1
	}
}

func (c *Channel) now() time.Time {
	if c.clock == nil {
		return time.Now()
	}
	return c.clock()
}

// Module installs a Channel resource configured with opts.
func Module(opts ...Option) ecs.Module {
	return ecs.Module{
		Name: "timer",
		Load: func(w *ecs.World) error {
			ecs.SetResource(w.Resources, NewChannel(opts...))
			return nil
		},
	}
}

// Dispatch polls the world's Channel and runs ecs.Update for every fired key.
// It panics if the Channel resource is missing.
func Dispatch(w *ecs.World) {
	var fired []ecs.UpdateKey
	ecs.MustResource[Channel](w.Resources).Poll(func(key ecs.UpdateKey) {
		fired = append(fired, key)
	})
	for _, key := range fired {
		w.RunSystems(ecs.Update(key))
	}
}
