package timer_test

import (
	"testing"
	"time"

	"github.com/plus3/phasecs/ecs"
	"github.com/plus3/phasecs/ecs/timer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	fpsKey ecs.UpdateKey = iota + 1
	saveKey
)

// fakeClock is a manually advanced time source.
type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(0, 0)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Set(offset time.Duration) {
	c.now = time.Unix(0, 0).Add(offset)
}

func poll(c *timer.Channel) []ecs.UpdateKey {
	var fired []ecs.UpdateKey
	c.Poll(func(key ecs.UpdateKey) {
		fired = append(fired, key)
	})
	return fired
}

func deadline(t *testing.T, c *timer.Channel) time.Duration {
	timers := c.Timers()
	require.Len(t, timers, 1)
	return timers[0].Deadline.Sub(time.Unix(0, 0))
}

func TestRepeatingTimerLatePoll(t *testing.T) {
	for _, policy := range []timer.Policy{timer.PolicySkip, timer.PolicyCatchUp, timer.PolicyLag} {
		t.Run(policy.String(), func(t *testing.T) {
			clock := newFakeClock()
			c := timer.NewChannel(timer.WithClock(clock.Now), timer.WithPolicy(policy))
			c.Schedule(fpsKey, time.Second, true)

			clock.Set(1200 * time.Millisecond)
			assert.Equal(t, []ecs.UpdateKey{fpsKey}, poll(&c))
			assert.Equal(t, 2000*time.Millisecond, deadline(t, &c))
		})
	}
}

func TestPoliciesUnderSlowPolling(t *testing.T) {
	run := func(policy timer.Policy) (int, time.Duration) {
		clock := newFakeClock()
		c := timer.NewChannel(timer.WithClock(clock.Now), timer.WithPolicy(policy))
		c.Schedule(fpsKey, time.Second, true)

		clock.Set(3500 * time.Millisecond)
		fired := len(poll(&c))
		return fired, c.Timers()[0].Deadline.Sub(time.Unix(0, 0))
	}

	t.Run("skip drops missed intervals and stays on the grid", func(t *testing.T) {
		fired, next := run(timer.PolicySkip)
		assert.Equal(t, 1, fired)
		assert.Equal(t, 4*time.Second, next)
	})

	t.Run("catch-up fires once per missed interval", func(t *testing.T) {
		fired, next := run(timer.PolicyCatchUp)
		assert.Equal(t, 3, fired)
		assert.Equal(t, 4*time.Second, next)
	})

	t.Run("lag advances by one interval and stays behind", func(t *testing.T) {
		fired, next := run(timer.PolicyLag)
		assert.Equal(t, 1, fired)
		assert.Equal(t, 2*time.Second, next)
	})
}

func TestPoll(t *testing.T) {
	t.Run("fires only when the deadline is reached", func(t *testing.T) {
		clock := newFakeClock()
		c := timer.NewChannel(timer.WithClock(clock.Now))
		c.Schedule(saveKey, time.Second, false)

		clock.Set(999 * time.Millisecond)
		assert.Empty(t, poll(&c))

		clock.Set(time.Second)
		assert.Equal(t, []ecs.UpdateKey{saveKey}, poll(&c))
		assert.Equal(t, 0, c.Len(), "one-shot timers are dropped")

		clock.Set(5 * time.Second)
		assert.Empty(t, poll(&c))
	})

	t.Run("issue fires on the next poll", func(t *testing.T) {
		clock := newFakeClock()
		c := timer.NewChannel(timer.WithClock(clock.Now))
		c.Issue(fpsKey)

		assert.Equal(t, []ecs.UpdateKey{fpsKey}, poll(&c))
		assert.Empty(t, poll(&c))
	})

	t.Run("fires in scheduling order", func(t *testing.T) {
		clock := newFakeClock()
		c := timer.NewChannel(timer.WithClock(clock.Now))
		c.Schedule(saveKey, time.Second, false)
		c.Schedule(fpsKey, 500*time.Millisecond, true)

		clock.Set(time.Second)
		assert.Equal(t, []ecs.UpdateKey{saveKey, fpsKey}, poll(&c))
		assert.Equal(t, 1, c.Len())
	})

	t.Run("timers added while firing wait for the next poll", func(t *testing.T) {
		clock := newFakeClock()
		c := timer.NewChannel(timer.WithClock(clock.Now))
		c.Issue(fpsKey)

		var fired []ecs.UpdateKey
		c.Poll(func(key ecs.UpdateKey) {
			fired = append(fired, key)
			c.Issue(saveKey)
		})
		assert.Equal(t, []ecs.UpdateKey{fpsKey}, fired)
		assert.Equal(t, 1, c.Len())

		assert.Equal(t, []ecs.UpdateKey{saveKey}, poll(&c))
	})

	t.Run("cancel", func(t *testing.T) {
		clock := newFakeClock()
		c := timer.NewChannel(timer.WithClock(clock.Now))
		c.Schedule(fpsKey, time.Second, true)
		c.Schedule(saveKey, time.Second, true)
		c.Cancel(fpsKey)

		clock.Set(time.Second)
		assert.Equal(t, []ecs.UpdateKey{saveKey}, poll(&c))
	})

	t.Run("cancel while firing drops the repeating timer", func(t *testing.T) {
		clock := newFakeClock()
		c := timer.NewChannel(timer.WithClock(clock.Now), timer.WithPolicy(timer.PolicyCatchUp))
		c.Schedule(fpsKey, time.Second, true)
		c.Schedule(saveKey, time.Second, true)

		clock.Set(3 * time.Second)
		var fired []ecs.UpdateKey
		c.Poll(func(key ecs.UpdateKey) {
			fired = append(fired, key)
			if key == fpsKey {
				c.Cancel(fpsKey)
			}
		})

		assert.Equal(t, []ecs.UpdateKey{fpsKey, saveKey, saveKey, saveKey}, fired, "a cancelled timer stops catching up")
		assert.Equal(t, 1, c.Len())

		clock.Set(4 * time.Second)
		assert.Equal(t, []ecs.UpdateKey{saveKey}, poll(&c))
	})

	t.Run("cancel while firing skips later timers of the key", func(t *testing.T) {
		clock := newFakeClock()
		c := timer.NewChannel(timer.WithClock(clock.Now))
		c.Issue(saveKey)
		c.Issue(fpsKey)
		c.Schedule(fpsKey, 2*time.Second, false)

		fired := []ecs.UpdateKey{}
		c.Poll(func(key ecs.UpdateKey) {
			fired = append(fired, key)
			c.Cancel(fpsKey)
		})

		assert.Equal(t, []ecs.UpdateKey{saveKey}, fired)
		assert.Equal(t, 0, c.Len())
	})

	t.Run("timers rescheduled after cancel while firing survive", func(t *testing.T) {
		clock := newFakeClock()
		c := timer.NewChannel(timer.WithClock(clock.Now))
		c.Schedule(fpsKey, time.Second, true)

		clock.Set(time.Second)
		c.Poll(func(key ecs.UpdateKey) {
			c.Cancel(key)
			c.Schedule(key, 5*time.Second, false)
		})

		assert.Equal(t, 6*time.Second, deadline(t, &c))

		clock.Set(2 * time.Second)
		assert.Empty(t, poll(&c), "cancellation only applies to the poll it happened in")
	})

	t.Run("repeating timers need an interval", func(t *testing.T) {
		c := timer.NewChannel()
		assert.Panics(t, func() { c.Schedule(fpsKey, 0, true) })
		assert.Equal(t, timer.PolicySkip, c.Policy())
	})
}

func TestDispatch(t *testing.T) {
	clock := newFakeClock()
	w := ecs.NewWorld()
	require.NoError(t, w.Load(timer.Module(timer.WithClock(clock.Now))))

	var runs []string
	w.AddBeforeService(ecs.ServiceAtUpdate(fpsKey, func(*ecs.Resources, ecs.RunPhase) {
		runs = append(runs, "fps")
	}))
	w.AddBeforeService(ecs.ServiceAtUpdate(saveKey, func(*ecs.Resources, ecs.RunPhase) {
		runs = append(runs, "save")
	}))

	channel := ecs.MustResource[timer.Channel](w.Resources)
	channel.Schedule(fpsKey, time.Second, true)
	channel.Schedule(saveKey, 10*time.Second, false)

	timer.Dispatch(w)
	assert.Empty(t, runs)

	for i := 1; i <= 3; i++ {
		clock.Set(time.Duration(i) * time.Second)
		timer.Dispatch(w)
	}
	assert.Equal(t, []string{"fps", "fps", "fps"}, runs)

	clock.Set(10 * time.Second)
	timer.Dispatch(w)
	assert.Equal(t, []string{"fps", "fps", "fps", "fps", "save"}, runs)
}
