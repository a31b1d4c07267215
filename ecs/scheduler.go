package ecs

import (
	"time"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// SchedulerStats provides statistics about scheduler execution.
type SchedulerStats struct {
	SystemCount     int
	ServiceCount    int
	TotalExecutions int64
	Systems         []SystemStats
}

// SystemStats provides execution statistics for a single system or service.
// Service is true for services; Slot is only meaningful for services.
type SystemStats struct {
	Name           string
	Phase          Phase
	Service        bool
	Slot           ServiceSlot
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

type systemStatsInternal struct {
	name           string
	phase          Phase
	service        bool
	slot           ServiceSlot
	executionCount int64
	minDuration    time.Duration
	maxDuration    time.Duration
	totalDuration  time.Duration
	lastDuration   time.Duration
}

func (st *systemStatsInternal) record(duration time.Duration) {
	st.executionCount++
	st.lastDuration = duration
	st.totalDuration += duration

	if duration < st.minDuration {
		st.minDuration = duration
	}
	if duration > st.maxDuration {
		st.maxDuration = duration
	}
}

type systemEntry struct {
	System
	stats *systemStatsInternal
}

type serviceEntry struct {
	Service
	stats *systemStatsInternal
}

// bucket holds the units of one phase in registration order.
type bucket struct {
	before  []serviceEntry
	systems []systemEntry
	after   []serviceEntry
}

// Scheduler buckets systems and services by phase and dispatches them.
// Registration is closed once the first phase has run.
type Scheduler struct {
	buckets [phaseCount]bucket
	stats   []*systemStatsInternal
	sealed  bool
	logger  zerolog.Logger
}

// NewScheduler creates an empty scheduler.
func NewScheduler(logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		logger: logger,
	}
}

// Add registers a system at the end of its phase bucket.
func (s *Scheduler) Add(system System) {
	s.checkRegistration(system.phase, system.key, system.name)

	st := s.newStats(system.name, system.phase, false, SlotBefore)
	b := &s.buckets[system.phase]
	b.systems = append(b.systems, systemEntry{System: system, stats: st})
}

// AddService registers a service in the before or after slot of its phase.
func (s *Scheduler) AddService(service Service, slot ServiceSlot) {
	s.checkRegistration(service.phase, service.key, service.name)

	st := s.newStats(service.name, service.phase, true, slot)
	entry := serviceEntry{Service: service, stats: st}
	b := &s.buckets[service.phase]
	if slot == SlotAfter {
		b.after = append(b.after, entry)
	} else {
		b.before = append(b.before, entry)
	}
}

func (s *Scheduler) checkRegistration(phase Phase, key UpdateKey, name string) {
	if s.sealed {
		panic(eris.Wrapf(ErrSchedulerSealed, "registering %s", name))
	}
	if phase >= phaseCount {
		panic(eris.Errorf("%s: unknown phase %d", name, phase))
	}
	if phase == PhaseUpdate && key == NoUpdateKey {
		panic(eris.Wrapf(ErrInvalidUpdateKey, "registering %s", name))
	}
}

func (s *Scheduler) newStats(name string, phase Phase, service bool, slot ServiceSlot) *systemStatsInternal {
	st := &systemStatsInternal{
		name:        name,
		phase:       phase,
		service:     service,
		slot:        slot,
		minDuration: time.Duration(1<<63 - 1),
	}
	s.stats = append(s.stats, st)
	return st
}

// Sealed reports whether registration has been closed.
func (s *Scheduler) Sealed() bool {
	return s.sealed
}

// Systems returns the systems registered for a phase in registration order.
func (s *Scheduler) Systems(phase Phase) []System {
	b := &s.buckets[phase]
	out := make([]System, len(b.systems))
	for i, e := range b.systems {
		out[i] = e.System
	}
	return out
}

// Services returns the services registered for a phase slot in registration order.
func (s *Scheduler) Services(phase Phase, slot ServiceSlot) []Service {
	entries := s.buckets[phase].before
	if slot == SlotAfter {
		entries = s.buckets[phase].after
	}
	out := make([]Service, len(entries))
	for i, e := range entries {
		out[i] = e.Service
	}
	return out
}

// Run dispatches one phase: matching before services, then every matching
// system for every live entity (entities outer, systems inner), then matching
// after services. Update units only run when their key equals the phase key.
//
// A panicking callback aborts the run. The panic is logged and re-raised with
// its original value; effects of callbacks that already ran are kept.
func (s *Scheduler) Run(phase RunPhase, arena *Arena, resources *Resources) {
	if phase.Phase >= phaseCount {
		panic(eris.Errorf("unknown phase %d", phase.Phase))
	}
	s.sealed = true

	b := &s.buckets[phase.Phase]
	running := ""

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().
				Str("unit", running).
				Stringer("phase", phase).
				Interface("panic", r).
				Msg("callback panicked, aborting phase")
			panic(r)
		}
	}()

	for i := range b.before {
		svc := &b.before[i]
		if !accepts(svc.phase, svc.key, phase) {
			continue
		}
		running = svc.name
		s.runService(svc, resources, phase)
	}

	if len(b.systems) > 0 {
		for _, entity := range arena.All() {
			for i := range b.systems {
				sys := &b.systems[i]
				if !accepts(sys.phase, sys.key, phase) || !entity.shape.Contains(sys.query) {
					continue
				}
				running = sys.name
				start := time.Now()
				sys.fn(entity, resources, phase)
				sys.stats.record(time.Since(start))
			}
		}
	}

	for i := range b.after {
		svc := &b.after[i]
		if !accepts(svc.phase, svc.key, phase) {
			continue
		}
		running = svc.name
		s.runService(svc, resources, phase)
	}
}

func (s *Scheduler) runService(svc *serviceEntry, resources *Resources, phase RunPhase) {
	start := time.Now()
	svc.fn(resources, phase)
	svc.stats.record(time.Since(start))
}

func accepts(unitPhase Phase, unitKey UpdateKey, phase RunPhase) bool {
	if unitPhase != PhaseUpdate {
		return true
	}
	return unitKey == phase.Key
}

// GetStats returns statistics about system and service execution in
// registration order.
func (s *Scheduler) GetStats() *SchedulerStats {
	stats := &SchedulerStats{
		Systems: make([]SystemStats, len(s.stats)),
	}

	var totalExecs int64
	for i, internal := range s.stats {
		avgDuration := time.Duration(0)
		minDuration := internal.minDuration
		if internal.executionCount > 0 {
			avgDuration = internal.totalDuration / time.Duration(internal.executionCount)
		} else {
			minDuration = 0
		}

		if internal.service {
			stats.ServiceCount++
		} else {
			stats.SystemCount++
		}

		stats.Systems[i] = SystemStats{
			Name:           internal.name,
			Phase:          internal.phase,
			Service:        internal.service,
			Slot:           internal.slot,
			ExecutionCount: internal.executionCount,
			MinDuration:    minDuration,
			MaxDuration:    internal.maxDuration,
			AvgDuration:    avgDuration,
			LastDuration:   internal.lastDuration,
			TotalDuration:  internal.totalDuration,
		}
		totalExecs += internal.executionCount
	}

	stats.TotalExecutions = totalExecs
	return stats
}
