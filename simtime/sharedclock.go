package simtime

import (
	"log"
	"sync"
)

// SharedClock makes a SimClock safe for concurrent use. Reads take a
// shared lock so the scheduler, monitors, and user goroutines can ask
// for the time at once; lifecycle changes take the lock exclusively.
type SharedClock struct {
	mu    sync.RWMutex
	clock SimClock
}

// NewSharedClock wraps a clock. The wrapped clock must not be used
// directly afterwards.
func NewSharedClock(clock SimClock) *SharedClock {
	if clock == nil {
		log.Panic("shared clock requires an underlying clock")
	}

	return &SharedClock{clock: clock}
}

func (s *SharedClock) Now() SimTime {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.clock.Now()
}

func (s *SharedClock) DelayTime(then SimTime) TimeDuration {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.clock.DelayTime(then)
}

func (s *SharedClock) Start(
	simulationStart WallTime,
	relativeStart SimTime,
	pausedTime TimeDuration,
	timeDilation float64,
) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.clock.Start(simulationStart, relativeStart, pausedTime, timeDilation)
}

func (s *SharedClock) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.clock.Pause()
}

func (s *SharedClock) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.clock.Resume()
}

func (s *SharedClock) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.clock.Stop()
}

func (s *SharedClock) OffsetBy(d SimDuration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.clock.OffsetBy(d)
}

func (s *SharedClock) Elapsed() SimDuration {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.clock.Elapsed()
}

func (s *SharedClock) State() ClockState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.clock.State()
}

func (s *SharedClock) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.clock.IsRunning()
}

func (s *SharedClock) IsPaused() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.clock.IsPaused()
}

func (s *SharedClock) IsStopped() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.clock.IsStopped()
}
