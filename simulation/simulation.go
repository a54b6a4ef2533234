// Package simulation wires a clock, a scheduler, a monitor, and a data
// recorder into one runnable unit.
package simulation

import (
	"github.com/openvct/simsched/analysis"
	"github.com/openvct/simsched/monitoring"
	"github.com/openvct/simsched/recording"
	"github.com/openvct/simsched/scheduler"
	"github.com/openvct/simsched/simtime"
)

// A Simulation provides the services required to run a scheduled workload.
// Its clock comes out of Build configured and paused; StartClock lets it run.
type Simulation struct {
	id string

	clock         *simtime.SharedClock
	scheduler     *scheduler.Handle
	notifications <-chan scheduler.EventNotification

	dataRecorder recording.DataRecorder
	monitor      *monitoring.Monitor
	latency      *analysis.LatencyAnalyzer
}

// GetID returns the unique ID of this run.
func (s *Simulation) GetID() string {
	return s.id
}

// GetClock returns the clock that drives the scheduler.
func (s *Simulation) GetClock() *simtime.SharedClock {
	return s.clock
}

// GetScheduler returns the scheduler handle.
func (s *Simulation) GetScheduler() *scheduler.Handle {
	return s.scheduler
}

// GetNotifications returns the channel that event firings arrive on.
func (s *Simulation) GetNotifications() <-chan scheduler.EventNotification {
	return s.notifications
}

// GetDataRecorder returns the data recorder used in the simulation. It is
// nil when recording is disabled.
func (s *Simulation) GetDataRecorder() recording.DataRecorder {
	return s.dataRecorder
}

// GetMonitor returns the monitor used in the simulation. It is nil when
// monitoring is disabled.
func (s *Simulation) GetMonitor() *monitoring.Monitor {
	return s.monitor
}

// GetLatencyAnalyzer returns the analyzer that tracks delivery lag.
func (s *Simulation) GetLatencyAnalyzer() *analysis.LatencyAnalyzer {
	return s.latency
}

// StartClock lets the configured simulation clock run.
func (s *Simulation) StartClock() {
	s.clock.Resume()
}

// PauseClock freezes the simulation clock.
func (s *Simulation) PauseClock() {
	s.clock.Pause()
}

// ResumeClock lets a paused simulation clock run again.
func (s *Simulation) ResumeClock() {
	s.clock.Resume()
}

// Terminate terminates the simulation. It stops the scheduler, discards
// notifications nobody consumed, and closes the data recorder.
func (s *Simulation) Terminate() {
	_ = s.scheduler.Stop()

	for range s.notifications {
	}

	if s.dataRecorder != nil {
		_ = s.dataRecorder.Close()
	}
}
