package simtime

import "fmt"

// ClockState identifies where a controllable clock is in its lifecycle.
type ClockState int

// A clock is constructed Stopped, runs after Start and Resume, and
// holds still while Paused or Stopped.
const (
	ClockStopped ClockState = iota
	ClockPaused
	ClockRunning
)

func (s ClockState) String() string {
	switch s {
	case ClockStopped:
		return "stopped"
	case ClockPaused:
		return "paused"
	case ClockRunning:
		return "running"
	default:
		return fmt.Sprintf("ClockState(%d)", int(s))
	}
}

// Clock can be used to get the current simulation time and to convert
// a future instant into a wall-clock wait.
type Clock interface {
	// Now returns the current instant on the clock's timeline.
	Now() SimTime

	// DelayTime returns how long the wall clock takes to reach then.
	// It returns zero when then is not in the future.
	DelayTime(then SimTime) TimeDuration
}

// SimClock is a Clock whose passage of time can be controlled.
type SimClock interface {
	Clock

	// Start rebases the clock and leaves it Paused at relativeStart.
	// A positive pausedTime credits pause already served before this
	// run. It panics when timeDilation is not positive.
	Start(
		simulationStart WallTime,
		relativeStart SimTime,
		pausedTime TimeDuration,
		timeDilation float64,
	)

	// Pause freezes the clock. Pausing an already-frozen clock does
	// not move the freeze point.
	Pause()

	// Resume lets time advance again, crediting the span spent frozen.
	Resume()

	// Stop freezes the clock until the next Start.
	Stop()

	// OffsetBy shifts the wall-clock anchor by a simulation span, for
	// drift correction against an external time source.
	OffsetBy(d SimDuration)

	// Elapsed returns how much simulation time has passed since the
	// relative start.
	Elapsed() SimDuration

	State() ClockState
	IsRunning() bool
	IsPaused() bool
	IsStopped() bool
}
