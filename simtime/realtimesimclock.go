package simtime

import "log"

// RealTimeSimClock maps the host's wall clock onto a controllable
// simulation timeline. Wall time spent frozen is subtracted, the
// remainder is scaled by the time dilation, and the result lands on
// the simulation timeline at the relative start:
//
//	now = relativeStart + ((wall - simulationStart) - pausedTime - inPause) × dilation
//
// A RealTimeSimClock is not safe for concurrent use. Wrap it in a
// SharedClock to hand it to more than one goroutine.
type RealTimeSimClock struct {
	simulationStart WallTime
	relativeStart   SimTime
	pausedTime      TimeDuration
	pauseStart      WallTime
	timeDilation    float64
	state           ClockState
}

// NewRealTimeSimClock creates a stopped clock frozen at the epoch. It
// reads exactly time zero until Start or Resume.
func NewRealTimeSimClock() *RealTimeSimClock {
	now := WallTimeNow()

	return &RealTimeSimClock{
		simulationStart: now,
		pauseStart:      now,
		timeDilation:    1.0,
		state:           ClockStopped,
	}
}

// Now returns the current simulation time. While the clock is frozen
// the same instant is returned on every call.
func (c *RealTimeSimClock) Now() SimTime {
	rtNow := WallTimeNow()

	var inPause TimeDuration
	if !c.pauseStart.IsZero() {
		inPause = rtNow.Sub(c.pauseStart)
	}

	running := rtNow.Sub(c.simulationStart) - c.pausedTime - inPause

	return c.relativeStart.AddWall(running.Scale(c.timeDilation))
}

// DelayTime returns the wall-clock wait until the clock reads then,
// de-scaled by the time dilation. It returns zero when then is not in
// the future.
func (c *RealTimeSimClock) DelayTime(then SimTime) TimeDuration {
	wait := then.Sub(c.Now()).Div(c.timeDilation)
	if wait <= 0 {
		return 0
	}

	return TimeDuration(wait)
}

// Start rebases the clock onto a new run and leaves it Paused at
// relativeStart. simulationStart is the wall anchor of the run,
// pausedTime credits pause already served before this process took
// over, and timeDilation sets how many simulation microseconds pass
// per wall microsecond.
func (c *RealTimeSimClock) Start(
	simulationStart WallTime,
	relativeStart SimTime,
	pausedTime TimeDuration,
	timeDilation float64,
) {
	if timeDilation <= 0 {
		log.Panicf("time dilation must be positive, not %f", timeDilation)
	}

	c.simulationStart = simulationStart
	c.relativeStart = relativeStart
	c.pausedTime = pausedTime
	c.timeDilation = timeDilation
	c.pauseStart = WallTimeNow()
	c.state = ClockPaused
}

// Pause freezes the clock. Calling Pause while already frozen keeps
// the original freeze point.
func (c *RealTimeSimClock) Pause() {
	if c.pauseStart.IsZero() {
		c.pauseStart = WallTimeNow()
	}

	c.state = ClockPaused
}

// Resume lets time advance again and adds the span spent frozen to the
// paused-time account. Resuming a clock that was never frozen credits
// nothing and simply marks it Running.
func (c *RealTimeSimClock) Resume() {
	if !c.pauseStart.IsZero() {
		c.pausedTime += WallTimeNow().Sub(c.pauseStart)
		c.pauseStart = WallTime{}
	}

	c.state = ClockRunning
}

// Stop freezes the clock until the next Start. A freeze point already
// in effect is kept.
func (c *RealTimeSimClock) Stop() {
	if c.pauseStart.IsZero() {
		c.pauseStart = WallTimeNow()
	}

	c.state = ClockStopped
}

// OffsetBy shifts the wall-clock anchor by a simulation span. Shifting
// the anchor later moves the simulation timeline earlier, and the
// other way around, which is how an external source's drift is folded
// in.
func (c *RealTimeSimClock) OffsetBy(d SimDuration) {
	c.simulationStart = c.simulationStart.Add(TimeDuration(d))
}

// Elapsed returns the simulation time passed since the relative start.
func (c *RealTimeSimClock) Elapsed() SimDuration {
	return c.Now().Sub(c.relativeStart)
}

// State returns where the clock is in its lifecycle.
func (c *RealTimeSimClock) State() ClockState {
	return c.state
}

// IsRunning reports whether simulation time is advancing.
func (c *RealTimeSimClock) IsRunning() bool {
	return c.state == ClockRunning
}

// IsPaused reports whether the clock is frozen by Pause.
func (c *RealTimeSimClock) IsPaused() bool {
	return c.state == ClockPaused
}

// IsStopped reports whether the clock is frozen by Stop or has never
// been started.
func (c *RealTimeSimClock) IsStopped() bool {
	return c.state == ClockStopped
}

// SimulationStart returns the wall anchor of the current run.
func (c *RealTimeSimClock) SimulationStart() WallTime {
	return c.simulationStart
}

// RelativeStart returns the simulation instant the anchor maps to.
func (c *RealTimeSimClock) RelativeStart() SimTime {
	return c.relativeStart
}

// PausedTime returns the wall time served in completed freezes.
func (c *RealTimeSimClock) PausedTime() TimeDuration {
	return c.pausedTime
}

// TimeDilation returns the simulation-per-wall scaling factor.
func (c *RealTimeSimClock) TimeDilation() float64 {
	return c.timeDilation
}
