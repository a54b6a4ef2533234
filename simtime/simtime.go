// Package simtime defines the time values used across simsched and the
// clocks that produce them.
package simtime

import (
	"fmt"
	"math"
	"time"
)

// SimTime is an instant on the simulation timeline, counted in
// microseconds since the simulation epoch. The epoch is the scenario's
// own zero point, not the Unix epoch.
type SimTime uint64

// SimDuration is a span of simulation time. It can be negative.
type SimDuration time.Duration

// Units of simulation time.
const (
	Microsecond SimDuration = SimDuration(time.Microsecond)
	Millisecond             = 1000 * Microsecond
	Second                  = 1000 * Millisecond
	Minute                  = 60 * Second
	Hour                    = 60 * Minute
)

// SimTimeFromMicros creates a SimTime from microseconds since the epoch.
func SimTimeFromMicros(us uint64) SimTime {
	return SimTime(us)
}

// SimTimeFromMillis creates a SimTime from milliseconds since the epoch.
func SimTimeFromMillis(ms uint64) SimTime {
	return SimTime(ms * 1000)
}

// SimTimeFromSeconds creates a SimTime from seconds since the epoch.
func SimTimeFromSeconds(s uint64) SimTime {
	return SimTime(s * 1000000)
}

// Micros returns the time as microseconds since the epoch.
func (t SimTime) Micros() uint64 {
	return uint64(t)
}

// Millis returns the time as whole milliseconds since the epoch.
func (t SimTime) Millis() uint64 {
	return uint64(t) / 1000
}

// Seconds returns the time as whole seconds since the epoch.
func (t SimTime) Seconds() uint64 {
	return uint64(t) / 1000000
}

// Add shifts t by d. Shifting before the epoch clamps at the epoch.
func (t SimTime) Add(d SimDuration) SimTime {
	us := d.Microseconds()
	if us >= 0 {
		return t + SimTime(us)
	}

	dec := uint64(-us)
	if dec >= uint64(t) {
		return 0
	}

	return t - SimTime(dec)
}

// AddWall shifts t by a wall-clock span. This is the one place where
// wall durations enter the simulation timeline, after dilation scaling.
func (t SimTime) AddWall(d TimeDuration) SimTime {
	return t.Add(SimDuration(d))
}

// Sub returns the duration from o to t. When o is later than t the
// result clamps at zero.
func (t SimTime) Sub(o SimTime) SimDuration {
	if t <= o {
		return 0
	}

	return SimDuration(t-o) * Microsecond
}

func (t SimTime) String() string {
	if uint64(t) > uint64(math.MaxInt64)/1000 {
		return fmt.Sprintf("%dµs", uint64(t))
	}

	return (time.Duration(t) * time.Microsecond).String()
}

// Microseconds returns the duration as a microsecond count.
func (d SimDuration) Microseconds() int64 {
	return int64(time.Duration(d) / time.Microsecond)
}

// Milliseconds returns the duration as a whole millisecond count.
func (d SimDuration) Milliseconds() int64 {
	return int64(time.Duration(d) / time.Millisecond)
}

// Seconds returns the duration as a floating-point second count.
func (d SimDuration) Seconds() float64 {
	return time.Duration(d).Seconds()
}

// Div de-scales the duration by a factor, truncating to whole
// microseconds. Dividing a simulation span by the time dilation yields
// the wall-clock span it takes to play out.
func (d SimDuration) Div(f float64) SimDuration {
	us := float64(d.Microseconds()) / f
	return SimDuration(time.Duration(us)) * Microsecond
}

func (d SimDuration) String() string {
	return time.Duration(d).String()
}
