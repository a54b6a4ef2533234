package simtime

import "time"

// SystemClock maps the simulation timeline one-to-one onto the host
// clock: the simulation epoch is the Unix epoch and no dilation,
// pausing, or rebasing applies. It is the clock to use when scheduled
// times are real wall-clock deadlines.
type SystemClock struct{}

// Now returns the host time as microseconds since the Unix epoch.
func (SystemClock) Now() SimTime {
	return SimTime(time.Now().UnixMicro())
}

// DelayTime returns the wall-clock wait until then, or zero when then
// has already passed.
func (c SystemClock) DelayTime(then SimTime) TimeDuration {
	return TimeDuration(then.Sub(c.Now()))
}
