package simtime

import (
	"fmt"
	"math"
	"time"
)

// WallTime is an instant on the host's wall clock, held in UTC.
type WallTime struct {
	t time.Time
}

// TimeDuration is a span of wall-clock time. It can be negative.
type TimeDuration time.Duration

// TimeStamp is a wall-clock instant in microseconds since the Unix
// epoch. It is the only time shape meant to be persisted or sent over
// the wire.
type TimeStamp int64

// Wall-clock timestamps must land in years 1 through 9999, the range
// RFC 3339 can express.
var (
	minWallMicros = time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC).UnixMicro()
	maxWallMicros = time.Date(9999, time.December, 31, 23, 59, 59, 999999000, time.UTC).UnixMicro()
)

// ConversionError reports a time value that cannot be represented in
// the requested form.
type ConversionError struct {
	Msg string
}

func (e *ConversionError) Error() string {
	return "conversion error: " + e.Msg
}

// WallTimeNow reads the host clock.
func WallTimeNow() WallTime {
	return WallTime{t: time.Now().UTC()}
}

// WallTimeFromTime wraps a time.Time, normalizing it to UTC.
func WallTimeFromTime(t time.Time) WallTime {
	return WallTime{t: t.UTC()}
}

// WallTimeFromMillis creates a WallTime from milliseconds since the
// Unix epoch. It fails when the instant falls outside years 1-9999.
func WallTimeFromMillis(ms int64) (WallTime, error) {
	if ms > math.MaxInt64/1000 || ms < math.MinInt64/1000 {
		return WallTime{}, &ConversionError{
			Msg: fmt.Sprintf("millisecond timestamp %d is out of range", ms),
		}
	}

	return TimeStamp(ms * 1000).WallTime()
}

// Time returns the underlying time.Time.
func (w WallTime) Time() time.Time {
	return w.t
}

// IsZero reports whether w is the zero instant, which no clock reading
// ever produces.
func (w WallTime) IsZero() bool {
	return w.t.IsZero()
}

// Add shifts w by a wall-clock span.
func (w WallTime) Add(d TimeDuration) WallTime {
	return WallTime{t: w.t.Add(time.Duration(d))}
}

// Sub returns the span from o to w.
func (w WallTime) Sub(o WallTime) TimeDuration {
	return TimeDuration(w.t.Sub(o.t))
}

// UnixMilli returns w as milliseconds since the Unix epoch.
func (w WallTime) UnixMilli() int64 {
	return w.t.UnixMilli()
}

// UnixMicro returns w as microseconds since the Unix epoch.
func (w WallTime) UnixMicro() int64 {
	return w.t.UnixMicro()
}

func (w WallTime) String() string {
	return w.t.Format(time.RFC3339Nano)
}

// Microseconds returns the duration as a microsecond count.
func (d TimeDuration) Microseconds() int64 {
	return int64(time.Duration(d) / time.Microsecond)
}

// Milliseconds returns the duration as a whole millisecond count.
func (d TimeDuration) Milliseconds() int64 {
	return int64(time.Duration(d) / time.Millisecond)
}

// Seconds returns the duration as a floating-point second count.
func (d TimeDuration) Seconds() float64 {
	return time.Duration(d).Seconds()
}

// Scale multiplies the duration by a factor, flooring to whole
// microseconds. Scaling a wall-clock span by the time dilation yields
// the simulation span it stands for.
func (d TimeDuration) Scale(f float64) TimeDuration {
	us := math.Floor(float64(d.Microseconds()) * f)
	return TimeDuration(time.Duration(us)) * TimeDuration(time.Microsecond)
}

// AsDuration returns the span as a time.Duration, ready for timers.
func (d TimeDuration) AsDuration() time.Duration {
	return time.Duration(d)
}

func (d TimeDuration) String() string {
	return time.Duration(d).String()
}

// TimeStampNow reads the host clock as a TimeStamp.
func TimeStampNow() TimeStamp {
	return TimeStampFromWallTime(WallTimeNow())
}

// TimeStampFromWallTime flattens a WallTime into its durable form.
func TimeStampFromWallTime(w WallTime) TimeStamp {
	return TimeStamp(w.t.UnixMicro())
}

// TimeStampFromSimTime flattens a SimTime into a TimeStamp. The two
// share the microsecond unit but not the epoch; callers own the
// interpretation.
func TimeStampFromSimTime(t SimTime) TimeStamp {
	if uint64(t) > uint64(math.MaxInt64) {
		return TimeStamp(math.MaxInt64)
	}

	return TimeStamp(t)
}

// WallTime rebuilds the wall-clock instant. It fails when the
// timestamp falls outside years 1-9999.
func (ts TimeStamp) WallTime() (WallTime, error) {
	if int64(ts) < minWallMicros || int64(ts) > maxWallMicros {
		return WallTime{}, &ConversionError{
			Msg: fmt.Sprintf(
				"timestamp %d does not map to a representable wall-clock instant",
				int64(ts)),
		}
	}

	return WallTime{t: time.UnixMicro(int64(ts)).UTC()}, nil
}

// Micros returns the timestamp's microsecond count.
func (ts TimeStamp) Micros() int64 {
	return int64(ts)
}

func (ts TimeStamp) String() string {
	w, err := ts.WallTime()
	if err != nil {
		return fmt.Sprintf("TimeStamp(%d)", int64(ts))
	}

	return w.String()
}
