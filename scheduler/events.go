package scheduler

import (
	"log"

	"github.com/openvct/simsched/simtime"
)

// A OneShotEvent fires once and does not recur.
type OneShotEvent struct {
	name  string
	time  simtime.SimTime
	count uint64
}

// NewOneShotEvent creates an event that fires at t.
func NewOneShotEvent(name string, t simtime.SimTime) OneShotEvent {
	return OneShotEvent{name: name, time: t}
}

// Name returns the event name.
func (e OneShotEvent) Name() string {
	return e.name
}

// ExecutionTime returns the time the event fires.
func (e OneShotEvent) ExecutionTime() simtime.SimTime {
	return e.time
}

// Count returns how many times the event has fired.
func (e OneShotEvent) Count() uint64 {
	return e.count
}

// NextTime returns a successor at the same instant, which the actor
// drops as already elapsed.
func (e OneShotEvent) NextTime() Event {
	return e.WithCount(e.count + 1)
}

// WithCount returns a copy with the occurrence count replaced.
func (e OneShotEvent) WithCount(count uint64) Event {
	e.count = count
	return e
}

// Before orders by execution time, then by name.
func (e OneShotEvent) Before(other Event) bool {
	if e.time != other.ExecutionTime() {
		return e.time < other.ExecutionTime()
	}

	return e.name < other.Name()
}

// An IntervalEvent fires at a fixed simulation-time interval, starting
// at its first execution time. A maximum occurrence count can bound
// the recurrence.
type IntervalEvent struct {
	name     string
	time     simtime.SimTime
	every    simtime.SimDuration
	count    uint64
	maxCount uint64
}

// NewIntervalEvent creates an event that first fires at start and then
// every interval after. The interval must be positive.
func NewIntervalEvent(
	name string,
	start simtime.SimTime,
	every simtime.SimDuration,
) IntervalEvent {
	if every <= 0 {
		log.Panic("interval must be positive")
	}

	return IntervalEvent{name: name, time: start, every: every}
}

// WithMaxCount bounds the recurrence to n firings in total. Zero means
// unbounded.
func (e IntervalEvent) WithMaxCount(n uint64) IntervalEvent {
	e.maxCount = n
	return e
}

// Name returns the event name.
func (e IntervalEvent) Name() string {
	return e.name
}

// ExecutionTime returns the time of the next firing.
func (e IntervalEvent) ExecutionTime() simtime.SimTime {
	return e.time
}

// Count returns how many times the event has fired.
func (e IntervalEvent) Count() uint64 {
	return e.count
}

// Interval returns the spacing between firings.
func (e IntervalEvent) Interval() simtime.SimDuration {
	return e.every
}

// NextTime returns the occurrence one interval later. When the bounded
// count is used up the successor keeps the elapsed time, ending the
// recurrence.
func (e IntervalEvent) NextTime() Event {
	next := e
	next.count++

	if e.maxCount > 0 && next.count >= e.maxCount {
		return next
	}

	next.time = e.time.Add(e.every)

	return next
}

// WithCount returns a copy with the occurrence count replaced.
func (e IntervalEvent) WithCount(count uint64) Event {
	e.count = count
	return e
}

// Before orders by execution time, then by name.
func (e IntervalEvent) Before(other Event) bool {
	if e.time != other.ExecutionTime() {
		return e.time < other.ExecutionTime()
	}

	return e.name < other.Name()
}
