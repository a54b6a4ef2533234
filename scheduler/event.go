// Package scheduler runs time-ordered events on a single actor
// goroutine driven by a pluggable clock.
package scheduler

import (
	"fmt"

	"github.com/openvct/simsched/simtime"
)

// An Event is something going to happen at a point on the clock's
// timeline. Events describe their own recurrence: after a firing the
// actor asks the event for its successor and keeps it only when it
// lands in the future.
//
// Events must be treated as values. NextTime and WithCount return
// modified copies and never mutate the receiver.
type Event interface {
	// Name identifies the event. Scheduling a name twice keeps both
	// entries, and cancellation removes every entry with the name.
	Name() string

	// ExecutionTime returns the time the event should fire.
	ExecutionTime() simtime.SimTime

	// NextTime returns the successor occurrence with its count bumped.
	// A successor whose time is not in the future ends the recurrence.
	NextTime() Event

	// WithCount returns a copy with the occurrence count replaced.
	WithCount(count uint64) Event

	// Before orders events in the queue. Implementations order by
	// execution time and break ties deterministically.
	Before(other Event) bool
}

// An EventNotification is emitted to the notification channel each
// time an event fires.
type EventNotification struct {
	Name string
	Time simtime.SimTime
}

func (n EventNotification) String() string {
	return fmt.Sprintf("%s: %s", n.Name, n.Time)
}
