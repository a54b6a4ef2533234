package scheduler

import (
	"log"
	"sync/atomic"

	"github.com/openvct/simsched/simtime"
)

// Handle commands a scheduler actor. A Handle is safe for concurrent
// use and none of its methods block on the actor's work.
type Handle struct {
	clock   simtime.Clock
	inbox   *mailbox
	pending *atomic.Int64
}

// New spawns a scheduler actor on the given clock and returns the
// handle that commands it together with the channel notifications
// arrive on. Hooks observe the actor from its own goroutine and must
// be handed over here, before it starts.
//
// The clock is read by the actor and by every goroutine calling Now,
// so it must be safe to share: a SystemClock, or a RealTimeSimClock
// wrapped in a simtime.SharedClock.
func New(clock simtime.Clock, hooks ...Hook) (*Handle, <-chan EventNotification) {
	if clock == nil {
		log.Panic("scheduler requires a clock")
	}

	out := make(chan EventNotification)
	pending := &atomic.Int64{}

	a := newActor(clock, out, pending, hooks)
	go a.run()

	h := &Handle{
		clock:   clock,
		inbox:   a.inbox,
		pending: pending,
	}

	return h, out
}

// Schedule queues an event. Events in the past are legal and fire on
// the actor's next wake. ErrSchedulerStopped is returned after Stop.
func (h *Handle) Schedule(evt Event) error {
	if evt == nil {
		log.Panic("cannot schedule a nil event")
	}

	return h.inbox.send(command{kind: cmdSchedule, event: evt})
}

// Cancel drops every pending event with the given name, including the
// future occurrences of recurring events. Cancelling a name with no
// pending events is a no-op.
func (h *Handle) Cancel(name string) error {
	return h.inbox.send(command{kind: cmdCancel, name: name})
}

// Stop discards all pending events and shuts the actor down. The
// notification channel closes once notifications already emitted have
// been delivered. Stop does not wait for the shutdown.
func (h *Handle) Stop() error {
	return h.inbox.send(command{kind: cmdStop})
}

// Now reads the scheduler's clock.
func (h *Handle) Now() simtime.SimTime {
	return h.clock.Now()
}

// PendingEvents reports how many events sit in the queue, as last
// observed by the actor. Commands still in flight are not counted.
func (h *Handle) PendingEvents() int {
	return int(h.pending.Load())
}
