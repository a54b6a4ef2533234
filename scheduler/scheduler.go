package scheduler

import (
	"sync/atomic"
	"time"

	"github.com/openvct/simsched/simtime"
)

// actor owns the event queue. It is the only goroutine that reads the
// clock for firing decisions, touches the queue, or writes to the
// notification channel, so none of that state needs locks.
type actor struct {
	HookableBase

	clock simtime.Clock
	inbox *mailbox
	out   chan<- EventNotification

	queue   EventQueue
	pending *atomic.Int64

	wake   chan struct{}
	timer  *time.Timer
	sleepC <-chan time.Time

	backlog  []EventNotification
	stopping bool
}

func newActor(
	clock simtime.Clock,
	out chan<- EventNotification,
	pending *atomic.Int64,
	hooks []Hook,
) *actor {
	a := &actor{
		clock:   clock,
		inbox:   newMailbox(),
		out:     out,
		queue:   NewEventQueue(),
		pending: pending,
		wake:    make(chan struct{}, 1),
	}

	for _, hook := range hooks {
		a.AcceptHook(hook)
	}

	return a
}

// run is the actor loop. It sleeps until a command arrives, the wake
// signal fires, or the timer armed for the earliest event expires.
// Notifications drain through the nil-able send arm so emitting never
// blocks event processing.
func (a *actor) run() {
	defer close(a.out)

	for {
		var outC chan<- EventNotification
		var head EventNotification
		if len(a.backlog) > 0 {
			outC = a.out
			head = a.backlog[0]
		}

		select {
		case <-a.inbox.signal:
			a.processCommands()
			if a.stopping {
				a.flushBacklog()
				return
			}

		case <-a.wake:
			a.fireDueEvents()

		case <-a.sleepC:
			a.sleepC = nil
			a.timer = nil
			a.notifyWake()

		case outC <- head:
			a.backlog = a.backlog[1:]
		}
	}
}

func (a *actor) processCommands() {
	for _, c := range a.inbox.drain() {
		switch c.kind {
		case cmdSchedule:
			a.schedule(c.event)
		case cmdCancel:
			a.cancel(c.name)
		case cmdStop:
			a.stop()
			return
		}
	}
}

func (a *actor) schedule(evt Event) {
	a.queue.Push(evt)
	a.pending.Add(1)

	a.InvokeHook(HookCtx{Domain: a, Pos: HookPosSchedule, Item: evt})

	a.notifyWake()
}

func (a *actor) cancel(name string) {
	removed := a.queue.Remove(name)
	a.pending.Add(int64(-removed))

	a.InvokeHook(HookCtx{
		Domain: a,
		Pos:    HookPosCancel,
		Item:   name,
		Detail: removed,
	})

	a.notifyWake()
}

func (a *actor) stop() {
	discarded := a.queue.Len()
	a.queue.Clear()
	a.pending.Store(0)
	a.inbox.close()
	a.stopTimer()
	a.stopping = true

	a.InvokeHook(HookCtx{Domain: a, Pos: HookPosStop, Detail: discarded})
}

// fireDueEvents pops every event whose time has been reached, emits
// one notification per firing, and keeps successors that land in the
// future. It then arms the timer for the new earliest event, or
// disarms it when the queue is empty.
func (a *actor) fireDueEvents() {
	now := a.clock.Now()

	for a.queue.Len() > 0 {
		if a.queue.Peek().ExecutionTime() > now {
			a.armTimer(
				a.clock.DelayTime(a.queue.Peek().ExecutionTime()).
					AsDuration())
			return
		}

		evt := a.queue.Pop()
		a.pending.Add(-1)

		ctx := HookCtx{Domain: a, Pos: HookPosBeforeFire, Item: evt}
		a.InvokeHook(ctx)

		next := evt.NextTime()
		if next.ExecutionTime() > now {
			a.queue.Push(next)
			a.pending.Add(1)
		}

		n := EventNotification{Name: evt.Name(), Time: evt.ExecutionTime()}
		a.backlog = append(a.backlog, n)

		ctx.Pos = HookPosAfterFire
		ctx.Detail = n
		a.InvokeHook(ctx)
	}

	a.stopTimer()
}

func (a *actor) flushBacklog() {
	for _, n := range a.backlog {
		a.out <- n
	}

	a.backlog = nil
}

func (a *actor) armTimer(d time.Duration) {
	a.stopTimer()
	a.timer = time.NewTimer(d)
	a.sleepC = a.timer.C
}

func (a *actor) stopTimer() {
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}

	a.sleepC = nil
}

func (a *actor) notifyWake() {
	select {
	case a.wake <- struct{}{}:
	default:
	}
}
