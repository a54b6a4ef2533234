package scheduler

import (
	"errors"
	"sync"
)

// ErrSchedulerStopped is returned when a command cannot reach the
// actor because it has shut down.
var ErrSchedulerStopped = errors.New(
	"unable to communicate with the scheduler: actor stopped")

type commandKind int

const (
	cmdSchedule commandKind = iota
	cmdCancel
	cmdStop
)

type command struct {
	kind  commandKind
	event Event
	name  string
}

// mailbox is the actor's command inbox. Producers append under a lock
// and never block, whatever the actor is doing; the capacity-1 signal
// channel wakes the actor at most once per batch.
type mailbox struct {
	mu      sync.Mutex
	pending []command
	closed  bool

	signal chan struct{}
}

func newMailbox() *mailbox {
	return &mailbox{
		signal: make(chan struct{}, 1),
	}
}

func (m *mailbox) send(c command) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrSchedulerStopped
	}
	m.pending = append(m.pending, c)
	m.mu.Unlock()

	select {
	case m.signal <- struct{}{}:
	default:
	}

	return nil
}

// drain hands the whole pending batch to the actor.
func (m *mailbox) drain() []command {
	m.mu.Lock()
	batch := m.pending
	m.pending = nil
	m.mu.Unlock()

	return batch
}

// close rejects all future sends. Commands still pending are dropped;
// the actor is already past reading them.
func (m *mailbox) close() {
	m.mu.Lock()
	m.closed = true
	m.pending = nil
	m.mu.Unlock()
}
