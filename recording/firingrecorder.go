package recording

import (
	"sync"

	"github.com/rs/xid"

	"github.com/openvct/simsched/scheduler"
	"github.com/openvct/simsched/simtime"
)

const firingTableName = "event_firings"

type firingTableEntry struct {
	ID   string
	Name string
	Time int64
	Wall int64
}

// FiringRecorder is a hook that stores one row per fired event into a
// DataRecorder backend. It records events that have fired, not pending ones.
type FiringRecorder struct {
	mu      sync.Mutex
	backend DataRecorder
	count   int64
}

// NewFiringRecorder creates a FiringRecorder writing into the given backend.
func NewFiringRecorder(backend DataRecorder) *FiringRecorder {
	backend.CreateTable(firingTableName, firingTableEntry{})

	return &FiringRecorder{backend: backend}
}

// Func records a row when an event fires. Other hook positions are ignored.
func (r *FiringRecorder) Func(ctx scheduler.HookCtx) {
	if ctx.Pos != scheduler.HookPosAfterFire {
		return
	}

	notification := ctx.Detail.(scheduler.EventNotification)

	entry := firingTableEntry{
		ID:   xid.New().String(),
		Name: notification.Name,
		Time: simtime.TimeStampFromSimTime(notification.Time).Micros(),
		Wall: simtime.TimeStampNow().Micros(),
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.backend.InsertData(firingTableName, entry)
	r.count++
}

// Count returns the number of firings recorded so far.
func (r *FiringRecorder) Count() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.count
}
