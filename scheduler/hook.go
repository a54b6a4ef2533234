package scheduler

// HookPos defines the enum of possible hooking positions
type HookPos struct {
	Name string
}

// HookCtx is the context that holds all the information about the site that a
// hook is triggered
type HookCtx struct {
	Domain Hookable
	Pos    *HookPos
	Item   interface{}
	Detail interface{}
}

// Hookable defines an object that accept Hooks
type Hookable interface {
	// AcceptHook registers a hook
	AcceptHook(hook Hook)
}

// HookPosSchedule is a hook position that triggers when an event enters the
// queue. Item is the Event.
var HookPosSchedule = &HookPos{Name: "Schedule"}

// HookPosCancel is a hook position that triggers when a cancellation is
// processed. Item is the cancelled name and Detail is the number of entries
// removed.
var HookPosCancel = &HookPos{Name: "Cancel"}

// HookPosBeforeFire is a hook position that triggers right before a due
// event fires. Item is the Event.
var HookPosBeforeFire = &HookPos{Name: "BeforeFire"}

// HookPosAfterFire is a hook position that triggers right after a due event
// fired. Item is the Event and Detail is the EventNotification.
var HookPosAfterFire = &HookPos{Name: "AfterFire"}

// HookPosStop is a hook position that triggers when the actor shuts down.
// Detail is the number of events discarded from the queue.
var HookPosStop = &HookPos{Name: "Stop"}

// Hook is a short piece of program that can be invoked by a hookable object.
type Hook interface {
	// Func determines what to do if hook is invoked.
	Func(ctx HookCtx)
}

// A HookableBase provides some utility function for other type that implement
// the Hookable interface.
type HookableBase struct {
	Hooks []Hook
}

// NewHookableBase creates a HookableBase object
func NewHookableBase() *HookableBase {
	h := new(HookableBase)
	h.Hooks = make([]Hook, 0)
	return h
}

// AcceptHook register a hook
func (h *HookableBase) AcceptHook(hook Hook) {
	h.Hooks = append(h.Hooks, hook)
}

// InvokeHook triggers the register Hooks
func (h *HookableBase) InvokeHook(ctx HookCtx) {
	for _, hook := range h.Hooks {
		hook.Func(ctx)
	}
}
