package scheduler

import (
	"fmt"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	gomock "go.uber.org/mock/gomock"

	"github.com/openvct/simsched/simtime"
)

func newMockEventAt(
	mockCtrl *gomock.Controller,
	name string,
	t simtime.SimTime,
) *MockEvent {
	event := NewMockEvent(mockCtrl)
	event.EXPECT().Name().Return(name).AnyTimes()
	event.EXPECT().ExecutionTime().Return(t).AnyTimes()
	event.EXPECT().
		Before(gomock.Any()).
		DoAndReturn(func(other Event) bool {
			if t != other.ExecutionTime() {
				return t < other.ExecutionTime()
			}
			return name < other.Name()
		}).
		AnyTimes()

	return event
}

var _ = Describe("EventQueueImpl", func() {
	var (
		mockCtrl *gomock.Controller
		queue    *EventQueueImpl
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		queue = NewEventQueue()
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should pop in order", func() {
		numEvents := 100
		for i := 0; i < numEvents; i++ {
			event := newMockEventAt(
				mockCtrl,
				fmt.Sprintf("evt-%d", i),
				simtime.SimTime(rand.Uint64()%1000000))
			queue.Push(event)
		}

		var now simtime.SimTime
		for i := 0; i < numEvents; i++ {
			event := queue.Pop()
			Expect(event.ExecutionTime() >= now).To(BeTrue())
			now = event.ExecutionTime()
		}
	})

	It("should remove events by name", func() {
		queue.Push(newMockEventAt(mockCtrl, "keep", 10))
		queue.Push(newMockEventAt(mockCtrl, "drop", 20))
		queue.Push(newMockEventAt(mockCtrl, "drop", 30))
		queue.Push(newMockEventAt(mockCtrl, "keep", 40))

		removed := queue.Remove("drop")

		Expect(removed).To(Equal(2))
		Expect(queue.Len()).To(Equal(2))
		Expect(queue.Pop().ExecutionTime()).To(Equal(simtime.SimTime(10)))
		Expect(queue.Pop().ExecutionTime()).To(Equal(simtime.SimTime(40)))
	})

	It("should remove nothing for an unknown name", func() {
		queue.Push(newMockEventAt(mockCtrl, "keep", 10))

		Expect(queue.Remove("missing")).To(Equal(0))
		Expect(queue.Len()).To(Equal(1))
	})

	It("should clear all events", func() {
		queue.Push(newMockEventAt(mockCtrl, "a", 10))
		queue.Push(newMockEventAt(mockCtrl, "b", 20))

		queue.Clear()

		Expect(queue.Len()).To(Equal(0))
	})
})

var _ = Describe("Insertion Queue", func() {
	var (
		mockCtrl *gomock.Controller
		queue    *InsertionQueue
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		queue = NewInsertionQueue()
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should pop in order", func() {
		numEvents := 100
		for i := 0; i < numEvents; i++ {
			event := newMockEventAt(
				mockCtrl,
				fmt.Sprintf("evt-%d", i),
				simtime.SimTime(rand.Uint64()%1000000))
			queue.Push(event)
		}

		var now simtime.SimTime
		for i := 0; i < numEvents; i++ {
			event := queue.Pop()
			Expect(event.ExecutionTime() >= now).To(BeTrue())
			now = event.ExecutionTime()
		}
	})

	It("should remove events by name", func() {
		queue.Push(newMockEventAt(mockCtrl, "keep", 10))
		queue.Push(newMockEventAt(mockCtrl, "drop", 20))
		queue.Push(newMockEventAt(mockCtrl, "keep", 30))

		Expect(queue.Remove("drop")).To(Equal(1))
		Expect(queue.Len()).To(Equal(2))
	})

	It("should clear all events", func() {
		queue.Push(newMockEventAt(mockCtrl, "a", 10))
		queue.Push(newMockEventAt(mockCtrl, "b", 20))

		queue.Clear()

		Expect(queue.Len()).To(Equal(0))
	})
})
