package circuit

import (
	"container/heap"
	"sync"

	"github.com/sarchlab/wavesim/sim"
)

// PendingEvent is a value that reaches a node at a given time.
type PendingEvent struct {
	Time  sim.VTime
	Node  NodeID
	Value sim.Signal

	seq uint64
}

// EventQueue is a thread safe queue of pending events. Events pop in time
// order; events at the same time pop in node ID order, then in the order they
// were pushed.
type EventQueue struct {
	sync.Mutex
	events  eventHeap
	nextSeq uint64
}

// NewEventQueue creates and returns a newly created EventQueue
func NewEventQueue() *EventQueue {
	q := new(EventQueue)
	q.events = make([]*PendingEvent, 0)
	heap.Init(&q.events)

	return q
}

// Push adds an event to the event queue
func (q *EventQueue) Push(evt *PendingEvent) {
	q.Lock()
	evt.seq = q.nextSeq
	q.nextSeq++
	heap.Push(&q.events, evt)
	q.Unlock()
}

// Pop returns the next earliest event, or nil if the queue is empty.
func (q *EventQueue) Pop() *PendingEvent {
	q.Lock()
	defer q.Unlock()

	if q.events.Len() == 0 {
		return nil
	}

	return heap.Pop(&q.events).(*PendingEvent)
}

// Len returns the number of event in the queue
func (q *EventQueue) Len() int {
	q.Lock()
	defer q.Unlock()

	return q.events.Len()
}

// Peek returns the event in front of the queue without removing it from the
// queue, or nil if the queue is empty.
func (q *EventQueue) Peek() *PendingEvent {
	q.Lock()
	defer q.Unlock()

	if q.events.Len() == 0 {
		return nil
	}

	return q.events[0]
}

// Snapshot returns copies of the queued events in pop order.
func (q *EventQueue) Snapshot() []PendingEvent {
	q.Lock()
	sorted := make(eventHeap, len(q.events))
	copy(sorted, q.events)
	q.Unlock()

	out := make([]PendingEvent, 0, len(sorted))
	for sorted.Len() > 0 {
		out = append(out, *heap.Pop(&sorted).(*PendingEvent))
	}

	return out
}

type eventHeap []*PendingEvent

func (h eventHeap) Len() int {
	return len(h)
}

func (h eventHeap) Less(i, j int) bool {
	a, b := h[i], h[j]

	if a.Time != b.Time {
		return a.Time < b.Time
	}

	if a.Node != b.Node {
		return a.Node < b.Node
	}

	return a.seq < b.seq
}

func (h eventHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
}

func (h *eventHeap) Push(x any) {
	*h = append(*h, x.(*PendingEvent))
}

func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	evt := old[n-1]
	*h = old[:n-1]

	return evt
}
