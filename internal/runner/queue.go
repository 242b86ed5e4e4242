package runner

import "sync"

// Queue is an unbounded multi-producer queue drained by a single consumer.
// Unlike a bounded channel it never drops or blocks a producer; the reader
// goroutines push at line rate and the render loop drains once per tick.
type Queue[T any] struct {
	mu    sync.Mutex
	items []T
}

// NewQueue creates an empty queue.
func NewQueue[T any]() *Queue[T] {
	return &Queue[T]{}
}

// Push appends one item. Safe for concurrent producers; items from a single
// producer keep their push order.
func (q *Queue[T]) Push(v T) {
	q.mu.Lock()
	q.items = append(q.items, v)
	q.mu.Unlock()
}

// Drain removes and returns everything queued so far, in arrival order. It
// never blocks; an empty queue returns nil, which is a normal condition.
func (q *Queue[T]) Drain() []T {
	q.mu.Lock()
	items := q.items
	q.items = nil
	q.mu.Unlock()
	return items
}

// Len returns the number of queued items.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
