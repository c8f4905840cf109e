package util

import "sync"

// Queue is an unbounded FIFO safe for many producers and one consumer.
// Nothing is ever dropped; PopBatch leaves whatever it did not take for the next call.
type Queue[T any] struct {
	mu    sync.Mutex
	items []T
}

// Push appends item at the tail.
func (q *Queue[T]) Push(item T) {
	q.mu.Lock()
	q.items = append(q.items, item)
	q.mu.Unlock()
}

// PopBatch removes and returns up to max items from the head, oldest first.
// A max of zero or less takes everything.
func (q *Queue[T]) PopBatch(max int) []T {
	q.mu.Lock()
	defer q.mu.Unlock()

	n := len(q.items)
	if n == 0 {
		return nil
	}
	if max > 0 && max < n {
		n = max
	}

	batch := make([]T, n)
	copy(batch, q.items[:n])

	var zero T
	for i := 0; i < n; i++ {
		q.items[i] = zero
	}
	q.items = q.items[n:]
	if len(q.items) == 0 {
		q.items = nil
	}
	return batch
}

// Len returns the number of queued items.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Clear drops every queued item.
func (q *Queue[T]) Clear() {
	q.mu.Lock()
	q.items = nil
	q.mu.Unlock()
}
