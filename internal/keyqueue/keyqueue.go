// Package keyqueue hands key events from a display goroutine to the console
// owner.
package keyqueue

import (
	"context"
	"sync"
	"time"
)

// PollInterval is how long Wait sleeps between polls.
const PollInterval = 5 * time.Millisecond

// Queue is an unbounded FIFO safe for concurrent producers and consumers.
// The zero value is ready to use.
type Queue[T any] struct {
	mu    sync.Mutex
	items []T
}

// Push appends items to the queue.
func (q *Queue[T]) Push(items ...T) {
	q.mu.Lock()
	q.items = append(q.items, items...)
	q.mu.Unlock()
}

// Poll removes and returns the oldest item without blocking.
func (q *Queue[T]) Poll() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	var zero T
	if len(q.items) == 0 {
		return zero, false
	}
	item := q.items[0]
	q.items[0] = zero
	q.items = q.items[1:]
	if len(q.items) == 0 {
		q.items = nil
	}
	return item, true
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

// Wait polls every PollInterval until an item arrives. It cannot be
// cancelled; use WaitContext when that matters.
func (q *Queue[T]) Wait() T {
	for {
		if item, ok := q.Poll(); ok {
			return item
		}
		time.Sleep(PollInterval)
	}
}

// WaitContext is Wait with cancellation.
func (q *Queue[T]) WaitContext(ctx context.Context) (T, error) {
	ticker := time.NewTicker(PollInterval)
	defer ticker.Stop()
	for {
		if item, ok := q.Poll(); ok {
			return item, nil
		}
		select {
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		case <-ticker.C:
		}
	}
}
