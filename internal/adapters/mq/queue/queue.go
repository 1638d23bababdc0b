// Package queue defines the contract for enqueuing and consuming
// submissions awaiting evaluation.
package queue

import (
	"context"
	"sync"

	"github.com/onto-project/ontobench/internal/domain/model"
	"github.com/onto-project/ontobench/pkg/metrics"
)

const defaultCapacity = 10000

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a submission. Returns false if the queue is full or
	// closed and the submission was not enqueued.
	Enqueue(ctx context.Context, s model.Submission) bool

	// Dequeue returns a channel that receives submissions as they become
	// available. The channel is closed when the queue is closed.
	Dequeue(ctx context.Context) <-chan model.Submission

	// Len returns the current number of queued submissions.
	Len(ctx context.Context) int

	// Close stops the queue; no new submissions can be enqueued.
	Close() error
}

// Option applies a configuration option to the InMemoryQueue.
type Option func(*InMemoryQueue)

// WithCapacity sets the maximum number of queued submissions.
func WithCapacity(n int) Option {
	return func(q *InMemoryQueue) {
		if n > 0 {
			q.capacity = n
		}
	}
}

// InMemoryQueue implements Queue on a buffered channel.
type InMemoryQueue struct {
	subs     chan model.Submission
	capacity int
	mu       sync.RWMutex
	closed   bool
}

// NewInMemoryQueue creates a new in-memory queue.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{capacity: defaultCapacity}
	for _, opt := range opts {
		opt(q)
	}
	q.subs = make(chan model.Submission, q.capacity)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)
	return q
}

// Enqueue implements Queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, s model.Submission) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordQueueEnqueueError()
		return false
	}
	select {
	case q.subs <- s:
		metrics.UpdateQueueSize(len(q.subs))
		return true
	case <-ctx.Done():
		metrics.RecordQueueEnqueueError()
		return false
	default:
		// Queue full: report backpressure rather than blocking the caller.
		metrics.RecordQueueEnqueueError()
		return false
	}
}

// Dequeue implements Queue.
func (q *InMemoryQueue) Dequeue(_ context.Context) <-chan model.Submission {
	return q.subs
}

// Len implements Queue.
func (q *InMemoryQueue) Len(_ context.Context) int {
	return len(q.subs)
}

// Close implements Queue. Queued submissions are still delivered to
// consumers before the channel closes.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	q.closed = true
	close(q.subs)
	return nil
}
