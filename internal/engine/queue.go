package engine

import "sync"

// intentQueue is a thread-safe FIFO queue of intents.
//
// The queue is unbounded so that Submit* and the tick driver never block
// the caller. Producers may live on any goroutine (HTTP handlers, the
// shell, the tick driver); only the Run loop dequeues.
//
// A buffered signal channel lets the Run loop wait with select alongside
// context cancellation.
type intentQueue struct {
	mu      sync.Mutex
	intents []Intent
	closed  bool
	signal  chan struct{} // Signals intent availability (buffered, size 1)
}

// newIntentQueue creates an empty intent queue.
func newIntentQueue() *intentQueue {
	return &intentQueue{
		intents: make([]Intent, 0, 16),
		signal:  make(chan struct{}, 1),
	}
}

// Enqueue adds an intent to the back of the queue.
// Returns false if the queue is closed.
func (q *intentQueue) Enqueue(in Intent) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}

	q.intents = append(q.intents, in)

	// Non-blocking; the size-1 buffer coalesces signals.
	select {
	case q.signal <- struct{}{}:
	default:
	}

	return true
}

// TryDequeue removes and returns the front intent without blocking.
// Returns (Intent{}, false) if the queue is empty.
func (q *intentQueue) TryDequeue() (Intent, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.intents) == 0 {
		return Intent{}, false
	}

	in := q.intents[0]
	if len(q.intents) == 1 {
		q.intents = q.intents[:0]
	} else {
		q.intents = q.intents[1:]
	}

	return in, true
}

// Wait returns a channel that signals when intents may be available.
// The channel is closed once the queue is closed.
func (q *intentQueue) Wait() <-chan struct{} {
	return q.signal
}

// Len returns the current queue length.
func (q *intentQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.intents)
}

// Closed reports whether Close has been called.
func (q *intentQueue) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

// Close stops accepting intents and wakes any waiter.
// Intents already queued stay available to TryDequeue.
func (q *intentQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}

	q.closed = true
	close(q.signal)
}
