// Package queue defines the contract for enqueuing and consuming
// engagement events between the ingest endpoint and the append workers.
package queue

// Option applies a configuration option to the InMemoryQueue.
type Option func(*InMemoryQueue)

// WithCapacity bounds how many engagement events may sit in the queue
// waiting for an append worker. The channel buffer follows the bound so
// an ingest burst can fill the whole queue before Enqueue starts
// refusing events.
func WithCapacity(capacity int) Option {
	return func(q *InMemoryQueue) {
		if capacity > 0 {
			q.capacity = capacity
			q.bufferSize = capacity
		}
	}
}

// WithBufferSize sets the events channel buffer independently of the
// enqueue bound. A buffer smaller than the capacity surfaces
// backpressure to event producers earlier.
func WithBufferSize(size int) Option {
	return func(q *InMemoryQueue) {
		if size > 0 {
			q.bufferSize = size
		}
	}
}
