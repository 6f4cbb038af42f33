package queue

import (
	"fmt"
	"sync"
)

// MemoryQueue implements an in-memory queue with a fixed capacity.
// Enqueueing into a full queue fails rather than blocking the
// producer; the runner must never stall on a slow consumer.
type MemoryQueue struct {
	ch   chan interface{}
	lock sync.RWMutex
}

// NewMemoryQueue creates a new queue holding at most capacity items.
func NewMemoryQueue(capacity int) *MemoryQueue {
	return &MemoryQueue{
		ch: make(chan interface{}, capacity),
	}
}

// Enqueue adds an item to the end of the queue.
func (q *MemoryQueue) Enqueue(item interface{}) error {
	q.lock.Lock()
	defer q.lock.Unlock()

	select {
	case q.ch <- item:
		return nil
	default:
		return fmt.Errorf("queue is full (%d items)", cap(q.ch))
	}
}

// ReadAllMessages reads all pending messages in the queue.
func (q *MemoryQueue) ReadAllMessages() ([]interface{}, error) {
	q.lock.Lock()
	defer q.lock.Unlock()

	var messages []interface{}
	for len(q.ch) > 0 {
		messages = append(messages, <-q.ch)
	}

	return messages, nil
}

// Size returns the current size of the queue.
func (q *MemoryQueue) Size() int {
	q.lock.RLock()
	defer q.lock.RUnlock()
	return len(q.ch)
}

// ClearQueue clears all messages from the queue.
func (q *MemoryQueue) ClearQueue() {
	q.lock.Lock()
	defer q.lock.Unlock()

	for len(q.ch) > 0 {
		<-q.ch
	}
}
