package mq

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MemoryQueue is an in-process TaskQueue with real ack/nack bookkeeping.
// It backs local development and the test suite; durability is the only
// contract point it does not honor.
type MemoryQueue struct {
	mu       sync.Mutex
	seq      int
	pending  map[string][]*memJob
	inflight map[string]*memJob
	acked    map[string]int
	failing  bool
}

type memJob struct {
	id    string
	queue string
	body  []byte
}

// NewMemoryQueue creates an empty in-memory queue.
func NewMemoryQueue() *MemoryQueue {
	return &MemoryQueue{
		pending:  make(map[string][]*memJob),
		inflight: make(map[string]*memJob),
		acked:    make(map[string]int),
	}
}

// SetFailing makes every Publish fail with ErrUnavailable, simulating an
// unreachable broker.
func (q *MemoryQueue) SetFailing(failing bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.failing = failing
}

// Publish appends one message to the tail of the queue.
func (q *MemoryQueue) Publish(ctx context.Context, queue string, body []byte) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.failing {
		return fmt.Errorf("memory queue: %w", ErrUnavailable)
	}

	q.seq++
	job := &memJob{
		id:    fmt.Sprintf("job-%d", q.seq),
		queue: queue,
		body:  append([]byte(nil), body...),
	}
	q.pending[queue] = append(q.pending[queue], job)
	return nil
}

// Consume pops the head of the queue, blocking up to timeout. The ttr
// argument is accepted for interface parity; redelivery here happens only
// through an explicit Nack.
func (q *MemoryQueue) Consume(ctx context.Context, queue string, timeout, ttr time.Duration) (*Message, error) {
	deadline := time.Now().Add(timeout)
	for {
		q.mu.Lock()
		if jobs := q.pending[queue]; len(jobs) > 0 {
			job := jobs[0]
			q.pending[queue] = jobs[1:]
			q.inflight[job.id] = job
			q.mu.Unlock()
			return &Message{ID: job.id, Body: job.body}, nil
		}
		q.mu.Unlock()

		if time.Now().After(deadline) {
			return nil, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(5 * time.Millisecond):
		}
	}
}

// Ack permanently removes a delivered message.
func (q *MemoryQueue) Ack(ctx context.Context, queue, jobID string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if _, ok := q.inflight[jobID]; !ok {
		return fmt.Errorf("memory queue: ack of unknown job %s", jobID)
	}
	delete(q.inflight, jobID)
	q.acked[queue]++
	return nil
}

// Nack returns a delivered message to the tail of its queue.
func (q *MemoryQueue) Nack(ctx context.Context, queue, jobID string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	job, ok := q.inflight[jobID]
	if !ok {
		return fmt.Errorf("memory queue: nack of unknown job %s", jobID)
	}
	delete(q.inflight, jobID)
	q.pending[queue] = append(q.pending[queue], job)
	return nil
}

// Pending reports how many messages are waiting on a queue.
func (q *MemoryQueue) Pending(queue string) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending[queue])
}

// Inflight reports how many deliveries are awaiting ack or nack.
func (q *MemoryQueue) Inflight() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.inflight)
}

// Acked reports how many messages were permanently removed from a queue.
func (q *MemoryQueue) Acked(queue string) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.acked[queue]
}
