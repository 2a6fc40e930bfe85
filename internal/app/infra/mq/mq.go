package mq

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable marks publish failures caused by an unreachable broker.
// The submission path maps it to 503 so callers know to retry.
var ErrUnavailable = errors.New("queueing service unavailable")

// Message is a single delivery pulled off the queue. ID identifies the
// delivery for Ack/Nack; Body is the JSON-serialized demand.
type Message struct {
	ID   string
	Body []byte
}

// TaskQueue is the contract the pipeline needs from the queue transport:
// durable publish, blocking at-least-once consume, and explicit
// acknowledge / negative-acknowledge per delivery.
type TaskQueue interface {
	// Publish appends one durable message. The message either lands on
	// the queue completely or not at all.
	Publish(ctx context.Context, queue string, body []byte) error

	// Consume blocks up to timeout waiting for a delivery. A nil Message
	// with nil error means the wait timed out with the queue empty. The
	// delivery must be Acked or Nacked within ttr or it is redelivered.
	Consume(ctx context.Context, queue string, timeout, ttr time.Duration) (*Message, error)

	// Ack permanently removes a delivered message.
	Ack(ctx context.Context, queue, jobID string) error

	// Nack returns a delivered message to the queue for another attempt.
	Nack(ctx context.Context, queue, jobID string) error
}
