package lmstfy

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
	"time"

	"github.com/bitleak/lmstfy/client"

	"github.com/gmar02/tccprot/internal/app/infra/mq"
)

// Jobs never expire on their own; only an ack removes them.
const jobTTL = 0

// Client adapts the lmstfy broker to the mq.TaskQueue contract.
type Client struct {
	cli      *client.LmstfyClient
	maxTries int
}

// NewClient creates an lmstfy-backed task queue. maxTries is the broker
// retry budget per job; a job that exhausts it is moved to the dead letter.
func NewClient(host string, port int, namespace, token string, maxTries int) (*Client, error) {
	if host == "" {
		return nil, errors.New("lmstfy host is required")
	}
	if maxTries < 1 {
		maxTries = 1
	}
	return &Client{
		cli:      client.NewLmstfyClient(host, port, namespace, token),
		maxTries: maxTries,
	}, nil
}

// Publish appends one durable job to the queue.
func (c *Client) Publish(ctx context.Context, queue string, body []byte) error {
	_, err := c.cli.Publish(queue, body, jobTTL, uint16(c.maxTries), 0)
	if err != nil {
		if isConnError(err) {
			return fmt.Errorf("lmstfy publish: %w: %s", mq.ErrUnavailable, err)
		}
		return fmt.Errorf("lmstfy publish failed: %w", err)
	}
	return nil
}

// Consume blocks up to timeout waiting for a job. The job must be acked
// within ttr or the broker redelivers it.
func (c *Client) Consume(ctx context.Context, queue string, timeout, ttr time.Duration) (*mq.Message, error) {
	ttrSec := uint32(ttr.Seconds())
	timeoutSec := uint32(timeout.Seconds())

	job, err := c.cli.Consume(queue, ttrSec, timeoutSec)
	if err != nil {
		return nil, fmt.Errorf("lmstfy consume failed: %w", err)
	}
	if job == nil {
		// Timed out with the queue empty.
		return nil, nil
	}

	return &mq.Message{ID: job.ID, Body: job.Data}, nil
}

// Ack permanently removes a delivered job.
func (c *Client) Ack(ctx context.Context, queue, jobID string) error {
	if err := c.cli.Ack(queue, jobID); err != nil {
		return fmt.Errorf("lmstfy ack failed: %w", err)
	}
	return nil
}

// Nack leaves the job unacked; the broker requeues it when its TTR
// expires and counts the attempt against the job's tries budget. lmstfy
// has no explicit negative-ack verb, so there is nothing to send.
func (c *Client) Nack(ctx context.Context, queue, jobID string) error {
	return nil
}

// isConnError distinguishes an unreachable broker from a broker that
// answered with an error.
func isConnError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.EHOSTUNREACH)
}
