package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/pawtally/pawtally/internal/domain"
	"github.com/pawtally/pawtally/pkg/logger"
)

type ballotQueue struct {
	client   *redis.Client
	queueKey string
	popWait  time.Duration
}

var _ domain.BallotQueue = (*ballotQueue)(nil)

// Option configures the ballot queue.
type Option func(*ballotQueue)

// WithPopTimeout bounds how long a single BlockingPop call suspends before
// returning empty. Zero (the default) blocks until an entry arrives.
func WithPopTimeout(d time.Duration) Option {
	return func(q *ballotQueue) {
		q.popWait = d
	}
}

// NewBallotQueue creates a Redis-backed vote queue on the given list key.
func NewBallotQueue(client *redis.Client, queueKey string, opts ...Option) *ballotQueue {
	q := &ballotQueue{client: client, queueKey: queueKey}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Push appends a vote to the head of the queue list.
func (q *ballotQueue) Push(ctx context.Context, option domain.Option) error {
	err := q.client.LPush(ctx, q.queueKey, option.String()).Err()
	if err != nil {
		logger.Error("Failed to push vote onto queue",
			logger.String("option", option.String()),
			logger.ErrorField(err),
		)
		return fmt.Errorf("failed to push vote: %w", err)
	}

	logger.Debug("Vote enqueued",
		logger.String("option", option.String()),
	)

	return nil
}

// BlockingPop removes the next entry from the tail of the queue list,
// suspending until one exists. The raw string is returned undecoded; the
// caller owns validation. An empty string with nil error means the bounded
// wait elapsed with nothing queued.
func (q *ballotQueue) BlockingPop(ctx context.Context) (string, error) {
	result, err := q.client.BRPop(ctx, q.popWait, q.queueKey).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil // Nothing queued within the wait window
		}
		return "", fmt.Errorf("failed to pop vote: %w", err)
	}

	if len(result) < 2 {
		return "", fmt.Errorf("unexpected queue result format")
	}

	return result[1], nil
}

// Len returns the current number of queued entries.
func (q *ballotQueue) Len(ctx context.Context) (int64, error) {
	length, err := q.client.LLen(ctx, q.queueKey).Result()
	if err != nil {
		logger.Error("Failed to get queue length", logger.ErrorField(err))
		return 0, fmt.Errorf("failed to get queue length: %w", err)
	}

	return length, nil
}

// Ping probes queue store connectivity.
func (q *ballotQueue) Ping(ctx context.Context) error {
	return q.client.Ping(ctx).Err()
}
