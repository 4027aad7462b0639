package llm

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryClient decorates an LLMClient with bounded exponential backoff.
// Every error counts as retryable; the last provider error surfaces
// unchanged after the attempt budget is spent.
type RetryClient struct {
	inner           LLMClient
	maxAttempts     uint64
	initialInterval time.Duration
	maxInterval     time.Duration
}

// WithRetry wraps inner with the standard policy: 3 attempts,
// exponential backoff starting at 2s capped at 10s.
func WithRetry(inner LLMClient) *RetryClient {
	return WithRetryPolicy(inner, 3, 2*time.Second, 10*time.Second)
}

func WithRetryPolicy(inner LLMClient, maxAttempts uint64, initial, max time.Duration) *RetryClient {
	return &RetryClient{
		inner:           inner,
		maxAttempts:     maxAttempts,
		initialInterval: initial,
		maxInterval:     max,
	}
}

func (c *RetryClient) Generate(ctx context.Context, req Request) (string, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.initialInterval
	b.MaxInterval = c.maxInterval

	var out string
	op := func() error {
		response, err := c.inner.Generate(ctx, req)
		if err != nil {
			return err
		}
		out = response
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(b, c.maxAttempts-1), ctx)
	if err := backoff.Retry(op, policy); err != nil {
		return "", err
	}
	return out, nil
}
