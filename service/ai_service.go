package service

import (
	"context"

	"github.com/cenkalti/backoff/v4"
)

// Generator produces a natural-language completion for a prompt. The
// pipeline runs generators with deterministic settings (temperature 0)
// so answers are reproducible for a given store and question.
type Generator interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// withRetry runs op with bounded exponential backoff, giving up after
// maxRetries retries or when ctx is done.
func withRetry(ctx context.Context, maxRetries int, op backoff.Operation) error {
	return backoff.Retry(op, backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(maxRetries)), ctx))
}
