package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithRetryStopsAfterMaxRetries(t *testing.T) {
	attempts := 0
	err := withRetry(context.Background(), 0, func() error {
		attempts++
		return errors.New("provider unavailable")
	})
	require.Error(t, err)
	assert.Equal(t, 1, attempts)
}

func TestWithRetryRecoversFromTransientFailure(t *testing.T) {
	attempts := 0
	err := withRetry(context.Background(), 2, func() error {
		attempts++
		if attempts == 1 {
			return errors.New("transient")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
}

func TestWithRetryHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	attempts := 0
	err := withRetry(ctx, 5, func() error {
		attempts++
		return errors.New("still failing")
	})
	require.Error(t, err)
	assert.Equal(t, 1, attempts)
}
