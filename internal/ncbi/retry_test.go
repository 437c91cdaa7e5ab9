package ncbi

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/pmcgrab/internal/errs"
)

func TestRetryPolicyShouldRetry(t *testing.T) {
	p := NewRetryPolicy()
	assert.True(t, p.ShouldRetry(1, errs.NetworkError))
	assert.False(t, p.ShouldRetry(1, errs.NotFound))
	assert.False(t, p.ShouldRetry(p.MaxAttempts, errs.NetworkError))
}

func TestRetryPolicyCalculateBackoffCapped(t *testing.T) {
	p := NewRetryPolicy()
	for attempt := 1; attempt <= 10; attempt++ {
		backoff := p.CalculateBackoff(attempt)
		assert.LessOrEqual(t, backoff, p.MaxBackoff+p.MaxBackoff/4)
		assert.GreaterOrEqual(t, backoff, time.Duration(0))
	}
}

func TestExecuteWithRetrySucceedsAfterFailures(t *testing.T) {
	p := RetryPolicy{MaxAttempts: 3, InitialBackoff: 0, MaxBackoff: 0, BackoffMultiplier: 2}
	calls := 0
	attempt, err := ExecuteWithRetry(context.Background(), nil, p, nil, func() error {
		calls++
		if calls < 3 {
			return errs.New(errs.NetworkError, "op", errors.New("transient"))
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 3, attempt.Count)
	assert.Equal(t, StateSucceeded, attempt.State)
}

func TestExecuteWithRetryGivesUpOnNonRetriable(t *testing.T) {
	p := NewRetryPolicy()
	calls := 0
	_, err := ExecuteWithRetry(context.Background(), nil, p, nil, func() error {
		calls++
		return errs.New(errs.ValidationError, "op", errors.New("bad input"))
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestExecuteWithRetryHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := NewRetryPolicy()
	_, err := ExecuteWithRetry(ctx, nil, p, nil, func() error {
		t.Fatal("fn must not run once context is already cancelled")
		return nil
	})
	assert.ErrorIs(t, err, errs.New(errs.Cancelled, "", nil))
}
