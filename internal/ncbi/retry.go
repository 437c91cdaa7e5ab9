package ncbi

import (
	"context"
	"math/rand"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/pmcgrab/internal/errs"
)

// RetryPolicy implements the C3 retry/backoff contract: up to MaxAttempts
// (default 3), delay before attempt k (k>=2) is
// InitialBackoff * 2^(k-2), capped at MaxBackoff, then jittered +/-25%
// (so a delay can reach 1.25 * MaxBackoff).
// Grounded on internal/services/crawler/retry.go's RetryPolicy.
type RetryPolicy struct {
	MaxAttempts       int
	InitialBackoff    time.Duration
	MaxBackoff        time.Duration
	BackoffMultiplier float64
}

func NewRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:       defaultRetries,
		InitialBackoff:    1 * time.Second,
		MaxBackoff:        30 * time.Second,
		BackoffMultiplier: 2.0,
	}
}

// ShouldRetry reports whether another attempt should be made given the
// Kind of the last failure and how many attempts have already been made.
func (p RetryPolicy) ShouldRetry(attempt int, kind errs.Kind) bool {
	if attempt >= p.MaxAttempts {
		return false
	}
	return kind.Retriable()
}

// CalculateBackoff returns the jittered delay before attempt (1-indexed).
// attempt=1 is the first retry (i.e. k=2 in the spec's k>=2 formula).
func (p RetryPolicy) CalculateBackoff(attempt int) time.Duration {
	backoff := float64(p.InitialBackoff) * pow(p.BackoffMultiplier, float64(attempt-1))
	if backoff > float64(p.MaxBackoff) {
		backoff = float64(p.MaxBackoff)
	}

	jitter := (rand.Float64()*2 - 1) * 0.25 * backoff
	result := time.Duration(backoff + jitter)
	if result < 0 {
		result = 0
	}
	return result
}

// pow computes base^exp for non-negative integer-valued exponents without
// pulling in math.Pow's float edge-case handling, matching the reference
// stack's own hand-rolled helper.
func pow(base, exp float64) float64 {
	result := 1.0
	for i := 0.0; i < exp; i++ {
		result *= base
	}
	return result
}

// State is the explicit retry state machine the spec's design notes
// require (Idle -> Scheduled -> InFlight -> Succeeded|Failed|Retrying(k))
// so fault-injection tests can assert attempt counts directly.
type State int

const (
	StateIdle State = iota
	StateScheduled
	StateInFlight
	StateSucceeded
	StateFailed
	StateRetrying
)

// Attempt tracks one item's progress through the retry state machine.
type Attempt struct {
	State   State
	Count   int
	LastErr error
}

// ExecuteWithRetry runs fn, retrying on retriable errs.Kind failures per
// policy, honoring ctx cancellation between attempts and deferring to the
// caller-supplied waitToken (the C2 rate limiter) before every attempt,
// including retries. Grounded on crawler/retry.go's ExecuteWithRetry.
func ExecuteWithRetry(ctx context.Context, logger arbor.ILogger, policy RetryPolicy, waitToken func(context.Context) error, fn func() error) (*Attempt, error) {
	a := &Attempt{State: StateScheduled}

	for attempt := 1; ; attempt++ {
		a.Count = attempt
		a.State = StateInFlight

		if err := ctx.Err(); err != nil {
			a.State = StateFailed
			a.LastErr = errs.New(errs.Cancelled, "ExecuteWithRetry", err)
			return a, a.LastErr
		}

		if waitToken != nil {
			if err := waitToken(ctx); err != nil {
				a.State = StateFailed
				a.LastErr = errs.New(errs.Cancelled, "ExecuteWithRetry.waitToken", err)
				return a, a.LastErr
			}
		}

		err := fn()
		if err == nil {
			a.State = StateSucceeded
			a.LastErr = nil
			return a, nil
		}

		a.LastErr = err
		kind := errs.KindOf(err)

		if !policy.ShouldRetry(attempt, kind) {
			a.State = StateFailed
			return a, err
		}

		a.State = StateRetrying
		backoff := policy.CalculateBackoff(attempt)
		if logger != nil {
			logger.Warn().
				Int("attempt", attempt).
				Str("kind", string(kind)).
				Dur("backoff", backoff).
				Msg("retrying after failure")
		}

		select {
		case <-ctx.Done():
			a.State = StateFailed
			a.LastErr = errs.New(errs.Cancelled, "ExecuteWithRetry", ctx.Err())
			return a, a.LastErr
		case <-time.After(backoff):
		}
	}
}
