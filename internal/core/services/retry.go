package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/money_reconcile/internal/apperrors"
	"github.com/cenkalti/backoff/v4"
)

// RetryPolicy bounds how often a conflicting transaction is replayed.
type RetryPolicy struct {
	MaxRetries      uint64
	InitialInterval time.Duration
	MaxElapsedTime  time.Duration
}

// DefaultRetryPolicy retries serialization conflicts five times within five seconds.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:      5,
		InitialInterval: 50 * time.Millisecond,
		MaxElapsedTime:  5 * time.Second,
	}
}

func (p RetryPolicy) newBackOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	if p.InitialInterval > 0 {
		b.InitialInterval = p.InitialInterval
	}
	b.MaxInterval = 10 * b.InitialInterval
	b.MaxElapsedTime = p.MaxElapsedTime
	return backoff.WithContext(backoff.WithMaxRetries(b, p.MaxRetries), ctx)
}

// runWithRetry replays op while it fails with apperrors.ErrConflict. Every other error stops
// immediately. op must be safe to run again from scratch, i.e. it owns its whole transaction.
func runWithRetry(ctx context.Context, policy RetryPolicy, logger *slog.Logger, name string, op func() error) error {
	attempts := 0
	err := backoff.RetryNotify(func() error {
		attempts++
		err := op()
		if err == nil || errors.Is(err, apperrors.ErrConflict) {
			return err
		}
		return backoff.Permanent(err)
	}, policy.newBackOff(ctx), func(err error, wait time.Duration) {
		logger.Warn("Retrying after transaction conflict",
			slog.String("operation", name),
			slog.Int("attempt", attempts),
			slog.Duration("wait", wait),
			slog.String("error", err.Error()))
	})
	if err != nil && errors.Is(err, apperrors.ErrConflict) {
		return fmt.Errorf("%s gave up after %d attempts: %w", name, attempts, err)
	}
	return err
}
