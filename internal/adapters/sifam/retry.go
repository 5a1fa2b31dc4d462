package sifam

import (
	"context"
	"errors"
	"time"
)

const (
	lookupRetryMax       = 3
	lookupRetryBaseDelay = 800 * time.Millisecond
)

// RetryPolicy retries a fallible operation with linearly increasing
// backoff: the wait after attempt i is BaseDelay*(i+1). It is decoupled
// from the operation being retried so it can be tested on its own.
type RetryPolicy struct {
	Attempts  int
	BaseDelay time.Duration
}

func defaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Attempts: lookupRetryMax, BaseDelay: lookupRetryBaseDelay}
}

func (p RetryPolicy) Do(ctx context.Context, fn func() error) error {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}
	var last error
	for i := 0; i < attempts; i++ {
		last = fn()
		if last == nil {
			return nil
		}
		var perm *permanentError
		if errors.As(last, &perm) {
			return perm.err
		}
		if i == attempts-1 {
			break
		}
		if err := sleepWithContext(ctx, p.BaseDelay*time.Duration(i+1)); err != nil {
			return err
		}
	}
	return last
}

// Permanent marks an error that must not be retried, e.g. a well-formed
// not-found answer. Do unwraps it before returning.
func Permanent(err error) error {
	return &permanentError{err: err}
}

type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

func sleepWithContext(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
