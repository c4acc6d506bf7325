package services

import (
	"context"
	"errors"
	"time"
)

// RetryPolicy waits BaseDelay × attempt between attempts.
type RetryPolicy struct {
	Attempts  int
	BaseDelay time.Duration

	// Sleep is swapped out in tests; nil means a context-aware timer.
	Sleep func(ctx context.Context, d time.Duration) error
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Attempts: 3, BaseDelay: time.Second}
}

type permanentError struct{ err error }

func (p *permanentError) Error() string { return p.err.Error() }
func (p *permanentError) Unwrap() error { return p.err }

// Permanent marks err as not worth retrying.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// Retry runs op until it succeeds, returns a Permanent error, or the attempts run
// out. The last error is returned unwrapped from Permanent.
func Retry(ctx context.Context, p RetryPolicy, op func(attempt int) error) error {
	attempts := p.Attempts
	if attempts <= 0 {
		attempts = 1
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = sleepCtx
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = op(attempt)
		if err == nil {
			return nil
		}
		var perm *permanentError
		if errors.As(err, &perm) {
			return perm.err
		}
		if attempt == attempts {
			break
		}
		if serr := sleep(ctx, p.BaseDelay*time.Duration(attempt)); serr != nil {
			return errors.Join(err, serr)
		}
	}
	return err
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
