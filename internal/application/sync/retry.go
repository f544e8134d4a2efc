package sync

import (
	"context"
	"errors"
	"time"

	"github.com/sethvargo/go-retry"
)

// Policy controls how failed order syncs are retried. Attempts is the
// number of retries after the first try; zero disables retrying.
type Policy struct {
	Attempts int
	Delay    time.Duration
}

// NoRetry is the policy used for paths that must fail fast, such as
// manual uploads where the operator is watching the response.
var NoRetry = Policy{}

// permanentError wraps an error the policy must not retry
type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err so Policy.Do gives up immediately
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsPermanent reports whether err was marked with Permanent
func IsPermanent(err error) bool {
	var pe *permanentError
	return errors.As(err, &pe)
}

// Do runs fn, retrying transient failures with a constant delay until
// the attempt budget is spent. Errors marked Permanent and context
// cancellation stop immediately.
func (p Policy) Do(ctx context.Context, fn func(context.Context) error) error {
	if p.Attempts <= 0 {
		return fn(ctx)
	}

	delay := p.Delay
	if delay <= 0 {
		delay = time.Second
	}

	b := retry.WithMaxRetries(uint64(p.Attempts), retry.NewConstant(delay))
	return retry.Do(ctx, b, func(ctx context.Context) error {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if IsPermanent(err) {
			return err
		}
		return retry.RetryableError(err)
	})
}
