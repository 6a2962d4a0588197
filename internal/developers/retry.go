package developers

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"gocloud.dev/gcerrors"

	"github.com/preston-bernstein/games-api/internal/logging"
)

const (
	defaultRetryAttempts = 3
	defaultBackoff       = 200 * time.Millisecond
)

type backoffFunc func(attempt int) time.Duration

// retryPolicy retries transient bucket failures with linear backoff.
type retryPolicy struct {
	maxAttempts int
	backoffFn   backoffFunc
}

func newRetryPolicy(maxAttempts int, backoff time.Duration) retryPolicy {
	if maxAttempts <= 0 {
		maxAttempts = defaultRetryAttempts
	}
	if backoff <= 0 {
		backoff = defaultBackoff
	}
	return retryPolicy{
		maxAttempts: maxAttempts,
		backoffFn: func(attempt int) time.Duration {
			return time.Duration(attempt) * backoff
		},
	}
}

// do runs fn until it succeeds, returns a permanent error, or attempts run out.
func (p retryPolicy) do(ctx context.Context, logger *slog.Logger, fn func(context.Context) error) error {
	var lastErr error
	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retryable(err) || attempt == p.maxAttempts {
			break
		}

		logging.Warn(logging.FromContext(ctx, logger), "developer list read retry",
			"attempt", attempt, "max_attempts", p.maxAttempts, "err", err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.backoffFn(attempt)):
		}
	}
	return lastErr
}

// retryable reports whether err may clear on a later attempt.
func retryable(err error) bool {
	if errors.Is(err, ErrDirectoryNotFound) || errors.Is(err, ErrDirectoryDecode) ||
		errors.Is(err, errNoBucket) ||
		errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	switch gcerrors.Code(err) {
	case gcerrors.NotFound, gcerrors.PermissionDenied, gcerrors.InvalidArgument, gcerrors.Unimplemented:
		return false
	}
	return true
}
