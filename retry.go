package ganhos

import (
	"context"
	"fmt"
	"time"
)

// ErrorKind classifies a failure of an external call, deciding whether it
// is worth retrying. It replaces dispatching on concrete error types.
type ErrorKind int

const (
	// KindFatal failures are never retried.
	KindFatal ErrorKind = iota
	// KindTransient failures (throttling, timeouts) are retried with backoff.
	KindTransient
	// KindNotFound means the collaborator had no data; the caller owns any
	// fallback policy (e.g. the Resolver's day-walk), so it is not retried.
	KindNotFound
)

// Classifier maps an error to its ErrorKind.
type Classifier func(error) ErrorKind

// Retry runs fn, retrying with exponential backoff while classify reports a
// transient failure. attempts bounds the total number of calls; attempts <= 0
// retries transient failures indefinitely, which is the deliberate policy
// for throttled document-extraction calls. Every other error kind fails
// immediately. The context cancels the wait between attempts.
func Retry(ctx context.Context, attempts int, initial time.Duration, classify Classifier, fn func(context.Context) error) error {
	const maxDelay = time.Minute
	delay := initial
	if delay <= 0 {
		delay = time.Second
	}
	for attempt := 1; ; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if classify(err) != KindTransient {
			return err
		}
		if attempts > 0 && attempt >= attempts {
			return fmt.Errorf("giving up after %d attempts: %w", attempt, err)
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("retry interrupted: %w", ctx.Err())
		case <-time.After(delay):
		}
		if delay *= 2; delay > maxDelay {
			delay = maxDelay
		}
	}
}
