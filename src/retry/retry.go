// Package retry wraps remote calls with bounded exponential backoff.
// Transient failures are retried with jitter; permanent failures (auth,
// malformed requests) abort immediately. When the attempt budget runs out
// the last observed error is surfaced, not a generic timeout.
package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

const (
	DefaultMaxAttempts = 5
	DefaultBaseDelay   = 1 * time.Second
	DefaultMaxDelay    = 30 * time.Second
)

// Policy configures retry behavior for a family of remote calls.
// The zero value retries everything with the defaults above.
type Policy struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int
	// BaseDelay seeds the exponential backoff; jitter is applied on top.
	BaseDelay time.Duration
	// MaxDelay caps a single backoff interval.
	MaxDelay time.Duration
	// Classify reports whether an error is transient. A nil Classify
	// treats every error as transient.
	Classify func(error) bool
	Logger   *zap.Logger
}

func (p Policy) withDefaults() Policy {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = DefaultMaxAttempts
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = DefaultBaseDelay
	}
	if p.MaxDelay <= 0 {
		p.MaxDelay = DefaultMaxDelay
	}
	if p.Logger == nil {
		p.Logger = zap.NewNop()
	}
	return p
}

// Do runs op until it succeeds, fails permanently, or the attempt budget
// is exhausted. Each retry is logged with the attempt number and delay.
func (p Policy) Do(ctx context.Context, name string, op func() error) error {
	p = p.withDefaults()

	attempt := 0
	wrapped := func() error {
		attempt++
		err := op()
		if err == nil {
			return nil
		}
		if p.Classify != nil && !p.Classify(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = p.BaseDelay
	bo.MaxInterval = p.MaxDelay
	bo.MaxElapsedTime = 0 // bounded by attempt count, not wall clock

	notify := func(err error, delay time.Duration) {
		p.Logger.Warn("transient failure, backing off",
			zap.String("op", name),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", p.MaxAttempts),
			zap.Duration("delay", delay),
			zap.Error(err))
	}

	b := backoff.WithContext(backoff.WithMaxRetries(bo, uint64(p.MaxAttempts-1)), ctx)
	return backoff.RetryNotify(wrapped, b, notify)
}

// Value is Do for operations that return a result.
func Value[T any](ctx context.Context, p Policy, name string, op func() (T, error)) (T, error) {
	var out T
	err := p.Do(ctx, name, func() error {
		v, err := op()
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	return out, err
}
