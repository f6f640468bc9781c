// Package retry implements bounded exponential backoff for transient
// provider failures (rate limits, timeouts, 5xx responses).
package retry

import (
	"context"
	"math/rand"
	"time"
)

// Operation is a single retryable unit of work.
type Operation = func() error

// Config controls the backoff schedule.
type Config struct {
	MaxRetries    int
	BackoffFactor float64
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	Jitter        time.Duration
}

// NewDefaultConfig returns the schedule used for provider calls:
// three attempts total with exponential backoff capped at five seconds.
func NewDefaultConfig() *Config {
	return &Config{
		MaxRetries:    2,
		BackoffFactor: 2.0,
		InitialDelay:  250 * time.Millisecond,
		MaxDelay:      5 * time.Second,
		Jitter:        50 * time.Millisecond,
	}
}

// Retrier runs operations with the configured backoff schedule.
type Retrier struct {
	config *Config
	rnd    *rand.Rand
}

// NewRetrier creates a Retrier from the given config.
func NewRetrier(config *Config) *Retrier {
	return &Retrier{
		config: config,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// NewDefaultRetrier creates a Retrier with the default provider schedule.
func NewDefaultRetrier() *Retrier {
	return NewRetrier(NewDefaultConfig())
}

// Do runs op, retrying on error up to MaxRetries additional attempts.
// It returns the last error when retries are exhausted, or ctx.Err() when
// the caller cancels mid-backoff.
func (r *Retrier) Do(ctx context.Context, op Operation) error {
	return r.DoIf(ctx, op, func(error) bool { return true })
}

// DoIf runs op like Do but consults retryable before sleeping: a false
// return surfaces the error immediately. Validation failures and other
// permanent errors use this to skip the backoff entirely.
func (r *Retrier) DoIf(ctx context.Context, op Operation, retryable func(error) bool) error {
	var err error
	delay := r.config.InitialDelay

	for attempt := 0; attempt <= r.config.MaxRetries; attempt++ {
		err = op()
		if err == nil {
			return nil
		}
		if attempt == r.config.MaxRetries || !retryable(err) {
			return err
		}

		jitter := time.Duration(r.rnd.Float64() * float64(r.config.Jitter))
		nextDelay := delay + jitter
		if nextDelay > r.config.MaxDelay {
			nextDelay = r.config.MaxDelay + jitter
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(nextDelay):
		}

		delay = time.Duration(float64(delay) * r.config.BackoffFactor)
		if delay > r.config.MaxDelay {
			delay = r.config.MaxDelay
		}
	}
	return err
}
