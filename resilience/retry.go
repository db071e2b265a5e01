package resilience

import (
	"context"
	"math"
	"math/rand/v2"
	"time"
)

// RetryConfig configures retry behavior with exponential backoff.
type RetryConfig struct {
	// MaxAttempts is the maximum number of attempts including the first.
	// Default: 3
	MaxAttempts int

	// InitialDelay is the delay before the first retry.
	// Default: 250ms
	InitialDelay time.Duration

	// MaxDelay caps the delay between retries.
	// Default: 10s
	MaxDelay time.Duration

	// Multiplier is the backoff multiplier.
	// Default: 2.0
	Multiplier float64

	// Jitter adds up to 25% randomness to each delay so that synchronized
	// callers do not retry in lockstep.
	// Default: true when the zero value config is used via NewRetry.
	Jitter bool

	// RetryIf decides whether an error is worth retrying.
	// Default: every non-nil error.
	RetryIf func(err error) bool

	// OnRetry is called before each retry attempt.
	OnRetry func(attempt int, err error, delay time.Duration)
}

// Retry runs operations with backoff between failed attempts.
type Retry struct {
	config RetryConfig
}

// NewRetry creates a retry handler, applying defaults to zero fields.
func NewRetry(config RetryConfig) *Retry {
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 3
		config.Jitter = true
	}
	if config.InitialDelay <= 0 {
		config.InitialDelay = 250 * time.Millisecond
	}
	if config.MaxDelay <= 0 {
		config.MaxDelay = 10 * time.Second
	}
	if config.Multiplier <= 0 {
		config.Multiplier = 2.0
	}
	if config.RetryIf == nil {
		config.RetryIf = func(err error) bool { return err != nil }
	}
	return &Retry{config: config}
}

// Execute runs op, retrying retryable failures until the attempt budget is
// spent or the context is done. The last error is returned.
func (r *Retry) Execute(ctx context.Context, op func(context.Context) error) error {
	var lastErr error

	for attempt := 1; attempt <= r.config.MaxAttempts; attempt++ {
		err := op(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if !r.config.RetryIf(err) {
			return err
		}
		if attempt >= r.config.MaxAttempts {
			break
		}

		delay := r.delay(attempt)
		if r.config.OnRetry != nil {
			r.config.OnRetry(attempt, err, delay)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	return lastErr
}

func (r *Retry) delay(attempt int) time.Duration {
	backoff := float64(r.config.InitialDelay) * math.Pow(r.config.Multiplier, float64(attempt-1))
	delay := time.Duration(backoff)
	if delay > r.config.MaxDelay {
		delay = r.config.MaxDelay
	}
	if r.config.Jitter && delay > 0 {
		// #nosec G404 -- jitter is non-cryptographic timing variance.
		delay += time.Duration(rand.Int64N(int64(delay / 4)))
	}
	return delay
}

// Config returns the retry configuration.
func (r *Retry) Config() RetryConfig {
	return r.config
}
