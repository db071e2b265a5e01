package resilience

import (
	"context"
	"errors"
	"time"
)

// ExecuteWithTimeout runs op under a deadline. A deadline overrun maps to
// ErrTimeout; other context errors pass through.
func ExecuteWithTimeout(ctx context.Context, timeout time.Duration, op func(context.Context) error) error {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	err := op(ctx)
	if err != nil && errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	if err == nil && ctx.Err() == context.DeadlineExceeded {
		return ErrTimeout
	}
	return err
}
