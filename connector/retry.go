package connector

import (
	"context"
	"time"
)

// retryConnect invokes connectFn up to cfg.MaxRetries+1 times with
// exponential backoff between attempts.
func retryConnect(ctx context.Context, cfg *RetryConfig, connectFn func(context.Context) error) error {
	delay := cfg.BaseDelay
	if delay == 0 {
		delay = time.Second
	}

	var err error
	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		err = connectFn(ctx)
		if err == nil {
			return nil
		}
		if attempt == cfg.MaxRetries {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			delay *= 2
			if cfg.MaxDelay > 0 && delay > cfg.MaxDelay {
				delay = cfg.MaxDelay
			}
		}
	}
	return err
}
