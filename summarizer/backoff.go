package summarizer

import (
	"context"
	"math/rand"
	"time"
)

const maxBackoff = 30 * time.Second

// calculateBackoff returns exponential backoff with up to ±25% jitter.
func calculateBackoff(baseDelay time.Duration, attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}
	if attempt > 30 {
		attempt = 30
	}
	backoff := baseDelay * time.Duration(1<<uint(attempt))
	if backoff > maxBackoff {
		backoff = maxBackoff
	}
	jitter := time.Duration(rand.Int63n(int64(backoff)/2)) - backoff/4
	return backoff + jitter
}

// sleepCtx blocks for d or until ctx is canceled, whichever comes first.
// Backoff waits must never outlive the surrounding request.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
