package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/nmehta/coursegen/internal/llm"
)

const MaxRetries = 3

// IsRetryable checks if an error is worth retrying.
func IsRetryable(err error) bool {
	var retryErr *llm.RetryableError
	return errors.As(err, &retryErr)
}

// Backoff returns a duration for attempt n (0-indexed) with jitter.
func Backoff(attempt int) time.Duration {
	base := time.Duration(1<<uint(attempt)) * time.Second
	if base > 30*time.Second {
		base = 30 * time.Second
	}
	jitter := time.Duration(rand.Int64N(int64(base) / 2))
	return base + jitter
}

// retryingGateway wraps a gateway with bounded retries on rate-limit
// and upstream errors. Non-retryable errors pass through immediately.
type retryingGateway struct {
	next llm.Gateway
	log  *slog.Logger
}

// WithRetries decorates a gateway with the standard retry policy.
func WithRetries(next llm.Gateway, log *slog.Logger) llm.Gateway {
	return &retryingGateway{next: next, log: log}
}

func (g *retryingGateway) Generate(ctx context.Context, req llm.Request) (string, error) {
	var text string
	var lastErr error
	for attempt := range MaxRetries {
		text, lastErr = g.next.Generate(ctx, req)
		if lastErr == nil || !IsRetryable(lastErr) {
			return text, lastErr
		}
		g.log.Warn("retryable llm error", "attempt", attempt, "error", lastErr)
		select {
		case <-time.After(Backoff(attempt)):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return text, lastErr
}

func (g *retryingGateway) Name() string { return g.next.Name() }

func (g *retryingGateway) Close() { g.next.Close() }
