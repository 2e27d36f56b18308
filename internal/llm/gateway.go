// Package llm is the single choke-point for text generation: a Gateway
// interface with Gemini and Claude implementations, a process-lifetime
// generation cache, and rolling latency stats.
package llm

import (
	"context"
	"fmt"
)

// Request carries one generation call's prompt and sampling parameters.
type Request struct {
	Prompt      string
	Temperature float32 // in [0,1]; stage defaults are supplied by callers
	MaxTokens   int     // upper bound on generated length; 0 = provider default
}

// Gateway issues a generation request and returns text or a typed failure.
// Implementations do not retry; retry policy belongs to callers.
type Gateway interface {
	Generate(ctx context.Context, req Request) (string, error)
	Name() string
	Close()
}

// GenerationError is a non-transport failure from the model or provider.
// It carries a human-readable cause so a failed node can be located and rerun.
type GenerationError struct {
	Provider string
	Cause    string
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s generation failed: %s", e.Provider, e.Cause)
}

// RetryableError indicates a transient failure (rate limit, 5xx) that a
// caller may retry.
type RetryableError struct {
	StatusCode int
	Message    string
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("retryable error (status %d): %s", e.StatusCode, truncate(e.Message, 200))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
