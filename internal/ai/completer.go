// Package ai wraps an external text-generation service for task breakdown, prioritization and
// suggestions. Every upstream failure is absorbed here and replaced by deterministic fallback content.
package ai

import (
	"context"
	"errors"
)

// ErrUnavailable means no completion could be obtained: the service is not configured,
// fallback mode is forced, or the call failed.
var ErrUnavailable = errors.New("ai service unavailable")

// Prompt is a single system+user exchange.
type Prompt struct {
	System string
	User   string
	// JSON asks the service for a JSON object response.
	JSON bool
}

// Completer returns the raw text the model produced for a prompt.
type Completer interface {
	Complete(ctx context.Context, p Prompt) (string, error)
}

// CompleterFunc adapts a function to Completer.
type CompleterFunc func(ctx context.Context, p Prompt) (string, error)

func (f CompleterFunc) Complete(ctx context.Context, p Prompt) (string, error) {
	return f(ctx, p)
}
