package ai

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Malformed requests are rejected before any external call is attempted.
var (
	ErrMissingTitle = errors.New("title is required")
	ErrNoTasks      = errors.New("at least one task is required")
)

const defaultTimeout = 20 * time.Second

// Adapter turns breakdown, prioritize and suggest intents into completions. Upstream errors and
// unparseable output are logged and replaced by fallback content; they are never returned.
type Adapter struct {
	completer      Completer
	timeout        time.Duration
	preferFallback bool
	log            zerolog.Logger
}

type Option func(*Adapter)

// WithTimeout bounds every call. After it expires the fallback is used.
func WithTimeout(d time.Duration) Option {
	return func(a *Adapter) {
		if d > 0 {
			a.timeout = d
		}
	}
}

// WithFallbackOnly serves canned content without calling the completer.
func WithFallbackOnly(enabled bool) Option {
	return func(a *Adapter) { a.preferFallback = enabled }
}

// NewAdapter wraps a completer. A nil completer behaves like an absent service.
func NewAdapter(completer Completer, log zerolog.Logger, opts ...Option) *Adapter {
	a := &Adapter{completer: completer, timeout: defaultTimeout, log: log}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Adapter) Breakdown(ctx context.Context, title, description string) (BreakdownResult, error) {
	if strings.TrimSpace(title) == "" {
		return BreakdownResult{}, ErrMissingTitle
	}
	text, err := a.complete(ctx, "breakdown", breakdownPrompt(title, description))
	if err == nil {
		var proposals []SubtaskProposal
		if proposals, err = parseBreakdown(text); err == nil {
			return BreakdownResult{Subtasks: proposals}, nil
		}
	}
	a.degraded("breakdown", err)
	return BreakdownResult{Subtasks: fallbackBreakdown(title), Fallback: true}, nil
}

func (a *Adapter) Prioritize(ctx context.Context, tasks []TaskBrief) (PrioritizeResult, error) {
	if len(tasks) == 0 {
		return PrioritizeResult{}, ErrNoTasks
	}
	for _, t := range tasks {
		if strings.TrimSpace(t.Title) == "" {
			return PrioritizeResult{}, ErrMissingTitle
		}
	}
	text, err := a.complete(ctx, "prioritize", prioritizePrompt(tasks))
	if err == nil {
		var ranked []PrioritizedTask
		if ranked, err = parsePrioritized(text, tasks); err == nil {
			return PrioritizeResult{Tasks: ranked}, nil
		}
	}
	a.degraded("prioritize", err)
	return PrioritizeResult{Tasks: fallbackPrioritized(tasks), Fallback: true}, nil
}

func (a *Adapter) SuggestForTask(ctx context.Context, task TaskBrief) (Suggestion, error) {
	if strings.TrimSpace(task.Title) == "" {
		return Suggestion{}, ErrMissingTitle
	}
	text, err := a.complete(ctx, "suggest", taskSuggestionPrompt(task))
	if err == nil {
		if text, err = parseSuggestion(text); err == nil {
			return Suggestion{Text: text}, nil
		}
	}
	a.degraded("suggest", err)
	return Suggestion{Text: fallbackTaskSuggestion(task), Fallback: true}, nil
}

func (a *Adapter) SuggestForSubtask(ctx context.Context, c SubtaskContext, question string) (Suggestion, error) {
	if strings.TrimSpace(c.Subtask.Title) == "" || strings.TrimSpace(c.Task.Title) == "" {
		return Suggestion{}, ErrMissingTitle
	}
	text, err := a.complete(ctx, "subtask-suggest", subtaskSuggestionPrompt(c, question))
	if err == nil {
		if text, err = parseSuggestion(text); err == nil {
			return Suggestion{Text: text}, nil
		}
	}
	a.degraded("subtask-suggest", err)
	return Suggestion{Text: fallbackSubtaskSuggestion(c, question), Fallback: true}, nil
}

// complete makes the single bounded attempt.
func (a *Adapter) complete(ctx context.Context, intent string, p Prompt) (string, error) {
	if a.preferFallback || a.completer == nil {
		return "", ErrUnavailable
	}
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	start := time.Now()
	text, err := a.completer.Complete(ctx, p)
	a.log.Debug().Str("intent", intent).Dur("elapsed", time.Since(start)).Err(err).Msg("ai completion")
	return text, err
}

func (a *Adapter) degraded(intent string, err error) {
	if a.preferFallback || a.completer == nil {
		a.log.Debug().Str("intent", intent).Msg("ai disabled, serving fallback")
		return
	}
	a.log.Warn().Err(err).Str("intent", intent).Msg("ai unavailable, serving fallback")
}
