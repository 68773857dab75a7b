package openai

import (
	"context"
	"errors"

	"github.com/poiesic/mithril/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// classifyError maps a provider error onto an ai.ChatError.
func classifyError(ctx context.Context, err error) *ai.ChatError {
	if errors.Is(err, context.DeadlineExceeded) {
		return &ai.ChatError{Retryable: true, Err: err}
	}
	if errors.Is(err, context.Canceled) || ctx.Err() == context.Canceled {
		return &ai.ChatError{Retryable: false, Err: err}
	}

	var llmErr *llms.Error
	if !errors.As(openai.MapError(err), &llmErr) {
		return &ai.ChatError{Retryable: true, Err: err}
	}

	switch llmErr.Code {
	case llms.ErrCodeRateLimit,
		llms.ErrCodeTimeout,
		llms.ErrCodeProviderUnavailable,
		llms.ErrCodeUnknown:
		return &ai.ChatError{Retryable: true, Err: err}
	default:
		return &ai.ChatError{Retryable: false, Err: err}
	}
}
