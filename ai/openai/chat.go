package openai

import (
	"context"
	"log/slog"

	"github.com/poiesic/mithril/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// ChatCompleter implements ai.ChatCompleter using OpenAI-compatible chat APIs.
type ChatCompleter struct {
	llm    llms.Model
	model  string
	logger *slog.Logger
}

// newChatCompleter is an internal constructor that returns the concrete type.
func newChatCompleter(config *ai.Config) (*ChatCompleter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	llm, err := newLLM(config, config.ChatHost, openai.WithModel(config.ChatModel))
	if err != nil {
		return nil, err
	}

	return newChatCompleterWithModel(llm, config.ChatModel), nil
}

func newChatCompleterWithModel(llm llms.Model, model string) *ChatCompleter {
	return &ChatCompleter{
		llm:    llm,
		model:  model,
		logger: slog.Default().With("component", "openai-chat"),
	}
}

// NewChatCompleter creates a chat completer using the provided configuration.
//
// Returns ai.ChatCompleter interface to enforce abstraction.
func NewChatCompleter(config *ai.Config) (ai.ChatCompleter, error) {
	return newChatCompleter(config)
}

// Complete sends messages to the chat model and returns its first choice.
func (c *ChatCompleter) Complete(ctx context.Context, messages []ai.Message) (*ai.Completion, error) {
	content := make([]llms.MessageContent, 0, len(messages))
	for _, m := range messages {
		content = append(content, llms.TextParts(messageType(m.Role), m.Content))
	}

	c.logger.Debug("requesting chat completion", "messages", len(messages), "model", c.model)

	resp, err := c.llm.GenerateContent(ctx, content)
	if err != nil {
		chatErr := classifyError(ctx, err)
		c.logger.Warn("chat completion failed", "retryable", chatErr.Retryable, "err", err)
		return nil, chatErr
	}
	if resp == nil || len(resp.Choices) == 0 {
		return nil, &ai.ChatError{Retryable: true, Err: ai.ErrEmptyCompletion}
	}

	choice := resp.Choices[0]
	completion := &ai.Completion{
		Text:  choice.Content,
		Model: c.model,
		Usage: ai.Usage{
			PromptTokens:     intInfo(choice.GenerationInfo, "PromptTokens"),
			CompletionTokens: intInfo(choice.GenerationInfo, "CompletionTokens"),
			TotalTokens:      intInfo(choice.GenerationInfo, "TotalTokens"),
		},
	}
	if model, ok := choice.GenerationInfo["Model"].(string); ok && model != "" {
		completion.Model = model
	}

	return completion, nil
}

func messageType(role ai.Role) llms.ChatMessageType {
	switch role {
	case ai.RoleSystem:
		return llms.ChatMessageTypeSystem
	case ai.RoleAssistant:
		return llms.ChatMessageTypeAI
	default:
		return llms.ChatMessageTypeHuman
	}
}

func intInfo(info map[string]any, key string) int {
	switch v := info[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
