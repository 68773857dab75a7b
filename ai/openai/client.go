package openai

import (
	"github.com/poiesic/mithril/ai"
	"github.com/tmc/langchaingo/llms/openai"
)

// newLLM creates a langchaingo OpenAI client pointed at host.
func newLLM(config *ai.Config, host string, opts ...openai.Option) (*openai.LLM, error) {
	token := config.APIKey
	if token == "" {
		// Local OpenAI-compatible services don't require authentication.
		token = "none"
	}

	options := []openai.Option{
		openai.WithBaseURL(host),
		openai.WithToken(token),
	}
	if config.APIType == ai.APITypeAzure {
		options = append(options,
			openai.WithAPIType(openai.APITypeAzure),
			openai.WithAPIVersion(config.APIVersion),
		)
	}
	options = append(options, opts...)

	return openai.New(options...)
}
