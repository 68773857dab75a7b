// Package mock provides test double implementations of AI service interfaces.
//
// This package contains mock implementations of ai.Embedder, ai.ChatCompleter,
// ai.Tokenizer and ai.AIProvider for use in unit tests. The mocks allow tests
// to run without external AI service dependencies and enable controlled,
// deterministic behavior.
//
// # Usage in Tests
//
//	embedder := mock.NewMockEmbedder()
//	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
//	    return nil, errors.New("service down")
//	}
//
//	chat := mock.NewMockChatCompleter()
//	chat.CompleteFunc = func(ctx context.Context, msgs []ai.Message) (*ai.Completion, error) {
//	    return &ai.Completion{Text: "Aria lives in the East region."}, nil
//	}
//
//	// Check call counts
//	count := chat.CallCount()
//
// # Default Behavior
//
//   - MockEmbedder: Returns deterministic unit vectors based on text hash
//   - MockChatCompleter: Echoes the last message
//   - MockTokenizer: Counts whitespace-separated words
//   - MockProvider: Aggregates mock embedder and chat completer
//
// The embedder and chat mocks are safe for concurrent use.
package mock
