package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// Returns an *EmbeddingError if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)
}

// ChatCompleter sends a conversation to a chat-completion model.
// Implementations must be thread-safe for concurrent use.
type ChatCompleter interface {
	// Complete returns the model's reply to messages.
	// Failures are reported as *ChatError so callers can tell transient
	// errors from fatal ones.
	Complete(ctx context.Context, messages []Message) (*Completion, error)
}

// Tokenizer counts model tokens. Implementations are deterministic and free
// of side effects.
type Tokenizer interface {
	CountTokens(text string) int
}

// AIProvider aggregates AI services for convenient initialization and lifecycle management.
type AIProvider interface {
	// Embedder returns the text embedding service.
	Embedder() Embedder

	// ChatCompleter returns the chat-completion service.
	ChatCompleter() ChatCompleter

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
