package mock

import (
	"context"
	"sync"

	"github.com/poiesic/mithril/ai"
)

// MockChatCompleter is a test double for ai.ChatCompleter.
type MockChatCompleter struct {
	// CompleteFunc is called by Complete if set.
	// If nil, Complete echoes the last message back.
	CompleteFunc func(ctx context.Context, messages []ai.Message) (*ai.Completion, error)

	mu        sync.Mutex
	callCount int
	requests  [][]ai.Message
}

// NewMockChatCompleter creates a mock chat completer with echo behavior.
func NewMockChatCompleter() *MockChatCompleter {
	return &MockChatCompleter{}
}

// Complete records the request and delegates to CompleteFunc.
func (m *MockChatCompleter) Complete(ctx context.Context, messages []ai.Message) (*ai.Completion, error) {
	m.mu.Lock()
	m.callCount++
	m.requests = append(m.requests, append([]ai.Message(nil), messages...))
	fn := m.CompleteFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, messages)
	}

	var text string
	if len(messages) > 0 {
		text = messages[len(messages)-1].Content
	}
	return &ai.Completion{Text: text, Model: "mock"}, nil
}

// CallCount returns the number of Complete calls.
func (m *MockChatCompleter) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Requests returns a copy of every message list passed to Complete.
func (m *MockChatCompleter) Requests() [][]ai.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]ai.Message(nil), m.requests...)
}

// Reset clears recorded calls and the injected behavior.
func (m *MockChatCompleter) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.requests = nil
	m.CompleteFunc = nil
}
