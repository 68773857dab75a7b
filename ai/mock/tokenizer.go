package mock

import "strings"

// MockTokenizer is a test double for ai.Tokenizer.
// By default it counts whitespace-separated words.
type MockTokenizer struct {
	CountFunc func(text string) int
}

// NewMockTokenizer creates a word-counting tokenizer.
func NewMockTokenizer() *MockTokenizer {
	return &MockTokenizer{}
}

// CountTokens returns the token count for text.
func (m *MockTokenizer) CountTokens(text string) int {
	if m.CountFunc != nil {
		return m.CountFunc(text)
	}
	return len(strings.Fields(text))
}
