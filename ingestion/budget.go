package ingestion

import "github.com/poiesic/mithril/ai"

// DefaultMaxTokens is the input limit of the default embedding model.
const DefaultMaxTokens = 8191

// FitsBudget reports whether content tokenizes to at most maxTokens.
func FitsBudget(tokenizer ai.Tokenizer, content string, maxTokens int) bool {
	return tokenizer.CountTokens(content) <= maxTokens
}

// BudgetGuard rejects chunk content that exceeds a fixed token budget.
type BudgetGuard struct {
	tokenizer ai.Tokenizer
	maxTokens int
}

// NewBudgetGuard creates a guard for maxTokens.
func NewBudgetGuard(tokenizer ai.Tokenizer, maxTokens int) (*BudgetGuard, error) {
	if tokenizer == nil {
		return nil, ErrTokenizerRequired
	}
	if maxTokens < 1 {
		return nil, ErrInvalidMaxTokens
	}
	return &BudgetGuard{tokenizer: tokenizer, maxTokens: maxTokens}, nil
}

// MaxTokens returns the configured budget.
func (g *BudgetGuard) MaxTokens() int {
	return g.maxTokens
}

// Check counts the tokens of content and reports whether it fits.
func (g *BudgetGuard) Check(content string) (int, bool) {
	tokens := g.tokenizer.CountTokens(content)
	return tokens, tokens <= g.maxTokens
}
