package tiktoken

import (
	"fmt"
	"sync"

	"github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"
)

// DefaultEncoding is the BPE encoding used by the ada-002 embedding model
// and the gpt-4 family.
const DefaultEncoding = "cl100k_base"

var loaderOnce sync.Once

// Tokenizer implements ai.Tokenizer with a tiktoken BPE encoding.
// Safe for concurrent use.
type Tokenizer struct {
	encoding string
	enc      *tiktoken.Tiktoken
}

// New returns a tokenizer for the named encoding. An empty name selects
// DefaultEncoding. Encodings are loaded from the offline BPE tables so no
// network access is needed.
func New(encoding string) (*Tokenizer, error) {
	loaderOnce.Do(func() {
		tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())
	})

	if encoding == "" {
		encoding = DefaultEncoding
	}
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("load encoding %q: %w", encoding, err)
	}
	return &Tokenizer{encoding: encoding, enc: enc}, nil
}

// Encoding returns the encoding name.
func (t *Tokenizer) Encoding() string {
	return t.encoding
}

// CountTokens returns the number of tokens text encodes to.
func (t *Tokenizer) CountTokens(text string) int {
	if text == "" {
		return 0
	}
	return len(t.enc.Encode(text, nil, nil))
}
