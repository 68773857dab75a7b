package chat

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/poiesic/mithril/retry"
)

// Messages shown to the user by a Session.
const (
	DefaultExitSentinel    = "exit"
	DefaultPrompt          = "Enter your query (or 'exit' to quit): "
	NoQueryMessage         = "No query provided. Please enter a query."
	NoContextMessage       = "No relevant documents found for the given query. Please try again."
	UpstreamErrorMessage   = "An upstream service failed while answering the query"
	RetriesExhaustedFormat = "The chat service did not answer after %d attempts. Please try again later."
	QueryTooLongFormat     = "Query is longer than %d bytes. Please shorten it."
)

// DefaultMaxQueryBytes bounds a single input line.
const DefaultMaxQueryBytes = 1 << 20

var errQueryTooLong = errors.New("query too long")

// Session is an interactive question and answer loop over one history.
type Session struct {
	answerer *Answerer
	history  *History
	in       *bufio.Reader
	out      io.Writer
	exit     string
	prompt   string
	maxQuery int
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithExitSentinel sets the input that ends the session, matched
// case-insensitively.
func WithExitSentinel(sentinel string) SessionOption {
	return func(s *Session) {
		if sentinel != "" {
			s.exit = sentinel
		}
	}
}

// WithPrompt sets the text printed before reading each query.
func WithPrompt(prompt string) SessionOption {
	return func(s *Session) {
		s.prompt = prompt
	}
}

// WithMaxQueryBytes sets the longest accepted input line. Longer lines are
// discarded with a message and the session goes on.
func WithMaxQueryBytes(n int) SessionOption {
	return func(s *Session) {
		if n > 0 {
			s.maxQuery = n
		}
	}
}

// WithHistory continues an existing history.
func WithHistory(history *History) SessionOption {
	return func(s *Session) {
		if history != nil {
			s.history = history
		}
	}
}

// NewSession creates a session reading queries from in and writing to out.
func NewSession(answerer *Answerer, in io.Reader, out io.Writer, opts ...SessionOption) (*Session, error) {
	if answerer == nil {
		return nil, ErrAnswererRequired
	}

	s := &Session{
		answerer: answerer,
		history:  NewHistory(),
		in:       bufio.NewReader(in),
		out:      out,
		exit:     DefaultExitSentinel,
		prompt:   DefaultPrompt,
		maxQuery: DefaultMaxQueryBytes,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// History returns the session history.
func (s *Session) History() *History {
	return s.history
}

// Run reads queries until the exit sentinel, the end of input, or ctx is
// done. Every failed turn is reported to the user and the session goes on;
// Run only returns an error when reading input fails or ctx ends.
func (s *Session) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprint(s.out, s.prompt)
		line, err := s.readLine()
		if errors.Is(err, errQueryTooLong) {
			fmt.Fprintf(s.out, QueryTooLongFormat+"\n", s.maxQuery)
			continue
		}
		if err != nil {
			fmt.Fprintln(s.out)
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		query := strings.TrimSpace(line)
		if strings.EqualFold(query, s.exit) {
			fmt.Fprintln(s.out, "Goodbye.")
			return nil
		}
		if query == "" {
			fmt.Fprintln(s.out, NoQueryMessage)
			continue
		}

		s.turn(ctx, query)
	}
}

// readLine returns the next input line without its line ending. A line
// longer than maxQuery is consumed whole and reported as errQueryTooLong.
func (s *Session) readLine() (string, error) {
	var buf []byte
	tooLong := false
	for {
		chunk, isPrefix, err := s.in.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) && (len(buf) > 0 || tooLong) {
				break
			}
			return "", err
		}
		if !tooLong {
			buf = append(buf, chunk...)
			if len(buf) > s.maxQuery {
				tooLong = true
				buf = nil
			}
		}
		if !isPrefix {
			break
		}
	}
	if tooLong {
		return "", errQueryTooLong
	}
	return string(buf), nil
}

func (s *Session) turn(ctx context.Context, query string) {
	answer, err := s.answerer.Answer(ctx, s.history, query)

	var exhausted *retry.ExhaustedError
	switch {
	case err == nil:
		fmt.Fprintf(s.out, "\nResponse:\n%s\n\n", answer.Text)
		fmt.Fprintf(s.out, "Model: %s\nTotal tokens: %d (prompt %d, completion %d)\n\n",
			answer.Model, answer.Usage.TotalTokens, answer.Usage.PromptTokens, answer.Usage.CompletionTokens)
	case errors.Is(err, ErrNoContext):
		fmt.Fprintln(s.out, NoContextMessage)
	case errors.As(err, &exhausted):
		fmt.Fprintf(s.out, RetriesExhaustedFormat+"\n", exhausted.Attempts)
	default:
		fmt.Fprintf(s.out, "%s: %v\n", UpstreamErrorMessage, err)
	}
}
