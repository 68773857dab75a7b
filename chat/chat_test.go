package chat

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/poiesic/mithril/ai"
	"github.com/poiesic/mithril/ai/mock"
	"github.com/poiesic/mithril/core"
	"github.com/poiesic/mithril/retry"
	"github.com/poiesic/mithril/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRetriever returns fixed documents or a fixed error.
type fakeRetriever struct {
	docs   []search.Document
	err    error
	calls  int
	scopes []string
}

func (f *fakeRetriever) Retrieve(_ context.Context, _, scope string, _ int) ([]search.Document, error) {
	f.calls++
	f.scopes = append(f.scopes, scope)
	return f.docs, f.err
}

func contextDocs() []search.Document {
	return []search.Document{
		{Kind: core.KindCustomer, Fields: core.Document{core.FieldDescription: "Aria lives in the North."}},
		{Kind: core.KindCRM, Fields: core.Document{core.FieldDescription: "Order O-1 ships 12 units."}},
	}
}

// instantRetry never sleeps.
func instantRetry(attempts int) retry.Policy {
	return retry.Policy{
		MaxAttempts: attempts,
		Backoff:     retry.Constant(10 * time.Second),
		Sleep:       func(context.Context, time.Duration) error { return nil },
	}
}

// failingChat fails the first n calls with a retryable error.
func failingChat(n int) *mock.MockChatCompleter {
	chat := mock.NewMockChatCompleter()
	calls := 0
	chat.CompleteFunc = func(context.Context, []ai.Message) (*ai.Completion, error) {
		calls++
		if calls <= n {
			return nil, &ai.ChatError{Retryable: true, Err: errors.New("rate limit exceeded")}
		}
		return &ai.Completion{Text: "Aria ordered 12 units [doc1].", Model: "gpt-4o", Usage: ai.Usage{TotalTokens: 42}}, nil
	}
	return chat
}

func TestStripCitations(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"See [doc1] and [doc12] for details", "See  and  for details"},
		{"No markers here.", "No markers here."},
		{"[doc3]", ""},
		{"Keep [doc] and [docs1] and [Doc1]", "Keep [doc] and [docs1] and [Doc1]"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, StripCitations(tt.in))
		})
	}
}

func TestHistory(t *testing.T) {
	h := NewHistory()
	assert.Equal(t, 0, h.Len())
	assert.Equal(t, "", h.Render())

	h.Append("Who is Aria?", "A customer.")
	h.Append("Where?", "North.")

	assert.Equal(t, 2, h.Len())
	assert.Equal(t, "Q: Who is Aria? R: A customer.\nQ: Where? R: North.", h.Render())

	turns := h.Turns()
	turns[0].Answer = "changed"
	assert.Equal(t, "A customer.", h.Turns()[0].Answer)
}

func TestBuildMessages(t *testing.T) {
	h := NewHistory()
	h.Append("Q1", "R1")

	msgs := BuildMessages("be helpful", "who ordered?", contextDocs(), h)
	require.Len(t, msgs, 3)

	assert.Equal(t, ai.SystemMessage("be helpful"), msgs[0])
	assert.Equal(t, ai.UserMessage("who ordered?"), msgs[1])
	assert.Equal(t, ai.RoleSystem, msgs[2].Role)
	assert.Equal(t,
		" Use the context provided to you. Here is the context: Aria lives in the North.\nOrder O-1 ships 12 units.\nQuery History: Q: Q1 R: R1",
		msgs[2].Content)
}

func TestNewAnswerer(t *testing.T) {
	retriever := &fakeRetriever{}
	chat := mock.NewMockChatCompleter()

	_, err := NewAnswerer(nil, chat)
	assert.Equal(t, ErrRetrieverRequired, err)

	_, err = NewAnswerer(retriever, nil)
	assert.Equal(t, ErrChatCompleterRequired, err)

	_, err = NewAnswerer(retriever, chat, WithK(0))
	assert.ErrorIs(t, err, ErrInvalidK)

	_, err = NewAnswerer(retriever, chat, WithRetry(retry.Policy{}))
	assert.ErrorIs(t, err, retry.ErrInvalidMaxAttempts)

	a, err := NewAnswerer(retriever, chat, WithScope("East"), WithInstructions(""), WithLogger(nil), WithTimeout(0))
	require.NoError(t, err)
	assert.Equal(t, "East", a.Scope())
	assert.Equal(t, DefaultInstructions, a.instructions)
}

func TestAnswer_Success(t *testing.T) {
	retriever := &fakeRetriever{docs: contextDocs()}
	chat := failingChat(0)
	a, err := NewAnswerer(retriever, chat, WithScope("East"), WithK(5))
	require.NoError(t, err)

	history := NewHistory()
	answer, err := a.Answer(context.Background(), history, "  Who ordered?  ")
	require.NoError(t, err)

	assert.Equal(t, "Aria ordered 12 units .", answer.Text)
	assert.Equal(t, "Aria ordered 12 units [doc1].", answer.Raw)
	assert.Equal(t, "gpt-4o", answer.Model)
	assert.Equal(t, 42, answer.Usage.TotalTokens)
	assert.Equal(t, 2, answer.Documents)
	assert.Equal(t, 1, answer.Attempts)
	assert.Equal(t, []string{"East"}, retriever.scopes)

	require.Equal(t, 1, history.Len())
	assert.Equal(t, Turn{Query: "Who ordered?", Answer: "Aria ordered 12 units ."}, history.Turns()[0])
}

func TestAnswer_NoContextSkipsChat(t *testing.T) {
	chat := mock.NewMockChatCompleter()
	a, err := NewAnswerer(&fakeRetriever{}, chat)
	require.NoError(t, err)

	history := NewHistory()
	_, err = a.Answer(context.Background(), history, "anything")
	assert.ErrorIs(t, err, ErrNoContext)
	assert.Equal(t, 0, chat.CallCount())
	assert.Equal(t, 0, history.Len())
}

func TestAnswer_EmptyQuery(t *testing.T) {
	retriever := &fakeRetriever{docs: contextDocs()}
	a, err := NewAnswerer(retriever, mock.NewMockChatCompleter())
	require.NoError(t, err)

	_, err = a.Answer(context.Background(), NewHistory(), "   ")
	assert.ErrorIs(t, err, ErrEmptyQuery)
	assert.Equal(t, 0, retriever.calls)
}

func TestAnswer_RetrievalError(t *testing.T) {
	chat := mock.NewMockChatCompleter()
	searchErr := &search.SearchError{Kind: core.KindCRM, Index: "orders", Err: errors.New("offline")}
	a, err := NewAnswerer(&fakeRetriever{err: searchErr}, chat)
	require.NoError(t, err)

	_, err = a.Answer(context.Background(), NewHistory(), "anything")

	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, "retrieval", upstream.Stage)
	assert.ErrorIs(t, err, searchErr)
	assert.Equal(t, 0, chat.CallCount())
}

func TestAnswer_RetryBound(t *testing.T) {
	t.Run("two failures then success", func(t *testing.T) {
		chat := failingChat(2)
		a, err := NewAnswerer(&fakeRetriever{docs: contextDocs()}, chat, WithRetry(instantRetry(3)))
		require.NoError(t, err)

		history := NewHistory()
		answer, err := a.Answer(context.Background(), history, "who ordered?")
		require.NoError(t, err)
		assert.Equal(t, 3, answer.Attempts)
		assert.Equal(t, 3, chat.CallCount())
		assert.Equal(t, 1, history.Len())
	})

	t.Run("always failing", func(t *testing.T) {
		chat := failingChat(100)
		a, err := NewAnswerer(&fakeRetriever{docs: contextDocs()}, chat, WithRetry(instantRetry(3)))
		require.NoError(t, err)

		history := NewHistory()
		_, err = a.Answer(context.Background(), history, "who ordered?")

		var exhausted *retry.ExhaustedError
		require.ErrorAs(t, err, &exhausted)
		assert.Equal(t, 3, exhausted.Attempts)
		assert.Equal(t, 3, chat.CallCount())
		assert.Equal(t, 0, history.Len())
	})

	t.Run("fatal error is not retried", func(t *testing.T) {
		chat := mock.NewMockChatCompleter()
		chat.CompleteFunc = func(context.Context, []ai.Message) (*ai.Completion, error) {
			return nil, &ai.ChatError{Retryable: false, Err: errors.New("invalid request")}
		}
		a, err := NewAnswerer(&fakeRetriever{docs: contextDocs()}, chat, WithRetry(instantRetry(3)))
		require.NoError(t, err)

		history := NewHistory()
		_, err = a.Answer(context.Background(), history, "who ordered?")

		var upstream *UpstreamError
		require.ErrorAs(t, err, &upstream)
		assert.Equal(t, "completion", upstream.Stage)
		assert.Equal(t, 1, chat.CallCount())
		assert.Equal(t, 0, history.Len())
	})
}

func TestAnswer_SendsHistory(t *testing.T) {
	chat := mock.NewMockChatCompleter()
	a, err := NewAnswerer(&fakeRetriever{docs: contextDocs()}, chat)
	require.NoError(t, err)

	history := NewHistory()
	_, err = a.Answer(context.Background(), history, "first")
	require.NoError(t, err)
	_, err = a.Answer(context.Background(), history, "second")
	require.NoError(t, err)

	requests := chat.Requests()
	require.Len(t, requests, 2)
	assert.True(t, strings.HasSuffix(requests[1][2].Content, "Query History: Q: first R: "+history.Turns()[0].Answer))
	assert.Equal(t, 2, history.Len())
}

func TestSession_Run(t *testing.T) {
	newSession := func(t *testing.T, retriever Retriever, chat ai.ChatCompleter, input string) (*Session, *bytes.Buffer) {
		t.Helper()
		a, err := NewAnswerer(retriever, chat, WithRetry(instantRetry(3)))
		require.NoError(t, err)
		var out bytes.Buffer
		s, err := NewSession(a, strings.NewReader(input), &out)
		require.NoError(t, err)
		return s, &out
	}

	t.Run("answers until exit", func(t *testing.T) {
		s, out := newSession(t, &fakeRetriever{docs: contextDocs()}, failingChat(0), "\nwho ordered?\nEXIT\nnever read\n")
		require.NoError(t, s.Run(context.Background()))

		assert.Contains(t, out.String(), NoQueryMessage)
		assert.Contains(t, out.String(), "Aria ordered 12 units .")
		assert.Contains(t, out.String(), "Total tokens: 42")
		assert.Contains(t, out.String(), "Goodbye.")
		assert.Equal(t, 1, s.History().Len())
	})

	t.Run("distinct failure messages", func(t *testing.T) {
		s, out := newSession(t, &fakeRetriever{}, failingChat(0), "q\n")
		require.NoError(t, s.Run(context.Background()))
		assert.Contains(t, out.String(), NoContextMessage)

		s, out = newSession(t, &fakeRetriever{docs: contextDocs()}, failingChat(100), "q\n")
		require.NoError(t, s.Run(context.Background()))
		assert.Contains(t, out.String(), "did not answer after 3 attempts")
		assert.NotContains(t, out.String(), UpstreamErrorMessage)

		s, out = newSession(t, &fakeRetriever{err: errors.New("offline")}, failingChat(0), "q\n")
		require.NoError(t, s.Run(context.Background()))
		assert.Contains(t, out.String(), UpstreamErrorMessage)
		assert.Equal(t, 0, s.History().Len())
	})

	t.Run("stops when context ends", func(t *testing.T) {
		s, _ := newSession(t, &fakeRetriever{docs: contextDocs()}, failingChat(0), "q\nq\n")
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.ErrorIs(t, s.Run(ctx), context.Canceled)
	})

	t.Run("custom sentinel and history", func(t *testing.T) {
		a, err := NewAnswerer(&fakeRetriever{docs: contextDocs()}, failingChat(0))
		require.NoError(t, err)
		history := NewHistory()
		history.Append("earlier", "answer")

		var out bytes.Buffer
		s, err := NewSession(a, strings.NewReader("quit\n"), &out,
			WithExitSentinel("quit"), WithPrompt("> "), WithHistory(history))
		require.NoError(t, err)
		require.NoError(t, s.Run(context.Background()))
		assert.Equal(t, "> Goodbye.\n", out.String())
		assert.Same(t, history, s.History())
	})

	t.Run("overlong line is reported and the session goes on", func(t *testing.T) {
		a, err := NewAnswerer(&fakeRetriever{docs: contextDocs()}, failingChat(0), WithRetry(instantRetry(3)))
		require.NoError(t, err)

		input := strings.Repeat("x", 100) + "\nwho ordered?\nexit\n"
		var out bytes.Buffer
		s, err := NewSession(a, strings.NewReader(input), &out, WithMaxQueryBytes(10))
		require.NoError(t, err)

		require.NoError(t, s.Run(context.Background()))
		assert.Contains(t, out.String(), fmt.Sprintf(QueryTooLongFormat, 10))
		assert.Contains(t, out.String(), "Goodbye.")
		assert.Equal(t, 1, s.History().Len())
	})

	t.Run("accepts lines past the scanner default", func(t *testing.T) {
		query := strings.Repeat("a", 70*1024)
		s, out := newSession(t, &fakeRetriever{docs: contextDocs()}, failingChat(0), query+"\nexit\n")
		require.NoError(t, s.Run(context.Background()))
		assert.NotContains(t, out.String(), "Query is longer than")
		require.Equal(t, 1, s.History().Len())
		assert.Equal(t, query, s.History().Turns()[0].Query)
	})

	t.Run("last line without newline", func(t *testing.T) {
		s, out := newSession(t, &fakeRetriever{docs: contextDocs()}, failingChat(0), "who ordered?")
		require.NoError(t, s.Run(context.Background()))
		assert.Equal(t, 1, s.History().Len())
		assert.NotContains(t, out.String(), NoQueryMessage)
	})

	t.Run("requires answerer", func(t *testing.T) {
		_, err := NewSession(nil, strings.NewReader(""), &bytes.Buffer{})
		assert.Equal(t, ErrAnswererRequired, err)
	})
}
