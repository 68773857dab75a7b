package chat

import (
	"fmt"
	"strings"
)

// Turn is one answered query.
type Turn struct {
	Query  string
	Answer string
}

// History holds the answered turns of one session. It only grows, and only
// when a turn is answered. A History is not safe for concurrent use; give
// each session its own.
type History struct {
	turns []Turn
}

// NewHistory returns an empty history.
func NewHistory() *History {
	return &History{}
}

// Append records an answered turn.
func (h *History) Append(query, answer string) {
	h.turns = append(h.turns, Turn{Query: query, Answer: answer})
}

// Turns returns a copy of the recorded turns, oldest first.
func (h *History) Turns() []Turn {
	out := make([]Turn, len(h.turns))
	copy(out, h.turns)
	return out
}

// Len returns the number of recorded turns.
func (h *History) Len() int {
	return len(h.turns)
}

// Render formats the history as "Q: ... R: ..." lines.
func (h *History) Render() string {
	lines := make([]string, len(h.turns))
	for i, t := range h.turns {
		lines[i] = fmt.Sprintf("Q: %s R: %s", t.Query, t.Answer)
	}
	return strings.Join(lines, "\n")
}
