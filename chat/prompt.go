package chat

import (
	"regexp"
	"strings"

	"github.com/poiesic/mithril/ai"
	"github.com/poiesic/mithril/search"
)

// DefaultInstructions frames the chat model for questions about customer and
// order records.
const DefaultInstructions = "You are an AI assistant. The user has provided an input. " +
	"Identify whether it is a question or an appreciation of something else " +
	"and respond appropriately. Please leverage the context provided to you " +
	"to answer the user's questions."

var citationPattern = regexp.MustCompile(`\[doc\d+\]`)

// StripCitations deletes inline [docN] markers from text. Surrounding text,
// spacing included, is left as is.
func StripCitations(text string) string {
	return citationPattern.ReplaceAllString(text, "")
}

// BuildMessages assembles the prompt of one turn: the instructions, the raw
// query, then the retrieved descriptions together with the session history.
func BuildMessages(instructions, query string, docs []search.Document, history *History) []ai.Message {
	descriptions := make([]string, len(docs))
	for i, d := range docs {
		descriptions[i] = d.Description()
	}

	rendered := ""
	if history != nil {
		rendered = history.Render()
	}

	return []ai.Message{
		ai.SystemMessage(instructions),
		ai.UserMessage(query),
		ai.SystemMessage(" Use the context provided to you. Here is the context: " +
			strings.Join(descriptions, "\n") + "\nQuery History: " + rendered),
	}
}
