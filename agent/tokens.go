package agent

import (
	"encoding/json"
	"unicode/utf8"

	"github.com/martinemde/tinagent/llm"
)

// DefaultTokenLimit is the history budget above which summarization runs.
const DefaultTokenLimit = 80_000

const (
	// Fixed framing cost charged per message regardless of content.
	messageOverheadTokens = 4
	// Extra framing cost per encoded tool call.
	toolCallOverheadTokens = 3
)

// CountTokens returns a deterministic token estimate for the history:
// per-message overhead plus content cost plus, for assistant messages with
// tool calls, the cost of each call's function name and JSON-serialized
// arguments. Appending a message never decreases the count.
func CountTokens(messages []llm.Message) int {
	total := 0
	for _, m := range messages {
		total += messageOverheadTokens
		total += textTokens(m.Content)
		total += textTokens(m.Name)
		for _, call := range m.ToolCalls {
			total += toolCallOverheadTokens
			total += textTokens(call.Name)
			raw, err := json.Marshal(call.Args)
			if err == nil {
				total += textTokens(string(raw))
			}
		}
	}
	return total
}

// textTokens estimates one token per four runes, rounded up.
func textTokens(text string) int {
	if text == "" {
		return 0
	}
	runes := utf8.RuneCountInString(text)
	tokens := runes / 4
	if runes%4 != 0 {
		tokens++
	}
	return tokens
}
