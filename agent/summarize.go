package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/martinemde/tinagent/llm"
)

// SummaryMarker prefixes every synthetic summary message so the model (and
// the operator) can recognize compacted history.
const SummaryMarker = "[Previous conversation summarized]"

const summaryInstruction = "You are a conversation compactor. Summarize the " +
	"conversation excerpt you are given into a concise summary that preserves " +
	"key decisions made, information discovered, the current state of the " +
	"work, and any errors encountered and how they were resolved. Return only " +
	"the summary body."

// Summarize compresses the span of non-user messages strictly between the
// first and last user message into one synthetic assistant message. With
// fewer than two user messages there is nothing eligible and the input is
// returned unchanged. A failed summarization call propagates; there is no
// fallback truncation.
func Summarize(ctx context.Context, g Generator, messages []llm.Message) ([]llm.Message, error) {
	firstUser, lastUser := -1, -1
	for i, m := range messages {
		if m.Role == llm.RoleUser {
			if firstUser < 0 {
				firstUser = i
			}
			lastUser = i
		}
	}
	if firstUser < 0 || firstUser == lastUser {
		return messages, nil
	}

	var span []llm.Message
	for i := firstUser + 1; i < lastUser; i++ {
		if messages[i].Role != llm.RoleUser {
			span = append(span, messages[i])
		}
	}
	if len(span) == 0 {
		return messages, nil
	}

	resp, err := g.Generate(ctx, []llm.Message{
		llm.SystemMessage(summaryInstruction),
		llm.UserMessage(transcript(span)),
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("summarize history: %w", err)
	}

	// Rebuild: system first, user messages in order interleaved with the
	// trailing post-last-user messages, summary appended last. The summary's
	// position is an accepted approximation, not a timeline reconstruction.
	result := make([]llm.Message, 0, len(messages)-len(span)+1)
	for i, m := range messages {
		if m.Role == llm.RoleSystem || m.Role == llm.RoleUser || i > lastUser {
			result = append(result, m)
		}
	}
	result = append(result, llm.AssistantMessage(SummaryMarker+"\n\n"+resp.Text()))
	return result, nil
}

// transcript renders the span as role-labelled lines for the compaction
// call, keeping the payload valid in both wire dialects.
func transcript(span []llm.Message) string {
	var b strings.Builder
	b.WriteString("Conversation excerpt to summarize:\n\n")
	for _, m := range span {
		switch m.Role {
		case llm.RoleAssistant:
			if m.Content != "" {
				fmt.Fprintf(&b, "assistant: %s\n", m.Content)
			}
			for _, call := range m.ToolCalls {
				fmt.Fprintf(&b, "assistant -> tool call %s(%v)\n", call.Name, call.Args)
			}
		case llm.RoleTool:
			fmt.Fprintf(&b, "tool %s: %s\n", m.Name, m.Content)
		default:
			fmt.Fprintf(&b, "%s: %s\n", m.Role, m.Content)
		}
	}
	return b.String()
}
