package agent

import "github.com/martinemde/tinagent/llm"

// Hooks lets a host application observe the loop without owning it. Every
// field is optional; nil hooks are skipped. Hooks run synchronously on the
// loop goroutine and must not mutate the history.
type Hooks struct {
	OnStep       func(step, maxSteps int)
	OnAssistant  func(text string)
	OnToolCall   func(call llm.ToolCall)
	OnToolResult func(call llm.ToolCall, result ToolResult)
	OnSummarize  func(beforeTokens, afterTokens int)
}

func (h Hooks) step(step, maxSteps int) {
	if h.OnStep != nil {
		h.OnStep(step, maxSteps)
	}
}

func (h Hooks) assistant(text string) {
	if h.OnAssistant != nil && text != "" {
		h.OnAssistant(text)
	}
}

func (h Hooks) toolCall(call llm.ToolCall) {
	if h.OnToolCall != nil {
		h.OnToolCall(call)
	}
}

func (h Hooks) toolResult(call llm.ToolCall, result ToolResult) {
	if h.OnToolResult != nil {
		h.OnToolResult(call, result)
	}
}

func (h Hooks) summarized(before, after int) {
	if h.OnSummarize != nil {
		h.OnSummarize(before, after)
	}
}
