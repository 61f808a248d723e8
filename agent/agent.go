// Package agent implements the agent loop: it drives an LLM through
// iterative tool invocation until the task completes, fails, or exhausts the
// step budget, keeping the conversational history within a token budget via
// summarization.
package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/martinemde/tinagent/llm"
)

// Generator is the narrow provider surface the loop depends on. *llm.Client
// satisfies it; tests substitute scripted fakes.
type Generator interface {
	Generate(ctx context.Context, messages []llm.Message, tools []llm.ToolDefinition) (*llm.Response, error)
}

// DefaultMaxSteps bounds the number of provider calls per run.
const DefaultMaxSteps = 50

// Config holds agent construction options.
type Config struct {
	SystemPrompt    string
	MaxSteps        int // 0 = DefaultMaxSteps
	TokenLimit      int // 0 = DefaultTokenLimit
	Workspace       string
	ToolOutputLimit int // 0 = DefaultToolOutputLimit
	Hooks           Hooks
}

// Agent owns the message sequence exclusively; no other component mutates it.
// One Agent serves one logical conversation; concurrent runs need separate
// instances.
type Agent struct {
	id          string
	client      Generator
	registry    *Registry
	messages    []llm.Message
	maxSteps    int
	tokenLimit  int
	outputLimit int
	hooks       Hooks
}

// New creates an Agent with the given provider client, configuration, and
// tools. The workspace path is appended to the system prompt so the model
// knows where relative paths resolve.
func New(client Generator, cfg Config, tools ...Tool) *Agent {
	systemPrompt := cfg.SystemPrompt
	if cfg.Workspace != "" && !strings.Contains(systemPrompt, "Current Workspace") {
		systemPrompt += fmt.Sprintf("\n\n## Current Workspace\n`%s`", cfg.Workspace)
	}
	maxSteps := cfg.MaxSteps
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}
	tokenLimit := cfg.TokenLimit
	if tokenLimit <= 0 {
		tokenLimit = DefaultTokenLimit
	}
	outputLimit := cfg.ToolOutputLimit
	if outputLimit <= 0 {
		outputLimit = DefaultToolOutputLimit
	}

	return &Agent{
		id:          uuid.New().String(),
		client:      client,
		registry:    NewRegistry(tools...),
		messages:    []llm.Message{llm.SystemMessage(systemPrompt)},
		maxSteps:    maxSteps,
		tokenLimit:  tokenLimit,
		outputLimit: outputLimit,
		hooks:       cfg.Hooks,
	}
}

// ID returns the agent instance identifier.
func (a *Agent) ID() string { return a.id }

// Registry returns the agent's tool registry.
func (a *Agent) Registry() *Registry { return a.registry }

// AddUserMessage appends a user message to the history.
func (a *Agent) AddUserMessage(content string) {
	a.messages = append(a.messages, llm.UserMessage(content))
}

// History returns a copy of the message sequence.
func (a *Agent) History() []llm.Message {
	h := make([]llm.Message, len(a.messages))
	copy(h, a.messages)
	return h
}

// RestoreHistory replaces the owned history with a previously persisted one.
// The sequence must start with a system message.
func (a *Agent) RestoreHistory(messages []llm.Message) error {
	if len(messages) == 0 || messages[0].Role != llm.RoleSystem {
		return fmt.Errorf("restore history: sequence must start with a system message")
	}
	a.messages = append([]llm.Message(nil), messages...)
	return nil
}

// Run executes the loop until the provider returns a reply without tool
// calls (the reply text is the result), the step budget is exhausted (a
// fixed message, not an error), or a fatal provider/summarization error
// occurs. Tool execution errors are recovered per call and fed back to the
// model; they never abort the run. Cancellation discards the partially built
// step without committing it.
func (a *Agent) Run(ctx context.Context) (string, error) {
	for step := 0; step < a.maxSteps; step++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		a.hooks.step(step+1, a.maxSteps)

		if before := CountTokens(a.messages); before > a.tokenLimit {
			// Bounded-effort compression: not retried if the result still
			// exceeds the limit.
			compacted, err := Summarize(ctx, a.client, a.messages)
			if err != nil {
				return "", err
			}
			a.messages = compacted
			a.hooks.summarized(before, CountTokens(a.messages))
		}

		resp, err := a.client.Generate(ctx, a.messages, a.registry.Definitions())
		if err != nil {
			return "", err
		}
		a.hooks.assistant(resp.Content)

		if !resp.HasToolCalls() {
			return resp.Content, nil
		}

		results := make([]ToolResult, len(resp.ToolCalls))
		for i, call := range resp.ToolCalls {
			results[i] = a.dispatch(ctx, call)
		}

		if err := ctx.Err(); err != nil {
			// Abort before committing: the step's messages are discarded
			// whole, never appended partially.
			return "", err
		}

		// The assistant message carrying the tool-call list is appended only
		// after every call in the step has executed; providers with tool-use
		// blocks require the result messages to follow it immediately.
		a.messages = append(a.messages, llm.Message{
			Role:      llm.RoleAssistant,
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
		})
		for i, call := range resp.ToolCalls {
			content := results[i].Content
			if !results[i].Success {
				content = "Error: " + results[i].Error
			}
			content = TruncateOutput(content, a.outputLimit)
			a.messages = append(a.messages, llm.ToolMessage(call.ID, call.Name, content))
		}
	}

	return fmt.Sprintf("Task couldn't be completed after %d steps.", a.maxSteps), nil
}

// dispatch resolves one tool call against the registry and executes it.
// Unknown names and panics inside tools become failure results; nothing
// propagates to the caller.
func (a *Agent) dispatch(ctx context.Context, call llm.ToolCall) (result ToolResult) {
	a.hooks.toolCall(call)
	defer func() {
		if r := recover(); r != nil {
			result = Fail("tool %s panicked: %v", call.Name, r)
		}
		a.hooks.toolResult(call, result)
	}()

	tool := a.registry.Get(call.Name)
	if tool == nil {
		return Fail("Unknown tool: %s", call.Name)
	}
	return tool.Execute(ctx, call.Args)
}
