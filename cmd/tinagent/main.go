// Command tinagent runs an LLM agent with filesystem and shell tools over a
// workspace directory, either for a single task or as an interactive REPL.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"github.com/spf13/pflag"

	"github.com/martinemde/tinagent/agent"
	"github.com/martinemde/tinagent/llm"
	"github.com/martinemde/tinagent/session"
	"github.com/martinemde/tinagent/skills"
)

const systemPrompt = `You are a helpful AI assistant that completes tasks using the tools available to you.

Work step by step. Use tools to inspect and modify files, and run shell commands when needed. When the task is complete, reply with a summary of what you did instead of calling more tools.`

type options struct {
	workspace  string
	apiKey     string
	model      string
	provider   string
	baseURL    string
	task       string
	skillsDir  string
	maxSteps   int
	tokenLimit int
	sessionDB  string
	sessionID  string
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "tinagent: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags() (*options, error) {
	opts := &options{}
	pflag.StringVarP(&opts.workspace, "workspace", "w", ".", "workspace directory for file and shell tools")
	pflag.StringVar(&opts.apiKey, "api-key", "", "provider API key (falls back to TINAGENT_API_KEY, ANTHROPIC_API_KEY, OPENAI_API_KEY)")
	pflag.StringVar(&opts.model, "model", llm.DefaultModel, "model identifier")
	pflag.StringVar(&opts.provider, "provider", string(llm.DialectAnthropic), "wire dialect: anthropic or openai")
	pflag.StringVar(&opts.baseURL, "base-url", "", "API base URL (default: "+llm.DefaultBaseURL+")")
	pflag.StringVarP(&opts.task, "task", "t", "", "run a single task and exit instead of starting the REPL")
	pflag.StringVar(&opts.skillsDir, "skills", "", "directory to scan for SKILL.md files")
	pflag.IntVar(&opts.maxSteps, "max-steps", agent.DefaultMaxSteps, "maximum provider calls per run")
	pflag.IntVar(&opts.tokenLimit, "token-limit", agent.DefaultTokenLimit, "history token budget before summarization")
	pflag.StringVar(&opts.sessionDB, "session-db", "", "SQLite file for session persistence")
	pflag.StringVar(&opts.sessionID, "session", "", "resume a stored session by id (requires --session-db)")
	pflag.Parse()

	if opts.apiKey == "" {
		for _, env := range []string{"TINAGENT_API_KEY", "ANTHROPIC_API_KEY", "OPENAI_API_KEY"} {
			if v := os.Getenv(env); v != "" {
				opts.apiKey = v
				break
			}
		}
	}
	if opts.apiKey == "" {
		return nil, errors.New("no API key: pass --api-key or set TINAGENT_API_KEY")
	}

	abs, err := filepath.Abs(opts.workspace)
	if err != nil {
		return nil, fmt.Errorf("resolve workspace: %w", err)
	}
	opts.workspace = abs
	return opts, nil
}

func run() error {
	opts, err := parseFlags()
	if err != nil {
		return err
	}

	dialect, err := llm.ParseDialect(opts.provider)
	if err != nil {
		return err
	}
	client, err := llm.NewClient(llm.Config{
		Dialect: dialect,
		APIKey:  opts.apiKey,
		BaseURL: opts.baseURL,
		Model:   opts.model,
	})
	if err != nil {
		return err
	}

	tools := []agent.Tool{
		&agent.ReadFileTool{Workspace: opts.workspace},
		&agent.WriteFileTool{Workspace: opts.workspace},
		&agent.EditFileTool{Workspace: opts.workspace},
		&agent.BashTool{Workspace: opts.workspace},
	}

	prompt := systemPrompt
	if opts.skillsDir != "" {
		loader := skills.NewLoader(opts.skillsDir)
		loader.Discover()
		for _, warn := range loader.Warnings() {
			fmt.Fprintf(os.Stderr, "warning: %v\n", warn)
		}
		if meta := loader.MetadataPrompt(); meta != "" {
			prompt += "\n\n" + meta
		}
		tools = append(tools, loader.Tools()...)
	}

	dim := color.New(color.Faint)
	cyan := color.New(color.FgCyan)
	yellow := color.New(color.FgYellow)
	red := color.New(color.FgRed)

	ag := agent.New(client, agent.Config{
		SystemPrompt: prompt,
		MaxSteps:     opts.maxSteps,
		TokenLimit:   opts.tokenLimit,
		Workspace:    opts.workspace,
		Hooks: agent.Hooks{
			OnStep: func(step, maxSteps int) {
				dim.Fprintf(os.Stderr, "[step %d/%d]\n", step, maxSteps)
			},
			OnToolCall: func(call llm.ToolCall) {
				yellow.Fprintf(os.Stderr, "-> %s %s\n", call.Name, summarizeArgs(call.Args))
			},
			OnToolResult: func(call llm.ToolCall, result agent.ToolResult) {
				if !result.Success {
					red.Fprintf(os.Stderr, "   error: %s\n", result.Error)
				}
			},
			OnSummarize: func(before, after int) {
				dim.Fprintf(os.Stderr, "[compacted history: %d -> %d tokens]\n", before, after)
			},
		},
	}, tools...)

	var store *session.Store
	if opts.sessionDB != "" {
		store, err = session.Open(opts.sessionDB)
		if err != nil {
			return err
		}
		defer store.Close()
		if opts.sessionID != "" {
			rec, err := store.Load(opts.sessionID)
			if err != nil {
				return err
			}
			if err := ag.RestoreHistory(rec.Messages); err != nil {
				return err
			}
			dim.Fprintf(os.Stderr, "resumed session %s (%d messages)\n", rec.ID, len(rec.Messages))
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if opts.task != "" {
		return runTask(ctx, ag, store, opts, opts.task, cyan)
	}
	return repl(ctx, ag, store, opts, cyan)
}

func runTask(ctx context.Context, ag *agent.Agent, store *session.Store, opts *options, task string, out *color.Color) error {
	ag.AddUserMessage(task)
	result, err := ag.Run(ctx)
	if saveErr := persist(ag, store, opts, task); saveErr != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", saveErr)
	}
	if err != nil {
		return err
	}
	out.Println(result)
	return nil
}

func repl(ctx context.Context, ag *agent.Agent, store *session.Store, opts *options, out *color.Color) error {
	rl, err := readline.New("tinagent> ")
	if err != nil {
		return fmt.Errorf("init readline: %w", err)
	}
	defer rl.Close()

	fmt.Println("Interactive mode. Type a task, or exit/quit/q to leave.")
	var firstTask string
	for {
		line, err := rl.Readline()
		if err != nil {
			// Ctrl-D or Ctrl-C at the prompt ends the session.
			if errors.Is(err, readline.ErrInterrupt) || err.Error() == "EOF" {
				return nil
			}
			return err
		}
		input := strings.TrimSpace(line)
		switch input {
		case "":
			continue
		case "exit", "quit", "q":
			return nil
		}
		if firstTask == "" {
			firstTask = input
		}

		ag.AddUserMessage(input)
		result, err := ag.Run(ctx)
		if saveErr := persist(ag, store, opts, firstTask); saveErr != nil {
			fmt.Fprintf(os.Stderr, "warning: %v\n", saveErr)
		}
		if err != nil {
			if errors.Is(err, context.Canceled) {
				fmt.Fprintln(os.Stderr, "interrupted")
				return nil
			}
			return err
		}
		out.Println(result)
	}
}

// persist upserts the session after each run so an interrupt loses at most
// the in-flight step.
func persist(ag *agent.Agent, store *session.Store, opts *options, title string) error {
	if store == nil {
		return nil
	}
	if len(title) > 80 {
		title = title[:80]
	}
	id, err := store.Save(opts.sessionID, title, ag.History())
	if err != nil {
		return err
	}
	opts.sessionID = id
	return nil
}

func summarizeArgs(args map[string]any) string {
	if len(args) == 0 {
		return ""
	}
	for _, key := range []string{"command", "path", "name"} {
		if v, ok := args[key].(string); ok {
			if len(v) > 60 {
				v = v[:60] + "..."
			}
			return v
		}
	}
	return fmt.Sprintf("(%d args)", len(args))
}
