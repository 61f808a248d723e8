package agent

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// DefaultCommandTimeout bounds each shell invocation. This is the only
// explicit timeout in the core: on expiry the process is killed and a
// failure result is produced.
const DefaultCommandTimeout = 120 * time.Second

// BashTool executes shell commands in the workspace directory.
type BashTool struct {
	Workspace string
	// Timeout applies when the call does not pass its own. Zero means
	// DefaultCommandTimeout.
	Timeout time.Duration
}

func (t *BashTool) Name() string { return "bash" }

func (t *BashTool) Description() string {
	return `Execute bash commands in terminal.

For terminal operations like git, npm, docker, etc. DO NOT use for file operations.

Parameters:
  - command (required): Bash command to execute
  - timeout (optional): Timeout in seconds (default: 120)`
}

func (t *BashTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"command": map[string]any{
				"type":        "string",
				"description": "The bash command to execute",
			},
			"timeout": map[string]any{
				"type":        "integer",
				"description": "Timeout in seconds (default: 120)",
				"default":     120,
			},
		},
		"required": []string{"command"},
	}
}

func (t *BashTool) Execute(ctx context.Context, args map[string]any) ToolResult {
	command, ok := stringArg(args, "command")
	if !ok || command == "" {
		return Fail("command is required")
	}

	timeout := t.Timeout
	if timeout <= 0 {
		timeout = DefaultCommandTimeout
	}
	if secs, ok := intArg(args, "timeout"); ok && secs > 0 {
		timeout = time.Duration(secs) * time.Second
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "bash", "-c", command)
	cmd.Dir = t.Workspace
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return Fail("Command timed out after %d seconds", int(timeout.Seconds()))
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			msg := fmt.Sprintf("Command failed with exit code %d", exitErr.ExitCode())
			if stderr.Len() > 0 {
				msg += "\n" + stderr.String()
			}
			return Fail("%s", msg)
		}
		return Fail("%v", err)
	}

	out := stdout.String()
	if out == "" {
		out = "(no output)"
	}
	return Ok(out)
}
