package agent

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestBashToolRunsCommand(t *testing.T) {
	tool := &BashTool{Workspace: t.TempDir()}
	result := tool.Execute(context.Background(), map[string]any{"command": "echo hello"})
	if !result.Success {
		t.Fatalf("expected success: %s", result.Error)
	}
	if strings.TrimSpace(result.Content) != "hello" {
		t.Errorf("unexpected output: %q", result.Content)
	}
}

func TestBashToolRunsInWorkspace(t *testing.T) {
	ws := t.TempDir()
	tool := &BashTool{Workspace: ws}
	result := tool.Execute(context.Background(), map[string]any{"command": "pwd"})
	if !result.Success {
		t.Fatalf("expected success: %s", result.Error)
	}
	if !strings.Contains(result.Content, ws) {
		t.Errorf("expected workspace cwd %q, got %q", ws, result.Content)
	}
}

func TestBashToolNoOutput(t *testing.T) {
	tool := &BashTool{Workspace: t.TempDir()}
	result := tool.Execute(context.Background(), map[string]any{"command": "true"})
	if !result.Success {
		t.Fatalf("expected success: %s", result.Error)
	}
	if result.Content != "(no output)" {
		t.Errorf("unexpected output: %q", result.Content)
	}
}

func TestBashToolExitCode(t *testing.T) {
	tool := &BashTool{Workspace: t.TempDir()}
	result := tool.Execute(context.Background(), map[string]any{"command": "echo oops >&2; exit 3"})
	if result.Success {
		t.Fatal("expected failure")
	}
	if !strings.Contains(result.Error, "exit code 3") {
		t.Errorf("expected exit code in error: %q", result.Error)
	}
	if !strings.Contains(result.Error, "oops") {
		t.Errorf("expected stderr in error: %q", result.Error)
	}
}

func TestBashToolMissingCommand(t *testing.T) {
	tool := &BashTool{Workspace: t.TempDir()}
	result := tool.Execute(context.Background(), map[string]any{})
	if result.Success {
		t.Fatal("expected failure for missing command")
	}
}

func TestBashToolTimeout(t *testing.T) {
	tool := &BashTool{Workspace: t.TempDir(), Timeout: 100 * time.Millisecond}

	start := time.Now()
	result := tool.Execute(context.Background(), map[string]any{"command": "sleep 5"})
	elapsed := time.Since(start)

	if result.Success {
		t.Fatal("expected timeout failure")
	}
	if !strings.Contains(result.Error, "timed out") {
		t.Errorf("expected timeout error, got %q", result.Error)
	}
	if elapsed > 2*time.Second {
		t.Errorf("process not killed promptly: %v", elapsed)
	}
}

func TestBashToolPerCallTimeoutOverride(t *testing.T) {
	tool := &BashTool{Workspace: t.TempDir(), Timeout: 10 * time.Second}
	result := tool.Execute(context.Background(), map[string]any{
		"command": "sleep 5",
		"timeout": float64(1),
	})
	if result.Success {
		t.Fatal("expected timeout failure")
	}
	if !strings.Contains(result.Error, "timed out after 1 seconds") {
		t.Errorf("expected per-call timeout, got %q", result.Error)
	}
}
