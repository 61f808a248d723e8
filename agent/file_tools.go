package agent

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// resolvePath anchors relative paths at the workspace directory.
func resolvePath(workspace, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(workspace, path)
}

// ReadFileTool reads a file and returns line-numbered content.
type ReadFileTool struct {
	Workspace string
}

func (t *ReadFileTool) Name() string { return "read_file" }

func (t *ReadFileTool) Description() string {
	return "Read file contents from the filesystem. Output includes line numbers."
}

func (t *ReadFileTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"path": map[string]any{
				"type":        "string",
				"description": "Absolute or relative path to the file",
			},
		},
		"required": []string{"path"},
	}
}

func (t *ReadFileTool) Execute(_ context.Context, args map[string]any) ToolResult {
	path, ok := stringArg(args, "path")
	if !ok || path == "" {
		return Fail("path is required")
	}
	full := resolvePath(t.Workspace, path)
	raw, err := os.ReadFile(full)
	if err != nil {
		if os.IsNotExist(err) {
			return Fail("File not found: %s", path)
		}
		return Fail("%v", err)
	}

	lines := strings.Split(strings.TrimRight(string(raw), "\n"), "\n")
	numbered := make([]string, len(lines))
	for i, line := range lines {
		numbered[i] = fmt.Sprintf("%6d|%s", i+1, line)
	}
	return Ok(strings.Join(numbered, "\n"))
}

// WriteFileTool writes complete file content, creating parent directories.
type WriteFileTool struct {
	Workspace string
}

func (t *WriteFileTool) Name() string { return "write_file" }

func (t *WriteFileTool) Description() string {
	return "Write content to a file. Will overwrite existing files completely."
}

func (t *WriteFileTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"path": map[string]any{
				"type":        "string",
				"description": "Absolute or relative path to the file",
			},
			"content": map[string]any{
				"type":        "string",
				"description": "Complete content to write",
			},
		},
		"required": []string{"path", "content"},
	}
}

func (t *WriteFileTool) Execute(_ context.Context, args map[string]any) ToolResult {
	path, ok := stringArg(args, "path")
	if !ok || path == "" {
		return Fail("path is required")
	}
	content, ok := stringArg(args, "content")
	if !ok {
		return Fail("content is required")
	}
	full := resolvePath(t.Workspace, path)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return Fail("%v", err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		return Fail("%v", err)
	}
	return Ok(fmt.Sprintf("Successfully wrote to %s", full))
}

// EditFileTool performs exact string replacement in a file.
type EditFileTool struct {
	Workspace string
}

func (t *EditFileTool) Name() string { return "edit_file" }

func (t *EditFileTool) Description() string {
	return "Perform exact string replacement in a file."
}

func (t *EditFileTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"path": map[string]any{
				"type":        "string",
				"description": "Absolute or relative path to the file",
			},
			"old_str": map[string]any{
				"type":        "string",
				"description": "Exact string to find and replace",
			},
			"new_str": map[string]any{
				"type":        "string",
				"description": "Replacement string",
			},
		},
		"required": []string{"path", "old_str", "new_str"},
	}
}

func (t *EditFileTool) Execute(_ context.Context, args map[string]any) ToolResult {
	path, ok := stringArg(args, "path")
	if !ok || path == "" {
		return Fail("path is required")
	}
	oldStr, ok := stringArg(args, "old_str")
	if !ok {
		return Fail("old_str is required")
	}
	newStr, ok := stringArg(args, "new_str")
	if !ok {
		return Fail("new_str is required")
	}

	full := resolvePath(t.Workspace, path)
	raw, err := os.ReadFile(full)
	if err != nil {
		if os.IsNotExist(err) {
			return Fail("File not found: %s", path)
		}
		return Fail("%v", err)
	}
	content := string(raw)
	if !strings.Contains(content, oldStr) {
		return Fail("Text not found in file")
	}
	if err := os.WriteFile(full, []byte(strings.Replace(content, oldStr, newStr, 1)), 0o644); err != nil {
		return Fail("%v", err)
	}
	return Ok(fmt.Sprintf("Successfully edited %s", full))
}
