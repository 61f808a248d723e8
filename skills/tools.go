package skills

import (
	"context"
	"fmt"
	"strings"

	"github.com/martinemde/tinagent/agent"
)

// ListSkillsTool enumerates loaded skills with their descriptions.
type ListSkillsTool struct {
	Loader *Loader
}

func (t *ListSkillsTool) Name() string { return "list_skills" }

func (t *ListSkillsTool) Description() string {
	return "List all available skills with their descriptions."
}

func (t *ListSkillsTool) Parameters() map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": map[string]any{},
	}
}

func (t *ListSkillsTool) Execute(_ context.Context, _ map[string]any) agent.ToolResult {
	names := t.Loader.Names()
	if len(names) == 0 {
		return agent.Ok("No skills available.")
	}
	var b strings.Builder
	b.WriteString("Available skills:\n")
	for _, name := range names {
		skill, _ := t.Loader.Get(name)
		fmt.Fprintf(&b, "- %s: %s\n", name, skill.Description)
	}
	return agent.Ok(strings.TrimRight(b.String(), "\n"))
}

// GetSkillTool loads a skill's full content by name.
type GetSkillTool struct {
	Loader *Loader
}

func (t *GetSkillTool) Name() string { return "get_skill" }

func (t *GetSkillTool) Description() string {
	return "Load the full content of a skill by name. Use list_skills to see available skills."
}

func (t *GetSkillTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"name": map[string]any{
				"type":        "string",
				"description": "Name of the skill to load",
			},
		},
		"required": []string{"name"},
	}
}

func (t *GetSkillTool) Execute(_ context.Context, args map[string]any) agent.ToolResult {
	name, _ := args["name"].(string)
	if name == "" {
		return agent.Fail("name is required")
	}
	skill, ok := t.Loader.Get(name)
	if !ok {
		available := strings.Join(t.Loader.Names(), ", ")
		if available == "" {
			available = "(none)"
		}
		return agent.Fail("Skill not found: %s. Available skills: %s", name, available)
	}
	return agent.Ok(skill.ToPrompt())
}

// Tools returns the skill meta-tools, or nil when no skills were discovered.
// An agent without skills carries no skill tooling at all.
func (l *Loader) Tools() []agent.Tool {
	if l.Count() == 0 {
		return nil
	}
	return []agent.Tool{
		&ListSkillsTool{Loader: l},
		&GetSkillTool{Loader: l},
	}
}
