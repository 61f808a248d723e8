package skills

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeSkill(t *testing.T, dir, name, content string) string {
	t.Helper()
	skillDir := filepath.Join(dir, name)
	if err := os.MkdirAll(skillDir, 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(skillDir, "SKILL.md")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const calculatorSkill = `---
name: calculator
description: Perform arithmetic calculations
---

# Calculator

Use bc for arithmetic.
`

const weatherSkill = `---
name: weather
description: Look up weather conditions
---

# Weather

Query wttr.in with curl.
`

func TestDiscoverLoadsSkills(t *testing.T) {
	dir := t.TempDir()
	writeSkill(t, dir, "calculator", calculatorSkill)
	writeSkill(t, dir, "weather", weatherSkill)

	loader := NewLoader(dir)
	found := loader.Discover()
	if len(found) != 2 {
		t.Fatalf("expected 2 skills, got %d", len(found))
	}
	if loader.Count() != 2 {
		t.Errorf("expected count 2, got %d", loader.Count())
	}

	skill, ok := loader.Get("calculator")
	if !ok {
		t.Fatal("expected calculator skill")
	}
	if skill.Description != "Perform arithmetic calculations" {
		t.Errorf("unexpected description: %q", skill.Description)
	}
	if !strings.Contains(skill.Content, "Use bc for arithmetic.") {
		t.Errorf("unexpected content: %q", skill.Content)
	}
	if strings.Contains(skill.Content, "---") {
		t.Error("frontmatter must be stripped from content")
	}
}

func TestDiscoverMissingDirectory(t *testing.T) {
	loader := NewLoader(filepath.Join(t.TempDir(), "nope"))
	if found := loader.Discover(); found != nil {
		t.Errorf("expected nil for missing directory, got %v", found)
	}
}

func TestDiscoverSkipsMalformed(t *testing.T) {
	dir := t.TempDir()
	writeSkill(t, dir, "good", calculatorSkill)
	writeSkill(t, dir, "no-frontmatter", "# Just a heading\n\nNo frontmatter at all.\n")
	writeSkill(t, dir, "missing-fields", "---\nname: incomplete\n---\n\nBody.\n")

	loader := NewLoader(dir)
	found := loader.Discover()
	if len(found) != 1 {
		t.Fatalf("expected only the valid skill, got %d", len(found))
	}
	if found[0].Name != "calculator" {
		t.Errorf("unexpected skill: %q", found[0].Name)
	}
	if len(loader.Warnings()) != 2 {
		t.Errorf("expected 2 warnings, got %d: %v", len(loader.Warnings()), loader.Warnings())
	}
}

func TestMetadataPrompt(t *testing.T) {
	dir := t.TempDir()
	writeSkill(t, dir, "calculator", calculatorSkill)
	writeSkill(t, dir, "weather", weatherSkill)

	loader := NewLoader(dir)
	loader.Discover()

	prompt := loader.MetadataPrompt()
	if !strings.Contains(prompt, "Available Skills") {
		t.Error("expected skills heading")
	}
	if !strings.Contains(prompt, "`calculator`: Perform arithmetic calculations") {
		t.Errorf("expected calculator entry, got %q", prompt)
	}
	if !strings.Contains(prompt, "`weather`: Look up weather conditions") {
		t.Errorf("expected weather entry, got %q", prompt)
	}
	// Metadata only; skill bodies stay out of the system prompt.
	if strings.Contains(prompt, "bc for arithmetic") {
		t.Error("skill body leaked into metadata prompt")
	}
}

func TestMetadataPromptEmptyWithoutSkills(t *testing.T) {
	loader := NewLoader(t.TempDir())
	loader.Discover()
	if prompt := loader.MetadataPrompt(); prompt != "" {
		t.Errorf("expected empty prompt, got %q", prompt)
	}
}

func TestPathRewriting(t *testing.T) {
	dir := t.TempDir()
	skillDir := filepath.Join(dir, "converter")
	if err := os.MkdirAll(filepath.Join(skillDir, "scripts"), 0o755); err != nil {
		t.Fatal(err)
	}
	scriptPath := filepath.Join(skillDir, "scripts", "convert.py")
	if err := os.WriteFile(scriptPath, []byte("print('hi')"), 0o644); err != nil {
		t.Fatal(err)
	}
	content := `---
name: converter
description: Convert files
---

Run ` + "`scripts/convert.py`" + ` to convert.
Also missing: ` + "`scripts/nope.py`" + `.
`
	if err := os.WriteFile(filepath.Join(skillDir, "SKILL.md"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	loader := NewLoader(dir)
	loader.Discover()
	skill, ok := loader.Get("converter")
	if !ok {
		t.Fatal("expected converter skill")
	}
	if !strings.Contains(skill.Content, scriptPath) {
		t.Errorf("expected absolute path for existing script, got %q", skill.Content)
	}
	// References to files that do not exist are left alone.
	if !strings.Contains(skill.Content, "`scripts/nope.py`") {
		t.Errorf("missing script reference should be untouched, got %q", skill.Content)
	}
}

func TestSkillToolsAbsentWithoutSkills(t *testing.T) {
	loader := NewLoader(t.TempDir())
	loader.Discover()
	if tools := loader.Tools(); tools != nil {
		t.Errorf("expected no tools without skills, got %d", len(tools))
	}
}

func TestListSkillsTool(t *testing.T) {
	dir := t.TempDir()
	writeSkill(t, dir, "calculator", calculatorSkill)
	loader := NewLoader(dir)
	loader.Discover()

	tools := loader.Tools()
	if len(tools) != 2 {
		t.Fatalf("expected list_skills and get_skill, got %d tools", len(tools))
	}

	list := &ListSkillsTool{Loader: loader}
	result := list.Execute(context.Background(), nil)
	if !result.Success {
		t.Fatalf("list_skills failed: %s", result.Error)
	}
	if !strings.Contains(result.Content, "calculator: Perform arithmetic calculations") {
		t.Errorf("unexpected listing: %q", result.Content)
	}
}

func TestGetSkillTool(t *testing.T) {
	dir := t.TempDir()
	writeSkill(t, dir, "calculator", calculatorSkill)
	writeSkill(t, dir, "weather", weatherSkill)
	loader := NewLoader(dir)
	loader.Discover()

	get := &GetSkillTool{Loader: loader}

	result := get.Execute(context.Background(), map[string]any{"name": "calculator"})
	if !result.Success {
		t.Fatalf("get_skill failed: %s", result.Error)
	}
	if !strings.Contains(result.Content, "# Skill: calculator") {
		t.Errorf("expected skill header, got %q", result.Content)
	}
	if !strings.Contains(result.Content, "Skill Root Directory") {
		t.Error("expected root directory in skill prompt")
	}

	// Unknown names fail and list what is available.
	result = get.Execute(context.Background(), map[string]any{"name": "nope"})
	if result.Success {
		t.Fatal("expected failure for unknown skill")
	}
	if !strings.Contains(result.Error, "calculator, weather") {
		t.Errorf("expected available names in error, got %q", result.Error)
	}
}
