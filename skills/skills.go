// Package skills discovers SKILL.md files and exposes them to the agent via
// progressive disclosure: name+description metadata in the system prompt,
// full content on demand through the get_skill tool.
package skills

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Skill is one loaded skill. Immutable after discovery.
type Skill struct {
	Name        string
	Description string
	Content     string
	Path        string
}

// ToPrompt renders the full skill body for the get_skill tool, including the
// root directory so the model can resolve bundled resources.
func (s Skill) ToPrompt() string {
	root := "unknown"
	if s.Path != "" {
		root = filepath.Dir(s.Path)
	}
	return fmt.Sprintf("# Skill: %s\n\n**Skill Root Directory:** `%s`\n\n---\n\n%s\n", s.Name, root, s.Content)
}

// frontmatter is the two-field contract every SKILL.md must satisfy.
// Additional fields are tolerated and ignored.
type frontmatter struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// Loader discovers and holds skills. Loaded once at agent construction.
type Loader struct {
	dir      string
	skills   map[string]Skill
	warnings []error
}

// NewLoader creates a Loader rooted at dir without scanning yet.
func NewLoader(dir string) *Loader {
	return &Loader{dir: dir, skills: make(map[string]Skill)}
}

// Discover walks the skills directory for SKILL.md files. Malformed entries
// are skipped with a warning, never fatal to the discovery pass.
func (l *Loader) Discover() []Skill {
	info, err := os.Stat(l.dir)
	if err != nil || !info.IsDir() {
		return nil
	}

	var found []Skill
	_ = filepath.WalkDir(l.dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || !strings.EqualFold(d.Name(), "SKILL.md") {
			return nil
		}
		skill, err := loadSkill(path)
		if err != nil {
			l.warnings = append(l.warnings, err)
			return nil
		}
		found = append(found, skill)
		l.skills[skill.Name] = skill
		return nil
	})

	sort.Slice(found, func(i, j int) bool { return found[i].Path < found[j].Path })
	return found
}

// Get returns a loaded skill by name.
func (l *Loader) Get(name string) (Skill, bool) {
	s, ok := l.skills[name]
	return s, ok
}

// Names returns loaded skill names in sorted order.
func (l *Loader) Names() []string {
	names := make([]string, 0, len(l.skills))
	for name := range l.skills {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of loaded skills.
func (l *Loader) Count() int { return len(l.skills) }

// Warnings returns the non-fatal problems hit during discovery.
func (l *Loader) Warnings() []error { return l.warnings }

// MetadataPrompt renders the Level-1 metadata section for the system prompt:
// every skill's name and description, full content withheld.
func (l *Loader) MetadataPrompt() string {
	if len(l.skills) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("## Available Skills\n\n")
	b.WriteString("You have access to specialized skills. Each skill provides expert guidance for specific tasks.\n")
	b.WriteString("Load a skill's full content using the get_skill tool when needed.\n\n")
	for _, name := range l.Names() {
		fmt.Fprintf(&b, "- `%s`: %s\n", name, l.skills[name].Description)
	}
	return strings.TrimRight(b.String(), "\n")
}

// loadSkill parses one SKILL.md: a ----delimited frontmatter block carrying
// name and description, then the free-form body.
func loadSkill(path string) (Skill, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Skill{}, fmt.Errorf("skills: read %q: %w", path, err)
	}
	content := strings.ReplaceAll(string(raw), "\r\n", "\n")

	block, body, ok := splitFrontmatter(content)
	if !ok {
		return Skill{}, fmt.Errorf("skills: %q missing frontmatter", path)
	}
	var fm frontmatter
	if err := yaml.Unmarshal([]byte(block), &fm); err != nil {
		return Skill{}, fmt.Errorf("skills: %q malformed frontmatter: %w", path, err)
	}
	name := strings.TrimSpace(fm.Name)
	description := strings.TrimSpace(fm.Description)
	if name == "" || description == "" {
		return Skill{}, fmt.Errorf("skills: %q missing required name/description fields", path)
	}

	return Skill{
		Name:        name,
		Description: description,
		Content:     rewritePaths(strings.TrimSpace(body), filepath.Dir(path)),
		Path:        path,
	}, nil
}

func splitFrontmatter(content string) (block, body string, ok bool) {
	trimmed := strings.TrimLeft(content, "\n\r\t ")
	if !strings.HasPrefix(trimmed, "---\n") {
		return "", "", false
	}
	rest := strings.TrimPrefix(trimmed, "---\n")
	idx := strings.Index(rest, "\n---")
	if idx < 0 {
		return "", "", false
	}
	block = rest[:idx]
	body = rest[idx+len("\n---"):]
	body = strings.TrimPrefix(strings.TrimPrefix(body, "\n"), "\n")
	return block, body, true
}

// Level-3 path resolution: references to bundled scripts/, references/, and
// assets/ are rewritten to absolute paths when the target exists, so the
// model can run them from any working directory.
var (
	inlinePathPattern = regexp.MustCompile("(python3?\\s+|`)((?:scripts|references|assets)/[^\\s`)]+)")
	mdLinkPattern     = regexp.MustCompile(`\[([^\]]+)\]\(((?:\./)?(?:scripts|references|assets)/[^)]+)\)`)
)

func rewritePaths(content, skillDir string) string {
	content = inlinePathPattern.ReplaceAllStringFunc(content, func(match string) string {
		parts := inlinePathPattern.FindStringSubmatch(match)
		abs := filepath.Join(skillDir, parts[2])
		if _, err := os.Stat(abs); err != nil {
			return match
		}
		if parts[1] == "`" {
			return "`" + abs
		}
		return parts[1] + "`" + abs + "`"
	})
	content = mdLinkPattern.ReplaceAllStringFunc(content, func(match string) string {
		parts := mdLinkPattern.FindStringSubmatch(match)
		rel := strings.TrimPrefix(parts[2], "./")
		abs := filepath.Join(skillDir, rel)
		if _, err := os.Stat(abs); err != nil {
			return match
		}
		return fmt.Sprintf("[%s](`%s`)", parts[1], abs)
	})
	return content
}
