package llm

import "testing"

func TestParseDialect(t *testing.T) {
	tests := []struct {
		in      string
		want    Dialect
		wantErr bool
	}{
		{"anthropic", DialectAnthropic, false},
		{"Anthropic", DialectAnthropic, false},
		{" openai ", DialectOpenAI, false},
		{"gemini", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseDialect(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseDialect(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseDialect(%q): unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseDialect(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	_, err := NewClient(Config{Dialect: DialectAnthropic})
	if err == nil {
		t.Fatal("expected error for missing API key")
	}
	if _, ok := err.(*ConfigurationError); !ok {
		t.Errorf("expected *ConfigurationError, got %T", err)
	}
}

func TestNewClientRejectsUnknownDialect(t *testing.T) {
	_, err := NewClient(Config{Dialect: "gemini", APIKey: "key"})
	if err == nil {
		t.Fatal("expected error for unknown dialect")
	}
}

func TestNewClientDefaults(t *testing.T) {
	c, err := NewClient(Config{Dialect: DialectAnthropic, APIKey: "key"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Model() != DefaultModel {
		t.Errorf("expected default model %q, got %q", DefaultModel, c.Model())
	}
	if c.BaseURL() != DefaultBaseURL+"/anthropic" {
		t.Errorf("expected aggregator anthropic base path, got %q", c.BaseURL())
	}
}

func TestResolveBaseURL(t *testing.T) {
	tests := []struct {
		base    string
		dialect Dialect
		want    string
	}{
		{"https://api.minimaxi.com", DialectAnthropic, "https://api.minimaxi.com/anthropic"},
		{"https://api.minimaxi.com/", DialectOpenAI, "https://api.minimaxi.com/v1"},
		{"https://api.minimax.io", DialectOpenAI, "https://api.minimax.io/v1"},
		{"https://api.anthropic.com/v1", DialectAnthropic, "https://api.anthropic.com/v1"},
		{"https://api.openai.com/v1", DialectOpenAI, "https://api.openai.com/v1"},
		{"http://localhost:8080", DialectAnthropic, "http://localhost:8080"},
	}
	for _, tt := range tests {
		if got := resolveBaseURL(tt.base, tt.dialect); got != tt.want {
			t.Errorf("resolveBaseURL(%q, %s) = %q, want %q", tt.base, tt.dialect, got, tt.want)
		}
	}
}

func TestResponseHelpers(t *testing.T) {
	var nilResp *Response
	if nilResp.HasToolCalls() {
		t.Error("nil response should have no tool calls")
	}
	if nilResp.Text() != "" {
		t.Error("nil response text should be empty")
	}

	resp := &Response{Content: "  hello \n"}
	if resp.Text() != "hello" {
		t.Errorf("expected trimmed text, got %q", resp.Text())
	}
	if resp.HasToolCalls() {
		t.Error("expected no tool calls")
	}

	resp.ToolCalls = []ToolCall{{ID: "1", Name: "bash"}}
	if !resp.HasToolCalls() {
		t.Error("expected tool calls")
	}
}
