package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
)

// Anthropic Messages API wire types. The system message travels in the
// top-level "system" field; tool exchanges are content blocks.

type anthropicRequest struct {
	Model     string              `json:"model"`
	System    string              `json:"system,omitempty"`
	Messages  []anthropicMessage  `json:"messages"`
	Tools     []anthropicToolDecl `json:"tools,omitempty"`
	MaxTokens int                 `json:"max_tokens"`
}

type anthropicMessage struct {
	Role    string             `json:"role"`
	Content any                `json:"content"`
}

type anthropicMsgPart struct {
	Type      string         `json:"type"`
	Text      string         `json:"text,omitempty"`
	ID        string         `json:"id,omitempty"`
	Name      string         `json:"name,omitempty"`
	Input     map[string]any `json:"input,omitempty"`
	ToolUseID string         `json:"tool_use_id,omitempty"`
	Content   string         `json:"content,omitempty"`
}

type anthropicToolDecl struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	InputSchema map[string]any `json:"input_schema"`
}

type anthropicResponse struct {
	Model   string `json:"model"`
	Content []struct {
		Type  string         `json:"type"`
		Text  string         `json:"text,omitempty"`
		ID    string         `json:"id,omitempty"`
		Name  string         `json:"name,omitempty"`
		Input map[string]any `json:"input,omitempty"`
	} `json:"content"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

func (c *Client) generateAnthropic(ctx context.Context, messages []Message, tools []ToolDefinition) (*Response, error) {
	system, apiMessages := toAnthropicMessages(messages)
	payload := anthropicRequest{
		Model:     c.model,
		System:    system,
		Messages:  apiMessages,
		Tools:     toAnthropicTools(tools),
		MaxTokens: c.maxTokens,
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/messages", bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("anthropic-version", "2023-06-01")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, &NetworkError{SDKError: SDKError{Message: "anthropic request failed", Cause: err}}
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, ErrorFromStatusCode(resp.StatusCode, readErrorBody(resp.Body), DialectAnthropic)
	}

	var out anthropicResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &MalformedResponseError{SDKError: SDKError{Message: "decode anthropic response", Cause: err}}
	}

	result := &Response{
		Model: out.Model,
		Usage: Usage{
			InputTokens:  out.Usage.InputTokens,
			OutputTokens: out.Usage.OutputTokens,
			TotalTokens:  out.Usage.InputTokens + out.Usage.OutputTokens,
		},
	}
	textParts := make([]string, 0, len(out.Content))
	for _, part := range out.Content {
		switch part.Type {
		case "text":
			if part.Text != "" {
				textParts = append(textParts, part.Text)
			}
		case "tool_use":
			result.ToolCalls = append(result.ToolCalls, ToolCall{
				ID:   part.ID,
				Name: part.Name,
				Args: part.Input,
			})
		}
	}
	result.Content = strings.Join(textParts, "")
	return result, nil
}

func toAnthropicTools(tools []ToolDefinition) []anthropicToolDecl {
	if len(tools) == 0 {
		return nil
	}
	out := make([]anthropicToolDecl, 0, len(tools))
	for _, t := range tools {
		out = append(out, anthropicToolDecl{
			Name:        t.Name,
			Description: t.Description,
			InputSchema: t.Parameters,
		})
	}
	return out
}

// toAnthropicMessages extracts the system message into the separate system
// field, serializes assistant tool calls as tool_use blocks, and re-maps
// tool messages to user-role tool_result blocks keyed by the call id.
func toAnthropicMessages(messages []Message) (string, []anthropicMessage) {
	system := ""
	out := make([]anthropicMessage, 0, len(messages))

	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			system = m.Content
		case RoleUser:
			out = append(out, anthropicMessage{Role: "user", Content: m.Content})
		case RoleAssistant:
			if len(m.ToolCalls) == 0 {
				out = append(out, anthropicMessage{Role: "assistant", Content: m.Content})
				continue
			}
			parts := make([]anthropicMsgPart, 0, len(m.ToolCalls)+1)
			if strings.TrimSpace(m.Content) != "" {
				parts = append(parts, anthropicMsgPart{Type: "text", Text: m.Content})
			}
			for _, call := range m.ToolCalls {
				parts = append(parts, anthropicMsgPart{
					Type:  "tool_use",
					ID:    call.ID,
					Name:  call.Name,
					Input: call.Args,
				})
			}
			out = append(out, anthropicMessage{Role: "assistant", Content: parts})
		case RoleTool:
			out = append(out, anthropicMessage{
				Role: "user",
				Content: []anthropicMsgPart{{
					Type:      "tool_result",
					ToolUseID: m.ToolCallID,
					Content:   m.Content,
				}},
			})
		}
	}

	return system, out
}

func readErrorBody(r io.Reader) string {
	raw, _ := io.ReadAll(io.LimitReader(r, 4096))
	return strings.TrimSpace(string(raw))
}
