package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
)

// OpenAI Chat Completions wire types. The system message stays in-line in
// the message array; tool calls ride a parallel tool_calls array with
// JSON-encoded argument strings.

type openAIRequest struct {
	Model    string          `json:"model"`
	Messages []openAIMessage `json:"messages"`
	Tools    []openAITool    `json:"tools,omitempty"`
}

type openAIMessage struct {
	Role       string           `json:"role"`
	Content    any              `json:"content,omitempty"`
	ToolCallID string           `json:"tool_call_id,omitempty"`
	Name       string           `json:"name,omitempty"`
	ToolCalls  []openAIToolCall `json:"tool_calls,omitempty"`
}

type openAITool struct {
	Type     string             `json:"type"`
	Function openAIFunctionDecl `json:"function"`
}

type openAIFunctionDecl struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Parameters  map[string]any `json:"parameters,omitempty"`
}

type openAIToolCall struct {
	ID       string             `json:"id"`
	Type     string             `json:"type"`
	Function openAICallFunction `json:"function"`
}

type openAICallFunction struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

type openAIResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message openAIMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

func (c *Client) generateOpenAI(ctx context.Context, messages []Message, tools []ToolDefinition) (*Response, error) {
	payload := openAIRequest{
		Model:    c.model,
		Messages: toOpenAIMessages(messages),
		Tools:    toOpenAITools(tools),
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, &NetworkError{SDKError: SDKError{Message: "openai request failed", Cause: err}}
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, ErrorFromStatusCode(resp.StatusCode, readErrorBody(resp.Body), DialectOpenAI)
	}

	var out openAIResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &MalformedResponseError{SDKError: SDKError{Message: "decode openai response", Cause: err}}
	}
	if len(out.Choices) == 0 {
		return nil, &MalformedResponseError{SDKError: SDKError{Message: "openai response has no choices"}}
	}

	msg := out.Choices[0].Message
	result := &Response{
		Model: out.Model,
		Usage: Usage{
			InputTokens:  out.Usage.PromptTokens,
			OutputTokens: out.Usage.CompletionTokens,
			TotalTokens:  out.Usage.TotalTokens,
		},
	}
	if text, ok := msg.Content.(string); ok {
		result.Content = text
	}
	for _, tc := range msg.ToolCalls {
		args := map[string]any{}
		if tc.Function.Arguments != "" {
			// Malformed argument JSON is an error, never a silent fallback.
			if err := json.Unmarshal([]byte(tc.Function.Arguments), &args); err != nil {
				return nil, &MalformedResponseError{SDKError: SDKError{
					Message: "parse tool call arguments for " + tc.Function.Name,
					Cause:   err,
				}}
			}
		}
		result.ToolCalls = append(result.ToolCalls, ToolCall{
			ID:   tc.ID,
			Name: tc.Function.Name,
			Args: args,
		})
	}
	return result, nil
}

func toOpenAITools(tools []ToolDefinition) []openAITool {
	if len(tools) == 0 {
		return nil
	}
	out := make([]openAITool, 0, len(tools))
	for _, t := range tools {
		out = append(out, openAITool{
			Type: "function",
			Function: openAIFunctionDecl{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.Parameters,
			},
		})
	}
	return out
}

func toOpenAIMessages(messages []Message) []openAIMessage {
	out := make([]openAIMessage, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			out = append(out, openAIMessage{Role: "system", Content: m.Content})
		case RoleUser:
			out = append(out, openAIMessage{Role: "user", Content: m.Content})
		case RoleAssistant:
			if len(m.ToolCalls) == 0 {
				out = append(out, openAIMessage{Role: "assistant", Content: m.Content})
				continue
			}
			calls := make([]openAIToolCall, 0, len(m.ToolCalls))
			for _, call := range m.ToolCalls {
				raw, _ := json.Marshal(call.Args)
				calls = append(calls, openAIToolCall{
					ID:   call.ID,
					Type: "function",
					Function: openAICallFunction{
						Name:      call.Name,
						Arguments: string(raw),
					},
				})
			}
			var content any
			if m.Content != "" {
				content = m.Content
			}
			out = append(out, openAIMessage{Role: "assistant", Content: content, ToolCalls: calls})
		case RoleTool:
			out = append(out, openAIMessage{
				Role:       "tool",
				Content:    m.Content,
				ToolCallID: m.ToolCallID,
				Name:       m.Name,
			})
		}
	}
	return out
}
