package llm

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Dialect selects the wire encoding used by a Client. It is a closed set:
// new providers add a variant here, not a subclass hierarchy.
type Dialect string

const (
	DialectAnthropic Dialect = "anthropic"
	DialectOpenAI    Dialect = "openai"
)

// ParseDialect maps a provider name to its Dialect.
func ParseDialect(name string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "anthropic":
		return DialectAnthropic, nil
	case "openai":
		return DialectOpenAI, nil
	default:
		return "", &ConfigurationError{SDKError: SDKError{Message: "unknown provider " + name}}
	}
}

const (
	// DefaultBaseURL targets the MiniMax aggregator, which fronts both
	// dialects under per-dialect base paths.
	DefaultBaseURL = "https://api.minimaxi.com"
	DefaultModel   = "MiniMax-M2.5"

	defaultMaxTokens = 8192
	defaultTimeout   = 120 * time.Second
)

// Config describes a Client. APIKey is required; everything else has a
// working default.
type Config struct {
	Dialect   Dialect
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int
	Timeout   time.Duration
	Retry     *RetryPolicy
}

// Client translates provider-agnostic messages and tool definitions into one
// of the wire dialects and normalizes the reply. Transport and auth failures
// propagate as fatal errors out of Generate.
type Client struct {
	dialect   Dialect
	apiKey    string
	baseURL   string
	model     string
	maxTokens int
	retry     RetryPolicy
	http      *http.Client
}

// NewClient creates a Client for the configured dialect.
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, &ConfigurationError{SDKError: SDKError{Message: "api key is required"}}
	}
	switch cfg.Dialect {
	case DialectAnthropic, DialectOpenAI:
	default:
		return nil, &ConfigurationError{SDKError: SDKError{Message: "unknown dialect " + string(cfg.Dialect)}}
	}

	base := cfg.BaseURL
	if strings.TrimSpace(base) == "" {
		base = DefaultBaseURL
	}
	model := cfg.Model
	if strings.TrimSpace(model) == "" {
		model = DefaultModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	policy := DefaultRetryPolicy()
	if cfg.Retry != nil {
		policy = *cfg.Retry
	}

	return &Client{
		dialect:   cfg.Dialect,
		apiKey:    cfg.APIKey,
		baseURL:   resolveBaseURL(base, cfg.Dialect),
		model:     model,
		maxTokens: maxTokens,
		retry:     policy,
		http:      &http.Client{Timeout: timeout},
	}, nil
}

// Dialect returns the wire dialect this client speaks.
func (c *Client) Dialect() Dialect { return c.dialect }

// Model returns the configured model identifier.
func (c *Client) Model() string { return c.model }

// BaseURL returns the resolved endpoint base, including any aggregator
// dialect suffix.
func (c *Client) BaseURL() string { return c.baseURL }

// Generate sends the message history and tool schemas to the provider and
// normalizes the reply. Retryable transport errors (429, 5xx, network) are
// retried under the configured policy before surfacing.
func (c *Client) Generate(ctx context.Context, messages []Message, tools []ToolDefinition) (*Response, error) {
	return retry(ctx, c.retry, func(ctx context.Context) (*Response, error) {
		switch c.dialect {
		case DialectAnthropic:
			return c.generateAnthropic(ctx, messages, tools)
		default:
			return c.generateOpenAI(ctx, messages, tools)
		}
	})
}

// resolveBaseURL normalizes the endpoint and applies the per-dialect base
// path when the endpoint targets a known aggregator. This is deployment
// configuration, not a protocol invariant.
func resolveBaseURL(base string, dialect Dialect) string {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if !isAggregatorURL(base) {
		return base
	}
	switch dialect {
	case DialectAnthropic:
		return base + "/anthropic"
	default:
		return base + "/v1"
	}
}

func isAggregatorURL(base string) bool {
	u, err := url.Parse(base)
	if err != nil {
		return false
	}
	return strings.Contains(strings.ToLower(u.Hostname()), "minimax")
}
