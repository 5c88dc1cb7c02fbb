package llm

import (
	"net/http"
	"time"
)

const (
	defaultMaxTokens   = 4096
	defaultTemperature = 0.2

	defaultAnthropicModel = "claude-sonnet-4-20250514"
	defaultOpenAIModel    = "gpt-4o"
	defaultGeminiModel    = "gemini-2.5-flash"

	anthropicBaseURL = "https://api.anthropic.com"
	openaiBaseURL    = "https://api.openai.com"
)

// shared HTTP client for provider calls
// reuses connection pool and timeout configuration
var providerHTTPClient = &http.Client{
	Timeout: 120 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	},
}

// holds client-wide settings; zero values take defaults
type Options struct {
	AnthropicBaseURL string
	OpenAIBaseURL    string
	GeminiBaseURL    string // empty uses the SDK default
	MaxTokens        int
	Temperature      float32
	HTTPClient       *http.Client
}

func (o Options) withDefaults() Options {
	if o.AnthropicBaseURL == "" {
		o.AnthropicBaseURL = anthropicBaseURL
	}

	if o.OpenAIBaseURL == "" {
		o.OpenAIBaseURL = openaiBaseURL
	}

	if o.MaxTokens == 0 {
		o.MaxTokens = defaultMaxTokens
	}

	if o.Temperature == 0 {
		o.Temperature = defaultTemperature
	}

	if o.HTTPClient == nil {
		o.HTTPClient = providerHTTPClient
	}

	return o
}

// returns the model used when a request names none
func DefaultModel(p Provider) string {
	switch p {
	case ProviderOpenAI:
		return defaultOpenAIModel
	case ProviderGemini:
		return defaultGeminiModel
	default:
		return defaultAnthropicModel
	}
}
