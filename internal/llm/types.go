package llm

import (
	"context"
	"strings"

	apperrors "github.com/2b3pro/ae-conjure/internal/errors"
)

// represents the supported generation providers
type Provider string

const (
	ProviderAnthropic Provider = "anthropic"
	ProviderOpenAI    Provider = "openai"
	ProviderGemini    Provider = "gemini"
)

// all providers, in display order
var Providers = []Provider{ProviderAnthropic, ProviderOpenAI, ProviderGemini}

// validates a provider name; unknown names are config errors
func ParseProvider(name string) (Provider, error) {
	p := Provider(strings.ToLower(strings.TrimSpace(name)))

	switch p {
	case ProviderAnthropic, ProviderOpenAI, ProviderGemini:
		return p, nil
	default:
		return "", apperrors.Config("parse provider", "unsupported provider %q", name)
	}
}

// one prior conversation turn; role is "user" or "assistant"
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// supplies retrieved knowledge for a prompt
type Retriever interface {
	Retrieve(ctx context.Context, text string) string
}

// generates code for a request; satisfied by *Client
type Generator interface {
	Generate(ctx context.Context, req Request) Result
}

// a provider-agnostic code generation request
type Request struct {
	Prompt       string
	Provider     string
	Model        string
	APIKey       string
	CompContext  string // host-state summary
	RetryContext string // feedback from the previous failed attempt
	History      []Turn
}

// normalized outcome of one provider call. Err is set iff Success is false.
type Result struct {
	Success     bool
	Code        string
	RawResponse string
	Err         error
}

// asks the model to modify existing code per an instruction
type RefineRequest struct {
	Code        string
	Instruction string
	Provider    string
	Model       string
	APIKey      string
}

// asks the model for a plain-language explanation of code
type ExplainRequest struct {
	Code     string
	Provider string
	Model    string
	APIKey   string
}

// an explanation is prose, so it carries text rather than code
type Explanation struct {
	Success bool
	Text    string
	Err     error
}

// a fully resolved provider call
type call struct {
	Model       string
	APIKey      string
	System      string
	History     []Turn
	User        string
	MaxTokens   int
	Temperature float32
}

// one provider transport
type backend interface {
	complete(ctx context.Context, c call) (string, error)
}
