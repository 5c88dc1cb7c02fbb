package llm

import (
	"context"
	"fmt"
	"strings"

	apperrors "github.com/2b3pro/ae-conjure/internal/errors"
	"github.com/2b3pro/ae-conjure/internal/logger"
)

// Client is the uniform generation facade over the supported providers. Each
// call makes exactly one provider request; retrying is the caller's concern.
type Client struct {
	retriever Retriever
	options   Options
	backends  map[Provider]backend
}

// creates a client; retriever may be nil to disable knowledge injection
func NewClient(retriever Retriever, opts Options) *Client {
	opts = opts.withDefaults()

	return &Client{
		retriever: retriever,
		options:   opts,
		backends: map[Provider]backend{
			ProviderAnthropic: &anthropicBackend{baseURL: opts.AnthropicBaseURL, httpClient: opts.HTTPClient},
			ProviderOpenAI:    &openaiBackend{baseURL: opts.OpenAIBaseURL, httpClient: opts.HTTPClient},
			ProviderGemini:    &geminiBackend{baseURL: opts.GeminiBaseURL, httpClient: opts.HTTPClient},
		},
	}
}

// Generate assembles the user message for req, calls its provider and
// extracts code from the reply. Failures are reported in the Result.
func (c *Client) Generate(ctx context.Context, req Request) Result {
	provider, err := ParseProvider(req.Provider)
	if err != nil {
		return Result{Err: err}
	}

	// retrieval is keyed on the raw prompt, never the retry-augmented text
	var knowledge string
	if c.retriever != nil {
		knowledge = c.retriever.Retrieve(ctx, req.Prompt)
	}

	user := BuildUserMessage(knowledge, req.CompContext, req.RetryContext, req.Prompt)

	raw, err := c.complete(ctx, provider, call{
		Model:   req.Model,
		APIKey:  req.APIKey,
		System:  generationSystemPrompt(),
		History: conversationTurns(req.History),
		User:    user,
	})
	if err != nil {
		return Result{Err: err}
	}

	return Result{
		Success:     true,
		Code:        ExtractCode(raw),
		RawResponse: raw,
	}
}

// Refine rewrites existing code per an instruction, without history or retrieval.
func (c *Client) Refine(ctx context.Context, req RefineRequest) Result {
	provider, err := ParseProvider(req.Provider)
	if err != nil {
		return Result{Err: err}
	}

	user := fmt.Sprintf("Current script:\n```javascript\n%s\n```\n\nChange: %s", strings.TrimSpace(req.Code), req.Instruction)

	raw, err := c.complete(ctx, provider, call{
		Model:  req.Model,
		APIKey: req.APIKey,
		System: refineSystemPrompt(),
		User:   user,
	})
	if err != nil {
		return Result{Err: err}
	}

	return Result{
		Success:     true,
		Code:        ExtractCode(raw),
		RawResponse: raw,
	}
}

// Explain describes code in plain language, without history or retrieval.
func (c *Client) Explain(ctx context.Context, req ExplainRequest) Explanation {
	provider, err := ParseProvider(req.Provider)
	if err != nil {
		return Explanation{Err: err}
	}

	raw, err := c.complete(ctx, provider, call{
		Model:  req.Model,
		APIKey: req.APIKey,
		System: explainSystemPrompt(),
		User:   fmt.Sprintf("```javascript\n%s\n```", strings.TrimSpace(req.Code)),
	})
	if err != nil {
		return Explanation{Err: err}
	}

	return Explanation{Success: true, Text: strings.TrimSpace(raw)}
}

// fills per-call defaults and dispatches to the provider backend
func (c *Client) complete(ctx context.Context, provider Provider, cl call) (string, error) {
	if cl.APIKey == "" {
		return "", apperrors.Config("generate", "no API key configured for %s", provider)
	}

	if cl.Model == "" {
		cl.Model = DefaultModel(provider)
	}

	cl.MaxTokens = c.options.MaxTokens
	cl.Temperature = c.options.Temperature

	logger.Debug("calling provider",
		"provider", provider,
		"model", cl.Model,
		"history_turns", len(cl.History),
		"user_message_length", len(cl.User),
	)

	raw, err := c.backends[provider].complete(ctx, cl)
	if err != nil {
		return "", apperrors.Generation(string(provider), err)
	}

	return raw, nil
}

// BuildUserMessage joins the present sections in fixed order, separated by a
// blank line: knowledge, host state, retry feedback, prompt.
func BuildUserMessage(knowledge, compContext, retryContext, prompt string) string {
	sections := make([]string, 0, 4)

	for _, s := range []string{knowledge, compContext, retryContext} {
		if strings.TrimSpace(s) != "" {
			sections = append(sections, s)
		}
	}

	sections = append(sections, prompt)

	return strings.Join(sections, "\n\n")
}

// keeps only user and assistant turns
func conversationTurns(history []Turn) []Turn {
	if len(history) == 0 {
		return nil
	}

	turns := make([]Turn, 0, len(history))
	for _, t := range history {
		if t.Role == "user" || t.Role == "assistant" {
			turns = append(turns, t)
		}
	}

	return turns
}
