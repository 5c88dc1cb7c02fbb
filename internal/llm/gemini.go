package llm

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// rate limiter for Gemini API calls
var geminiRateLimiter = rate.NewLimiter(50, 10)

type geminiBackend struct {
	baseURL    string
	httpClient *http.Client
}

// maps conversation roles onto Gemini's vocabulary, where the assistant is "model"
func geminiRole(role string) genai.Role {
	if role == "assistant" {
		return genai.RoleModel
	}

	return genai.RoleUser
}

func (b *geminiBackend) complete(ctx context.Context, c call) (string, error) {
	cfg := &genai.ClientConfig{
		APIKey:     c.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: b.httpClient,
	}

	if b.baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: b.baseURL}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return "", fmt.Errorf("failed to create gemini client: %w", err)
	}

	contents := make([]*genai.Content, 0, len(c.History)+1)
	for _, turn := range c.History {
		contents = append(contents, genai.NewContentFromText(turn.Content, geminiRole(turn.Role)))
	}
	contents = append(contents, genai.NewContentFromText(c.User, genai.RoleUser))

	genCfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(c.Temperature),
		MaxOutputTokens: int32(c.MaxTokens),
	}

	if c.System != "" {
		genCfg.SystemInstruction = genai.NewContentFromText(c.System, genai.RoleUser)
	}

	if err := geminiRateLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter error: %w", err)
	}

	resp, err := client.Models.GenerateContent(ctx, c.Model, contents, genCfg)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("no content in response")
	}

	return text, nil
}
