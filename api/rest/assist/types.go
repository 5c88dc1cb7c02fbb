package assist

import (
	"context"

	"github.com/2b3pro/ae-conjure/internal/llm"
	"github.com/2b3pro/ae-conjure/internal/settings"
)

// Assistant refines and explains scripts.
type Assistant interface {
	Refine(ctx context.Context, req llm.RefineRequest) llm.Result
	Explain(ctx context.Context, req llm.ExplainRequest) llm.Explanation
}

// Resolver picks provider settings for a request.
type Resolver interface {
	Resolve(ctx context.Context, o settings.Overrides) (settings.Selection, error)
}

type RefineRequest struct {
	Code        string `json:"code" binding:"required"`
	Instruction string `json:"instruction" binding:"required"`
	Provider    string `json:"provider,omitempty"`
	Model       string `json:"model,omitempty"`
	APIKey      string `json:"api_key,omitempty"`
}

type RefineResponse struct {
	Success     bool   `json:"success"`
	Code        string `json:"code,omitempty"`
	RawResponse string `json:"raw_response,omitempty"`
	Error       string `json:"error,omitempty"`
	Provider    string `json:"provider"`
}

type ExplainRequest struct {
	Code     string `json:"code" binding:"required"`
	Provider string `json:"provider,omitempty"`
	Model    string `json:"model,omitempty"`
	APIKey   string `json:"api_key,omitempty"`
}

type ExplainResponse struct {
	Success     bool   `json:"success"`
	Explanation string `json:"explanation,omitempty"`
	Error       string `json:"error,omitempty"`
	Provider    string `json:"provider"`
}
