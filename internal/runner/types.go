package runner

import (
	"context"

	"github.com/2b3pro/ae-conjure/internal/engine"
	"github.com/2b3pro/ae-conjure/internal/llm"
	"github.com/2b3pro/ae-conjure/internal/settings"
	"github.com/2b3pro/ae-conjure/internal/storage"
)

// Engine is the part of the retry engine a runner drives.
type Engine interface {
	Run(ctx context.Context, req engine.RunRequest, obs engine.Observer) engine.RunResult
}

// Resolver picks provider settings for a request.
type Resolver interface {
	Resolve(ctx context.Context, o settings.Overrides) (settings.Selection, error)
	MaxRetries(ctx context.Context, requested *int) int
}

// RunLog persists finished runs.
type RunLog interface {
	SaveRun(ctx context.Context, r storage.RunRecord) error
}

// client-facing run request, shared by the REST and websocket surfaces
type Request struct {
	Prompt      string     `json:"prompt" binding:"required"`
	Provider    string     `json:"provider,omitempty"`
	Model       string     `json:"model,omitempty"`
	APIKey      string     `json:"api_key,omitempty"`
	MaxRetries  *int       `json:"max_retries,omitempty" binding:"omitempty,max=10"`
	History     []llm.Turn `json:"history,omitempty"`
	SessionID   string     `json:"session_id,omitempty"`
	CompContext string     `json:"comp_context,omitempty"`
}

// a run result plus the settings it ran with
type Response struct {
	engine.RunResult
	SessionID string `json:"session_id,omitempty"`
	Provider  string `json:"provider"`
	Model     string `json:"model"`
}
