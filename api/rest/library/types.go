package library

import (
	"context"

	"github.com/2b3pro/ae-conjure/internal/bridge"
	"github.com/2b3pro/ae-conjure/internal/storage"
)

// ScriptStore persists saved scripts.
type ScriptStore interface {
	CreateScript(ctx context.Context, s storage.Script) (*storage.Script, error)
	GetScript(ctx context.Context, id string) (*storage.Script, error)
	ListScripts(ctx context.Context) ([]storage.Script, error)
	UpdateScript(ctx context.Context, s storage.Script) (*storage.Script, error)
	DeleteScript(ctx context.Context, id string) error
}

type ScriptRequest struct {
	Name   string   `json:"name" binding:"required,max=200"`
	Prompt string   `json:"prompt"`
	Code   string   `json:"code" binding:"required"`
	Tags   []string `json:"tags"`
}

type ScriptsListResponse struct {
	Scripts []storage.Script `json:"scripts"`
}

type ExecuteResponse struct {
	bridge.Result
	ScriptID string `json:"script_id"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
