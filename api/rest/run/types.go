package run

import (
	"context"

	"github.com/2b3pro/ae-conjure/api/rest/pagination"
	"github.com/2b3pro/ae-conjure/internal/engine"
	"github.com/2b3pro/ae-conjure/internal/storage"
)

// Streamer runs a request and reports progress as events, ending with a result.
type Streamer interface {
	Stream(ctx context.Context, req engine.RunRequest) <-chan engine.Event
}

// RunStore pages through recorded runs.
type RunStore interface {
	ListRuns(ctx context.Context, limit, offset int) ([]storage.RunRecord, error)
	CountRuns(ctx context.Context) (int, error)
}

const (
	defaultRunsLimit = 50
	maxRunsLimit     = 500
)

type ListRunsResponse struct {
	Runs       []storage.RunRecord `json:"runs"`
	Pagination pagination.Meta     `json:"pagination"`
}
