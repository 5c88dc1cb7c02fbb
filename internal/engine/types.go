package engine

import (
	apperrors "github.com/2b3pro/ae-conjure/internal/errors"
	"github.com/2b3pro/ae-conjure/internal/llm"
)

// attempt budget used when a caller does not choose one
const DefaultMaxRetries = 3

// reported before each generation call
type Status string

const (
	StatusGenerating Status = "generating"
	StatusRetrying   Status = "retrying"
)

// one generate-then-execute cycle. Never modified once appended to a run.
type Attempt struct {
	Number      int            `json:"number"`
	Code        string         `json:"code,omitempty"`
	RawResponse string         `json:"raw_response,omitempty"`
	Success     bool           `json:"success"`
	Result      string         `json:"result,omitempty"`
	Error       string         `json:"error,omitempty"`
	Kind        apperrors.Kind `json:"kind,omitempty"`
	Line        int            `json:"line,omitempty"`
}

// input to one run
type RunRequest struct {
	Prompt     string
	Provider   string
	Model      string
	APIKey     string
	MaxRetries int // values <= 0 run a single attempt
	History    []llm.Turn

	// overrides the host-state summary; empty asks the state reader
	CompContext string
}

// terminal outcome of a run, derived from its attempts
type RunResult struct {
	ID            string    `json:"id"`
	Success       bool      `json:"success"`
	Attempts      []Attempt `json:"attempts"`
	TotalAttempts int       `json:"total_attempts"`
	FinalCode     string    `json:"final_code,omitempty"`
	FinalResult   string    `json:"final_result,omitempty"`
	FinalError    string    `json:"final_error,omitempty"`

	// most recent non-empty code, kept on failure for manual inspection
	LastCode string `json:"last_code,omitempty"`
}
