package errors

// represents a standardized error response
type ErrorResponse struct {
	Error   string `json:"error"`             // error code (e.g., "bad_request", "not_found")
	Message string `json:"message"`           // user-friendly message
	Details string `json:"details,omitempty"` // optional details (sanitized in production)
}

// classifies a failure inside a run
type Kind string

const (
	// unrecognized provider/model selection; fails fast, never retried
	KindConfig Kind = "config"
	// transport failure or malformed provider envelope; terminal for the run
	KindGeneration Kind = "generation"
	// generation succeeded but no code could be extracted; retryable
	KindEmptyCode Kind = "empty_code"
	// host rejected or failed the code, or the bridge transport failed; retryable
	KindExecution Kind = "execution"
)

// Error carries a Kind alongside the operation that failed.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

type ErrorInfo struct {
	category  string
	sanitized string
}
