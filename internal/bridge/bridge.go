package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultTimeout = 30 * time.Second
	// upper bound on a host reply body
	maxReplyBytes = 1 << 20
)

// outcome of running a script in the host. Line is 0 when unknown.
type Result struct {
	Success bool   `json:"success"`
	Result  string `json:"result,omitempty"`
	Error   string `json:"error,omitempty"`
	Line    int    `json:"line,omitempty"`
}

// Executor runs a script in the host. A non-nil error means the bridge itself
// failed; a script failure is reported through Result.
type Executor interface {
	Execute(ctx context.Context, code string) (Result, error)
}

// StateReader summarizes the current host document for the model.
type StateReader interface {
	Summarize(ctx context.Context) (string, error)
}

// HTTPBridge talks to a host-side panel server: POST {base}/execute with
// {"code": ...} and GET {base}/state returning plain text.
type HTTPBridge struct {
	baseURL    string
	httpClient *http.Client
}

type executeRequest struct {
	Code string `json:"code"`
}

func NewHTTPBridge(baseURL string, timeout time.Duration) *HTTPBridge {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &HTTPBridge{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

func (b *HTTPBridge) Execute(ctx context.Context, code string) (Result, error) {
	jsonData, err := json.Marshal(executeRequest{Code: code})
	if err != nil {
		return Result{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+"/execute", bytes.NewBuffer(jsonData))
	if err != nil {
		return Result{}, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("failed to reach host bridge: %w", err)
	}

	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxReplyBytes))
	if err != nil {
		return Result{}, fmt.Errorf("failed to read host reply: %w", err)
	}

	// the host answers 200 for script errors too; anything else is the bridge failing
	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("host bridge returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var result Result
	if err := json.Unmarshal(body, &result); err != nil {
		return Result{}, fmt.Errorf("failed to decode host reply: %w", err)
	}

	if !result.Success && result.Error == "" {
		result.Error = "script failed without an error message"
	}

	return result, nil
}

func (b *HTTPBridge) Summarize(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.baseURL+"/state", nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to reach host bridge: %w", err)
	}

	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxReplyBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read host state: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("host bridge returned status %d", resp.StatusCode)
	}

	return strings.TrimSpace(string(body)), nil
}

// checks that the host answers at all
func (b *HTTPBridge) Ping(ctx context.Context) error {
	_, err := b.Summarize(ctx)
	return err
}
