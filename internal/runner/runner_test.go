package runner

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2b3pro/ae-conjure/internal/config"
	"github.com/2b3pro/ae-conjure/internal/engine"
	apperrors "github.com/2b3pro/ae-conjure/internal/errors"
	"github.com/2b3pro/ae-conjure/internal/history"
	"github.com/2b3pro/ae-conjure/internal/llm"
	"github.com/2b3pro/ae-conjure/internal/sessions"
	"github.com/2b3pro/ae-conjure/internal/settings"
	"github.com/2b3pro/ae-conjure/internal/storage"
)

type fakeEngine struct {
	mu       sync.Mutex
	requests []engine.RunRequest
	result   engine.RunResult
}

func (f *fakeEngine) Run(_ context.Context, req engine.RunRequest, _ engine.Observer) engine.RunResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	return f.result
}

type recordingLog struct {
	records []storage.RunRecord
	err     error
}

func (l *recordingLog) SaveRun(_ context.Context, r storage.RunRecord) error {
	l.records = append(l.records, r)
	return l.err
}

func successResult(code string) engine.RunResult {
	return engine.RunResult{ID: "run-1", Success: true, TotalAttempts: 1, FinalCode: code}
}

func newTestRunner(eng Engine, runs RunLog) (*Runner, *sessions.Manager) {
	cfg := &config.Config{DefaultProvider: "anthropic", AnthropicKey: "env-key", MaxRetries: 3}
	mgr := sessions.NewManager(time.Hour)
	return New(eng, settings.NewResolver(nil, cfg), mgr, runs, 6), mgr
}

func TestRunResolvesSettings(t *testing.T) {
	eng := &fakeEngine{result: successResult("var a = 1;")}
	runs := &recordingLog{}
	r, _ := newTestRunner(eng, runs)

	resp, err := r.Run(context.Background(), Request{Prompt: "add a solid"}, nil)
	require.NoError(t, err)

	require.Len(t, eng.requests, 1)
	req := eng.requests[0]
	assert.Equal(t, "add a solid", req.Prompt)
	assert.Equal(t, "anthropic", req.Provider)
	assert.Equal(t, "env-key", req.APIKey)
	assert.Equal(t, 3, req.MaxRetries)
	assert.Empty(t, req.History)

	assert.True(t, resp.Success)
	assert.Equal(t, "anthropic", resp.Provider)
	assert.Equal(t, llm.DefaultModel(llm.ProviderAnthropic), resp.Model)

	require.Len(t, runs.records, 1)
	assert.Equal(t, "run-1", runs.records[0].ID)
	assert.Equal(t, "var a = 1;", runs.records[0].FinalCode)
}

func TestRunPassesRequestOverrides(t *testing.T) {
	eng := &fakeEngine{result: successResult("x")}
	r, _ := newTestRunner(eng, nil)

	retries := 1
	history := []llm.Turn{{Role: "user", Content: "earlier"}, {Role: "assistant", Content: "var a;"}}
	_, err := r.Run(context.Background(), Request{
		Prompt:      "again",
		Provider:    "gemini",
		Model:       "gemini-2.5-pro",
		APIKey:      "byok",
		MaxRetries:  &retries,
		History:     history,
		CompContext: "Active comp: Main",
	}, nil)
	require.NoError(t, err)

	req := eng.requests[0]
	assert.Equal(t, "gemini", req.Provider)
	assert.Equal(t, "gemini-2.5-pro", req.Model)
	assert.Equal(t, "byok", req.APIKey)
	assert.Equal(t, 1, req.MaxRetries)
	assert.Equal(t, history, req.History)
	assert.Equal(t, "Active comp: Main", req.CompContext)
}

func TestRunRejectsBadRequests(t *testing.T) {
	eng := &fakeEngine{}
	r, _ := newTestRunner(eng, nil)

	_, err := r.Run(context.Background(), Request{Prompt: "  "}, nil)
	assert.ErrorIs(t, err, apperrors.ErrConfig)

	_, err = r.Run(context.Background(), Request{Prompt: "x", Provider: "mistral"}, nil)
	assert.ErrorIs(t, err, apperrors.ErrConfig)

	assert.Empty(t, eng.requests)
}

func TestPrepareCapsRetryBudget(t *testing.T) {
	r, _ := newTestRunner(&fakeEngine{}, nil)
	ctx := context.Background()

	tooMany := 100000
	_, err := r.Prepare(ctx, Request{Prompt: "x", MaxRetries: &tooMany})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConfig)
	assert.Contains(t, err.Error(), "at most 10")

	limit := settings.MaxRetriesLimit
	run, err := r.Prepare(ctx, Request{Prompt: "x", MaxRetries: &limit})
	require.NoError(t, err)
	assert.Equal(t, settings.MaxRetriesLimit, run.EngineRequest().MaxRetries)
}

func TestRunThreadsSessionHistory(t *testing.T) {
	eng := &fakeEngine{result: successResult("var first;")}
	r, mgr := newTestRunner(eng, nil)
	ctx := context.Background()

	_, err := r.Run(ctx, Request{Prompt: "first", SessionID: "s1"}, nil)
	require.NoError(t, err)
	assert.Empty(t, eng.requests[0].History, "the in-flight prompt is not history")

	eng.result = engine.RunResult{ID: "run-2", TotalAttempts: 3, FinalError: "boom"}
	_, err = r.Run(ctx, Request{Prompt: "second", SessionID: "s1"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []llm.Turn{
		{Role: "user", Content: "first"},
		{Role: "assistant", Content: "var first;"},
	}, eng.requests[1].History)

	session, ok := mgr.Get("s1")
	require.True(t, ok)
	assert.Equal(t, []history.Entry{
		{Role: history.RoleUser, Content: "first"},
		{Role: history.RoleAssistant, Content: "var first;"},
		{Role: history.RoleUser, Content: "second"},
		{Role: history.RoleError, Content: "boom"},
	}, session.History.Entries())

	// error entries never reach the model
	_, err = r.Run(ctx, Request{Prompt: "third", SessionID: "s1"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []llm.Turn{
		{Role: "user", Content: "first"},
		{Role: "assistant", Content: "var first;"},
		{Role: "user", Content: "second"},
	}, eng.requests[2].History)
}

func TestRunSaveFailureDoesNotFailRun(t *testing.T) {
	eng := &fakeEngine{result: successResult("x")}
	r, _ := newTestRunner(eng, &recordingLog{err: errors.New("disk full")})

	resp, err := r.Run(context.Background(), Request{Prompt: "p"}, nil)
	require.NoError(t, err)
	assert.True(t, resp.Success)
}

func TestPrepareThenComplete(t *testing.T) {
	eng := &fakeEngine{}
	runs := &recordingLog{}
	r, _ := newTestRunner(eng, runs)

	run, err := r.Prepare(context.Background(), Request{Prompt: "p", Provider: "openai", SessionID: "s9"})
	require.NoError(t, err)
	assert.Equal(t, "openai", run.EngineRequest().Provider)

	resp := run.Complete(context.Background(), successResult("var b;"))
	assert.Equal(t, "s9", resp.SessionID)
	assert.Equal(t, "gpt-4o", resp.Model)
	require.Len(t, runs.records, 1)
	assert.Equal(t, "s9", runs.records[0].SessionID)
}
