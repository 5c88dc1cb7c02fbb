// Package runner turns a client run request into an engine run: it resolves
// provider settings, threads per-session history and records the outcome.
package runner

import (
	"context"
	"strings"
	"time"

	"github.com/2b3pro/ae-conjure/internal/engine"
	apperrors "github.com/2b3pro/ae-conjure/internal/errors"
	"github.com/2b3pro/ae-conjure/internal/history"
	"github.com/2b3pro/ae-conjure/internal/llm"
	"github.com/2b3pro/ae-conjure/internal/logger"
	"github.com/2b3pro/ae-conjure/internal/sessions"
	"github.com/2b3pro/ae-conjure/internal/settings"
	"github.com/2b3pro/ae-conjure/internal/storage"
)

// timeout for persisting a run after the request context may be gone
const saveTimeout = 5 * time.Second

type Runner struct {
	engine       Engine
	resolver     Resolver
	sessions     *sessions.Manager
	runs         RunLog
	historyTurns int
}

// sessionMgr and runs may be nil
func New(eng Engine, resolver Resolver, sessionMgr *sessions.Manager, runs RunLog, historyTurns int) *Runner {
	if historyTurns <= 0 {
		historyTurns = history.DefaultTurns
	}

	return &Runner{
		engine:       eng,
		resolver:     resolver,
		sessions:     sessionMgr,
		runs:         runs,
		historyTurns: historyTurns,
	}
}

// Run is a prepared run that has not yet been executed.
type Run struct {
	runner    *Runner
	request   Request
	selection settings.Selection
	session   *sessions.Session
	engineReq engine.RunRequest
}

// Prepare validates a request and resolves everything the engine needs.
// Invalid prompts, oversized retry budgets and unknown providers are config errors.
func (r *Runner) Prepare(ctx context.Context, req Request) (*Run, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, apperrors.Config("prepare run", "prompt is required")
	}

	if req.MaxRetries != nil && *req.MaxRetries > settings.MaxRetriesLimit {
		return nil, apperrors.Config("prepare run", "max_retries must be at most %d", settings.MaxRetriesLimit)
	}

	sel, err := r.resolver.Resolve(ctx, settings.Overrides{
		Provider: req.Provider,
		Model:    req.Model,
		APIKey:   req.APIKey,
	})
	if err != nil {
		return nil, err
	}

	run := &Run{
		runner:    r,
		request:   req,
		selection: sel,
	}

	turns := req.History
	if req.SessionID != "" && r.sessions != nil {
		session, err := r.sessions.GetOrCreate(req.SessionID)
		if err != nil {
			return nil, err
		}

		session.History.Append(history.RoleUser, req.Prompt)
		turns = toTurns(session.History.BuildContext(r.historyTurns))
		run.session = session
	}

	run.engineReq = engine.RunRequest{
		Prompt:      req.Prompt,
		Provider:    string(sel.Provider),
		Model:       sel.Model,
		APIKey:      sel.APIKey,
		MaxRetries:  r.resolver.MaxRetries(ctx, req.MaxRetries),
		History:     turns,
		CompContext: req.CompContext,
	}

	return run, nil
}

// the engine request a prepared run will execute
func (run *Run) EngineRequest() engine.RunRequest {
	return run.engineReq
}

// Complete records a finished run against its session and the run log and
// returns the client response.
func (run *Run) Complete(ctx context.Context, result engine.RunResult) Response {
	if run.session != nil {
		if result.Success {
			run.session.History.Append(history.RoleAssistant, result.FinalCode)
		} else {
			run.session.History.Append(history.RoleError, result.FinalError)
		}
	}

	run.runner.save(ctx, run, result)

	return Response{
		RunResult: result,
		SessionID: run.request.SessionID,
		Provider:  string(run.selection.Provider),
		Model:     modelOrDefault(run.selection),
	}
}

// runs a prepared request to completion; obs may be nil
func (run *Run) Execute(ctx context.Context, obs engine.Observer) Response {
	return run.Complete(ctx, run.runner.engine.Run(ctx, run.engineReq, obs))
}

// prepares, runs and completes a request
func (r *Runner) Run(ctx context.Context, req Request, obs engine.Observer) (Response, error) {
	run, err := r.Prepare(ctx, req)
	if err != nil {
		return Response{}, err
	}

	return run.Execute(ctx, obs), nil
}

func (r *Runner) save(ctx context.Context, run *Run, result engine.RunResult) {
	if r.runs == nil {
		return
	}

	// the run already happened; record it even if the client went away
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), saveTimeout)
	defer cancel()

	record := storage.RunRecord{
		ID:         result.ID,
		SessionID:  run.request.SessionID,
		Prompt:     run.request.Prompt,
		Provider:   string(run.selection.Provider),
		Model:      modelOrDefault(run.selection),
		Success:    result.Success,
		Attempts:   result.TotalAttempts,
		FinalCode:  result.FinalCode,
		FinalError: result.FinalError,
	}

	if err := r.runs.SaveRun(saveCtx, record); err != nil {
		logger.FromContext(ctx).Warn("failed to record run", "run_id", result.ID, "error", err)
	}
}

func modelOrDefault(sel settings.Selection) string {
	if sel.Model != "" {
		return sel.Model
	}
	return llm.DefaultModel(sel.Provider)
}

func toTurns(entries []history.Entry) []llm.Turn {
	turns := make([]llm.Turn, len(entries))
	for i, e := range entries {
		turns[i] = llm.Turn{Role: string(e.Role), Content: e.Content}
	}
	return turns
}
