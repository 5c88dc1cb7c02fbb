package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/2b3pro/ae-conjure/internal/bridge"
	apperrors "github.com/2b3pro/ae-conjure/internal/errors"
	"github.com/2b3pro/ae-conjure/internal/llm"
	"github.com/2b3pro/ae-conjure/internal/logger"
)

// Engine drives the bounded generate, execute, retry loop. It holds no
// per-run state, so one Engine serves any number of runs.
type Engine struct {
	generator llm.Generator
	executor  bridge.Executor
	state     bridge.StateReader
}

// creates an engine; state may be nil when no host summary is available
func New(generator llm.Generator, executor bridge.Executor, state bridge.StateReader) *Engine {
	return &Engine{
		generator: generator,
		executor:  executor,
		state:     state,
	}
}

// clamps the requested budget; a run always makes at least one attempt
func maxAttempts(requested int) int {
	if requested <= 0 {
		return 1
	}

	return requested
}

// Run generates code for req.Prompt, executes it and retries execution and
// empty-code failures with feedback until it succeeds or the attempt budget
// is spent. Generation failures end the run at once. Run never returns an
// error: every outcome is described by the RunResult.
func (e *Engine) Run(ctx context.Context, req RunRequest, obs Observer) (result RunResult) {
	id := uuid.NewString()
	log := logger.FromContext(ctx).With("run_id", id)
	budget := maxAttempts(req.MaxRetries)
	notify := safeObserver{inner: obs, log: log}
	start := time.Now()

	var attempts []Attempt

	defer func() {
		if r := recover(); r != nil {
			log.Error("run panicked", "panic", r)

			attempts = append(attempts, Attempt{
				Number: len(attempts) + 1,
				Error:  fmt.Sprintf("internal error: %v", r),
				Kind:   apperrors.KindGeneration,
			})
			result = buildResult(id, attempts)
		}
	}()

	log.Info("run started",
		"provider", req.Provider,
		"model", req.Model,
		"max_attempts", budget,
		"history_turns", len(req.History),
	)

	compContext := req.CompContext
	if compContext == "" {
		compContext = e.hostState(ctx, log)
	}

	retryContext := ""

	for n := 1; n <= budget; n++ {
		status := StatusGenerating
		if n > 1 {
			status = StatusRetrying
		}

		notify.OnAttempt(n, budget, status)

		attempt := e.attempt(ctx, n, req, compContext, retryContext, notify)
		attempts = append(attempts, attempt)

		log.Debug("attempt finished",
			"attempt", n,
			"success", attempt.Success,
			"kind", attempt.Kind,
			"error", attempt.Error,
		)

		if attempt.Success || !apperrors.Retryable(attempt.Kind) {
			break
		}

		switch attempt.Kind {
		case apperrors.KindEmptyCode:
			retryContext = buildEmptyCodeContext(req.Prompt)
		default:
			retryContext = buildRetryContext(attempt.Error, attempt.Line, attempt.Code, req.Prompt)
		}
	}

	result = buildResult(id, attempts)

	log.Info("run finished",
		"success", result.Success,
		"attempts", result.TotalAttempts,
		"duration", time.Since(start),
	)

	return result
}

// one Generating(n) step and, when code came back, its Executing(n) step
func (e *Engine) attempt(ctx context.Context, n int, req RunRequest, compContext, retryContext string, notify Observer) Attempt {
	// a cancelled run cannot reach the provider, which makes it a generation failure
	if err := ctx.Err(); err != nil {
		return Attempt{
			Number: n,
			Error:  apperrors.Generation("run", err).Error(),
			Kind:   apperrors.KindGeneration,
		}
	}

	gen := e.generator.Generate(ctx, llm.Request{
		Prompt:       req.Prompt,
		Provider:     req.Provider,
		Model:        req.Model,
		APIKey:       req.APIKey,
		CompContext:  compContext,
		RetryContext: retryContext,
		History:      req.History,
	})

	if !gen.Success {
		kind := apperrors.KindOf(gen.Err)
		if kind == "" {
			kind = apperrors.KindGeneration
		}

		msg := "generation failed"
		if gen.Err != nil {
			msg = gen.Err.Error()
		}

		return Attempt{Number: n, RawResponse: gen.RawResponse, Error: msg, Kind: kind}
	}

	if gen.Code == "" {
		return Attempt{
			Number:      n,
			RawResponse: gen.RawResponse,
			Error:       "no code found in the model response",
			Kind:        apperrors.KindEmptyCode,
		}
	}

	notify.OnCode(gen.Code, n)

	attempt := Attempt{Number: n, Code: gen.Code, RawResponse: gen.RawResponse}

	res, err := e.executor.Execute(ctx, gen.Code)
	if err != nil {
		// bridge transport failures are retried like script errors
		attempt.Error = fmt.Sprintf("host bridge error: %v", err)
		attempt.Kind = apperrors.KindExecution
		return attempt
	}

	if !res.Success {
		attempt.Error = res.Error
		attempt.Line = res.Line
		attempt.Kind = apperrors.KindExecution
		return attempt
	}

	attempt.Success = true
	attempt.Result = res.Result

	return attempt
}

func (e *Engine) hostState(ctx context.Context, log *slog.Logger) string {
	if e.state == nil {
		return ""
	}

	summary, err := e.state.Summarize(ctx)
	if err != nil {
		log.Warn("host state unavailable", "error", err)
		return ""
	}

	return summary
}

// derives the terminal outcome from the attempt sequence
func buildResult(id string, attempts []Attempt) RunResult {
	result := RunResult{
		ID:            id,
		Attempts:      attempts,
		TotalAttempts: len(attempts),
	}

	for _, a := range attempts {
		if a.Code != "" {
			result.LastCode = a.Code
		}
	}

	if len(attempts) == 0 {
		return result
	}

	last := attempts[len(attempts)-1]
	result.Success = last.Success

	if last.Success {
		result.FinalCode = last.Code
		result.FinalResult = last.Result
	} else {
		result.FinalError = last.Error
	}

	return result
}

// Stream runs req in the background and delivers its progress as events,
// ending with a single result event before the channel closes.
func (e *Engine) Stream(ctx context.Context, req RunRequest) <-chan Event {
	events := make(chan Event)

	go func() {
		defer close(events)

		result := e.Run(ctx, req, NewChannelObserver(ctx, events))

		select {
		case events <- Event{Type: EventResult, Result: &result}:
		case <-ctx.Done():
		}
	}()

	return events
}
