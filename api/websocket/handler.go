package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/2b3pro/ae-conjure/internal/engine"
	"github.com/2b3pro/ae-conjure/internal/errors"
	"github.com/2b3pro/ae-conjure/internal/logger"
	"github.com/2b3pro/ae-conjure/internal/runner"
	ws "github.com/2b3pro/ae-conjure/internal/websocket"
)

// how long a finished run waits for room to queue its result
const resultSendWait = 10 * time.Second

// RunStreamHandler upgrades the connection and streams runs over it. The
// client sends {"type":"run","payload":<run request>} and receives attempt and
// code events followed by a result. One run is in flight per connection; a
// "cancel" message stops it.
func RunStreamHandler(r *runner.Runner, checkOrigin func(*http.Request) bool) gin.HandlerFunc {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     checkOrigin,
	}

	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Warn("websocket upgrade failed", "error", err)
			return
		}

		clientID, err := ws.GenerateClientID()
		if err != nil {
			conn.Close() //nolint:errcheck,gosec // G104: abandoning connection
			logger.ErrorErr(err, "failed to generate client id")
			return
		}

		client := ws.NewClient(clientID, conn)
		session := &streamSession{
			ctx:    c.Request.Context(),
			runner: r,
		}

		go client.WritePump()

		logger.Debug("run stream connected", "client_id", clientID)

		client.ReadPump(session.handle)
		session.stop()

		logger.Debug("run stream disconnected", "client_id", clientID)
	}
}

type streamSession struct {
	ctx    context.Context
	runner *runner.Runner

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func (s *streamSession) handle(client *ws.Client, msg *ws.Message) {
	switch msg.Type {
	case ws.TypeRun:
		s.start(client, msg.Payload)
	case ws.TypeCancel:
		_ = client.SendPayload(ws.TypeCancel, CancelResponse{Cancelled: s.cancelRun()})
	case ws.TypePing:
		_ = client.SendPayload(ws.TypePong, nil)
	default:
		client.SendError(errors.CodeBadRequest, "unknown message type", msg.Type)
	}
}

func (s *streamSession) start(client *ws.Client, payload json.RawMessage) {
	var req runner.Request
	if err := json.Unmarshal(payload, &req); err != nil {
		client.SendError(errors.CodeValidationError, "invalid run request", err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		client.SendError(errors.CodeBadRequest, "a run is already in progress", "")
		return
	}

	if !client.AllowRun() {
		client.SendError(errors.CodeRateLimited, "too many runs, slow down", ws.ErrRateLimited.Error())
		return
	}

	run, err := s.runner.Prepare(s.ctx, req)
	if err != nil {
		client.SendError(errors.CodeConfigError, "invalid provider configuration", err.Error())
		return
	}

	ctx, cancel := context.WithCancel(s.ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		resp := run.Execute(ctx, forwarder(client))

		// free the slot before the client can react to the result
		s.finish()
		_ = client.SendPayloadWait(ws.TypeResult, resp, resultSendWait)
	}()
}

// clears the in-flight run
func (s *streamSession) finish() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *streamSession) cancelRun() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel == nil {
		return false
	}

	s.cancel()

	return true
}

// cancels any in-flight run and waits for it to wind down
func (s *streamSession) stop() {
	s.cancelRun()
	s.wg.Wait()
}

// relays run progress to the client. Sends never block the run.
func forwarder(client *ws.Client) engine.Observer {
	return engine.ObserverFuncs{
		Attempt: func(attempt, maxAttempts int, status engine.Status) {
			_ = client.SendPayload(ws.TypeAttempt, engine.Event{
				Type:        engine.EventAttempt,
				Attempt:     attempt,
				MaxAttempts: maxAttempts,
				Status:      status,
			})
		},
		Code: func(code string, attempt int) {
			_ = client.SendPayload(ws.TypeCode, engine.Event{
				Type:    engine.EventCode,
				Attempt: attempt,
				Code:    code,
			})
		},
	}
}
