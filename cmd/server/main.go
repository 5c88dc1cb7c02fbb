package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/2b3pro/ae-conjure/internal/config"
	"github.com/2b3pro/ae-conjure/internal/logger"
)

// @title ae-conjure API
// @version 1.0
// @description Generates After Effects ExtendScript from natural language, runs it in the host and retries on failure
// @description
// @description Features:
// @description - Generation with Anthropic, OpenAI or Gemini
// @description - Automatic retry with error feedback
// @description - Keyword retrieval over an After Effects API corpus
// @description - Streaming run progress over WebSockets
// @description - Saved script library

// @host localhost:8787

func main() {
	logger.Info("starting ae-conjure server")

	// load configuration from environment
	cfg, err := config.LoadEnvironmentVariables()
	if err != nil {
		logger.Fatal("failed to load configuration", "error", err)
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// create server with all dependencies
	srv, err := NewServer(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to create server", "error", err)
	}

	httpServer := &http.Server{
		Addr:        fmt.Sprintf(":%s", cfg.Port),
		Handler:     srv.router,
		ReadTimeout: 15 * time.Second,
		// a run makes several model calls and host executions
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	// start server in goroutine
	go func() {
		logger.Info("server listening", "port", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed to start", "error", err)
		}
	}()

	go srv.warmKnowledge(ctx)

	// start session cleanup with cancellable context
	go srv.sessions.Start(ctx)

	// wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	// stop background work
	stop()

	// graceful shutdown with 10 second timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	// close database connection
	if err := srv.db.Close(); err != nil {
		logger.ErrorErr(err, "failed to close database")
	}

	logger.Info("server stopped")
}
