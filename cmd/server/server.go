package main

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/2b3pro/ae-conjure/internal/config"
	"github.com/2b3pro/ae-conjure/internal/logger"
	"github.com/2b3pro/ae-conjure/internal/sessions"
	"github.com/2b3pro/ae-conjure/internal/storage"
)

// sessions idle for longer than this are dropped with their history
const sessionInactivityThreshold = 2 * time.Hour

// creates and configures a new server instance with all dependencies
func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	db, err := storage.NewClient(ctx, cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sessionMgr := sessions.NewManager(sessionInactivityThreshold)
	services := InitializeServices(cfg, db, sessionMgr)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	server := &Server{
		db:       db,
		config:   cfg,
		sessions: sessionMgr,
		services: services,
		router:   router,
	}

	RegisterRoutes(router, server)

	return server, nil
}

// loads the knowledge corpus in the background; retrieval stays empty until it lands
func (s *Server) warmKnowledge(ctx context.Context) {
	if err := s.services.Knowledge.Load(ctx); err != nil {
		logger.Warn("knowledge corpus not loaded, generation continues without it", "error", err)
	}
}
