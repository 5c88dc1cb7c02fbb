package main

import (
	"github.com/gin-gonic/gin"

	"github.com/2b3pro/ae-conjure/internal/bridge"
	"github.com/2b3pro/ae-conjure/internal/config"
	"github.com/2b3pro/ae-conjure/internal/engine"
	"github.com/2b3pro/ae-conjure/internal/knowledge"
	"github.com/2b3pro/ae-conjure/internal/llm"
	"github.com/2b3pro/ae-conjure/internal/runner"
	"github.com/2b3pro/ae-conjure/internal/sessions"
	"github.com/2b3pro/ae-conjure/internal/settings"
	"github.com/2b3pro/ae-conjure/internal/storage"
)

// holds all dependencies and state for the API server
type Server struct {
	db       *storage.Client
	config   *config.Config
	sessions *sessions.Manager
	services *Services
	router   *gin.Engine
}

// holds the run pipeline and its collaborators
type Services struct {
	Knowledge *knowledge.Service
	LLM       *llm.Client
	Bridge    *bridge.HTTPBridge
	Engine    *engine.Engine
	Settings  *settings.Resolver
	Runner    *runner.Runner
}
