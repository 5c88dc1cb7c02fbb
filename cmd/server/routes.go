package main

import (
	"github.com/gin-gonic/gin"

	"github.com/2b3pro/ae-conjure/api/rest/assist"
	"github.com/2b3pro/ae-conjure/api/rest/health"
	"github.com/2b3pro/ae-conjure/api/rest/knowledge"
	"github.com/2b3pro/ae-conjure/api/rest/library"
	"github.com/2b3pro/ae-conjure/api/rest/run"
	"github.com/2b3pro/ae-conjure/api/rest/sessions"
	"github.com/2b3pro/ae-conjure/api/rest/settings"
	"github.com/2b3pro/ae-conjure/api/websocket"
	ws "github.com/2b3pro/ae-conjure/internal/websocket"
)

// sets up all API routes and middleware
func RegisterRoutes(router *gin.Engine, server *Server) {
	svc := server.services

	router.Use(CORSMiddleware(server.config), RequestIDMiddleware())
	router.GET("/health", health.Handler(server.db, svc.Bridge, svc.Knowledge))

	v1 := router.Group("/api/v1")

	{
		v1.GET("/ping", health.PingHandler)

		run.RegisterRoutes(v1, svc.Runner, svc.Engine, server.db)
		websocket.RegisterRoutes(v1, svc.Runner, ws.CheckOrigin(server.config.Environment, server.config.AllowedOrigins))
		assist.RegisterRoutes(v1, svc.LLM, svc.Settings)
		knowledge.RegisterRoutes(v1, svc.Knowledge)
		library.RegisterRoutes(v1, server.db, svc.Bridge)
		settings.RegisterRoutes(v1, svc.Settings)
		sessions.RegisterRoutes(v1, server.sessions)
	}
}
