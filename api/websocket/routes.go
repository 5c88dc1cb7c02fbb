package websocket

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/2b3pro/ae-conjure/internal/runner"
)

func RegisterRoutes(router *gin.RouterGroup, r *runner.Runner, checkOrigin func(*http.Request) bool) {
	router.GET("/run/ws", RunStreamHandler(r, checkOrigin))
}
