package run

import (
	"github.com/gin-gonic/gin"

	"github.com/2b3pro/ae-conjure/internal/runner"
)

func RegisterRoutes(router *gin.RouterGroup, r *runner.Runner, streamer Streamer, store RunStore) {
	router.POST("/run", RunHandler(r))
	router.POST("/run/stream", StreamRunHandler(r, streamer))
	router.GET("/runs", ListRunsHandler(store))
}
