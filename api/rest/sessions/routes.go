package sessions

import (
	"github.com/gin-gonic/gin"

	"github.com/2b3pro/ae-conjure/internal/sessions"
)

func RegisterRoutes(router *gin.RouterGroup, mgr *sessions.Manager) {
	group := router.Group("/sessions")
	{
		group.POST("", CreateSessionHandler(mgr))
		group.GET("/:id/history", GetHistoryHandler(mgr))
		group.DELETE("/:id/history", ClearHistoryHandler(mgr))
		group.DELETE("/:id", DeleteSessionHandler(mgr))
	}
}
