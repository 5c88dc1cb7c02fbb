package knowledge

import (
	"github.com/gin-gonic/gin"

	"github.com/2b3pro/ae-conjure/internal/knowledge"
)

func RegisterRoutes(router *gin.RouterGroup, svc *knowledge.Service) {
	group := router.Group("/knowledge")
	{
		group.GET("", StatusHandler(svc))
		group.GET("/search", SearchHandler(svc))
		group.POST("/reload", ReloadHandler(svc))
		group.POST("/update", UpdateHandler(svc))
	}
}
