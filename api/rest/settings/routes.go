package settings

import "github.com/gin-gonic/gin"

func RegisterRoutes(router *gin.RouterGroup, mgr Manager) {
	router.GET("/settings", GetSettingsHandler(mgr))
	router.PUT("/settings", UpdateSettingsHandler(mgr))
}
