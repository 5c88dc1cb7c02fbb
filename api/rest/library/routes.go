package library

import (
	"github.com/gin-gonic/gin"

	"github.com/2b3pro/ae-conjure/internal/bridge"
)

func RegisterRoutes(router *gin.RouterGroup, store ScriptStore, executor bridge.Executor) {
	library := router.Group("/library")
	{
		library.GET("", ListScriptsHandler(store))
		library.POST("", CreateScriptHandler(store))
		library.GET("/:id", GetScriptHandler(store))
		library.PUT("/:id", UpdateScriptHandler(store))
		library.DELETE("/:id", DeleteScriptHandler(store))
		library.POST("/:id/execute", ExecuteScriptHandler(store, executor))
	}
}
