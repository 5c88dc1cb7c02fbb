package assist

import "github.com/gin-gonic/gin"

func RegisterRoutes(router *gin.RouterGroup, assistant Assistant, resolver Resolver) {
	router.POST("/refine", RefineHandler(assistant, resolver))
	router.POST("/explain", ExplainHandler(assistant, resolver))
}
