package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/2b3pro/ae-conjure/internal/knowledge"
)

const (
	service      = "ae-conjure"
	version      = "1.0.0"
	checkTimeout = 2 * time.Second
)

// Handler godoc
// @Summary Health check
// @Description The database is required; an unreachable host bridge only degrades the service
// @Tags health
// @Produce json
// @Success 200 {object} Response
// @Failure 503 {object} Response
// @Router /health [get]
func Handler(db, bridge Pinger, kb *knowledge.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), checkTimeout)
		defer cancel()

		checks := map[string]string{}
		status, code := "healthy", http.StatusOK

		if err := db.Ping(ctx); err != nil {
			checks["database"] = "unreachable"
			status, code = "unhealthy", http.StatusServiceUnavailable
		} else {
			checks["database"] = "ok"
		}

		if err := bridge.Ping(ctx); err != nil {
			checks["host_bridge"] = "unreachable"
			if code == http.StatusOK {
				status = "degraded"
			}
		} else {
			checks["host_bridge"] = "ok"
		}

		if kb.Index() != nil {
			checks["knowledge"] = "loaded"
		} else {
			checks["knowledge"] = "not loaded"
		}

		c.JSON(code, Response{
			Status:  status,
			Service: service,
			Version: version,
			Checks:  checks,
		})
	}
}

// responds with pong for testing
func PingHandler(c *gin.Context) {
	c.JSON(http.StatusOK, PingResponse{
		Message: "pong",
	})
}
