package knowledge

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/2b3pro/ae-conjure/internal/errors"
	"github.com/2b3pro/ae-conjure/internal/knowledge"
)

// StatusHandler godoc
// @Summary Knowledge corpus status
// @Tags knowledge
// @Produce json
// @Success 200 {object} StatusResponse
// @Router /api/v1/knowledge [get]
func StatusHandler(svc *knowledge.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, status(svc))
	}
}

// SearchHandler godoc
// @Summary Search the knowledge corpus
// @Description Returns ranked hits and the digest a generation request would receive
// @Tags knowledge
// @Produce json
// @Param q query string true "Search text"
// @Success 200 {object} SearchResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 503 {object} errors.ErrorResponse
// @Router /api/v1/knowledge/search [get]
func SearchHandler(svc *knowledge.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var query SearchQuery
		if err := c.ShouldBindQuery(&query); err != nil {
			errors.ValidationError(c, err)
			return
		}

		hits, err := svc.Search(c.Request.Context(), query.Q)
		if err != nil {
			errors.Unavailable(c, "knowledge corpus unavailable", err)
			return
		}

		c.JSON(http.StatusOK, SearchResponse{
			Query:  query.Q,
			Hits:   hits,
			Digest: svc.Retrieve(c.Request.Context(), query.Q),
		})
	}
}

// ReloadHandler godoc
// @Summary Reload the knowledge corpus
// @Description Re-reads the cached corpus (fetching it when no cache exists) and swaps the index
// @Tags knowledge
// @Produce json
// @Success 200 {object} StatusResponse
// @Failure 503 {object} errors.ErrorResponse
// @Router /api/v1/knowledge/reload [post]
func ReloadHandler(svc *knowledge.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Reload(c.Request.Context()); err != nil {
			errors.Unavailable(c, "failed to reload knowledge corpus", err)
			return
		}

		c.JSON(http.StatusOK, status(svc))
	}
}

// UpdateHandler godoc
// @Summary Update the knowledge corpus
// @Description Fetches the corpus from its origin, refreshes the cache and reports whether the version changed
// @Tags knowledge
// @Produce json
// @Success 200 {object} UpdateResponse
// @Failure 503 {object} errors.ErrorResponse
// @Router /api/v1/knowledge/update [post]
func UpdateHandler(svc *knowledge.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		changed, version, err := svc.Update(c.Request.Context())
		if err != nil {
			errors.Unavailable(c, "failed to update knowledge corpus", err)
			return
		}

		c.JSON(http.StatusOK, UpdateResponse{Changed: changed, Version: version})
	}
}

func status(svc *knowledge.Service) StatusResponse {
	idx := svc.Index()

	return StatusResponse{
		Loaded:   idx != nil,
		Version:  idx.Version(),
		Keywords: idx.Size(),
	}
}
