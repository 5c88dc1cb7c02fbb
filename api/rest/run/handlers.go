package run

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/2b3pro/ae-conjure/api/rest/pagination"
	"github.com/2b3pro/ae-conjure/internal/engine"
	"github.com/2b3pro/ae-conjure/internal/errors"
	"github.com/2b3pro/ae-conjure/internal/runner"
)

// RunHandler godoc
// @Summary Generate and execute a script
// @Description Generates an ExtendScript for the prompt, runs it in the host and retries on failure
// @Tags run
// @Accept json
// @Produce json
// @Param request body runner.Request true "Run request"
// @Success 200 {object} runner.Response
// @Failure 400 {object} errors.ErrorResponse
// @Router /api/v1/run [post]
func RunHandler(r *runner.Runner) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req runner.Request
		if err := c.ShouldBindJSON(&req); err != nil {
			errors.ValidationError(c, err)
			return
		}

		resp, err := r.Run(c.Request.Context(), req, nil)
		if err != nil {
			respondRunError(c, err)
			return
		}

		c.JSON(http.StatusOK, resp)
	}
}

// StreamRunHandler godoc
// @Summary Generate and execute a script, streaming progress
// @Description Same as /run but answers with server-sent events: attempt and code events, then a result event.
// @Description A client that disconnects cancels the run and the run is not recorded.
// @Tags run
// @Accept json
// @Produce text/event-stream
// @Param request body runner.Request true "Run request"
// @Failure 400 {object} errors.ErrorResponse
// @Router /api/v1/run/stream [post]
func StreamRunHandler(r *runner.Runner, streamer Streamer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req runner.Request
		if err := c.ShouldBindJSON(&req); err != nil {
			errors.ValidationError(c, err)
			return
		}

		run, err := r.Prepare(c.Request.Context(), req)
		if err != nil {
			respondRunError(c, err)
			return
		}

		events := streamer.Stream(c.Request.Context(), run.EngineRequest())

		c.Header("Cache-Control", "no-cache")
		c.Stream(func(_ io.Writer) bool {
			ev, ok := <-events
			if !ok {
				return false
			}

			if ev.Type == engine.EventResult && ev.Result != nil {
				c.SSEvent(string(ev.Type), run.Complete(c.Request.Context(), *ev.Result))
				return false
			}

			c.SSEvent(string(ev.Type), ev)
			return true
		})
	}
}

// ListRunsHandler godoc
// @Summary List recent runs
// @Tags run
// @Produce json
// @Param limit query int false "Maximum runs to return"
// @Param offset query int false "Runs to skip"
// @Success 200 {object} ListRunsResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/v1/runs [get]
func ListRunsHandler(store RunStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var query pagination.Query
		if err := c.ShouldBindQuery(&query); err != nil {
			errors.ValidationError(c, err)
			return
		}

		params := query.Params(defaultRunsLimit, maxRunsLimit)

		runs, err := store.ListRuns(c.Request.Context(), params.Limit, params.Offset)
		if err != nil {
			errors.InternalError(c, "failed to list runs", err)
			return
		}

		total, err := store.CountRuns(c.Request.Context())
		if err != nil {
			errors.InternalError(c, "failed to count runs", err)
			return
		}

		c.JSON(http.StatusOK, ListRunsResponse{
			Runs:       runs,
			Pagination: pagination.NewMeta(params, total),
		})
	}
}

func respondRunError(c *gin.Context, err error) {
	if errors.KindOf(err) == errors.KindConfig {
		errors.ConfigError(c, err)
		return
	}

	errors.InternalError(c, "failed to start run", err)
}
