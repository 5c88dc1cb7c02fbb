package assist

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/2b3pro/ae-conjure/internal/errors"
	"github.com/2b3pro/ae-conjure/internal/llm"
	"github.com/2b3pro/ae-conjure/internal/settings"
)

// RefineHandler godoc
// @Summary Refine a script
// @Description Rewrites an existing script according to an instruction. Does not execute it.
// @Tags assist
// @Accept json
// @Produce json
// @Param request body RefineRequest true "Refine request"
// @Success 200 {object} RefineResponse
// @Failure 400 {object} errors.ErrorResponse
// @Router /api/v1/refine [post]
func RefineHandler(assistant Assistant, resolver Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RefineRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			errors.ValidationError(c, err)
			return
		}

		sel, err := resolver.Resolve(c.Request.Context(), settings.Overrides{
			Provider: req.Provider,
			Model:    req.Model,
			APIKey:   req.APIKey,
		})
		if err != nil {
			errors.ConfigError(c, err)
			return
		}

		result := assistant.Refine(c.Request.Context(), llm.RefineRequest{
			Code:        req.Code,
			Instruction: req.Instruction,
			Provider:    string(sel.Provider),
			Model:       sel.Model,
			APIKey:      sel.APIKey,
		})

		resp := RefineResponse{
			Success:     result.Success,
			Code:        result.Code,
			RawResponse: result.RawResponse,
			Provider:    string(sel.Provider),
		}
		if result.Err != nil {
			resp.Error = result.Err.Error()
		}

		c.JSON(http.StatusOK, resp)
	}
}

// ExplainHandler godoc
// @Summary Explain a script
// @Description Describes what a script does in plain language
// @Tags assist
// @Accept json
// @Produce json
// @Param request body ExplainRequest true "Explain request"
// @Success 200 {object} ExplainResponse
// @Failure 400 {object} errors.ErrorResponse
// @Router /api/v1/explain [post]
func ExplainHandler(assistant Assistant, resolver Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ExplainRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			errors.ValidationError(c, err)
			return
		}

		sel, err := resolver.Resolve(c.Request.Context(), settings.Overrides{
			Provider: req.Provider,
			Model:    req.Model,
			APIKey:   req.APIKey,
		})
		if err != nil {
			errors.ConfigError(c, err)
			return
		}

		result := assistant.Explain(c.Request.Context(), llm.ExplainRequest{
			Code:     req.Code,
			Provider: string(sel.Provider),
			Model:    sel.Model,
			APIKey:   sel.APIKey,
		})

		resp := ExplainResponse{
			Success:     result.Success,
			Explanation: result.Text,
			Provider:    string(sel.Provider),
		}
		if result.Err != nil {
			resp.Error = result.Err.Error()
		}

		c.JSON(http.StatusOK, resp)
	}
}
