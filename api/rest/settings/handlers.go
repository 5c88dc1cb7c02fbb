package settings

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/2b3pro/ae-conjure/internal/errors"
	"github.com/2b3pro/ae-conjure/internal/settings"
)

// GetSettingsHandler godoc
// @Summary Get settings
// @Description Returns the effective provider settings. API keys are masked.
// @Tags settings
// @Produce json
// @Success 200 {object} settings.View
// @Failure 400 {object} errors.ErrorResponse
// @Router /api/v1/settings [get]
func GetSettingsHandler(mgr Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		view, err := mgr.View(c.Request.Context())
		if err != nil {
			errors.ConfigError(c, err)
			return
		}

		c.JSON(http.StatusOK, view)
	}
}

// UpdateSettingsHandler godoc
// @Summary Update settings
// @Description Omitted fields are unchanged; an empty string clears a stored value
// @Tags settings
// @Accept json
// @Produce json
// @Param request body settings.Update true "Settings update"
// @Success 200 {object} settings.View
// @Failure 400 {object} errors.ErrorResponse
// @Router /api/v1/settings [put]
func UpdateSettingsHandler(mgr Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req settings.Update
		if err := c.ShouldBindJSON(&req); err != nil {
			errors.ValidationError(c, err)
			return
		}

		if err := mgr.Apply(c.Request.Context(), req); err != nil {
			if errors.KindOf(err) == errors.KindConfig {
				errors.ConfigError(c, err)
				return
			}

			errors.InternalError(c, "failed to save settings", err)
			return
		}

		view, err := mgr.View(c.Request.Context())
		if err != nil {
			errors.ConfigError(c, err)
			return
		}

		c.JSON(http.StatusOK, view)
	}
}
