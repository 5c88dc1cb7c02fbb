package library

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/2b3pro/ae-conjure/internal/bridge"
	"github.com/2b3pro/ae-conjure/internal/errors"
	"github.com/2b3pro/ae-conjure/internal/storage"
)

// CreateScriptHandler saves a script to the library
func CreateScriptHandler(store ScriptStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ScriptRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			errors.ValidationError(c, err)
			return
		}

		script, err := store.CreateScript(c.Request.Context(), storage.Script{
			Name:   req.Name,
			Prompt: req.Prompt,
			Code:   req.Code,
			Tags:   req.Tags,
		})
		if err != nil {
			errors.InternalError(c, "failed to save script", err)
			return
		}

		c.JSON(http.StatusCreated, script)
	}
}

// ListScriptsHandler lists saved scripts
func ListScriptsHandler(store ScriptStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		scripts, err := store.ListScripts(c.Request.Context())
		if err != nil {
			errors.InternalError(c, "failed to list scripts", err)
			return
		}

		c.JSON(http.StatusOK, ScriptsListResponse{Scripts: scripts})
	}
}

// GetScriptHandler gets a single script by ID
func GetScriptHandler(store ScriptStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		script, ok := loadScript(c, store)
		if !ok {
			return
		}

		c.JSON(http.StatusOK, script)
	}
}

// UpdateScriptHandler replaces a script's fields
func UpdateScriptHandler(store ScriptStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ScriptRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			errors.ValidationError(c, err)
			return
		}

		script, err := store.UpdateScript(c.Request.Context(), storage.Script{
			ID:     c.Param("id"),
			Name:   req.Name,
			Prompt: req.Prompt,
			Code:   req.Code,
			Tags:   req.Tags,
		})
		if stderrors.Is(err, storage.ErrNotFound) {
			errors.NotFound(c, "script")
			return
		}

		if err != nil {
			errors.InternalError(c, "failed to update script", err)
			return
		}

		c.JSON(http.StatusOK, script)
	}
}

// DeleteScriptHandler removes a script
func DeleteScriptHandler(store ScriptStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := store.DeleteScript(c.Request.Context(), c.Param("id"))
		if stderrors.Is(err, storage.ErrNotFound) {
			errors.NotFound(c, "script")
			return
		}

		if err != nil {
			errors.InternalError(c, "failed to delete script", err)
			return
		}

		c.JSON(http.StatusOK, MessageResponse{Message: "script deleted"})
	}
}

// ExecuteScriptHandler runs a saved script in the host as-is, without generation or retries
func ExecuteScriptHandler(store ScriptStore, executor bridge.Executor) gin.HandlerFunc {
	return func(c *gin.Context) {
		script, ok := loadScript(c, store)
		if !ok {
			return
		}

		result, err := executor.Execute(c.Request.Context(), script.Code)
		if err != nil {
			errors.Unavailable(c, "host bridge unavailable", err)
			return
		}

		c.JSON(http.StatusOK, ExecuteResponse{Result: result, ScriptID: script.ID})
	}
}

func loadScript(c *gin.Context, store ScriptStore) (*storage.Script, bool) {
	script, err := store.GetScript(c.Request.Context(), c.Param("id"))
	if stderrors.Is(err, storage.ErrNotFound) {
		errors.NotFound(c, "script")
		return nil, false
	}

	if err != nil {
		errors.InternalError(c, "failed to get script", err)
		return nil, false
	}

	return script, true
}
