package sessions

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/2b3pro/ae-conjure/internal/errors"
	"github.com/2b3pro/ae-conjure/internal/sessions"
)

// CreateSessionHandler starts an empty chat session
func CreateSessionHandler(mgr *sessions.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := mgr.GetOrCreate("")
		if err != nil {
			errors.InternalError(c, "failed to create session", err)
			return
		}

		c.JSON(http.StatusCreated, CreateSessionResponse{SessionID: session.ID})
	}
}

// GetHistoryHandler returns a session's full transcript, including error entries
func GetHistoryHandler(mgr *sessions.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := mgr.Get(c.Param("id"))
		if !ok {
			errors.NotFound(c, "session")
			return
		}

		c.JSON(http.StatusOK, HistoryResponse{
			SessionID: session.ID,
			Entries:   session.History.Entries(),
		})
	}
}

// ClearHistoryHandler empties a session's transcript but keeps the session
func ClearHistoryHandler(mgr *sessions.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := mgr.Get(c.Param("id"))
		if !ok {
			errors.NotFound(c, "session")
			return
		}

		session.History.Clear()

		c.JSON(http.StatusOK, MessageResponse{Message: "history cleared"})
	}
}

// DeleteSessionHandler ends a session
func DeleteSessionHandler(mgr *sessions.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !mgr.Delete(c.Param("id")) {
			errors.NotFound(c, "session")
			return
		}

		c.JSON(http.StatusOK, MessageResponse{Message: "session ended"})
	}
}
