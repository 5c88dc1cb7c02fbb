package errors

import (
	"net/http"
	"strings"

	"github.com/2b3pro/ae-conjure/internal/logger"
	"github.com/gin-gonic/gin"
)

// Error Handling Guidelines:
//
// For HTTP REST handlers:
//   - Use errors.InternalError(), errors.BadRequest(), etc. for critical errors
//     These functions handle both logging and HTTP response automatically
//   - Use logger.ErrorErr() only for non-critical errors where processing continues
//
// For the run pipeline (llm, engine, bridge):
//   - Wrap failures in *Error with the matching Kind
//   - Never panic past a public boundary; failures resolve into result values
//
// For services/stores/internal packages:
//   - Return wrapped errors with context using fmt.Errorf("context: %w", err)
//   - Let the caller (handler) decide how to log and respond

// standard error codes
const (
	CodeNotFound        = "not_found"
	CodeValidationError = "validation_error"
	CodeServerError     = "server_error"
	CodeBadRequest      = "bad_request"
	CodeConfigError     = "config_error"
	CodeUnavailable     = "service_unavailable"
	CodeRateLimited     = "rate_limit_exceeded"
)

// writes an ErrorResponse; details come from err, sanitized in production
func respond(c *gin.Context, status int, code, message string, err error) {
	response := ErrorResponse{
		Error:   code,
		Message: message,
	}

	if err != nil {
		response.Details = sanitizeError(err)
	}

	c.JSON(status, response)
}

// returns a 404 not found error
func NotFound(c *gin.Context, resource string) {
	message := "resource not found"
	if resource != "" {
		message = resource + " not found"
	}

	respond(c, http.StatusNotFound, CodeNotFound, message, nil)
}

// returns a 400 bad request error
func BadRequest(c *gin.Context, message string, err error) {
	if message == "" {
		message = "invalid request"
	}

	respond(c, http.StatusBadRequest, CodeBadRequest, message, err)
}

// returns a 400 bad request error for validation failures
func ValidationError(c *gin.Context, err error) {
	message := "validation failed"
	if err != nil && (strings.Contains(err.Error(), "binding") || strings.Contains(err.Error(), "validation")) {
		message = "request validation failed"
	}

	respond(c, http.StatusBadRequest, CodeValidationError, message, err)
}

// returns a 400 error for an unusable provider/model selection
func ConfigError(c *gin.Context, err error) {
	respond(c, http.StatusBadRequest, CodeConfigError, "invalid provider configuration", err)
}

// returns a 500 internal server error
func InternalError(c *gin.Context, message string, err error) {
	if message == "" {
		message = "an error occurred"
	}

	// full error stays server-side
	logger.ErrorErr(err, message,
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
	)

	respond(c, http.StatusInternalServerError, CodeServerError, message, err)
}

// returns a 503 when a backing service (host bridge, knowledge source) is unreachable
func Unavailable(c *gin.Context, message string, err error) {
	if message == "" {
		message = "service unavailable"
	}

	logger.ErrorErr(err, message, "path", c.Request.URL.Path)

	respond(c, http.StatusServiceUnavailable, CodeUnavailable, message, err)
}

// sanitizes error messages for production
func sanitizeError(err error) string {
	if err == nil {
		return ""
	}

	return classifyError(err).sanitized
}
