package errors

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindMatching(t *testing.T) {
	err := fmt.Errorf("attempt 2: %w", Generation("anthropic", errors.New("status 529")))

	assert.True(t, errors.Is(err, ErrGeneration))
	assert.False(t, errors.Is(err, ErrExecution))
	assert.Equal(t, KindGeneration, KindOf(err))
	assert.Equal(t, "attempt 2: anthropic: status 529", err.Error())
}

func TestKindOfPlainError(t *testing.T) {
	assert.Equal(t, Kind(""), KindOf(errors.New("boom")))
	assert.Equal(t, Kind(""), KindOf(nil))
}

func TestRetryable(t *testing.T) {
	tests := []struct {
		kind      Kind
		retryable bool
	}{
		{KindConfig, false},
		{KindGeneration, false},
		{KindEmptyCode, true},
		{KindExecution, true},
		{Kind(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.retryable, Retryable(tt.kind))
		})
	}
}

func TestErrorMessageVariants(t *testing.T) {
	assert.Equal(t, "config error", (&Error{Kind: KindConfig}).Error())
	assert.Equal(t, "no code", (&Error{Kind: KindEmptyCode, Op: "no code"}).Error())
	assert.Equal(t, `unknown provider "x"`, Config("", "unknown provider %q", "x").Error())
}

func TestSanitizeErrorInProduction(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")

	assert.Equal(t, "request timed out", sanitizeError(context.DeadlineExceeded))
	assert.Equal(t, "AI provider request failed", sanitizeError(Generation("openai", errors.New("secret body"))))
	assert.Equal(t, `unknown provider "x"`, sanitizeError(Config("", "unknown provider %q", "x")))
	assert.Equal(t, "an error occurred", sanitizeError(errors.New("kaboom")))
}

func TestSanitizeErrorInDevelopment(t *testing.T) {
	t.Setenv("ENVIRONMENT", "development")

	assert.Equal(t, "secret body", sanitizeError(errors.New("secret body")))
	assert.Empty(t, sanitizeError(nil))
}

func TestBadRequestResponse(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	BadRequest(c, "", errors.New("missing prompt"))

	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, CodeBadRequest, resp.Error)
	assert.Equal(t, "invalid request", resp.Message)
}
