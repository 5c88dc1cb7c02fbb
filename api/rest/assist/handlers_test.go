package assist

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2b3pro/ae-conjure/internal/config"
	apperrors "github.com/2b3pro/ae-conjure/internal/errors"
	"github.com/2b3pro/ae-conjure/internal/llm"
	"github.com/2b3pro/ae-conjure/internal/settings"
)

type stubAssistant struct {
	refine  llm.RefineRequest
	explain llm.ExplainRequest
	result  llm.Result
	text    llm.Explanation
}

func (s *stubAssistant) Refine(_ context.Context, req llm.RefineRequest) llm.Result {
	s.refine = req
	return s.result
}

func (s *stubAssistant) Explain(_ context.Context, req llm.ExplainRequest) llm.Explanation {
	s.explain = req
	return s.text
}

func setupRouter(a Assistant) *gin.Engine {
	gin.SetMode(gin.TestMode)

	resolver := settings.NewResolver(nil, &config.Config{DefaultProvider: "anthropic", AnthropicKey: "env-key"})
	router := gin.New()
	RegisterRoutes(router.Group("/api/v1"), a, resolver)

	return router
}

func post(router http.Handler, url, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, url, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestRefineHandler(t *testing.T) {
	a := &stubAssistant{result: llm.Result{Success: true, Code: "var b = 2;", RawResponse: "```js\nvar b = 2;\n```"}}
	router := setupRouter(a)

	rr := post(router, "/api/v1/refine", `{"code":"var b = 1;","instruction":"use two"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp RefineResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "var b = 2;", resp.Code)
	assert.Equal(t, "anthropic", resp.Provider)

	assert.Equal(t, llm.RefineRequest{
		Code:        "var b = 1;",
		Instruction: "use two",
		Provider:    "anthropic",
		APIKey:      "env-key",
	}, a.refine)
}

func TestRefineFailureIsReported(t *testing.T) {
	a := &stubAssistant{result: llm.Result{Err: apperrors.Generation("anthropic", assert.AnError)}}
	router := setupRouter(a)

	rr := post(router, "/api/v1/refine", `{"code":"x","instruction":"y"}`)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp RefineResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.Error)
}

func TestRefineValidation(t *testing.T) {
	router := setupRouter(&stubAssistant{})

	rr := post(router, "/api/v1/refine", `{"code":"x"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = post(router, "/api/v1/refine", `{"code":"x","instruction":"y","provider":"mistral"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), apperrors.CodeConfigError)
}

func TestExplainHandler(t *testing.T) {
	a := &stubAssistant{text: llm.Explanation{Success: true, Text: "Creates a solid layer."}}
	router := setupRouter(a)

	rr := post(router, "/api/v1/explain", `{"code":"comp.layers.addSolid();","provider":"openai","api_key":"byok"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp ExplainResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "Creates a solid layer.", resp.Explanation)
	assert.Equal(t, "openai", a.explain.Provider)
	assert.Equal(t, "byok", a.explain.APIKey)
}
