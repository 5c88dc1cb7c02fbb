package settings

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
	"github.com/2b3pro/ae-conjure/internal/settings"
	"github.com/2b3pro/ae-conjure/internal/storage"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := storage.NewClient(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	resolver := settings.NewResolver(store, &config.Config{DefaultProvider: "anthropic", MaxRetries: 3})
	router := gin.New()
	RegisterRoutes(router.Group("/api/v1"), resolver)

	return router
}

func do(router http.Handler, method, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/api/v1/settings", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestGetSettings(t *testing.T) {
	router := setupRouter(t)

	rr := do(router, http.MethodGet, "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var view settings.View
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &view))
	assert.Equal(t, "anthropic", view.DefaultProvider)
	assert.Equal(t, 3, view.MaxRetries)
	assert.Len(t, view.Providers, 3)
}

func TestUpdateSettingsMasksKeys(t *testing.T) {
	router := setupRouter(t)

	rr := do(router, http.MethodPut, `{"default_provider":"openai","openai_api_key":"sk-proj-abcdef123456","max_retries":5}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.NotContains(t, rr.Body.String(), "sk-proj")

	var view settings.View
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &view))
	assert.Equal(t, "openai", view.DefaultProvider)
	assert.Equal(t, "gpt-4o", view.DefaultModel)
	assert.Equal(t, 5, view.MaxRetries)
	assert.Equal(t, "****3456", view.APIKeys["openai"])
}

func TestUpdateSettingsRejectsInvalid(t *testing.T) {
	router := setupRouter(t)

	rr := do(router, http.MethodPut, `{"default_provider":"mistral"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(router, http.MethodPut, `{"max_retries":99}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(router, http.MethodPut, `not json`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
