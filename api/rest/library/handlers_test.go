package library

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2b3pro/ae-conjure/internal/bridge"
	"github.com/2b3pro/ae-conjure/internal/storage"
)

type stubExecutor struct {
	code   string
	result bridge.Result
	err    error
}

func (s *stubExecutor) Execute(_ context.Context, code string) (bridge.Result, error) {
	s.code = code
	return s.result, s.err
}

func setupRouter(t *testing.T, exec bridge.Executor) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := storage.NewClient(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	router := gin.New()
	RegisterRoutes(router.Group("/api/v1"), store, exec)

	return router
}

func do(router http.Handler, method, url, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, url, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestScriptLifecycle(t *testing.T) {
	router := setupRouter(t, &stubExecutor{})

	rr := do(router, http.MethodPost, "/api/v1/library",
		`{"name":"Center anchor","prompt":"center anchor points","code":"var l = app.project.activeItem.selectedLayers;","tags":["anchor"]}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var created storage.Script
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)

	rr = do(router, http.MethodGet, "/api/v1/library", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var list ScriptsListResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	require.Len(t, list.Scripts, 1)
	assert.Equal(t, []string{"anchor"}, list.Scripts[0].Tags)

	rr = do(router, http.MethodPut, "/api/v1/library/"+created.ID, `{"name":"Center anchors","code":"var x;"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var updated storage.Script
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &updated))
	assert.Equal(t, "Center anchors", updated.Name)
	assert.Equal(t, "var x;", updated.Code)

	rr = do(router, http.MethodDelete, "/api/v1/library/"+created.ID, "")
	require.Equal(t, http.StatusOK, rr.Code)

	rr = do(router, http.MethodGet, "/api/v1/library/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestScriptValidation(t *testing.T) {
	router := setupRouter(t, &stubExecutor{})

	rr := do(router, http.MethodPost, "/api/v1/library", `{"name":"no code"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestMissingScripts(t *testing.T) {
	router := setupRouter(t, &stubExecutor{})

	for _, tc := range []struct{ method, url, body string }{
		{http.MethodGet, "/api/v1/library/nope", ""},
		{http.MethodPut, "/api/v1/library/nope", `{"name":"n","code":"c"}`},
		{http.MethodDelete, "/api/v1/library/nope", ""},
		{http.MethodPost, "/api/v1/library/nope/execute", ""},
	} {
		rr := do(router, tc.method, tc.url, tc.body)
		assert.Equal(t, http.StatusNotFound, rr.Code, "%s %s", tc.method, tc.url)
	}
}

func TestExecuteScript(t *testing.T) {
	exec := &stubExecutor{result: bridge.Result{Success: true, Result: "3 layers"}}
	router := setupRouter(t, exec)

	rr := do(router, http.MethodPost, "/api/v1/library", `{"name":"count","code":"app.project.activeItem.numLayers;"}`)
	require.Equal(t, http.StatusCreated, rr.Code)

	var created storage.Script
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))

	rr = do(router, http.MethodPost, "/api/v1/library/"+created.ID+"/execute", "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp ExecuteResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "3 layers", resp.Result.Result)
	assert.Equal(t, created.ID, resp.ScriptID)
	assert.Equal(t, "app.project.activeItem.numLayers;", exec.code)
}

func TestExecuteScriptBridgeDown(t *testing.T) {
	exec := &stubExecutor{err: errors.New("dial tcp 127.0.0.1:8765: connection refused")}
	router := setupRouter(t, exec)

	rr := do(router, http.MethodPost, "/api/v1/library", `{"name":"count","code":"1;"}`)
	require.Equal(t, http.StatusCreated, rr.Code)

	var created storage.Script
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))

	rr = do(router, http.MethodPost, "/api/v1/library/"+created.ID+"/execute", "")
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}
