package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethanbaker/hq-console/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(values map[string]string) *utils.Config {
	base := map[string]string{
		"API_KEY":             "secret",
		"GENERATION_PROVIDER": "openai",
		"OPENAI_API_KEY":      "sk-test",
	}
	for k, v := range values {
		base[k] = v
	}
	return utils.NewConfig(base)
}

func newTestEngine(t *testing.T, cfg *utils.Config) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	services, err := NewServices(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(services.Close)

	engine, err := NewEngine(cfg, services)
	require.NoError(t, err)
	return engine
}

func serve(engine *gin.Engine, method, path, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if key != "" {
		req.Header.Set("X-API-KEY", key)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestNewServicesRequiresProviderKey(t *testing.T) {
	cfg := utils.NewConfig(map[string]string{"API_KEY": "secret"})

	_, err := NewServices(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")
}

func TestNewServicesRejectsUnknownStore(t *testing.T) {
	_, err := NewServices(context.Background(), testConfig(map[string]string{"STORE_BACKEND": "ftp"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORE_BACKEND")
}

func TestNewEngineRequiresAPIKey(t *testing.T) {
	cfg := testConfig(nil)
	services, err := NewServices(context.Background(), cfg)
	require.NoError(t, err)
	defer services.Close()

	cfg.Set("API_KEY", "")
	_, err = NewEngine(cfg, services)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API_KEY")
}

func TestEngineRoutes(t *testing.T) {
	engine := newTestEngine(t, testConfig(map[string]string{
		"APPS_SCRIPT_URL": "https://script.google.com/macros/s/abc/exec",
	}))

	// Health is public
	w := serve(engine, http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusOK, w.Code)

	// Console and connection routes need the key
	w = serve(engine, http.MethodGet, "/api/console/state", "")
	assert.NotEqual(t, http.StatusOK, w.Code)

	w = serve(engine, http.MethodGet, "/api/console/state", "secret")
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(engine, http.MethodGet, "/api/connection", "secret")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"connected":true`)
	assert.Contains(t, w.Body.String(), `"source":"config"`)

	w = serve(engine, http.MethodGet, "/api/console/catalog", "secret")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "LEADER")

	// Unknown routes fall through to the no-route handler
	w = serve(engine, http.MethodGet, "/api/nothing-here", "secret")
	assert.NotEqual(t, http.StatusOK, w.Code)
}
