package router

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type anonymous struct{}

func (anonymous) Authenticate(context.Context, string) (*identity.User, error) {
	return nil, errors.New("unused")
}

type echoAPI struct{}

func (echoAPI) Register(r gin.IRoutes, path string) {
	r.POST(path, func(c *gin.Context) { c.String(http.StatusOK, "pong") })
}

func newEngine(t *testing.T, cfg Config) *gin.Engine {
	t.Helper()
	r := New(cfg, anonymous{}, echoAPI{}, nil)
	t.Cleanup(r.Close)
	r.WithHealthCheck("database", func(context.Context) error { return nil })
	engine, err := r.Engine()
	require.NoError(t, err)
	return engine
}

func TestRouter_ServesAPIAndHealth(t *testing.T) {
	engine := newEngine(t, Config{GraphQLPath: "/graphql", HTTP: config.HTTPConfig{MaxBodySize: 1024}})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader("{}")))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"OK","checks":{"database":"up"}}`, w.Body.String())
}

func TestRouter_HealthReportsFailures(t *testing.T) {
	r := New(Config{GraphQLPath: "/graphql"}, anonymous{}, echoAPI{}, nil).
		WithHealthCheck("redis", func(context.Context) error { return errors.New("refused") })
	engine, err := r.Engine()
	require.NoError(t, err)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"redis":"down"`)
}

func TestRouter_RateLimit(t *testing.T) {
	engine := newEngine(t, Config{GraphQLPath: "/graphql", HTTP: config.HTTPConfig{RateLimit: 1, RateWindow: time.Minute}})

	for i, want := range []int{http.StatusOK, http.StatusTooManyRequests} {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/graphql", nil))
		assert.Equal(t, want, w.Code, "request %d", i)
	}

	// health sits outside the limit
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_ServesMemoryMedia(t *testing.T) {
	ctx := context.Background()
	objects := storage.NewMemoryObjectStorage("http://localhost:8080/media")
	require.NoError(t, objects.Put(ctx, "brands/b1/logo.png", []byte("png"), "image/png"))

	r := New(Config{GraphQLPath: "/graphql", HTTP: config.HTTPConfig{MaxBodySize: 1024}}, anonymous{}, echoAPI{}, nil).
		WithRoutes("/media", objects)
	t.Cleanup(r.Close)
	engine, err := r.Engine()
	require.NoError(t, err)

	signed, _, err := objects.GenerateDownloadURL(ctx, "brands/b1/logo.png", time.Minute)
	require.NoError(t, err)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, strings.TrimPrefix(signed, "http://localhost:8080"), nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "png", w.Body.String())
}
