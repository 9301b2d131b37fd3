package gin_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	ginpkg "github.com/gin-gonic/gin"
	infragin "github.com/jonesrussell/north-cloud/newsfeed/infrastructure/gin"
	"github.com/jonesrussell/north-cloud/newsfeed/infrastructure/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	ginpkg.SetMode(ginpkg.TestMode)
}

func TestRequestIDLoggerMiddleware_GeneratesID(t *testing.T) {
	t.Parallel()

	w := serve(t, newTestRouter(t), httptest.NewRequest(http.MethodGet, "/test", http.NoBody))

	reqID := w.Header().Get(infragin.RequestIDHeader)
	assert.Len(t, reqID, 32)
}

func TestRequestIDLoggerMiddleware_PreservesInboundID(t *testing.T) {
	t.Parallel()

	const inbound = "trace-from-upstream-abc123"

	router := ginpkg.New()
	router.Use(infragin.RequestIDLoggerMiddleware(logger.NewNop()))

	var seen string
	router.GET("/test", func(c *ginpkg.Context) {
		seen = c.GetString(infragin.RequestIDKey)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
	req.Header.Set(infragin.RequestIDHeader, inbound)
	w := serve(t, router, req)

	assert.Equal(t, inbound, w.Header().Get(infragin.RequestIDHeader))
	assert.Equal(t, inbound, seen)
}

func TestRequestIDLoggerMiddleware_ReplacesOversizedID(t *testing.T) {
	t.Parallel()

	oversized := strings.Repeat("x", 200)
	req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
	req.Header.Set(infragin.RequestIDHeader, oversized)

	w := serve(t, newTestRouter(t), req)

	got := w.Header().Get(infragin.RequestIDHeader)
	assert.NotEqual(t, oversized, got)
	assert.NotEmpty(t, got)
}

func TestRequestIDLoggerMiddleware_StoresLoggerInRequestContext(t *testing.T) {
	t.Parallel()

	base := logger.NewNop()
	router := ginpkg.New()
	router.Use(infragin.RequestIDLoggerMiddleware(base))

	var got logger.Logger
	router.GET("/test", func(c *ginpkg.Context) {
		got = logger.FromContext(c.Request.Context())
		c.Status(http.StatusOK)
	})

	serve(t, router, httptest.NewRequest(http.MethodGet, "/test", http.NoBody))

	assert.Same(t, base, got, "nop logger With returns itself")
}

func TestRequestIDLoggerMiddleware_UniqueIDs(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	seen := make(map[string]bool)

	for range 100 {
		w := serve(t, router, httptest.NewRequest(http.MethodGet, "/test", http.NoBody))
		id := w.Header().Get(infragin.RequestIDHeader)
		require.False(t, seen[id], "duplicate request id %s", id)
		seen[id] = true
	}
}

func TestCORSMiddleware_AllowsConfiguredOrigin(t *testing.T) {
	t.Parallel()

	router := ginpkg.New()
	router.Use(infragin.CORSMiddleware(infragin.CORSConfig{
		Enabled:        true,
		AllowedOrigins: []string{"http://localhost:3000"},
	}))
	router.GET("/test", func(c *ginpkg.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
	req.Header.Set("Origin", "http://localhost:3000")
	w := serve(t, router, req)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
	req.Header.Set("Origin", "http://evil.example")
	w = serve(t, router, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSMiddleware_Preflight(t *testing.T) {
	t.Parallel()

	router := ginpkg.New()
	router.Use(infragin.CORSMiddleware(infragin.CORSConfig{Enabled: true}))
	router.GET("/test", func(c *ginpkg.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/test", http.NoBody)
	req.Header.Set("Origin", "http://anywhere.example")
	w := serve(t, router, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "43200", w.Header().Get("Access-Control-Max-Age"))
}

func TestRecoveryMiddleware_Returns500(t *testing.T) {
	t.Parallel()

	router := ginpkg.New()
	router.Use(infragin.RecoveryMiddleware(logger.NewNop()))
	router.GET("/boom", func(*ginpkg.Context) { panic("boom") })

	w := serve(t, router, httptest.NewRequest(http.MethodGet, "/boom", http.NoBody))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
}

func newTestRouter(t *testing.T) *ginpkg.Engine {
	t.Helper()

	router := ginpkg.New()
	router.Use(infragin.RequestIDLoggerMiddleware(logger.NewNop()))
	router.GET("/test", func(c *ginpkg.Context) {
		c.String(http.StatusOK, "ok")
	})
	return router
}

func serve(t *testing.T, h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}
