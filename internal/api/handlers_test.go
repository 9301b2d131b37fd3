package api_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/north-cloud/newsfeed/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/newsfeed/internal/api"
	"github.com/jonesrussell/north-cloud/newsfeed/internal/config"
	"github.com/jonesrussell/north-cloud/newsfeed/internal/domain"
	"github.com/jonesrussell/north-cloud/newsfeed/internal/featured"
	"github.com/jonesrussell/north-cloud/newsfeed/internal/feed"
	"github.com/jonesrussell/north-cloud/newsfeed/internal/metrics"
	"github.com/jonesrussell/north-cloud/newsfeed/internal/normalizer"
	"github.com/jonesrussell/north-cloud/newsfeed/internal/store"
)

// The server sets gin's global mode, so these tests run serially.

type stubFeed struct {
	feed *domain.Feed
	err  error
}

func (s stubFeed) Assemble(context.Context) (*domain.Feed, error) { return s.feed, s.err }

func testConfig(legacy bool) *config.Config {
	cfg := &config.Config{}
	config.SetDefaults(cfg)
	cfg.API.LegacyEnvelope = legacy
	return cfg
}

func serve(t *testing.T, r *api.Router, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	r.NewServer(logger.NewNop()).Router().ServeHTTP(w, httptest.NewRequest(method, path, http.NoBody))
	return w
}

func twoArticles() *domain.Feed {
	return &domain.Feed{Articles: []domain.NormalizedArticle{
		{UUID: "1", Title: "First", Author: domain.DefaultAuthor, PublishedDate: domain.DefaultPublishedDate},
		{UUID: "2", Title: "Second", Author: domain.DefaultAuthor, PublishedDate: domain.DefaultPublishedDate},
	}, Skipped: 1}
}

func TestPing(t *testing.T) {
	r := api.NewRouter(stubFeed{err: feed.ErrEmptyStore}, featured.NewService(), testConfig(false))

	w := serve(t, r, http.MethodGet, "/ping")

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","message":"Pong!"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestPing_Legacy(t *testing.T) {
	r := api.NewRouter(stubFeed{err: errors.New("store down")}, featured.NewService(), testConfig(true))

	w := serve(t, r, http.MethodGet, "/ping")

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `["Pong!",200]`, w.Body.String())
}

func TestGetNewsfeed(t *testing.T) {
	r := api.NewRouter(stubFeed{feed: twoArticles()}, featured.NewService(), testConfig(false))

	w := serve(t, r, http.MethodGet, "/get-newsfeed")

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"articles":[
		{"uuid":"1","title":"First","author":"Unknown","published_date":"Unknown","url":"","content":"","main_image":"","site":"",
		 "social_shares":{"facebook":0,"linkedin":0,"pinterest":0}},
		{"uuid":"2","title":"Second","author":"Unknown","published_date":"Unknown","url":"","content":"","main_image":"","site":"",
		 "social_shares":{"facebook":0,"linkedin":0,"pinterest":0}}
	]}`, w.Body.String())
}

func TestGetNewsfeed_Legacy(t *testing.T) {
	r := api.NewRouter(stubFeed{feed: twoArticles()}, featured.NewService(), testConfig(true))

	w := serve(t, r, http.MethodGet, "/get-newsfeed")

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"articles":[
		{"uuid":"1","title":"First","author":"Unknown","published_date":"Unknown","url":"","content":"","main_image":"","site":"",
		 "social_shares":{"facebook":0,"linkedin":0,"pinterest":0}},
		{"uuid":"2","title":"Second","author":"Unknown","published_date":"Unknown","url":"","content":"","main_image":"","site":"",
		 "social_shares":{"facebook":0,"linkedin":0,"pinterest":0}}
	]},200]`, w.Body.String())
}

func TestGetNewsfeed_IncludeSkipped(t *testing.T) {
	cfg := testConfig(false)
	cfg.API.IncludeSkipped = true
	r := api.NewRouter(stubFeed{feed: &domain.Feed{Skipped: 2}}, featured.NewService(), cfg)

	w := serve(t, r, http.MethodGet, "/get-newsfeed")

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"articles":[],"skipped":2}`, w.Body.String())
}

func TestGetNewsfeed_Errors(t *testing.T) {
	tests := []struct {
		name   string
		legacy bool
		err    error
		status int
		body   string
	}{
		{
			name:   "empty store",
			err:    feed.ErrEmptyStore,
			status: http.StatusNotFound,
			body:   `{"error":"No articles found in datastore."}`,
		},
		{
			name:   "empty store legacy",
			legacy: true,
			err:    feed.ErrEmptyStore,
			status: http.StatusOK,
			body:   `[{"error":"No articles found in datastore."},404]`,
		},
		{
			name:   "other failure",
			err:    errors.New("read path index: connection refused"),
			status: http.StatusInternalServerError,
			body:   `{"error":"read path index: connection refused"}`,
		},
		{
			name:   "other failure legacy",
			legacy: true,
			err:    errors.New("boom"),
			status: http.StatusOK,
			body:   `[{"error":"boom"},500]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := api.NewRouter(stubFeed{err: tt.err}, featured.NewService(), testConfig(tt.legacy))

			w := serve(t, r, http.MethodGet, "/get-newsfeed")

			assert.Equal(t, tt.status, w.Code)
			assert.JSONEq(t, tt.body, w.Body.String())
		})
	}
}

func TestGetFeaturedArticle(t *testing.T) {
	for _, legacy := range []bool{false, true} {
		t.Run(fmt.Sprintf("legacy=%v", legacy), func(t *testing.T) {
			r := api.NewRouter(stubFeed{}, featured.NewService(), testConfig(legacy))

			w := serve(t, r, http.MethodGet, "/get-featured-article")

			require.Equal(t, http.StatusOK, w.Code)
			want := `{}`
			if legacy {
				want = `[{},200]`
			}
			assert.JSONEq(t, want, w.Body.String())
		})
	}
}

func TestHealth_RedisPing(t *testing.T) {
	r := api.NewRouter(stubFeed{}, featured.NewService(), testConfig(false),
		api.WithRedisPing(func() error { return errors.New("dial tcp: refused") }))

	w := serve(t, r, http.MethodGet, "/health")

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"redis"`)
}

func TestMetricsRoute(t *testing.T) {
	m := metrics.New()
	m.ObserveIndexLoad(7)
	r := api.NewRouter(stubFeed{}, featured.NewService(), testConfig(false), api.WithMetrics(m))

	w := serve(t, r, http.MethodGet, "/metrics")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "newsfeed_index_size 7")
}

func TestMetricsRoute_CountsRequests(t *testing.T) {
	m := metrics.New()
	r := api.NewRouter(stubFeed{}, featured.NewService(), testConfig(false), api.WithMetrics(m))
	server := r.NewServer(logger.NewNop())

	server.Router().ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", http.NoBody))
	w := httptest.NewRecorder()
	server.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))

	assert.Contains(t, w.Body.String(), `newsfeed_http_requests_total{method="GET",route="/ping",status="200"} 1`)
}

func TestMetricsRoute_AbsentWithoutMetrics(t *testing.T) {
	r := api.NewRouter(stubFeed{}, featured.NewService(), testConfig(false))

	w := serve(t, r, http.MethodGet, "/metrics")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetNewsfeed_EndToEnd(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	write := func(name, body string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
		return path
	}
	first := write("a.json", `{"uuid":"a","title":"Alpha","thread":{"social":{"facebook":{"shares":3}}}}`)
	third := write("c.json", `{"uuid":"c"}`)
	bad := write("d.json", `{"uuid":`)

	s := store.NewMemoryStore("")
	require.NoError(t, s.SavePaths(ctx, store.PathIndexKey, []string{first, filepath.Join(dir, "b.json"), third}))
	r := api.NewRouter(feed.NewAssembler(s, normalizer.New()), featured.NewService(), testConfig(false))

	w := serve(t, r, http.MethodGet, "/get-newsfeed")

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"articles":[
		{"uuid":"a","title":"Alpha","author":"Unknown","published_date":"Unknown","url":"","content":"","main_image":"","site":"",
		 "social_shares":{"facebook":3,"linkedin":0,"pinterest":0}},
		{"uuid":"c","title":"Untitled","author":"Unknown","published_date":"Unknown","url":"","content":"","main_image":"","site":"",
		 "social_shares":{"facebook":0,"linkedin":0,"pinterest":0}}
	]}`, w.Body.String())

	require.NoError(t, s.SavePaths(ctx, store.PathIndexKey, []string{first, bad}))
	w = serve(t, r, http.MethodGet, "/get-newsfeed")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "parse article "+bad)
}
