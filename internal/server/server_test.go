package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/hongminglow/sg-web/internal/backend"
	"github.com/hongminglow/sg-web/internal/config"
	"github.com/hongminglow/sg-web/internal/metrics"
	"github.com/hongminglow/sg-web/internal/middleware"
	"github.com/hongminglow/sg-web/internal/sandbox"
	"github.com/hongminglow/sg-web/internal/view"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newRouter(t *testing.T, cfg config.Config, m *metrics.Metrics) http.Handler {
	t.Helper()
	log := quietLogger()
	api := httptest.NewServer(sandbox.New(sandbox.Options{JWTSecret: "test-secret", Logger: log}).Handler())
	t.Cleanup(api.Close)

	clientCfg := backend.Config{BaseURL: api.URL, Logger: log}
	if m != nil {
		clientCfg.Observer = m
	}
	renderer, err := view.NewRenderer(view.NewFormatter(language.English))
	require.NoError(t, err)
	return Router(cfg, Options{
		Gateway:  backend.New(clientCfg),
		Renderer: renderer,
		Logger:   log,
		Metrics:  m,
	})
}

func serve(h http.Handler, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestRouterExposesMetrics(t *testing.T) {
	m := metrics.New()
	r := newRouter(t, config.Config{Port: "8080"}, m)

	require.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/").Code)

	rec := serve(r, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `sg_web_http_requests_total{method="GET",route="/",status="200"} 1`)
	assert.Contains(t, body, `sg_web_backend_calls_total{endpoint="assets.overview",outcome="ok"}`)
}

func TestRouterWithoutMetrics(t *testing.T) {
	r := newRouter(t, config.Config{Port: "8080"}, nil)
	assert.Equal(t, http.StatusNotFound, serve(r, http.MethodGet, "/metrics").Code)
}

func TestRouterSetsRequestID(t *testing.T) {
	r := newRouter(t, config.Config{Port: "8080"}, nil)
	rec := serve(r, http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))
}

func TestRouterRateLimitsCredentialPosts(t *testing.T) {
	r := newRouter(t, config.Config{Port: "8080", AuthRateLimitPerMinute: 2}, nil)

	for i := 0; i < 2; i++ {
		assert.NotEqual(t, http.StatusTooManyRequests, serve(r, http.MethodPost, "/login").Code)
	}
	assert.Equal(t, http.StatusTooManyRequests, serve(r, http.MethodPost, "/login").Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/login").Code)
}

func TestNewUsesConfiguredAddress(t *testing.T) {
	s := New(config.Config{Port: "9090"}, Options{Renderer: &view.Renderer{}, Logger: quietLogger()})
	assert.Equal(t, ":9090", s.inner.Addr)
}

func TestCORSCredentialsOnlyForListedOrigins(t *testing.T) {
	fetch := func(h http.Handler, origin string) http.Header {
		req := httptest.NewRequest(http.MethodGet, "/api/trade-price", nil)
		req.Header.Set("Origin", origin)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Header()
	}

	wildcard := newRouter(t, config.Config{Port: "8080", CORSOrigins: []string{"*"}}, nil)
	hdr := fetch(wildcard, "https://elsewhere.example.com")
	assert.Equal(t, "*", hdr.Get("Access-Control-Allow-Origin"))
	assert.Empty(t, hdr.Get("Access-Control-Allow-Credentials"))

	listed := newRouter(t, config.Config{Port: "8080", CORSOrigins: []string{"https://app.example.com"}}, nil)
	hdr = fetch(listed, "https://app.example.com")
	assert.Equal(t, "https://app.example.com", hdr.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", hdr.Get("Access-Control-Allow-Credentials"))

	hdr = fetch(listed, "https://elsewhere.example.com")
	assert.Empty(t, hdr.Get("Access-Control-Allow-Origin"))
}

func TestCredentialsAllowed(t *testing.T) {
	assert.False(t, credentialsAllowed(nil))
	assert.False(t, credentialsAllowed([]string{"*"}))
	assert.False(t, credentialsAllowed([]string{"https://a.example.com", "https://*.example.com"}))
	assert.True(t, credentialsAllowed([]string{"https://a.example.com"}))
}
