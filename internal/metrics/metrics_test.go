package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/sg-web/internal/backend"
)

func TestObserveCall(t *testing.T) {
	m := New()
	m.ObserveCall("wallet.get", 0, 10*time.Millisecond)
	m.ObserveCall("wallet.get", backend.KindNetwork, time.Millisecond)
	m.ObserveCall("trade.buy", backend.KindUnauthenticated, 0)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.backendCalls.WithLabelValues("wallet.get", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.backendCalls.WithLabelValues("wallet.get", "network")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.backendCalls.WithLabelValues("trade.buy", "unauthenticated")))
}

func TestInstrumentUsesRoutePattern(t *testing.T) {
	m := New()
	r := chi.NewRouter()
	r.Use(m.Instrument)
	r.Get("/scheme/{schemeID}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	r.Handle("/metrics", m.Handler())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/scheme/abc", nil))
	require.Equal(t, http.StatusTeapot, rec.Code)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/scheme/{schemeID}", "418")))

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "sg_web_http_requests_total"))
}
