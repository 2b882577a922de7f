package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/hongminglow/sg-web/internal/session"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

var noContent = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
})

func TestGuardRedirects(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		cookie   bool
		status   int
		location string
	}{
		{name: "protected without session", path: "/wallet", status: http.StatusSeeOther, location: "/login"},
		{name: "nested protected", path: "/scheme/abc", status: http.StatusSeeOther, location: "/login"},
		{name: "protected with session", path: "/wallet", cookie: true, status: http.StatusNoContent},
		{name: "auth page with session", path: "/login", cookie: true, status: http.StatusSeeOther, location: "/dashboard"},
		{name: "auth page without session", path: "/register", status: http.StatusNoContent},
		{name: "public", path: "/", status: http.StatusNoContent},
		{name: "lookalike prefix", path: "/walletx", status: http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.cookie {
				req.AddCookie(&http.Cookie{Name: session.CookieName, Value: "tok"})
			}
			rec := httptest.NewRecorder()
			Guard(noContent).ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.location, rec.Header().Get("Location"))
		})
	}
}

func TestRequestLoggerAssignsID(t *testing.T) {
	var seen string
	h := RequestLogger(quietLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", seen)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestRateLimiterPerClient(t *testing.T) {
	h := NewRateLimiter(2, quietLogger()).Handler(noContent)

	hit := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusNoContent, hit("10.0.0.1:1000"))
	assert.Equal(t, http.StatusNoContent, hit("10.0.0.1:1001"))
	assert.Equal(t, http.StatusTooManyRequests, hit("10.0.0.1:1002"))
	assert.Equal(t, http.StatusNoContent, hit("10.0.0.2:1000"))
}
