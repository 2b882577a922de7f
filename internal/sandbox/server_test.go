package sandbox

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/sg-web/internal/models"
	"github.com/hongminglow/sg-web/internal/session"
)

func newTestAPI(t *testing.T, apiKey string) http.Handler {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	return New(Options{JWTSecret: "test-secret", APIKey: apiKey, Logger: log, Now: fixedNow}).Handler()
}

func do(t *testing.T, h http.Handler, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

func TestRegisterLoginMe(t *testing.T) {
	h := newTestAPI(t, "")

	rec := do(t, h, http.MethodPost, "/api/v1/auth/register", `{"phone":"9000000001","password":"secret1","name":"Asha"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	c := sessionCookie(t, rec)
	assert.True(t, c.HttpOnly)

	rec = do(t, h, http.MethodGet, "/api/v1/auth/me", "", c)
	require.Equal(t, http.StatusOK, rec.Code)
	var me struct {
		User models.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	assert.Equal(t, "Asha", me.User.Name)

	rec = do(t, h, http.MethodPost, "/api/v1/auth/login", `{"phone":"9000000001","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"code":401,"message":"Invalid phone or password"}`, rec.Body.String())

	rec = do(t, h, http.MethodPost, "/api/v1/auth/register", `{"phone":"9000000001","password":"secret1","name":"Dup"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestProtectedRoutesNeedSession(t *testing.T) {
	h := newTestAPI(t, "")

	rec := do(t, h, http.MethodGet, "/api/v1/wallet", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), `"message":"Not authenticated"`)

	rec = do(t, h, http.MethodGet, "/api/v1/wallet", "", &http.Cookie{Name: session.CookieName, Value: "forged"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAPIKeyEnforced(t *testing.T) {
	h := newTestAPI(t, "k1")

	rec := do(t, h, http.MethodGet, "/api/v1/trade/price", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/trade/price", nil)
	req.Header.Set(session.APIKeyHeader, "k1")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPublicMarketData(t *testing.T) {
	h := newTestAPI(t, "")

	rec := do(t, h, http.MethodGet, "/api/v1/assets/overview?currency=INR", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var ov models.Overview
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ov))
	assert.Equal(t, models.INR, ov.Currency)
	assert.InDelta(t, 200400.0, ov.Assets.Gold.Price, 0.01)

	rec = do(t, h, http.MethodGet, "/api/v1/assets/silver/historical?currency=USD&range=1D", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var hist models.Historical
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &hist))
	assert.Len(t, hist.Data, 24)
	assert.InDelta(t, 30.0, hist.Data[len(hist.Data)-1].Price, 0.01)

	rec = do(t, h, http.MethodGet, "/api/v1/assets/platinum/rates", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/v1/assets/overview?currency=JPY", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/v1/delivery/stores", "")
	assert.Contains(t, rec.Body.String(), "store-mum-01")
}

func TestTradeOverHTTP(t *testing.T) {
	h := newTestAPI(t, "")
	rec := do(t, h, http.MethodPost, "/api/v1/auth/register", `{"phone":"9000000001","password":"secret1","name":"Asha"}`)
	c := sessionCookie(t, rec)

	rec = do(t, h, http.MethodPost, "/api/v1/trade/sell", `{"amountMg":100}`, c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Insufficient gold balance")

	rec = do(t, h, http.MethodPost, "/api/v1/trade/buy", `{"amountMg":500}`, c)
	require.Equal(t, http.StatusOK, rec.Code)
	var res models.TradeResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.NotNil(t, res.BonusMg)
	assert.Equal(t, int64(50), *res.BonusMg)
	require.NotNil(t, res.NewBalance)
	assert.Equal(t, int64(550), *res.NewBalance)
}
