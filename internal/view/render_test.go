package view

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/hongminglow/sg-web/internal/models"
)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := NewRenderer(NewFormatter(language.English))
	require.NoError(t, err)
	return r
}

func render(t *testing.T, r *Renderer, name string, p Page) string {
	t.Helper()
	rec := httptest.NewRecorder()
	require.NoError(t, r.Render(rec, http.StatusOK, name, p))
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	return rec.Body.String()
}

func TestRendererParsesEveryPage(t *testing.T) {
	r := newTestRenderer(t)
	for _, name := range []string{
		"home", "login", "register", "dashboard", "trade", "wallet",
		"scheme_list", "scheme_enroll", "scheme_detail", "delivery", "profile",
	} {
		_, ok := r.pages[name]
		assert.True(t, ok, name)
	}
	_, ok := r.pages["layout"]
	assert.False(t, ok)
}

func TestRenderUnknownPage(t *testing.T) {
	r := newTestRenderer(t)
	rec := httptest.NewRecorder()
	assert.Error(t, r.Render(rec, http.StatusOK, "missing", Page{}))
	assert.Empty(t, rec.Body.String())
}

func TestRenderLayoutNavigation(t *testing.T) {
	r := newTestRenderer(t)

	body := render(t, r, "login", Page{Title: "Log in", Data: AuthFormData{Phone: "9999999999"}, Flash: Flash{Error: "Invalid credentials"}})
	assert.Contains(t, body, `href="/register"`)
	assert.Contains(t, body, "Invalid credentials")
	assert.Contains(t, body, `value="9999999999"`)
	assert.NotContains(t, body, `action="/logout"`)

	user := &models.User{Name: "Asha", Phone: "9999999999"}
	body = render(t, r, "profile", Page{Title: "Profile", User: user})
	assert.Contains(t, body, `action="/logout"`)
	assert.Contains(t, body, "Request jeweller access")
}

func TestRenderWalletPagination(t *testing.T) {
	r := newTestRenderer(t)
	txs := make([]models.Transaction, 15)
	for i := range txs {
		txs[i] = models.Transaction{Type: models.TxBuy, AmountMg: 100, Status: "completed", CreatedAt: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)}
	}
	txs[0].Type = models.TxSell

	body := render(t, r, "wallet", Page{User: &models.User{Name: "Asha"}, Data: WalletData{
		Wallet:       models.Wallet{BalanceMg: 1500},
		Transactions: txs,
		Pagination:   Paginate(1, 20, 15),
	}})
	assert.Equal(t, 15, strings.Count(body, `class="tx"`))
	assert.NotContains(t, body, `rel="next"`)
	assert.NotContains(t, body, `rel="prev"`)
	assert.Contains(t, body, "-0.100g")
	assert.Contains(t, body, "+0.100g")

	body = render(t, r, "wallet", Page{User: &models.User{Name: "Asha"}, Data: WalletData{
		Transactions: txs,
		Pagination:   Paginate(1, 15, 30),
	}})
	assert.Contains(t, body, `href="/wallet?page=2"`)
}

func TestRenderHomeMarket(t *testing.T) {
	r := newTestRenderer(t)
	var overview models.Overview
	overview.Assets.Gold = models.Quote{Price: GramsPerTroyOunce * 100, ChangePercent: 0.5}
	sel := Selection{Metal: models.Gold, Currency: models.USD, Range: models.Range1D}
	data := NewMarketData(sel, overview, models.Historical{Data: []models.PricePoint{{Time: "10:00", Price: GramsPerTroyOunce * 100}}})
	data.GoldRates = models.RateTable{Currency: models.USD, Rows: []models.RateRow{{Label: "24K", Grams1: 100}}}

	body := render(t, r, "home", Page{Data: data})
	assert.Contains(t, body, "$1,000.00")
	assert.Contains(t, body, "&#43;0.50%")
	assert.Contains(t, body, "24K")
	assert.Contains(t, body, `href="?currency=EUR&amp;metal=gold&amp;range=1D"`)
}
