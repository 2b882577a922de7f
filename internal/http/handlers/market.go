package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/hongminglow/sg-web/internal/backend"
	"github.com/hongminglow/sg-web/internal/http/respond"
	"github.com/hongminglow/sg-web/internal/models"
	"github.com/hongminglow/sg-web/internal/view"
)

// MarketHandler serves the public rates page, the dashboard and the trade quote endpoint.
type MarketHandler struct {
	base
}

// NewMarketHandler constructs the handler.
func NewMarketHandler(d Deps) *MarketHandler {
	return &MarketHandler{base: newBase(d)}
}

// RegisterPublic attaches routes that need no session.
func (h *MarketHandler) RegisterPublic(r chi.Router) {
	r.Get("/", h.home)
	r.Get("/api/trade-price", h.tradePrice)
}

// RegisterProtected attaches routes that run behind RequireUser.
func (h *MarketHandler) RegisterProtected(r chi.Router) {
	r.Get("/dashboard", h.dashboard)
}

func (h *MarketHandler) home(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	store := h.store(w, r)
	sel := view.SelectionFromQuery(r.URL.Query(), models.Range1D)

	var (
		overview            models.Overview
		history             models.Historical
		goldRates, silRates models.RateTable
		g                   errgroup.Group
	)
	g.Go(func() (err error) {
		overview, err = h.gw.Overview(ctx, store, sel.Currency)
		return err
	})
	g.Go(func() (err error) {
		history, err = h.gw.Historical(ctx, store, sel.Metal, sel.Currency, sel.Range)
		return err
	})
	g.Go(func() (err error) {
		goldRates, err = h.gw.GoldRates(ctx, store, sel.Currency)
		return err
	})
	g.Go(func() (err error) {
		silRates, err = h.gw.SilverRates(ctx, store, sel.Currency)
		return err
	})
	err := g.Wait()

	data := view.NewMarketData(sel, overview, history)
	data.GoldRates = goldRates
	data.SilverRates = silRates
	page := view.Page{Title: "Live rates", Data: data}
	if err != nil {
		page.Flash.Error = backend.Message(err)
	}
	h.render(w, r, http.StatusOK, "home", page)
}

func (h *MarketHandler) dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	store := h.store(w, r)
	sel := view.SelectionFromQuery(r.URL.Query(), models.Range1D)

	var (
		overview  models.Overview
		history   models.Historical
		wallet    models.Wallet
		walletErr error
		g         errgroup.Group
	)
	g.Go(func() (err error) {
		overview, err = h.gw.Overview(ctx, store, sel.Currency)
		return err
	})
	g.Go(func() (err error) {
		history, err = h.gw.Historical(ctx, store, sel.Metal, sel.Currency, sel.Range)
		return err
	})
	g.Go(func() error {
		wallet, walletErr = h.gw.Wallet(ctx, store)
		return walletErr
	})
	err := g.Wait()

	data := view.DashboardData{Market: view.NewMarketData(sel, overview, history)}
	data.GoldPerGram = view.PerGram(overview.Assets.Gold.Price)
	if walletErr == nil {
		data.Wallet = &wallet
		data.BalanceValue = float64(wallet.BalanceMg) / 1000 * data.GoldPerGram
		data.BonusProfitPercent = view.BonusProfitPercent(wallet)
	}
	page := view.Page{Title: "Dashboard", Data: data}
	if err != nil {
		page.Flash.Error = backend.Message(err)
	}
	h.render(w, r, http.StatusOK, "dashboard", page)
}

func (h *MarketHandler) tradePrice(w http.ResponseWriter, r *http.Request) {
	quote, err := h.gw.TradeQuote(r.Context(), h.store(w, r))
	if err != nil {
		respond.Error(w, statusFor(err), backend.Message(err))
		return
	}
	respond.JSON(w, http.StatusOK, "ok", quote)
}

// statusFor maps a gateway failure onto the status of a JSON reply.
func statusFor(err error) int {
	switch backend.KindOf(err) {
	case backend.KindUnauthenticated:
		return http.StatusUnauthorized
	case backend.KindBackend:
		return http.StatusBadGateway
	default:
		return http.StatusServiceUnavailable
	}
}
