package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/hongminglow/sg-web/internal/backend"
	"github.com/hongminglow/sg-web/internal/models"
	"github.com/hongminglow/sg-web/internal/view"
)

const msgWalletUnavailable = "Unable to load wallet. Please try again."

// WalletHandler serves the wallet page and the storage benefit claim.
type WalletHandler struct {
	base
}

// NewWalletHandler constructs the handler.
func NewWalletHandler(d Deps) *WalletHandler {
	return &WalletHandler{base: newBase(d)}
}

// Register attaches wallet routes. They run behind RequireUser.
func (h *WalletHandler) Register(r chi.Router) {
	r.Get("/wallet", h.page)
	r.Post("/wallet/storage-benefit", h.claim)
}

func (h *WalletHandler) page(w http.ResponseWriter, r *http.Request) {
	h.show(w, r, view.PageParam(r.URL.Query().Get("page")), view.Flash{})
}

func (h *WalletHandler) claim(w http.ResponseWriter, r *http.Request) {
	res, err := h.gw.ClaimStorageBenefit(r.Context(), h.store(w, r))
	if err != nil {
		h.show(w, r, 1, view.Flash{Error: backend.Message(err)})
		return
	}
	h.show(w, r, 1, view.Flash{Success: fmt.Sprintf("%dmg credited to your wallet!", res.CreditedMg)})
}

func (h *WalletHandler) show(w http.ResponseWriter, r *http.Request, page int, flash view.Flash) {
	ctx := r.Context()
	store := h.store(w, r)

	var (
		wallet   models.Wallet
		txs      models.TransactionPage
		overview models.Overview
		benefit  *models.StorageBenefitStatus
		g        errgroup.Group
	)
	g.Go(func() (err error) {
		wallet, err = h.gw.Wallet(ctx, store)
		return err
	})
	g.Go(func() (err error) {
		txs, err = h.gw.Transactions(ctx, store, page, backend.DefaultLimit)
		return err
	})
	g.Go(func() error {
		// The price only feeds the valuation line; a failure leaves it at zero.
		overview, _ = h.gw.Overview(ctx, store, models.INR)
		return nil
	})
	g.Go(func() error {
		if s, err := h.gw.StorageBenefit(ctx, store); err == nil {
			benefit = &s
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		h.log.WithError(err).Warn("wallet page load failed")
		if flash.Error == "" {
			flash.Error = msgWalletUnavailable
		}
		h.render(w, r, http.StatusOK, "wallet", view.Page{Title: "Wallet", Flash: flash, Data: view.WalletData{
			Pagination: view.Paginate(page, backend.DefaultLimit, 0),
		}})
		return
	}

	limit := txs.Limit
	if limit <= 0 {
		limit = backend.DefaultLimit
	}
	current := txs.Page
	if current <= 0 {
		current = page
	}
	perGram := view.PerGram(overview.Assets.Gold.Price)
	data := view.WalletData{
		Wallet:           wallet,
		Transactions:     txs.Transactions,
		Pagination:       view.Paginate(current, limit, txs.Total),
		GoldPerGram:      perGram,
		BalanceValue:     float64(wallet.BalanceMg) / 1000 * perGram,
		PurchaseProgress: view.Capped(wallet.TotalPurchasedMg, backend.BonusThresholdMg),
		BonusProgress:    view.Capped(wallet.TotalBonusMg, backend.BonusMaxMg),
		StorageBenefit:   benefit,
	}
	h.render(w, r, http.StatusOK, "wallet", view.Page{Title: "Wallet", Flash: flash, Data: data})
}
