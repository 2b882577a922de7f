package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hongminglow/sg-web/internal/backend"
	"github.com/hongminglow/sg-web/internal/models"
	"github.com/hongminglow/sg-web/internal/models/dto"
	"github.com/hongminglow/sg-web/internal/view"
)

const (
	sideBuy  = "buy"
	sideSell = "sell"
)

// TradeHandler serves the buy and sell forms.
type TradeHandler struct {
	base
}

// NewTradeHandler constructs the handler.
func NewTradeHandler(d Deps) *TradeHandler {
	return &TradeHandler{base: newBase(d)}
}

// Register attaches trade routes. They run behind RequireUser.
func (h *TradeHandler) Register(r chi.Router) {
	r.Get("/buy", h.page(sideBuy))
	r.Get("/sell", h.page(sideSell))
	r.Post("/buy", h.submit(sideBuy))
	r.Post("/sell", h.submit(sideSell))
}

func (h *TradeHandler) page(side string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		amount := int64(view.DefaultTradeMg)
		if v, err := strconv.ParseInt(r.URL.Query().Get("amount"), 10, 64); err == nil && v > 0 {
			amount = v
		}
		h.show(w, r, http.StatusOK, side, amount, view.Flash{})
	}
}

func (h *TradeHandler) submit(side string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := dto.TradeRequest{AmountMg: formInt(r, "amountMg")}
		if err := h.validate.Struct(req); err != nil {
			h.show(w, r, http.StatusUnprocessableEntity, side, view.DefaultTradeMg, view.Flash{Error: validationMessage(err)})
			return
		}

		store := h.store(w, r)
		exec := h.gw.Buy
		if side == sideSell {
			exec = h.gw.Sell
		}
		res, err := exec(r.Context(), store, req.AmountMg)
		if err != nil {
			h.show(w, r, http.StatusOK, side, req.AmountMg, view.Flash{Error: backend.Message(err)})
			return
		}
		h.show(w, r, http.StatusOK, side, req.AmountMg, view.Flash{Success: tradeSuccess(side, req.AmountMg, res)})
	}
}

func tradeSuccess(side string, amountMg int64, res models.TradeResult) string {
	if side == sideSell {
		return fmt.Sprintf("Successfully sold %sg of gold!", view.Grams(amountMg))
	}
	msg := fmt.Sprintf("Successfully bought %sg of gold!", view.Grams(amountMg))
	if res.BonusMg != nil && *res.BonusMg > 0 {
		msg += fmt.Sprintf(" + %dmg bonus credited!", *res.BonusMg)
	}
	return msg
}

func (h *TradeHandler) show(w http.ResponseWriter, r *http.Request, status int, side string, amountMg int64, flash view.Flash) {
	quote, err := h.gw.TradeQuote(r.Context(), h.store(w, r))
	if err != nil && flash.Error == "" {
		flash.Error = backend.Message(err)
	}

	data := view.TradeData{Side: side, Presets: view.TradePresets, AmountMg: amountMg, Quote: quote}
	gst := quote.GSTPercent
	if side == sideSell {
		gst = 0
	} else {
		data.BonusMg = view.BonusPreview(quote, amountMg)
	}
	data.Subtotal, data.GST, data.Total = view.TradeEstimate(amountMg, quote.PricePerGramPaise, gst)

	title := "Buy gold"
	if side == sideSell {
		title = "Sell gold"
	}
	h.render(w, r, status, "trade", view.Page{Title: title, Flash: flash, Data: data})
}
