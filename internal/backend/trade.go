package backend

import (
	"context"
	"net/http"

	"github.com/hongminglow/sg-web/internal/models"
	"github.com/hongminglow/sg-web/internal/models/dto"
	"github.com/hongminglow/sg-web/internal/session"
)

// Display constants for the first-gram purchase bonus. The backend applies the bonus.
const (
	BonusThresholdMg = 1000
	BonusMaxMg       = 100
	BonusPercent     = 10
)

// DefaultGSTPercent is shown when the live price is unavailable.
const DefaultGSTPercent = 3

// Buy purchases amountMg of gold.
func (c *Client) Buy(ctx context.Context, store session.Store, amountMg int64) (models.TradeResult, error) {
	return c.trade(ctx, store, "trade.buy", "/api/v1/trade/buy", amountMg)
}

// Sell sells amountMg of gold.
func (c *Client) Sell(ctx context.Context, store session.Store, amountMg int64) (models.TradeResult, error) {
	return c.trade(ctx, store, "trade.sell", "/api/v1/trade/sell", amountMg)
}

func (c *Client) trade(ctx context.Context, store session.Store, endpoint, path string, amountMg int64) (models.TradeResult, error) {
	var out models.TradeResult
	err := c.do(ctx, store, call{
		endpoint:    endpoint,
		method:      http.MethodPost,
		path:        path,
		body:        dto.TradeRequest{AmountMg: amountMg},
		requireAuth: true,
	}, &out)
	if err != nil {
		return models.TradeResult{}, err
	}
	return out, nil
}

// Price reads the live trade price. No session is needed.
func (c *Client) Price(ctx context.Context) (models.TradePrice, error) {
	var out models.TradePrice
	err := c.do(ctx, nil, call{
		endpoint: "trade.price",
		method:   http.MethodGet,
		path:     "/api/v1/trade/price",
	}, &out)
	if err != nil {
		return models.TradePrice{}, err
	}
	return out, nil
}

// TradeQuote combines the live price with the caller's wallet. A backend refusal of the
// price falls back to a zero price; a network failure returns the fallback quote together
// with the error. Wallet failures are ignored and leave the wallet fields at zero.
func (c *Client) TradeQuote(ctx context.Context, store session.Store) (models.TradeQuote, error) {
	quote := models.TradeQuote{
		TradePrice:       models.TradePrice{GSTPercent: DefaultGSTPercent},
		BonusThresholdMg: BonusThresholdMg,
		BonusMaxMg:       BonusMaxMg,
		BonusPercent:     BonusPercent,
	}

	price, err := c.Price(ctx)
	switch {
	case err == nil:
		quote.TradePrice = price
	case KindOf(err) != KindBackend:
		return quote, err
	}

	if hasToken(store) {
		if w, err := c.Wallet(ctx, store); err == nil {
			quote.BalanceMg = w.BalanceMg
			quote.TotalPurchasedMg = w.TotalPurchasedMg
			quote.TotalBonusMg = w.TotalBonusMg
		}
	}
	return quote, nil
}
