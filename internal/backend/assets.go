package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/hongminglow/sg-web/internal/models"
	"github.com/hongminglow/sg-web/internal/session"
)

// Overview fetches the gold and silver spot quotes.
func (c *Client) Overview(ctx context.Context, store session.Store, currency models.Currency) (models.Overview, error) {
	var out models.Overview
	err := c.do(ctx, store, call{
		endpoint: "assets.overview",
		method:   http.MethodGet,
		path:     "/api/v1/assets/overview",
		query:    url.Values{"currency": {string(currency)}},
	}, &out)
	if err != nil {
		return models.Overview{}, err
	}
	return out, nil
}

// Historical fetches a price series for one metal.
func (c *Client) Historical(ctx context.Context, store session.Store, metal models.Metal, currency models.Currency, rng models.Range) (models.Historical, error) {
	var out models.Historical
	err := c.do(ctx, store, call{
		endpoint: "assets.historical",
		method:   http.MethodGet,
		path:     "/api/v1/assets/" + url.PathEscape(string(metal)) + "/historical",
		query:    url.Values{"currency": {string(currency)}, "range": {string(rng)}},
	}, &out)
	if err != nil {
		return models.Historical{}, err
	}
	return out, nil
}

// GoldRates fetches the gold rate table.
func (c *Client) GoldRates(ctx context.Context, store session.Store, currency models.Currency) (models.RateTable, error) {
	return c.rates(ctx, store, models.Gold, currency)
}

// SilverRates fetches the silver rate table.
func (c *Client) SilverRates(ctx context.Context, store session.Store, currency models.Currency) (models.RateTable, error) {
	return c.rates(ctx, store, models.Silver, currency)
}

func (c *Client) rates(ctx context.Context, store session.Store, metal models.Metal, currency models.Currency) (models.RateTable, error) {
	var out models.RateTable
	err := c.do(ctx, store, call{
		endpoint: "assets." + string(metal) + "_rates",
		method:   http.MethodGet,
		path:     "/api/v1/assets/" + string(metal) + "/rates",
		query:    url.Values{"currency": {string(currency)}},
	}, &out)
	if err != nil {
		return models.RateTable{}, err
	}
	return out, nil
}
