package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/hongminglow/sg-web/internal/models"
	"github.com/hongminglow/sg-web/internal/session"
)

// Default transaction page parameters.
const (
	DefaultPage  = 1
	DefaultLimit = 20
)

// Wallet reads the wallet balance. A missing session is reported by the backend.
func (c *Client) Wallet(ctx context.Context, store session.Store) (models.Wallet, error) {
	var out models.Wallet
	err := c.do(ctx, store, call{
		endpoint: "wallet.get",
		method:   http.MethodGet,
		path:     "/api/v1/wallet",
	}, &out)
	if err != nil {
		return models.Wallet{}, err
	}
	return out, nil
}

// Transactions reads one page of wallet history. Non-positive arguments fall back to the
// defaults.
func (c *Client) Transactions(ctx context.Context, store session.Store, page, limit int) (models.TransactionPage, error) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	var out models.TransactionPage
	err := c.do(ctx, store, call{
		endpoint: "wallet.transactions",
		method:   http.MethodGet,
		path:     "/api/v1/wallet/transactions",
		query:    url.Values{"page": {strconv.Itoa(page)}, "limit": {strconv.Itoa(limit)}},
	}, &out)
	if err != nil {
		return models.TransactionPage{}, err
	}
	return out, nil
}

// StorageBenefit reads the monthly storage reward status.
func (c *Client) StorageBenefit(ctx context.Context, store session.Store) (models.StorageBenefitStatus, error) {
	var out models.StorageBenefitStatus
	err := c.do(ctx, store, call{
		endpoint: "wallet.storage_benefit",
		method:   http.MethodGet,
		path:     "/api/v1/wallet/storage-benefit",
	}, &out)
	if err != nil {
		return models.StorageBenefitStatus{}, err
	}
	return out, nil
}

// ClaimStorageBenefit claims this month's storage reward.
func (c *Client) ClaimStorageBenefit(ctx context.Context, store session.Store) (models.StorageBenefitClaim, error) {
	var out models.StorageBenefitClaim
	err := c.do(ctx, store, call{
		endpoint: "wallet.storage_benefit_claim",
		method:   http.MethodPost,
		path:     "/api/v1/wallet/storage-benefit/claim",
	}, &out)
	if err != nil {
		return models.StorageBenefitClaim{}, err
	}
	return out, nil
}
