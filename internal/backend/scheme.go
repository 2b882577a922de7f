package backend

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/hongminglow/sg-web/internal/models"
	"github.com/hongminglow/sg-web/internal/models/dto"
	"github.com/hongminglow/sg-web/internal/session"
)

type schemeEnvelope struct {
	Scheme models.Scheme `json:"scheme"`
}

// Schemes lists the caller's scheme enrollments.
func (c *Client) Schemes(ctx context.Context, store session.Store) ([]models.Scheme, error) {
	var out struct {
		Schemes []models.Scheme `json:"schemes"`
	}
	err := c.do(ctx, store, call{
		endpoint:    "scheme.list",
		method:      http.MethodGet,
		path:        "/api/v1/scheme",
		requireAuth: true,
	}, &out)
	if err != nil {
		return nil, err
	}
	return out.Schemes, nil
}

// Scheme fetches one enrollment.
func (c *Client) Scheme(ctx context.Context, store session.Store, id string) (models.Scheme, error) {
	return c.schemeCall(ctx, store, "scheme.get", http.MethodGet, schemePath(id), nil)
}

// Enroll starts a scheme at the given monthly slab. An empty sgxCode is not sent.
func (c *Client) Enroll(ctx context.Context, store session.Store, slabAmountPaise int64, sgxCode string) (models.Scheme, error) {
	body := dto.EnrollRequest{SlabAmountPaise: slabAmountPaise, SGXCode: strings.TrimSpace(sgxCode)}
	return c.schemeCall(ctx, store, "scheme.enroll", http.MethodPost, "/api/v1/scheme/enroll", body)
}

// Pay pays the next installment.
func (c *Client) Pay(ctx context.Context, store session.Store, id string) (models.Scheme, error) {
	return c.schemeCall(ctx, store, "scheme.pay", http.MethodPost, schemePath(id)+"/pay", nil)
}

// Redeem settles a completed scheme into the wallet.
func (c *Client) Redeem(ctx context.Context, store session.Store, id string) (models.Redemption, error) {
	var out models.Redemption
	err := c.do(ctx, store, call{
		endpoint:    "scheme.redeem",
		method:      http.MethodPost,
		path:        schemePath(id) + "/redeem",
		requireAuth: true,
	}, &out)
	if err != nil {
		return models.Redemption{}, err
	}
	return out, nil
}

// VerifySGX checks a referral code against a monthly amount.
func (c *Client) VerifySGX(ctx context.Context, store session.Store, code string, monthlyAmountPaise int64) (models.SGXVerification, error) {
	var out models.SGXVerification
	err := c.do(ctx, store, call{
		endpoint:    "scheme.sgx_verify",
		method:      http.MethodPost,
		path:        "/api/v1/trade/sgx/verify",
		body:        dto.SGXVerifyRequest{Code: code, MonthlyAmountPaise: monthlyAmountPaise},
		requireAuth: true,
	}, &out)
	if err != nil {
		return models.SGXVerification{}, err
	}
	return out, nil
}

func (c *Client) schemeCall(ctx context.Context, store session.Store, endpoint, method, path string, body any) (models.Scheme, error) {
	var out schemeEnvelope
	err := c.do(ctx, store, call{
		endpoint:    endpoint,
		method:      method,
		path:        path,
		body:        body,
		requireAuth: true,
	}, &out)
	if err != nil {
		return models.Scheme{}, err
	}
	return out.Scheme, nil
}

func schemePath(id string) string {
	return "/api/v1/scheme/" + url.PathEscape(id)
}
