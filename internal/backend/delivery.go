package backend

import (
	"context"
	"net/http"

	"github.com/hongminglow/sg-web/internal/models"
	"github.com/hongminglow/sg-web/internal/models/dto"
	"github.com/hongminglow/sg-web/internal/session"
)

// Stores lists pickup stores. Any failure yields an empty list.
func (c *Client) Stores(ctx context.Context) []models.Store {
	var out struct {
		Stores []models.Store `json:"stores"`
	}
	err := c.do(ctx, nil, call{
		endpoint: "delivery.stores",
		method:   http.MethodGet,
		path:     "/api/v1/delivery/stores",
	}, &out)
	if err != nil || out.Stores == nil {
		return []models.Store{}
	}
	return out.Stores
}

// Deliveries lists the caller's delivery requests.
func (c *Client) Deliveries(ctx context.Context, store session.Store) ([]models.Delivery, error) {
	var out struct {
		Deliveries []models.Delivery `json:"deliveries"`
	}
	err := c.do(ctx, store, call{
		endpoint:    "delivery.list",
		method:      http.MethodGet,
		path:        "/api/v1/delivery",
		requireAuth: true,
	}, &out)
	if err != nil {
		return nil, err
	}
	return out.Deliveries, nil
}

// CreateDelivery requests physical delivery of gold from the wallet.
func (c *Client) CreateDelivery(ctx context.Context, store session.Store, in dto.DeliveryRequest) (models.Delivery, error) {
	var out struct {
		Delivery models.Delivery `json:"delivery"`
	}
	err := c.do(ctx, store, call{
		endpoint:    "delivery.create",
		method:      http.MethodPost,
		path:        "/api/v1/delivery",
		body:        in,
		requireAuth: true,
	}, &out)
	if err != nil {
		return models.Delivery{}, err
	}
	return out.Delivery, nil
}
