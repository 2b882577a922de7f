package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/hongminglow/sg-web/internal/backend"
	"github.com/hongminglow/sg-web/internal/models"
	"github.com/hongminglow/sg-web/internal/models/dto"
	"github.com/hongminglow/sg-web/internal/view"
)

const msgDeliveryCreated = "Delivery request created! Gold has been deducted from your wallet."

// DeliveryHandler serves the physical delivery page.
type DeliveryHandler struct {
	base
}

// NewDeliveryHandler constructs the handler.
func NewDeliveryHandler(d Deps) *DeliveryHandler {
	return &DeliveryHandler{base: newBase(d)}
}

// Register attaches delivery routes. They run behind RequireUser.
func (h *DeliveryHandler) Register(r chi.Router) {
	r.Get("/delivery", h.page)
	r.Post("/delivery", h.create)
}

func (h *DeliveryHandler) page(w http.ResponseWriter, r *http.Request) {
	productType := productTypeOf(r.URL.Query().Get("type"))
	h.show(w, r, http.StatusOK, view.DeliveryData{ProductType: productType}, view.Flash{})
}

func (h *DeliveryHandler) create(w http.ResponseWriter, r *http.Request) {
	weight := formInt(r, "productWeightMg")
	req := dto.DeliveryRequest{
		AmountMg:        weight,
		ProductType:     formValue(r, "productType"),
		ProductWeightMg: weight,
		PickupStoreID:   formValue(r, "pickupStoreId"),
	}
	form := view.DeliveryData{ProductType: productTypeOf(req.ProductType), WeightMg: weight, StoreID: req.PickupStoreID}
	if err := h.validate.Struct(req); err != nil {
		h.show(w, r, http.StatusUnprocessableEntity, form, view.Flash{Error: validationMessage(err)})
		return
	}
	if _, err := h.gw.CreateDelivery(r.Context(), h.store(w, r), req); err != nil {
		h.show(w, r, http.StatusOK, form, view.Flash{Error: backend.Message(err)})
		return
	}
	h.show(w, r, http.StatusOK, view.DeliveryData{ProductType: form.ProductType}, view.Flash{Success: msgDeliveryCreated})
}

func (h *DeliveryHandler) show(w http.ResponseWriter, r *http.Request, status int, data view.DeliveryData, flash view.Flash) {
	ctx := r.Context()
	store := h.store(w, r)

	var g errgroup.Group
	g.Go(func() error {
		data.Stores = h.gw.Stores(ctx)
		return nil
	})
	g.Go(func() (err error) {
		data.Deliveries, err = h.gw.Deliveries(ctx, store)
		return err
	})
	if err := g.Wait(); err != nil && flash.Error == "" {
		flash.Error = backend.Message(err)
	}

	data.Weights = view.WeightsFor(data.ProductType)
	if data.WeightMg == 0 {
		data.WeightMg = data.Weights[0]
	}
	h.render(w, r, status, "delivery", view.Page{Title: "Delivery", Flash: flash, Data: data})
}

func productTypeOf(s string) string {
	if s == models.ProductBar {
		return models.ProductBar
	}
	return models.ProductCoin
}
