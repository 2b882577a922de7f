package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hongminglow/sg-web/internal/backend"
	"github.com/hongminglow/sg-web/internal/models"
	"github.com/hongminglow/sg-web/internal/models/dto"
	"github.com/hongminglow/sg-web/internal/view"
)

// SchemeHandler serves the savings scheme pages.
type SchemeHandler struct {
	base
}

// NewSchemeHandler constructs the handler.
func NewSchemeHandler(d Deps) *SchemeHandler {
	return &SchemeHandler{base: newBase(d)}
}

// Register attaches scheme routes. They run behind RequireUser.
func (h *SchemeHandler) Register(r chi.Router) {
	r.Route("/scheme", func(r chi.Router) {
		r.Get("/", h.list)
		r.Get("/enroll", h.enrollPage)
		r.Post("/enroll", h.enroll)
		r.Post("/verify", h.verify)
		r.Get("/{id}", h.detail)
		r.Post("/{id}/pay", h.pay)
		r.Post("/{id}/redeem", h.redeem)
	})
}

func (h *SchemeHandler) list(w http.ResponseWriter, r *http.Request) {
	schemes, err := h.gw.Schemes(r.Context(), h.store(w, r))
	page := view.Page{Title: "Savings scheme", Data: view.SchemeListData{Schemes: schemes}}
	if err != nil {
		page.Flash.Error = backend.Message(err)
	}
	h.render(w, r, http.StatusOK, "scheme_list", page)
}

func (h *SchemeHandler) enrollPage(w http.ResponseWriter, r *http.Request) {
	h.showEnroll(w, r, http.StatusOK, view.SchemeEnrollData{Selected: view.Slabs[0].MonthlyPaise}, view.Flash{})
}

func (h *SchemeHandler) showEnroll(w http.ResponseWriter, r *http.Request, status int, data view.SchemeEnrollData, flash view.Flash) {
	data.Slabs = view.Slabs
	h.render(w, r, status, "scheme_enroll", view.Page{Title: "Enroll", Flash: flash, Data: data})
}

func (h *SchemeHandler) enroll(w http.ResponseWriter, r *http.Request) {
	req := dto.EnrollRequest{
		SlabAmountPaise: formInt(r, "slabAmountPaise"),
		SGXCode:         formValue(r, "sgxCode"),
	}
	data := view.SchemeEnrollData{Selected: req.SlabAmountPaise, SGXCode: req.SGXCode}
	if err := h.validate.Struct(req); err != nil {
		h.showEnroll(w, r, http.StatusUnprocessableEntity, data, view.Flash{Error: validationMessage(err)})
		return
	}
	scheme, err := h.gw.Enroll(r.Context(), h.store(w, r), req.SlabAmountPaise, req.SGXCode)
	if err != nil {
		h.showEnroll(w, r, http.StatusOK, data, view.Flash{Error: backend.Message(err)})
		return
	}
	seeOther(w, r, "/scheme/"+scheme.ID)
}

func (h *SchemeHandler) verify(w http.ResponseWriter, r *http.Request) {
	req := dto.SGXVerifyRequest{
		Code:               formValue(r, "sgxCode"),
		MonthlyAmountPaise: formInt(r, "slabAmountPaise"),
	}
	data := view.SchemeEnrollData{Selected: req.MonthlyAmountPaise, SGXCode: req.Code}
	if err := h.validate.Struct(req); err != nil {
		h.showEnroll(w, r, http.StatusUnprocessableEntity, data, view.Flash{Error: validationMessage(err)})
		return
	}
	res, err := h.gw.VerifySGX(r.Context(), h.store(w, r), req.Code, req.MonthlyAmountPaise)
	if err != nil {
		h.showEnroll(w, r, http.StatusOK, data, view.Flash{Error: backend.Message(err)})
		return
	}
	data.Verification = &res
	h.showEnroll(w, r, http.StatusOK, data, view.Flash{})
}

func (h *SchemeHandler) detail(w http.ResponseWriter, r *http.Request) {
	scheme, err := h.gw.Scheme(r.Context(), h.store(w, r), chi.URLParam(r, "id"))
	if err != nil {
		h.notFound(w, r, err)
		return
	}
	h.showDetail(w, r, scheme, nil, view.Flash{})
}

func (h *SchemeHandler) pay(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	store := h.store(w, r)
	id := chi.URLParam(r, "id")

	scheme, err := h.gw.Pay(ctx, store, id)
	if err != nil {
		current, lerr := h.gw.Scheme(ctx, store, id)
		if lerr != nil {
			h.notFound(w, r, lerr)
			return
		}
		h.showDetail(w, r, current, nil, view.Flash{Error: backend.Message(err)})
		return
	}
	h.showDetail(w, r, scheme, nil, view.Flash{Success: "Installment paid!"})
}

func (h *SchemeHandler) redeem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	store := h.store(w, r)
	id := chi.URLParam(r, "id")

	res, err := h.gw.Redeem(ctx, store, id)
	flash := view.Flash{}
	var redemption *models.Redemption
	if err != nil {
		flash.Error = backend.Message(err)
	} else {
		redemption = &res
		flash.Success = fmt.Sprintf("Redeemed! %sg gold credited to wallet.", view.Grams(res.GoldCreditedMg))
	}

	scheme, lerr := h.gw.Scheme(ctx, store, id)
	if lerr != nil {
		h.notFound(w, r, lerr)
		return
	}
	h.showDetail(w, r, scheme, redemption, flash)
}

func (h *SchemeHandler) showDetail(w http.ResponseWriter, r *http.Request, s models.Scheme, redemption *models.Redemption, flash view.Flash) {
	var paid int64
	for _, inst := range s.Installments {
		if inst.Settled() {
			paid += inst.AmountPaise
		}
	}
	data := view.SchemeDetailData{
		Scheme:         s,
		PaidCount:      s.PaidCount(),
		TotalPaidPaise: paid,
		CanRedeem:      redemption == nil && len(s.Installments) > 0 && s.AllPaid() && s.Status != models.SchemeWithdrawn,
		Redemption:     redemption,
	}
	h.render(w, r, http.StatusOK, "scheme_detail", view.Page{Title: "Scheme", Flash: flash, Data: data})
}

func (h *SchemeHandler) notFound(w http.ResponseWriter, r *http.Request, err error) {
	h.render(w, r, http.StatusNotFound, "scheme_list", view.Page{
		Title: "Savings scheme",
		Flash: view.Flash{Error: backend.Message(err)},
		Data:  view.SchemeListData{},
	})
}
