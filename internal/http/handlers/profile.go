package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hongminglow/sg-web/internal/backend"
	"github.com/hongminglow/sg-web/internal/models/dto"
	"github.com/hongminglow/sg-web/internal/view"
)

// ProfileHandler serves the account settings page.
type ProfileHandler struct {
	base
}

// NewProfileHandler constructs the handler.
func NewProfileHandler(d Deps) *ProfileHandler {
	return &ProfileHandler{base: newBase(d)}
}

// Register attaches profile routes. They run behind RequireUser.
func (h *ProfileHandler) Register(r chi.Router) {
	r.Get("/profile", h.page)
	r.Post("/profile", h.update)
	r.Post("/profile/password", h.password)
	r.Post("/profile/jeweller", h.jeweller)
}

func (h *ProfileHandler) page(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "profile", view.Page{Title: "Profile"})
}

func (h *ProfileHandler) update(w http.ResponseWriter, r *http.Request) {
	req := dto.ProfileUpdate{Name: formValue(r, "name"), Email: formValue(r, "email")}
	if err := h.validate.Struct(req); err != nil {
		h.render(w, r, http.StatusUnprocessableEntity, "profile", view.Page{Title: "Profile", Flash: view.Flash{Error: validationMessage(err)}})
		return
	}
	user, err := h.gw.UpdateProfile(r.Context(), h.store(w, r), req)
	if err != nil {
		h.render(w, r, http.StatusOK, "profile", view.Page{Title: "Profile", Flash: view.Flash{Error: backend.Message(err)}})
		return
	}
	h.render(w, r, http.StatusOK, "profile", view.Page{Title: "Profile", User: &user, Flash: view.Flash{Success: "Profile updated"}})
}

func (h *ProfileHandler) password(w http.ResponseWriter, r *http.Request) {
	req := dto.PasswordChange{
		CurrentPassword: r.PostFormValue("currentPassword"),
		NewPassword:     r.PostFormValue("newPassword"),
	}
	fail := func(status int, msg string) {
		h.render(w, r, status, "profile", view.Page{Title: "Profile", Flash: view.Flash{Error: msg}})
	}
	if req.NewPassword != r.PostFormValue("confirmPassword") {
		fail(http.StatusUnprocessableEntity, "New passwords do not match")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		fail(http.StatusUnprocessableEntity, validationMessage(err))
		return
	}
	if err := h.gw.ChangePassword(r.Context(), h.store(w, r), req); err != nil {
		fail(http.StatusOK, backend.Message(err))
		return
	}
	h.render(w, r, http.StatusOK, "profile", view.Page{Title: "Profile", Flash: view.Flash{Success: "Password updated"}})
}

func (h *ProfileHandler) jeweller(w http.ResponseWriter, r *http.Request) {
	user, err := h.gw.RequestJeweller(r.Context(), h.store(w, r))
	if err != nil {
		h.render(w, r, http.StatusOK, "profile", view.Page{Title: "Profile", Flash: view.Flash{Error: backend.Message(err)}})
		return
	}
	h.render(w, r, http.StatusOK, "profile", view.Page{Title: "Profile", User: &user, Flash: view.Flash{Success: "Jeweller request submitted"}})
}
