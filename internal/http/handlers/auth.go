package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hongminglow/sg-web/internal/backend"
	"github.com/hongminglow/sg-web/internal/models/dto"
	"github.com/hongminglow/sg-web/internal/view"
)

// AuthHandler owns the login, register and logout pages.
type AuthHandler struct {
	base
	limit []func(http.Handler) http.Handler
}

// NewAuthHandler constructs the handler. limit wraps the credential submissions.
func NewAuthHandler(d Deps, limit ...func(http.Handler) http.Handler) *AuthHandler {
	return &AuthHandler{base: newBase(d), limit: limit}
}

// Register attaches auth routes.
func (h *AuthHandler) Register(r chi.Router) {
	r.Get("/login", h.loginPage)
	r.Get("/register", h.registerPage)
	r.With(h.limit...).Post("/login", h.handleLogin)
	r.With(h.limit...).Post("/register", h.handleRegister)
	r.Post("/logout", h.handleLogout)
}

func (h *AuthHandler) loginPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "login", view.Page{Title: "Log in", Data: view.AuthFormData{}})
}

func (h *AuthHandler) registerPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "register", view.Page{Title: "Register", Data: view.AuthFormData{}})
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	req := dto.LoginRequest{
		Phone:    formValue(r, "phone"),
		Password: r.PostFormValue("password"),
	}
	form := view.AuthFormData{Phone: req.Phone}
	fail := func(status int, msg string) {
		h.render(w, r, status, "login", view.Page{Title: "Log in", Data: form, Flash: view.Flash{Error: msg}})
	}

	if err := h.validate.Struct(req); err != nil {
		fail(http.StatusUnprocessableEntity, validationMessage(err))
		return
	}
	if _, err := h.gw.Login(r.Context(), h.store(w, r), req); err != nil {
		fail(http.StatusOK, backend.Message(err))
		return
	}
	seeOther(w, r, "/dashboard")
}

func (h *AuthHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	req := dto.RegisterRequest{
		Phone:    formValue(r, "phone"),
		Password: r.PostFormValue("password"),
		Name:     formValue(r, "name"),
		Email:    formValue(r, "email"),
	}
	form := view.AuthFormData{Phone: req.Phone, Name: req.Name, Email: req.Email}
	fail := func(status int, msg string) {
		h.render(w, r, status, "register", view.Page{Title: "Register", Data: form, Flash: view.Flash{Error: msg}})
	}

	if req.Password != r.PostFormValue("confirmPassword") {
		fail(http.StatusUnprocessableEntity, "Passwords do not match")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		fail(http.StatusUnprocessableEntity, validationMessage(err))
		return
	}
	if _, err := h.gw.Register(r.Context(), h.store(w, r), req); err != nil {
		fail(http.StatusOK, backend.Message(err))
		return
	}
	seeOther(w, r, "/dashboard")
}

func (h *AuthHandler) handleLogout(w http.ResponseWriter, r *http.Request) {
	h.gw.Logout(r.Context(), h.store(w, r))
	seeOther(w, r, "/login")
}
