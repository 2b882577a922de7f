// Package sandbox is an in-memory stand-in for the digital-gold backend API. It serves
// the same /api/v1 routes for local development and end-to-end tests.
package sandbox

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/hongminglow/sg-web/internal/http/respond"
	"github.com/hongminglow/sg-web/internal/models"
	"github.com/hongminglow/sg-web/internal/models/dto"
	"github.com/hongminglow/sg-web/internal/session"
)

const defaultSecret = "sandbox-dev-secret"

// Options configures the sandbox API.
type Options struct {
	JWTSecret string
	TokenTTL  time.Duration
	// APIKey, when set, must accompany every request in the x-api-key header.
	APIKey string
	Logger logrus.FieldLogger
	Now    func() time.Time
}

// API serves the sandbox backend.
type API struct {
	store  *Store
	market Market
	tokens *TokenManager
	apiKey string
	log    logrus.FieldLogger
}

// New builds the sandbox API with an empty store.
func New(opts Options) *API {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	ttl := opts.TokenTTL
	if ttl <= 0 {
		ttl = session.MaxAge
	}
	secret := opts.JWTSecret
	if secret == "" {
		secret = defaultSecret
	}
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &API{
		store:  NewStore(now),
		market: Market{now: now},
		tokens: NewTokenManager(secret, ttl, now),
		apiKey: opts.APIKey,
		log:    log,
	}
}

// Store exposes the backing store for seeding.
func (a *API) Store() *Store {
	return a.store
}

// Handler returns the API router.
func (a *API) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(a.requireAPIKey)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/assets/overview", a.overview)
		r.Get("/assets/{metal}/historical", a.historical)
		r.Get("/assets/{metal}/rates", a.rates)
		r.Get("/trade/price", a.tradePrice)
		r.Get("/delivery/stores", a.stores)

		r.Post("/auth/register", a.register)
		r.Post("/auth/login", a.login)
		r.Post("/auth/logout", a.logout)

		r.Group(func(r chi.Router) {
			r.Use(a.authenticate)
			r.Get("/auth/me", a.me)
			r.Patch("/auth/profile", a.updateProfile)
			r.Post("/auth/password", a.changePassword)
			r.Post("/auth/jeweller-request", a.jewellerRequest)

			r.Get("/wallet", a.wallet)
			r.Get("/wallet/transactions", a.transactions)
			r.Get("/wallet/storage-benefit", a.storageBenefit)
			r.Post("/wallet/storage-benefit/claim", a.claimStorageBenefit)

			r.Post("/trade/buy", a.buy)
			r.Post("/trade/sell", a.sell)
			r.Post("/trade/sgx/verify", a.verifySGX)

			r.Get("/scheme", a.schemes)
			r.Post("/scheme/enroll", a.enroll)
			r.Get("/scheme/{id}", a.scheme)
			r.Post("/scheme/{id}/pay", a.pay)
			r.Post("/scheme/{id}/redeem", a.redeem)

			r.Get("/delivery", a.deliveries)
			r.Post("/delivery", a.createDelivery)
		})
	})
	return r
}

func (a *API) requireAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.apiKey != "" && r.Header.Get(session.APIKeyHeader) != a.apiKey {
			respond.Error(w, http.StatusUnauthorized, "Invalid API key")
			return
		}
		next.ServeHTTP(w, r)
	})
}

type accountKey struct{}

func (a *API) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(session.CookieName)
		if err != nil || c.Value == "" {
			respond.Error(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
		id, err := a.tokens.Parse(c.Value)
		if err != nil {
			respond.Error(w, http.StatusUnauthorized, "Session expired. Please log in again.")
			return
		}
		if _, err := a.store.User(id); err != nil {
			respond.Error(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), accountKey{}, id)))
	})
}

func accountID(r *http.Request) string {
	id, _ := r.Context().Value(accountKey{}).(string)
	return id
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// fail maps store errors onto HTTP replies with a message body.
func (a *API) fail(w http.ResponseWriter, err error) {
	var rule RuleError
	switch {
	case errors.As(err, &rule):
		respond.Error(w, http.StatusBadRequest, rule.Error())
	case errors.Is(err, ErrNotFound):
		respond.Error(w, http.StatusNotFound, "Not found")
	case errors.Is(err, ErrAlreadyExists):
		respond.Error(w, http.StatusConflict, "An account with this phone already exists")
	case errors.Is(err, ErrInvalidCredentials):
		respond.Error(w, http.StatusUnauthorized, "Invalid phone or password")
	default:
		a.log.WithError(err).Error("sandbox request failed")
		respond.Error(w, http.StatusInternalServerError, "Internal server error")
	}
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid JSON payload")
		return false
	}
	return true
}

func (a *API) overview(w http.ResponseWriter, r *http.Request) {
	cur, ok := currencyParam(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, a.market.Overview(cur))
}

func (a *API) historical(w http.ResponseWriter, r *http.Request) {
	metal, ok := metalParam(w, r)
	if !ok {
		return
	}
	cur, ok := currencyParam(w, r)
	if !ok {
		return
	}
	rng := models.Range(strings.ToUpper(r.URL.Query().Get("range")))
	if rng == "" {
		rng = models.Range1M
	}
	if _, known := rangeSteps[rng]; !known {
		respond.Error(w, http.StatusBadRequest, "Unsupported range")
		return
	}
	writeJSON(w, http.StatusOK, a.market.Historical(metal, cur, rng))
}

func (a *API) rates(w http.ResponseWriter, r *http.Request) {
	metal, ok := metalParam(w, r)
	if !ok {
		return
	}
	cur, ok := currencyParam(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, a.market.Rates(metal, cur))
}

func metalParam(w http.ResponseWriter, r *http.Request) (models.Metal, bool) {
	metal := models.Metal(strings.ToLower(chi.URLParam(r, "metal")))
	if metal != models.Gold && metal != models.Silver {
		respond.Error(w, http.StatusNotFound, "Unknown asset")
		return "", false
	}
	return metal, true
}

func currencyParam(w http.ResponseWriter, r *http.Request) (models.Currency, bool) {
	cur := models.Currency(strings.ToUpper(r.URL.Query().Get("currency")))
	if cur == "" {
		return models.USD, true
	}
	if _, ok := usdRates[cur]; !ok {
		respond.Error(w, http.StatusBadRequest, "Unsupported currency")
		return "", false
	}
	return cur, true
}

func (a *API) tradePrice(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.market.TradePrice())
}

func (a *API) stores(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"stores": a.store.Stores()})
}

func (a *API) register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Phone) == "" || strings.TrimSpace(req.Name) == "" {
		respond.Error(w, http.StatusBadRequest, "Phone and name are required")
		return
	}
	if len(req.Password) < 6 {
		respond.Error(w, http.StatusBadRequest, "Password must be at least 6 characters")
		return
	}
	user, err := a.store.CreateAccount(req.Phone, req.Password, req.Name, req.Email)
	if err != nil {
		a.fail(w, err)
		return
	}
	a.issue(w, http.StatusCreated, user)
}

func (a *API) login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if !decode(w, r, &req) {
		return
	}
	user, err := a.store.Authenticate(req.Phone, req.Password)
	if err != nil {
		a.fail(w, err)
		return
	}
	a.issue(w, http.StatusOK, user)
}

func (a *API) issue(w http.ResponseWriter, status int, user models.User) {
	token, err := a.tokens.Generate(user.ID)
	if err != nil {
		a.fail(w, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(a.tokens.ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, status, dto.AuthResponse{User: user})
}

func (a *API) logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{Name: session.CookieName, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

func (a *API) me(w http.ResponseWriter, r *http.Request) {
	user, err := a.store.User(accountID(r))
	if err != nil {
		a.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.AuthResponse{User: user})
}

func (a *API) updateProfile(w http.ResponseWriter, r *http.Request) {
	var req dto.ProfileUpdate
	if !decode(w, r, &req) {
		return
	}
	user, err := a.store.UpdateProfile(accountID(r), req.Name, req.Email)
	if err != nil {
		a.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.AuthResponse{User: user})
}

func (a *API) changePassword(w http.ResponseWriter, r *http.Request) {
	var req dto.PasswordChange
	if !decode(w, r, &req) {
		return
	}
	if err := a.store.ChangePassword(accountID(r), req.CurrentPassword, req.NewPassword); err != nil {
		a.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Password updated"})
}

func (a *API) jewellerRequest(w http.ResponseWriter, r *http.Request) {
	user, err := a.store.RequestJeweller(accountID(r))
	if err != nil {
		a.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.AuthResponse{User: user})
}

func (a *API) wallet(w http.ResponseWriter, r *http.Request) {
	wallet, err := a.store.Wallet(accountID(r))
	if err != nil {
		a.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, wallet)
}

func (a *API) transactions(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	out, err := a.store.Transactions(accountID(r), page, limit)
	if err != nil {
		a.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *API) storageBenefit(w http.ResponseWriter, r *http.Request) {
	out, err := a.store.StorageBenefit(accountID(r))
	if err != nil {
		a.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *API) claimStorageBenefit(w http.ResponseWriter, r *http.Request) {
	out, err := a.store.ClaimStorageBenefit(accountID(r))
	if err != nil {
		a.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *API) buy(w http.ResponseWriter, r *http.Request) {
	var req dto.TradeRequest
	if !decode(w, r, &req) {
		return
	}
	tx, bonus, wallet, err := a.store.Buy(accountID(r), req.AmountMg, a.market.TradePrice().PricePerGramPaise)
	if err != nil {
		a.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"transaction": tx, "bonusMg": bonus, "newBalance": wallet.BalanceMg})
}

func (a *API) sell(w http.ResponseWriter, r *http.Request) {
	var req dto.TradeRequest
	if !decode(w, r, &req) {
		return
	}
	tx, wallet, err := a.store.Sell(accountID(r), req.AmountMg, a.market.TradePrice().PricePerGramPaise)
	if err != nil {
		a.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"transaction": tx, "newBalance": wallet.BalanceMg})
}

func (a *API) verifySGX(w http.ResponseWriter, r *http.Request) {
	var req dto.SGXVerifyRequest
	if !decode(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, VerifySGX(req.Code, req.MonthlyAmountPaise))
}

func (a *API) schemes(w http.ResponseWriter, r *http.Request) {
	out, err := a.store.Schemes(accountID(r))
	if err != nil {
		a.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"schemes": out})
}

func (a *API) enroll(w http.ResponseWriter, r *http.Request) {
	var req dto.EnrollRequest
	if !decode(w, r, &req) {
		return
	}
	sc, err := a.store.Enroll(accountID(r), req.SlabAmountPaise, req.SGXCode)
	if err != nil {
		a.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"scheme": sc})
}

func (a *API) scheme(w http.ResponseWriter, r *http.Request) {
	sc, err := a.store.Scheme(accountID(r), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"scheme": sc})
}

func (a *API) pay(w http.ResponseWriter, r *http.Request) {
	sc, err := a.store.PayInstallment(accountID(r), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"scheme": sc})
}

func (a *API) redeem(w http.ResponseWriter, r *http.Request) {
	out, err := a.store.Redeem(accountID(r), chi.URLParam(r, "id"), a.market.TradePrice().PricePerGramPaise)
	if err != nil {
		a.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *API) deliveries(w http.ResponseWriter, r *http.Request) {
	out, err := a.store.Deliveries(accountID(r))
	if err != nil {
		a.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deliveries": out})
}

func (a *API) createDelivery(w http.ResponseWriter, r *http.Request) {
	var req dto.DeliveryRequest
	if !decode(w, r, &req) {
		return
	}
	d, err := a.store.CreateDelivery(accountID(r), models.Delivery{
		AmountMg:        req.AmountMg,
		ProductType:     req.ProductType,
		ProductWeightMg: req.ProductWeightMg,
		PickupStoreID:   req.PickupStoreID,
	})
	if err != nil {
		a.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"delivery": d})
}
