// Package handlers renders the server-side pages. Every page talks to the backend
// through a Gateway and relays the visitor's session cookie.
package handlers

import (
	"context"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/hongminglow/sg-web/internal/backend"
	"github.com/hongminglow/sg-web/internal/models"
	"github.com/hongminglow/sg-web/internal/models/dto"
	"github.com/hongminglow/sg-web/internal/session"
	"github.com/hongminglow/sg-web/internal/view"
)

// Gateway is the subset of the backend client the pages use. *backend.Client satisfies it.
type Gateway interface {
	Overview(ctx context.Context, store session.Store, currency models.Currency) (models.Overview, error)
	Historical(ctx context.Context, store session.Store, metal models.Metal, currency models.Currency, rng models.Range) (models.Historical, error)
	GoldRates(ctx context.Context, store session.Store, currency models.Currency) (models.RateTable, error)
	SilverRates(ctx context.Context, store session.Store, currency models.Currency) (models.RateTable, error)

	Register(ctx context.Context, store session.Store, in dto.RegisterRequest) (models.User, error)
	Login(ctx context.Context, store session.Store, in dto.LoginRequest) (models.User, error)
	Logout(ctx context.Context, store session.Store)
	Me(ctx context.Context, store session.Store) *models.User
	Session(ctx context.Context, store session.Store) (models.User, error)
	UpdateProfile(ctx context.Context, store session.Store, in dto.ProfileUpdate) (models.User, error)
	ChangePassword(ctx context.Context, store session.Store, in dto.PasswordChange) error
	RequestJeweller(ctx context.Context, store session.Store) (models.User, error)

	Wallet(ctx context.Context, store session.Store) (models.Wallet, error)
	Transactions(ctx context.Context, store session.Store, page, limit int) (models.TransactionPage, error)
	StorageBenefit(ctx context.Context, store session.Store) (models.StorageBenefitStatus, error)
	ClaimStorageBenefit(ctx context.Context, store session.Store) (models.StorageBenefitClaim, error)

	Schemes(ctx context.Context, store session.Store) ([]models.Scheme, error)
	Scheme(ctx context.Context, store session.Store, id string) (models.Scheme, error)
	Enroll(ctx context.Context, store session.Store, slabAmountPaise int64, sgxCode string) (models.Scheme, error)
	Pay(ctx context.Context, store session.Store, id string) (models.Scheme, error)
	Redeem(ctx context.Context, store session.Store, id string) (models.Redemption, error)
	VerifySGX(ctx context.Context, store session.Store, code string, monthlyAmountPaise int64) (models.SGXVerification, error)

	Buy(ctx context.Context, store session.Store, amountMg int64) (models.TradeResult, error)
	Sell(ctx context.Context, store session.Store, amountMg int64) (models.TradeResult, error)
	Price(ctx context.Context) (models.TradePrice, error)
	TradeQuote(ctx context.Context, store session.Store) (models.TradeQuote, error)

	Stores(ctx context.Context) []models.Store
	Deliveries(ctx context.Context, store session.Store) ([]models.Delivery, error)
	CreateDelivery(ctx context.Context, store session.Store, in dto.DeliveryRequest) (models.Delivery, error)
}

// Deps are shared by every page handler.
type Deps struct {
	Gateway  Gateway
	Renderer *view.Renderer
	Logger   logrus.FieldLogger
	// SecureCookies sets the Secure attribute on the session cookie.
	SecureCookies bool
}

type base struct {
	gw       Gateway
	views    *view.Renderer
	log      logrus.FieldLogger
	secure   bool
	validate *validator.Validate
}

func newBase(d Deps) base {
	log := d.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	return base{
		gw:       d.Gateway,
		views:    d.Renderer,
		log:      log,
		secure:   d.SecureCookies,
		validate: validator.New(),
	}
}

func (b base) store(w http.ResponseWriter, r *http.Request) session.Store {
	return session.NewCookieStore(w, r, b.secure)
}

// render fills the per-request page fields and writes the page. Failures are logged and
// answered with a bare 500 since nothing has been written yet.
func (b base) render(w http.ResponseWriter, r *http.Request, status int, name string, p view.Page) {
	p.Path = r.URL.Path
	if p.User == nil {
		p.User = UserFrom(r.Context())
	}
	if err := b.views.Render(w, status, name, p); err != nil {
		b.log.WithError(err).WithField("page", name).Error("render page failed")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func seeOther(w http.ResponseWriter, r *http.Request, target string) {
	http.Redirect(w, r, target, http.StatusSeeOther)
}

type userKey struct{}

// UserFrom returns the user RequireUser resolved for this request, if any.
func UserFrom(ctx context.Context) *models.User {
	u, _ := ctx.Value(userKey{}).(*models.User)
	return u
}

// WithUser stores u in ctx for UserFrom.
func WithUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, userKey{}, u)
}

// RequireUser resolves the signed-in user for protected pages. A session the backend
// refuses is cleared before redirecting so the login page is reachable again. When the
// backend cannot answer the cookie is kept and the page fails with 503.
func RequireUser(d Deps) func(http.Handler) http.Handler {
	b := newBase(d)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			store := b.store(w, r)
			user, err := b.gw.Session(r.Context(), store)
			switch {
			case err == nil:
				next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), &user)))
			case backend.IsUnauthenticated(err):
				if _, ok := store.Token(); ok {
					store.Clear()
				}
				seeOther(w, r, "/login")
			default:
				b.log.WithError(err).WithField("path", r.URL.Path).Warn("session lookup failed")
				http.Error(w, backend.Message(err), http.StatusServiceUnavailable)
			}
		})
	}
}

// OptionalUser resolves the user on public pages when a session cookie is present.
func OptionalUser(d Deps) func(http.Handler) http.Handler {
	b := newBase(d)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !session.HasToken(r) {
				next.ServeHTTP(w, r)
				return
			}
			if user := b.gw.Me(r.Context(), b.store(w, r)); user != nil {
				r = r.WithContext(WithUser(r.Context(), user))
			}
			next.ServeHTTP(w, r)
		})
	}
}
