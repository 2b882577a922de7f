package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"

	"github.com/hongminglow/sg-web/internal/config"
	"github.com/hongminglow/sg-web/internal/http/handlers"
	"github.com/hongminglow/sg-web/internal/metrics"
	"github.com/hongminglow/sg-web/internal/middleware"
	"github.com/hongminglow/sg-web/internal/view"
)

// Options carries the collaborators New wires into the router.
type Options struct {
	Gateway  handlers.Gateway
	Renderer *view.Renderer
	Logger   logrus.FieldLogger
	// Metrics is nil when metrics are disabled.
	Metrics *metrics.Metrics
}

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// New wires up middleware, routes, and returns a ready server.
func New(cfg config.Config, opts Options) *Server {
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           Router(cfg, opts),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return &Server{inner: httpServer}
}

// Router builds the page router.
func Router(cfg config.Config, opts Options) http.Handler {
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	deps := handlers.Deps{
		Gateway:       opts.Gateway,
		Renderer:      opts.Renderer,
		Logger:        opts.Logger,
		SecureCookies: cfg.Production(),
	}

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLogger(opts.Logger))
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Instrument)
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: credentialsAllowed(cfg.CORSOrigins),
		MaxAge:           300,
	}))
	r.Use(middleware.Guard)

	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}
	handlers.NewHealthHandler(time.Now(), opts.Gateway).Register(r)

	var limit []func(http.Handler) http.Handler
	if cfg.AuthRateLimitPerMinute > 0 {
		limit = append(limit, middleware.NewRateLimiter(cfg.AuthRateLimitPerMinute, opts.Logger).Handler)
	}
	handlers.NewAuthHandler(deps, limit...).Register(r)

	market := handlers.NewMarketHandler(deps)
	r.Group(func(r chi.Router) {
		r.Use(handlers.OptionalUser(deps))
		market.RegisterPublic(r)
	})
	r.Group(func(r chi.Router) {
		r.Use(handlers.RequireUser(deps))
		market.RegisterProtected(r)
		handlers.NewTradeHandler(deps).Register(r)
		handlers.NewWalletHandler(deps).Register(r)
		handlers.NewSchemeHandler(deps).Register(r)
		handlers.NewDeliveryHandler(deps).Register(r)
		handlers.NewProfileHandler(deps).Register(r)
	})
	return r
}

// credentialsAllowed is false when any origin is a wildcard, so the session cookie is
// only sent cross-origin to explicitly listed sites.
func credentialsAllowed(origins []string) bool {
	if len(origins) == 0 {
		return false
	}
	for _, o := range origins {
		if strings.Contains(o, "*") {
			return false
		}
	}
	return true
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
