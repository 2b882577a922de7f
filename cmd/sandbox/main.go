// Command sandbox runs an in-memory backend API for local development.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/hongminglow/sg-web/internal/config"
	"github.com/hongminglow/sg-web/internal/logging"
	"github.com/hongminglow/sg-web/internal/middleware"
	"github.com/hongminglow/sg-web/internal/models"
	"github.com/hongminglow/sg-web/internal/sandbox"
)

const (
	demoPhone    = "9000000000"
	demoPassword = "demo1234"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadSandbox()
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}
	log := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if cfg.JWTSecret == "" {
		log.Warn("SANDBOX_JWT_SECRET not set; using the built-in development secret")
	}

	api := sandbox.New(sandbox.Options{
		JWTSecret: cfg.JWTSecret,
		TokenTTL:  cfg.TokenTTL,
		APIKey:    cfg.APIKey,
		Logger:    log,
	})
	if err := seedDemo(api.Store()); err != nil {
		log.WithError(err).Warn("seed demo account failed")
	}

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           middleware.RequestLogger(log)(api.Handler()),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.WithFields(logrus.Fields{"addr": cfg.HTTPAddress(), "demo_phone": demoPhone}).Info("sandbox backend listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.WithError(err).Error("graceful shutdown error")
	}
}

// seedDemo creates an account with some history so every page has something to show.
func seedDemo(store *sandbox.Store) error {
	u, err := store.CreateAccount(demoPhone, demoPassword, "Demo User", "demo@example.com")
	if err != nil {
		return err
	}
	return store.Seed(u.ID,
		models.Transaction{Type: models.TxBuy, AmountMg: 1500, PricePerGramPaise: 644330, TotalPaise: 995490},
		models.Transaction{Type: models.TxBuy, AmountMg: 500, PricePerGramPaise: 644330, TotalPaise: 331830},
		models.Transaction{Type: models.TxSell, AmountMg: 200, PricePerGramPaise: 644330, TotalPaise: 128866},
	)
}
