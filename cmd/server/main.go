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
	"golang.org/x/text/language"

	"github.com/hongminglow/sg-web/internal/backend"
	"github.com/hongminglow/sg-web/internal/config"
	"github.com/hongminglow/sg-web/internal/logging"
	"github.com/hongminglow/sg-web/internal/metrics"
	"github.com/hongminglow/sg-web/internal/server"
	"github.com/hongminglow/sg-web/internal/view"
)

func main() {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}
	log := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if envErr != nil {
		log.Debug("no .env file found; relying on existing environment")
	}

	renderer, err := view.NewRenderer(view.NewFormatter(language.MustParse("en-IN")))
	if err != nil {
		log.Fatalf("parse templates: %v", err)
	}

	opts := server.Options{Renderer: renderer, Logger: log}
	clientCfg := backend.Config{
		BaseURL: cfg.BackendBaseURL,
		APIKey:  cfg.BackendAPIKey,
		Timeout: cfg.BackendTimeout,
		Logger:  log.WithField("component", "backend"),
	}
	if cfg.MetricsEnabled {
		m := metrics.New()
		opts.Metrics = m
		clientCfg.Observer = m
	}
	opts.Gateway = backend.New(clientCfg)

	srv := server.New(cfg, opts)

	go func() {
		log.WithFields(logrus.Fields{
			"addr":    cfg.HTTPAddress(),
			"backend": cfg.BackendBaseURL,
			"env":     cfg.Env,
		}).Info("sg-web listening")
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.WithError(err).Error("graceful shutdown error")
	}
}
