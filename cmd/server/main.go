package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"upi-checkout/internal/api"
	"upi-checkout/internal/config"
	"upi-checkout/internal/domain"
	"upi-checkout/internal/infrastructure/backend"
	"upi-checkout/internal/infrastructure/payment"
	"upi-checkout/internal/logger"
	"upi-checkout/internal/repo"
	"upi-checkout/internal/service"
	"upi-checkout/internal/telemetry"
	"upi-checkout/internal/worker"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New("").Fatal(err)
	}

	log := logger.New(cfg.Env)
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatal(err)
	}
}

func run(cfg *config.Config, log *zap.SugaredLogger) error {
	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	shutdownTracing, err := telemetry.InitProvider(ctx, cfg.OTLPEndpoint, "upi-checkout", log)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Errorw("tracer shutdown failed", "error", err)
		}
	}()

	client := backend.NewClient(cfg.BackendURL, cfg.HTTPTimeout, log)
	relay := payment.NewRelayProvider(repo.NewSessionRepo(), log)
	sessions := service.NewSessionController(relay, service.SessionSettings{
		KeyID:        cfg.KeyID,
		MerchantName: cfg.MerchantName,
		Description:  cfg.Description,
		ThemeColor:   cfg.ThemeColor,
	}, log)

	machine := service.NewPaymentStateMachine(
		relay,
		worker.NewReadinessMonitor(cfg.PollInterval, cfg.PollAttempts, log),
		client,
		sessions,
		service.NewResultVerifier(client, log),
		cfg.Currency,
		log,
	)

	// The browser reports the widget as loaded through the API, so the
	// monitor runs while the server is already listening. A page loading
	// after this wait ran out restarts it through sdk-loaded.
	go func() {
		err := machine.Start(ctx)
		switch {
		case err == nil, errors.Is(err, service.ErrAlreadyStarted):
		case errors.Is(err, domain.ErrCapabilityUnavailable):
			log.Warnw("no browser reported the checkout widget yet, waiting for sdk-loaded", "error", err)
		default:
			log.Errorw("checkout readiness wait failed", "kind", domain.Kind(err), "error", err)
		}
	}()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      api.NewRouter(api.NewHandler(machine, relay, log), cfg.AllowedOrigins, log),
		WriteTimeout: 30 * time.Second,
		ReadTimeout:  10 * time.Second,
		IdleTimeout:  time.Minute,
	}

	shutdown := make(chan error)
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		log.Infow("signal caught", "signal", s.String())
		stop()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		shutdown <- srv.Shutdown(ctx)
	}()

	log.Infow("server has started", "addr", cfg.Addr, "env", cfg.Env, "backend", cfg.BackendURL)

	err = srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	if err := <-shutdown; err != nil {
		return err
	}

	log.Infow("server has stopped", "addr", cfg.Addr)
	return nil
}
