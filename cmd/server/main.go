package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"village/internal/jwt_token"
	"village/internal/onboarding/adapters"
	"village/internal/onboarding/catalog"
	"village/internal/onboarding/handler"
	onboardingmetrics "village/internal/onboarding/metrics"
	"village/internal/onboarding/service"
	"village/internal/platform/config"
	"village/internal/platform/httpserver"
	"village/internal/platform/logger"
	"village/internal/platform/metrics"
	"village/pkg/platform/httputil"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "village: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.FromEnv()
	log := logger.New(cfg.Server.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	infra, err := buildInfra(ctx, cfg, log, reg)
	if err != nil {
		return err
	}
	defer infra.Close()

	jwtService := jwt_token.NewJWTService(cfg.Auth.JWTSigningKey, cfg.Auth.JWTIssuer)

	onboarding := service.New(
		infra.drafts,
		infra.profiles,
		infra.legacy,
		adapters.NewIdentityAdapter(infra.identities),
		service.WithLogger(log),
		service.WithMetrics(onboardingmetrics.New(reg)),
		service.WithCatalog(catalog.Default()),
		service.WithAuditPublisher(infra.audit),
	)

	router := chi.NewRouter()
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	router.Get("/readyz", readiness(infra.checks))
	router.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	handler.New(onboarding, log, metrics.New(reg), jwt_token.NewJWTServiceAdapter(jwtService), cfg.Onboarding.FinishTimeout).
		Register(router)

	srv := httpserver.New(cfg.Server, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting village onboarding", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	})
	return g.Wait()
}

type healthCheck struct {
	name  string
	check func(context.Context) error
}

func readiness(checks []healthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := map[string]string{}
		ready := true
		for _, c := range checks {
			if err := c.check(r.Context()); err != nil {
				status[c.name] = err.Error()
				ready = false
				continue
			}
			status[c.name] = "ok"
		}
		code := http.StatusOK
		if !ready {
			code = http.StatusServiceUnavailable
		}
		httputil.WriteJSON(w, code, status)
	}
}
