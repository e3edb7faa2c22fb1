package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"oceangate/internal/gate"
	gatehandler "oceangate/internal/gate/handler"
	gatemetrics "oceangate/internal/gate/metrics"
	"oceangate/internal/gate/ports"
	"oceangate/internal/geo/ipapi"
	"oceangate/internal/geo/mmdb"
	"oceangate/internal/health"
	"oceangate/internal/platform/config"
	"oceangate/internal/platform/httpserver"
	"oceangate/internal/platform/logger"
	"oceangate/internal/platform/metrics"
	httptransport "oceangate/internal/transport/http"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Gate logic lives in internal/gate.
func main() {
	if err := run(); err != nil {
		slog.Error("oceangate exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Format)

	policy, err := gate.PolicyForProfile(cfg.GateProfile)
	if err != nil {
		return err
	}

	locator, closeLocator, err := buildLocator(cfg.Geo)
	if err != nil {
		return err
	}
	defer closeLocator()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	svc, err := gate.New(locator, policy,
		gate.WithLogger(log),
		gate.WithMetrics(gatemetrics.New(reg)),
		gate.WithLookupTimeout(cfg.Geo.Timeout),
	)
	if err != nil {
		return err
	}

	router := httptransport.NewRouter(httptransport.Deps{
		Logger:   log,
		Metrics:  metrics.NewHTTP(reg),
		Gatherer: reg,
		Handlers: []httptransport.Registrar{
			gatehandler.New(svc, log),
			health.New(health.Options{
				Details:       policy.HealthDetails(),
				ThresholdDate: policy.ThresholdDate(),
			}),
		},
	})
	srv := httpserver.New(cfg.Addr, router)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting oceangate", startupAttrs(cfg, policy)...)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// buildLocator returns the configured country lookup and a func releasing it.
func buildLocator(cfg config.Geo) (ports.Locator, func(), error) {
	switch cfg.Provider {
	case config.GeoProviderMMDB:
		p, err := mmdb.Open(cfg.MMDBPath)
		if err != nil {
			return nil, nil, err
		}
		return p, func() { _ = p.Close() }, nil
	default:
		return ipapi.New(cfg.URL, cfg.Timeout), func() {}, nil
	}
}

func startupAttrs(cfg config.Server, policy gate.Policy) []any {
	attrs := []any{
		"addr", cfg.Addr,
		"profile", policy.Name(),
		"geo_provider", cfg.Geo.Provider,
		"allowed_countries", policy.AllowedCountries(),
	}
	if policy.ChecksDate() {
		attrs = append(attrs, "threshold_date", policy.ThresholdDate())
	}
	return attrs
}
