// Package main is the entry point for the mutations HTTP service. It wires
// all dependencies with samber/do v2, serves the declared catalog, and
// shuts down gracefully on SIGINT/SIGTERM.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/do/v2"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	adapthttp "github.com/jsamuelsen11/mutations/internal/adapters/http"
	"github.com/jsamuelsen11/mutations/internal/adapters/http/handlers"
	"github.com/jsamuelsen11/mutations/internal/adapters/http/middleware"

	"github.com/jsamuelsen11/mutations/internal/adapters/clients/notifier"
	"github.com/jsamuelsen11/mutations/internal/app"
	"github.com/jsamuelsen11/mutations/internal/catalog"
	"github.com/jsamuelsen11/mutations/internal/mutation"
	"github.com/jsamuelsen11/mutations/internal/platform/config"
	"github.com/jsamuelsen11/mutations/internal/platform/health"
	"github.com/jsamuelsen11/mutations/internal/platform/httpclient"
	"github.com/jsamuelsen11/mutations/internal/platform/logging"
	"github.com/jsamuelsen11/mutations/internal/platform/telemetry"
	"github.com/jsamuelsen11/mutations/internal/ports"
)

const (
	serverShutdownTimeout = 15 * time.Second
	otelShutdownTimeout   = 5 * time.Second

	notifierPeer = "notifier"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	profile := os.Getenv("APP_PROFILE")
	if profile == "" {
		return errors.New("APP_PROFILE environment variable is required (e.g. local, prod)")
	}

	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)
	slog.SetDefault(logger)

	ctx := context.Background()
	otel, err := initTelemetry(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	injector := do.New()

	do.ProvideValue(injector, cfg)
	do.ProvideValue(injector, logger)
	do.ProvideValue(injector, otel.metrics)

	registerDependencies(injector, cfg, logger)

	// Resolving the server wires the whole graph, including the catalog
	// declarations, so a broken mutation fails startup.
	server, err := do.Invoke[*adapthttp.Server](injector)
	if err != nil {
		return fmt.Errorf("resolving server: %w", err)
	}

	do.MustInvoke[ports.HealthRegistry](injector).Register(do.MustInvoke[*httpclient.Client](injector))

	served := do.MustInvoke[ports.MutationService](injector).List(ctx)
	logger.Info("mutations loaded", slog.Int("count", len(served)), slog.Any("names", infoNames(served)))

	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() { serverErr <- server.Start() }()

	select {
	case <-sigCtx.Done():
		logger.Info("received shutdown signal")
	case err := <-serverErr:
		_ = otel.Shutdown(context.Background())
		return fmt.Errorf("server failed: %w", err)
	}

	shutdown(logger, server, otel, serverErr)
	return nil
}

// shutdown drains in-flight requests, waits for Start to return, then
// flushes telemetry. Each step has its own deadline.
func shutdown(logger *slog.Logger, server *adapthttp.Server, otel *otelProviders, serverErr <-chan error) {
	srvCtx, cancel := context.WithTimeout(context.Background(), serverShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(srvCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
	}
	<-serverErr

	otelCtx, otelCancel := context.WithTimeout(context.Background(), otelShutdownTimeout)
	defer otelCancel()
	if err := otel.Shutdown(otelCtx); err != nil {
		logger.Error("telemetry shutdown error", slog.Any("error", err))
	}

	logger.Info("shutdown complete")
}

func infoNames(infos []ports.MutationInfo) []string {
	names := make([]string, len(infos))
	for i, info := range infos {
		names[i] = info.Name
	}
	return names
}

// otelProviders bundles the provider lifecycle. All fields are nil when
// telemetry is disabled.
type otelProviders struct {
	tracer  *sdktrace.TracerProvider
	meter   *sdkmetric.MeterProvider
	metrics *telemetry.Metrics
}

// Shutdown flushes both providers. Nil-safe.
func (o *otelProviders) Shutdown(ctx context.Context) error {
	var errs []error
	if o.tracer != nil {
		if err := o.tracer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer shutdown: %w", err))
		}
	}
	if o.meter != nil {
		if err := o.meter.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter shutdown: %w", err))
		}
	}
	return errors.Join(errs...)
}

func initTelemetry(ctx context.Context, cfg *config.Config) (*otelProviders, error) {
	if !cfg.Telemetry.Enabled {
		return &otelProviders{}, nil
	}

	tp, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.Exporter, cfg.Telemetry.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	mp, err := telemetry.InitMeter(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.Exporter, cfg.Telemetry.Endpoint)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, fmt.Errorf("init meter: %w", err)
	}

	metrics, err := telemetry.NewMetrics(mp)
	if err != nil {
		_ = tp.Shutdown(ctx)
		_ = mp.Shutdown(ctx)
		return nil, fmt.Errorf("creating metrics: %w", err)
	}

	return &otelProviders{tracer: tp, meter: mp, metrics: metrics}, nil
}

func registerDependencies(injector *do.RootScope, cfg *config.Config, logger *slog.Logger) {
	do.Provide(injector, func(i do.Injector) (*httpclient.Client, error) {
		metrics := do.MustInvoke[*telemetry.Metrics](i)
		return httpclient.New(&cfg.Notifier, notifierPeer,
			httpclient.WithMetrics(metrics),
			httpclient.WithLogger(logger),
		), nil
	})

	do.Provide(injector, func(i do.Injector) (ports.Notifier, error) {
		client := do.MustInvoke[*httpclient.Client](i)
		return notifier.New(client, logger), nil
	})

	do.Provide(injector, func(i do.Injector) (*mutation.Registry, error) {
		return catalog.New(do.MustInvoke[ports.Notifier](i))
	})

	do.Provide(injector, func(i do.Injector) (ports.MutationService, error) {
		registry := do.MustInvoke[*mutation.Registry](i)
		metrics := do.MustInvoke[*telemetry.Metrics](i)
		return app.NewMutationService(registry, cfg.Mutations, metrics, logger), nil
	})

	do.Provide(injector, func(_ do.Injector) (ports.HealthRegistry, error) {
		return health.New(), nil
	})

	do.Provide(injector, func(i do.Injector) (*handlers.MutationHandler, error) {
		return handlers.NewMutationHandler(do.MustInvoke[ports.MutationService](i)), nil
	})

	do.Provide(injector, func(i do.Injector) (*handlers.HealthHandler, error) {
		return handlers.NewHealthHandler(do.MustInvoke[ports.HealthRegistry](i)), nil
	})

	do.Provide(injector, func(i do.Injector) (nethttp.Handler, error) {
		mutationH := do.MustInvoke[*handlers.MutationHandler](i)
		healthH := do.MustInvoke[*handlers.HealthHandler](i)
		metrics := do.MustInvoke[*telemetry.Metrics](i)

		return adapthttp.NewRouter(mutationH, healthH,
			middleware.Recovery(logger),
			middleware.RequestID(),
			middleware.OpenTelemetry(metrics),
			middleware.Logging(logger),
			middleware.Timeout(cfg.Server.RequestTimeout),
		), nil
	})

	do.Provide(injector, func(i do.Injector) (*adapthttp.Server, error) {
		handler := do.MustInvoke[nethttp.Handler](i)
		return adapthttp.NewServer(cfg.Server, handler, logger), nil
	})
}
