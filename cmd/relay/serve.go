package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	httpAdapter "github.com/mehmetymw/notification-relay/internal/adapter/http"
	"github.com/mehmetymw/notification-relay/internal/port"
	"github.com/mehmetymw/notification-relay/pkg/config"
	"github.com/mehmetymw/notification-relay/pkg/tracing"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP relay endpoints",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

const shutdownTimeout = 30 * time.Second

func runServe(_ *cobra.Command, _ []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.TracingEnabled {
		tp, err := tracing.InitTracer(ctx, serviceName, cfg.OTLPEndpoint)
		if err != nil {
			log.Warn("failed to initialize tracer, continuing without tracing", zap.Error(err))
		} else {
			defer func() { _ = tp.Shutdown(context.Background()) }()
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	c := buildComponents(cfg, log, reg)

	if c.checker != nil {
		go verifyMailConnection(ctx, c.checker, log)
	}

	srv := newHTTPServer(cfg, log, reg, c)
	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", srv.Addr, err)
	}

	log.Info("starting http server",
		zap.String("addr", ln.Addr().String()),
		zap.String("env", cfg.AppEnv),
		zap.Bool("email", cfg.EmailEnabled()),
		zap.Bool("sms", cfg.SMSEnabled()),
	)
	return serve(ctx, srv, ln, log)
}

// newHTTPServer mounts the relay routes and exposes reg on /metrics.
func newHTTPServer(cfg *config.Config, log *zap.Logger, reg *prometheus.Registry, c components) *http.Server {
	router := httpAdapter.NewRouter(httpAdapter.RouterDeps{
		RelayHandler:    httpAdapter.NewRelayHandler(c.dispatcher),
		FunctionHandler: httpAdapter.NewFunctionHandler(c.dispatcher),
		HealthHandler:   httpAdapter.NewHealthHandler(cfg.ServiceName, c.checker),
		Metrics:         promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		ServiceName:     serviceName,
		Logger:          log,
	})

	return &http.Server{
		Addr:        cfg.Addr(),
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		// Provider calls happen inside the request.
		WriteTimeout: cfg.ProviderTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// serve runs srv on ln until ctx is done, then drains in-flight requests.
func serve(ctx context.Context, srv *http.Server, ln net.Listener, log *zap.Logger) error {
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info("server stopped")
	return nil
}

// verifyMailConnection is advisory: a failure is logged and traffic is
// still accepted.
func verifyMailConnection(ctx context.Context, checker port.ConnectivityChecker, log *zap.Logger) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := checker.Verify(ctx); err != nil {
		log.Warn("smtp connection verification failed", zap.Error(err))
		return
	}
	log.Info("smtp connection verified, ready to send email")
}
