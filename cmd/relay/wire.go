package main

import (
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/mehmetymw/notification-relay/internal/adapter/smtp"
	"github.com/mehmetymw/notification-relay/internal/adapter/textbelt"
	"github.com/mehmetymw/notification-relay/internal/app"
	"github.com/mehmetymw/notification-relay/internal/domain"
	"github.com/mehmetymw/notification-relay/internal/port"
	"github.com/mehmetymw/notification-relay/pkg/circuitbreaker"
	"github.com/mehmetymw/notification-relay/pkg/config"
	"github.com/mehmetymw/notification-relay/pkg/logger"
)

const serviceName = "notification-relay"

func loadConfig() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	// stdout is reserved for command output.
	opts := []logger.Option{logger.WithOutput("stderr")}
	if cfg.LogFile != "" {
		opts = append(opts, logger.WithFile(cfg.LogFile))
	}

	log, err := logger.New(cfg.LogLevel, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, log, nil
}

type components struct {
	dispatcher *app.Dispatcher
	// checker is nil when email is disabled.
	checker port.ConnectivityChecker
}

// buildComponents wires the transports for every configured channel. reg
// may be nil, in which case metrics are collected but never exported.
func buildComponents(cfg *config.Config, log *zap.Logger, reg prometheus.Registerer) components {
	var (
		email   port.EmailTransport
		sms     port.SMSGateway
		checker port.ConnectivityChecker
	)

	if cfg.EmailEnabled() {
		tr := smtp.NewTransport(smtp.Config{
			Host:       cfg.SMTPHost,
			Port:       cfg.SMTPPort,
			Username:   cfg.EmailUser,
			Password:   cfg.EmailPass,
			Encryption: cfg.SMTPEncryption,
			Timeout:    cfg.ProviderTimeout,
		}, newBreaker(cfg, "smtp"))
		email, checker = tr, tr
	} else {
		log.Warn("email channel disabled, EMAIL_USER and EMAIL_PASS are not set")
	}

	if cfg.SMSEnabled() {
		sms = textbelt.NewGateway(textbelt.Config{
			URL:     cfg.TextbeltURL,
			Key:     cfg.TextbeltKey,
			Timeout: cfg.ProviderTimeout,
		}, newBreaker(cfg, "sms"))
	} else {
		log.Warn("sms channel disabled, TEXTBELT_KEY is not set")
	}

	senderName, senderEmail := cfg.Sender()
	observer := app.MultiObserver{
		app.NewLogObserver(log),
		app.NewMetricsCollector(reg),
	}

	return components{
		dispatcher: app.NewDispatcher(email, sms, observer, app.DispatcherSettings{
			DefaultSender: domain.Address{Name: senderName, Email: senderEmail},
			Brand:         cfg.ServiceName,
		}),
		checker: checker,
	}
}

func newBreaker(cfg *config.Config, name string) *circuitbreaker.Breaker {
	if !cfg.BreakerEnabled {
		return nil
	}
	return circuitbreaker.New(name)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
