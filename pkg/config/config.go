package config

import (
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config is loaded once at startup and handed to whatever needs it.
// Credentials have no defaults: a channel without them stays disabled.
type Config struct {
	AppEnv      string `envconfig:"APP_ENV" default:"development"`
	Port        int    `envconfig:"PORT" default:"3000"`
	ServiceName string `envconfig:"SERVICE_NAME" default:"Notification Relay"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	LogFile     string `envconfig:"LOG_FILE"`

	TracingEnabled bool   `envconfig:"TRACING_ENABLED" default:"false"`
	OTLPEndpoint   string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT" default:"http://localhost:4318"`

	// ProviderTimeout bounds a single outbound provider call. Zero disables it.
	ProviderTimeout time.Duration `envconfig:"PROVIDER_TIMEOUT" default:"30s"`
	BreakerEnabled  bool          `envconfig:"BREAKER_ENABLED" default:"false"`

	EmailUser      string `envconfig:"EMAIL_USER"`
	EmailPass      string `envconfig:"EMAIL_PASS"`
	EmailFrom      string `envconfig:"EMAIL_FROM"`
	EmailFromName  string `envconfig:"EMAIL_FROM_NAME"`
	SMTPHost       string `envconfig:"SMTP_HOST" default:"smtp.gmail.com"`
	SMTPPort       int    `envconfig:"SMTP_PORT" default:"587"`
	SMTPEncryption string `envconfig:"SMTP_ENCRYPTION" default:"starttls"`

	TextbeltKey string `envconfig:"TEXTBELT_KEY"`
	TextbeltURL string `envconfig:"TEXTBELT_URL" default:"https://textbelt.com/text"`
}

func Load() (*Config, error) {
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) Validate() error {
	var errs []error

	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT %d out of range", c.Port))
	}
	if c.SMTPPort < 1 || c.SMTPPort > 65535 {
		errs = append(errs, fmt.Errorf("SMTP_PORT %d out of range", c.SMTPPort))
	}
	switch c.SMTPEncryption {
	case "none", "starttls", "ssl_tls":
	default:
		errs = append(errs, fmt.Errorf("SMTP_ENCRYPTION must be one of none, starttls, ssl_tls, got %q", c.SMTPEncryption))
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error, got %q", c.LogLevel))
	}
	if c.ProviderTimeout < 0 {
		errs = append(errs, errors.New("PROVIDER_TIMEOUT must not be negative"))
	}
	if (c.EmailUser == "") != (c.EmailPass == "") {
		errs = append(errs, errors.New("EMAIL_USER and EMAIL_PASS must be set together"))
	}
	if c.EmailFrom != "" {
		if _, err := mail.ParseAddress(c.EmailFrom); err != nil {
			errs = append(errs, fmt.Errorf("EMAIL_FROM: %w", err))
		}
	}
	if c.SMSEnabled() && c.TextbeltURL == "" {
		errs = append(errs, errors.New("TEXTBELT_URL is required when TEXTBELT_KEY is set"))
	}

	return errors.Join(errs...)
}

func (c *Config) EmailEnabled() bool {
	return c.EmailUser != "" && c.EmailPass != ""
}

func (c *Config) SMSEnabled() bool {
	return c.TextbeltKey != ""
}

// Sender resolves the default From mailbox: EMAIL_FROM when set, otherwise
// the authenticated account.
func (c *Config) Sender() (name, address string) {
	if c.EmailFrom != "" {
		if addr, err := mail.ParseAddress(c.EmailFrom); err == nil {
			name = addr.Name
			if c.EmailFromName != "" {
				name = c.EmailFromName
			}
			return name, addr.Address
		}
	}
	return c.EmailFromName, c.EmailUser
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
