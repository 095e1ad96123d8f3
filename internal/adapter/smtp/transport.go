// Package smtp submits email through an authenticated SMTP session.
package smtp

import (
	"context"
	"fmt"
	"time"

	"github.com/wneessen/go-mail"
	"go.opentelemetry.io/otel/attribute"

	"github.com/mehmetymw/notification-relay/internal/domain"
	"github.com/mehmetymw/notification-relay/internal/port"
	"github.com/mehmetymw/notification-relay/pkg/circuitbreaker"
	"github.com/mehmetymw/notification-relay/pkg/tracing"
)

type Config struct {
	Host       string
	Port       int
	Username   string
	Password   string
	Encryption string // "none", "starttls", "ssl_tls"
	Timeout    time.Duration
}

type Transport struct {
	cfg     Config
	breaker *circuitbreaker.Breaker
}

// NewTransport returns a transport for cfg. breaker may be nil.
func NewTransport(cfg Config, breaker *circuitbreaker.Breaker) *Transport {
	return &Transport{cfg: cfg, breaker: breaker}
}

var _ port.EmailTransport = (*Transport)(nil)

func (t *Transport) Send(ctx context.Context, msg *domain.EmailMessage) (*port.ProviderResponse, error) {
	result, err := t.breaker.Execute(func() (any, error) {
		return t.doSend(ctx, msg)
	})
	if err != nil {
		if circuitbreaker.IsOpen(err) {
			return nil, fmt.Errorf("%w: smtp", domain.ErrCircuitOpen)
		}
		return nil, err
	}

	return result.(*port.ProviderResponse), nil
}

func (t *Transport) doSend(ctx context.Context, msg *domain.EmailMessage) (*port.ProviderResponse, error) {
	ctx, span := tracing.Tracer().Start(ctx, "smtp.send")
	defer span.End()

	span.SetAttributes(
		attribute.String("smtp.host", t.cfg.Host),
		attribute.Int("smtp.port", t.cfg.Port),
		attribute.Int("email.recipient_count", len(msg.To)),
	)

	m, err := buildMsg(msg)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}

	client, err := t.newClient()
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}

	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}

	messageID := m.GetMessageID()
	span.SetAttributes(attribute.String("smtp.message_id", messageID))

	return &port.ProviderResponse{
		MessageID: messageID,
		Accepted:  acceptedAddresses(m),
	}, nil
}

// Verify dials and authenticates without sending anything.
func (t *Transport) Verify(ctx context.Context) error {
	client, err := t.newClient()
	if err != nil {
		return err
	}
	if err := client.DialWithContext(ctx); err != nil {
		return err
	}
	return client.Close()
}

func (t *Transport) newClient() (*mail.Client, error) {
	client, err := mail.NewClient(t.cfg.Host, t.clientOptions()...)
	if err != nil {
		return nil, fmt.Errorf("failed to create mail client: %w", err)
	}
	return client, nil
}

// clientOptions keeps the configured port for every encryption mode;
// WithTLSPortPolicy would move port 25 to 587.
func (t *Transport) clientOptions() []mail.Option {
	opts := []mail.Option{
		mail.WithPort(t.cfg.Port),
		mail.WithSMTPAuth(authTypeFromEncryption(t.cfg.Encryption)),
		mail.WithUsername(t.cfg.Username),
		mail.WithPassword(t.cfg.Password),
		mail.WithTLSPolicy(tlsPolicyFromEncryption(t.cfg.Encryption)),
	}
	if t.cfg.Encryption == "ssl_tls" {
		opts = append(opts, mail.WithSSL())
	}
	if t.cfg.Timeout > 0 {
		opts = append(opts, mail.WithTimeout(t.cfg.Timeout))
	}
	return opts
}

func buildMsg(msg *domain.EmailMessage) (*mail.Msg, error) {
	m := mail.NewMsg()

	if msg.From.Name != "" {
		if err := m.FromFormat(msg.From.Name, msg.From.Email); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidSender, err)
		}
	} else if err := m.From(msg.From.Email); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidSender, err)
	}

	if err := m.To(msg.To...); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidRecipient, err)
	}

	m.Subject(msg.Subject)
	m.SetDate()
	m.SetMessageID()

	switch {
	case msg.Text != "" && msg.HTML != "":
		m.SetBodyString(mail.TypeTextPlain, msg.Text)
		m.AddAlternativeString(mail.TypeTextHTML, msg.HTML)
	case msg.HTML != "":
		m.SetBodyString(mail.TypeTextHTML, msg.HTML)
	default:
		m.SetBodyString(mail.TypeTextPlain, msg.Text)
	}

	return m, nil
}

// acceptedAddresses lists the bare recipient addresses; a successful
// DialAndSend means the server accepted every one of them.
func acceptedAddresses(m *mail.Msg) []string {
	rcpts := m.GetTo()
	out := make([]string, 0, len(rcpts))
	for _, r := range rcpts {
		out = append(out, r.Address)
	}
	return out
}

// authTypeFromEncryption allows PLAIN over a cleartext session only when
// encryption is explicitly "none", e.g. a relay on a private network.
func authTypeFromEncryption(enc string) mail.SMTPAuthType {
	if enc == "none" {
		return mail.SMTPAuthPlainNoEnc
	}
	return mail.SMTPAuthPlain
}

func tlsPolicyFromEncryption(enc string) mail.TLSPolicy {
	// ssl_tls wraps the whole session, so STARTTLS is never negotiated.
	if enc == "starttls" {
		return mail.TLSMandatory
	}
	return mail.NoTLS
}
