package app

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/mehmetymw/notification-relay/internal/domain"
	"github.com/mehmetymw/notification-relay/internal/port"
	"github.com/mehmetymw/notification-relay/pkg/tracing"
)

type DispatcherSettings struct {
	// DefaultSender is used when a request carries no from address.
	DefaultSender domain.Address
	// Brand names the platform in the rendered email layout.
	Brand string
}

// Dispatcher performs exactly one provider call per request and always
// answers with a result envelope. It holds no per-call state.
type Dispatcher struct {
	email    port.EmailTransport
	sms      port.SMSGateway
	observer port.DispatchObserver
	settings DispatcherSettings
}

// NewDispatcher wires the transports. A nil transport leaves its channel
// disabled; a nil observer discards events.
func NewDispatcher(
	email port.EmailTransport,
	sms port.SMSGateway,
	observer port.DispatchObserver,
	settings DispatcherSettings,
) *Dispatcher {
	if observer == nil {
		observer = MultiObserver{}
	}
	return &Dispatcher{
		email:    email,
		sms:      sms,
		observer: observer,
		settings: settings,
	}
}

func (d *Dispatcher) SendEmail(ctx context.Context, req domain.NotificationRequest) domain.Result {
	ctx, span := tracing.Tracer().Start(ctx, "dispatch.email")
	defer span.End()

	span.SetAttributes(tracing.DispatchAttrs(string(domain.ChannelEmail), req.To)...)
	start := time.Now()

	msg, err := domain.NewEmailMessage(req, d.settings.DefaultSender, d.settings.Brand)
	if err != nil {
		return d.finish(ctx, span, domain.ChannelEmail, req.To, start, nil, err)
	}

	resp, err := d.sendEmail(ctx, msg)
	return d.finish(ctx, span, domain.ChannelEmail, req.To, start, resp, err)
}

func (d *Dispatcher) SendSMS(ctx context.Context, req domain.NotificationRequest) domain.Result {
	ctx, span := tracing.Tracer().Start(ctx, "dispatch.sms")
	defer span.End()

	span.SetAttributes(tracing.DispatchAttrs(string(domain.ChannelSMS), req.To)...)
	start := time.Now()

	if err := req.ValidateSMS(); err != nil {
		return d.finish(ctx, span, domain.ChannelSMS, req.To, start, nil, err)
	}

	if d.sms == nil {
		return d.finish(ctx, span, domain.ChannelSMS, req.To, start, nil, notConfigured(domain.ChannelSMS))
	}

	resp, err := d.sms.Send(ctx, &domain.SMSMessage{Phone: req.To, Body: req.SMSBody()})
	return d.finish(ctx, span, domain.ChannelSMS, req.To, start, resp, err)
}

// Relay submits caller-supplied bodies without rendering them.
func (d *Dispatcher) Relay(ctx context.Context, req domain.RelayRequest) domain.Result {
	ctx, span := tracing.Tracer().Start(ctx, "dispatch.relay")
	defer span.End()

	span.SetAttributes(tracing.DispatchAttrs(string(domain.ChannelEmail), req.To)...)
	start := time.Now()

	msg, err := domain.NewRelayMessage(req, d.settings.DefaultSender)
	if err != nil {
		return d.finish(ctx, span, domain.ChannelEmail, req.To, start, nil, err)
	}

	resp, err := d.sendEmail(ctx, msg)
	return d.finish(ctx, span, domain.ChannelEmail, req.To, start, resp, err)
}

// Verify checks the mail connection when the transport supports it.
func (d *Dispatcher) Verify(ctx context.Context) error {
	if d.email == nil {
		return notConfigured(domain.ChannelEmail)
	}
	checker, ok := d.email.(port.ConnectivityChecker)
	if !ok {
		return nil
	}
	return checker.Verify(ctx)
}

func (d *Dispatcher) sendEmail(ctx context.Context, msg *domain.EmailMessage) (*port.ProviderResponse, error) {
	if d.email == nil {
		return nil, notConfigured(domain.ChannelEmail)
	}
	return d.email.Send(ctx, msg)
}

func (d *Dispatcher) finish(
	ctx context.Context,
	span trace.Span,
	ch domain.Channel,
	recipient string,
	start time.Time,
	resp *port.ProviderResponse,
	err error,
) domain.Result {
	var result domain.Result
	if err != nil {
		tracing.RecordError(span, err)
		result = domain.Failed(err)
	} else {
		result = domain.Succeeded(resp.MessageID)
		result.Accepted = resp.Accepted
		result.QuotaRemaining = resp.QuotaRemaining
	}

	latency := time.Since(start)
	span.SetAttributes(tracing.ResultAttrs(result.Success, result.ProviderMessageID)...)
	span.SetAttributes(attribute.Int64("dispatch.latency_ms", latency.Milliseconds()))

	d.observer.Dispatched(ctx, domain.DispatchEvent{
		Channel:   ch,
		Recipient: recipient,
		Result:    result,
		Latency:   latency,
	})

	return result
}

func notConfigured(ch domain.Channel) error {
	return fmt.Errorf("%s %w", ch, domain.ErrTransportNotConfigured)
}
