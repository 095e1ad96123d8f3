// Package textbelt delivers SMS through a TextBelt-compatible HTTP gateway.
package textbelt

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"

	"github.com/mehmetymw/notification-relay/internal/domain"
	"github.com/mehmetymw/notification-relay/internal/port"
	"github.com/mehmetymw/notification-relay/pkg/circuitbreaker"
	"github.com/mehmetymw/notification-relay/pkg/logger"
	"github.com/mehmetymw/notification-relay/pkg/tracing"
)

type Config struct {
	URL     string
	Key     string
	Timeout time.Duration
}

type Gateway struct {
	url     string
	key     string
	client  *resty.Client
	breaker *circuitbreaker.Breaker
}

// NewGateway returns a gateway for cfg. breaker may be nil.
func NewGateway(cfg Config, breaker *circuitbreaker.Breaker) *Gateway {
	hc := &http.Client{
		Timeout:   cfg.Timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}

	return &Gateway{
		url:     cfg.URL,
		key:     cfg.Key,
		client:  resty.NewWithClient(hc),
		breaker: breaker,
	}
}

var _ port.SMSGateway = (*Gateway)(nil)

type textbeltResponse struct {
	Success        bool   `json:"success"`
	TextID         string `json:"textId"`
	QuotaRemaining *int   `json:"quotaRemaining"`
	Error          string `json:"error"`
}

func (g *Gateway) Send(ctx context.Context, msg *domain.SMSMessage) (*port.ProviderResponse, error) {
	result, err := g.breaker.Execute(func() (any, error) {
		return g.doSend(ctx, msg)
	})
	if err != nil {
		if circuitbreaker.IsOpen(err) {
			return nil, fmt.Errorf("%w: sms", domain.ErrCircuitOpen)
		}
		return nil, err
	}

	return result.(*port.ProviderResponse), nil
}

func (g *Gateway) doSend(ctx context.Context, msg *domain.SMSMessage) (*port.ProviderResponse, error) {
	ctx, span := tracing.Tracer().Start(ctx, "textbelt.send")
	defer span.End()

	span.SetAttributes(
		attribute.String("textbelt.url", g.url),
		attribute.String("notification.recipient", msg.Phone),
	)

	req := g.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"phone":   msg.Phone,
			"message": msg.Body,
			"key":     g.key,
		})

	if correlationID := logger.CorrelationIDFromContext(ctx); correlationID != "" {
		req.SetHeader("X-Correlation-ID", correlationID)
	}

	resp, err := req.Post(g.url)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, err)
	}

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode()))

	// The gateway reports rejections in the body, whatever the status code.
	var out textbeltResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		replyErr := fmt.Errorf("%w: status %d", domain.ErrUnexpectedProviderReply, resp.StatusCode())
		tracing.RecordError(span, replyErr)
		return nil, replyErr
	}

	if !out.Success {
		gwErr := domain.NewGatewayError(out.Error)
		tracing.RecordError(span, gwErr)
		return nil, gwErr
	}

	textID := out.TextID
	if textID == "" {
		textID = uuid.New().String()
	}
	span.SetAttributes(attribute.String("textbelt.text_id", textID))

	return &port.ProviderResponse{
		MessageID:      textID,
		QuotaRemaining: out.QuotaRemaining,
	}, nil
}
