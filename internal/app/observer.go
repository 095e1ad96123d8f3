package app

import (
	"context"

	"go.uber.org/zap"

	"github.com/mehmetymw/notification-relay/internal/domain"
	"github.com/mehmetymw/notification-relay/internal/port"
	"github.com/mehmetymw/notification-relay/pkg/logger"
	"github.com/mehmetymw/notification-relay/pkg/tracing"
)

// LogObserver writes one log line per dispatch.
type LogObserver struct {
	logger *zap.Logger
}

func NewLogObserver(logger *zap.Logger) *LogObserver {
	return &LogObserver{logger: logger}
}

func (o *LogObserver) Dispatched(ctx context.Context, ev domain.DispatchEvent) {
	fields := []zap.Field{
		zap.String("channel", string(ev.Channel)),
		zap.String("to", ev.Recipient),
		zap.Duration("latency", ev.Latency),
		zap.String("trace_id", tracing.TraceIDFromContext(ctx)),
	}
	if id := logger.CorrelationIDFromContext(ctx); id != "" {
		fields = append(fields, zap.String("correlation_id", id))
	}

	if !ev.Result.Success {
		o.logger.Error(string(ev.Channel)+" send failed", append(fields, zap.String("error", ev.Result.Error))...)
		return
	}

	fields = append(fields, zap.String("provider_message_id", ev.Result.ProviderMessageID))
	if ev.Result.QuotaRemaining != nil {
		fields = append(fields, zap.Int("quota_remaining", *ev.Result.QuotaRemaining))
	}
	o.logger.Info(string(ev.Channel)+" sent successfully", fields...)
}

// MultiObserver fans each event out to every observer in order.
type MultiObserver []port.DispatchObserver

func (m MultiObserver) Dispatched(ctx context.Context, ev domain.DispatchEvent) {
	for _, o := range m {
		o.Dispatched(ctx, ev)
	}
}
