package app

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/mehmetymw/notification-relay/internal/domain"
)

const (
	outcomeSuccess = "success"
	outcomeFailure = "failure"
)

// MetricsCollector exports dispatch counts and provider latency.
type MetricsCollector struct {
	dispatched *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// NewMetricsCollector registers its collectors with reg.
func NewMetricsCollector(reg prometheus.Registerer) *MetricsCollector {
	factory := promauto.With(reg)

	return &MetricsCollector{
		dispatched: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "relay_dispatch_total",
			Help: "Dispatch attempts by channel and outcome",
		}, []string{"channel", "outcome"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "relay_dispatch_duration_seconds",
			Help:    "Time spent on one dispatch, provider call included",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"channel"}),
	}
}

func (m *MetricsCollector) Dispatched(_ context.Context, ev domain.DispatchEvent) {
	outcome := outcomeSuccess
	if !ev.Result.Success {
		outcome = outcomeFailure
	}

	m.dispatched.WithLabelValues(string(ev.Channel), outcome).Inc()
	m.duration.WithLabelValues(string(ev.Channel)).Observe(ev.Latency.Seconds())
}
