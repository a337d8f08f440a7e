package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "chatline"

	endpointLabel = "endpoint"
	statusLabel   = "status"
)

// Metrics bundles the service's prometheus collectors with their registry.
type Metrics struct {
	Reg               *prometheus.Registry
	ActiveConnections prometheus.Gauge
	MessagesBroadcast prometheus.Counter
	HistoryReplays    prometheus.Counter
	RequestDuration   *prometheus.HistogramVec
	AuthDenied        *prometheus.CounterVec
}

// New builds a metrics set backed by a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		Reg: reg,
		ActiveConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_connections",
		}),
		MessagesBroadcast: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_broadcast_total",
		}),
		HistoryReplays: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "history_replays_total",
		}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.2, 0.5, 1, 2},
		}, []string{endpointLabel, statusLabel}),
		AuthDenied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_denied_total",
		}, []string{endpointLabel}),
	}

	reg.MustRegister(m.ActiveConnections)
	reg.MustRegister(m.MessagesBroadcast)
	reg.MustRegister(m.HistoryReplays)
	reg.MustRegister(m.RequestDuration)
	reg.MustRegister(m.AuthDenied)

	return m
}
