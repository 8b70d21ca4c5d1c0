package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus collectors for the library. Following the
// explicit dependency injection pattern, this struct is passed to the client;
// a nil *Metrics disables recording.
type Metrics struct {
	rpcCallsTotal   *prometheus.CounterVec
	rpcCallDuration *prometheus.HistogramVec

	transfersTotal      *prometheus.CounterVec
	walletsCreatedTotal prometheus.Counter
}

// NewMetrics creates a new Metrics instance and registers all collectors.
// If registry is nil, prometheus.DefaultRegisterer is used.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}

	factory := promauto.With(registry)

	return &Metrics{
		rpcCallsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "solana_rpc_calls_total",
				Help: "Total number of Solana RPC calls by method and status",
			},
			[]string{"method", "status", "endpoint"},
		),
		rpcCallDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "solana_rpc_call_duration_seconds",
				Help:    "Duration of Solana RPC calls in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
			},
			[]string{"method", "endpoint"},
		),
		transfersTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "transfers_total",
				Help: "Total number of transfer attempts by kind (sol, spl) and status",
			},
			[]string{"kind", "status"},
		),
		walletsCreatedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "wallets_created_total",
				Help: "Total number of keypairs generated",
			},
		),
	}
}

// RecordRPCCall records a single RPC call with its outcome and duration.
func (m *Metrics) RecordRPCCall(method, status, endpoint string, durationSeconds float64) {
	m.rpcCallsTotal.WithLabelValues(method, status, endpoint).Inc()
	m.rpcCallDuration.WithLabelValues(method, endpoint).Observe(durationSeconds)
}

// RecordTransfer records a transfer attempt outcome.
func (m *Metrics) RecordTransfer(kind, status string) {
	m.transfersTotal.WithLabelValues(kind, status).Inc()
}

// RecordWalletCreated records a generated keypair.
func (m *Metrics) RecordWalletCreated() {
	m.walletsCreatedTotal.Inc()
}
