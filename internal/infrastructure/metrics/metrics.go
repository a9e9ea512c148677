// Package metrics exposes adapter counters to Prometheus.
package metrics

import (
	"time"

	"github.com/DanielPopoola/hyperswitch-adapter/internal/application"
	"github.com/DanielPopoola/hyperswitch-adapter/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "hyperswitch"

type Prometheus struct {
	gatewayCalls    *prometheus.CounterVec
	gatewayLatency  *prometheus.HistogramVec
	attempts        *prometheus.CounterVec
	undefined       *prometheus.CounterVec
	reconciliations *prometheus.CounterVec
}

var _ application.Metrics = (*Prometheus)(nil)

// NewPrometheus registers the collectors on reg.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	m := &Prometheus{
		gatewayCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gateway_calls_total",
			Help:      "Gateway calls by operation and outcome.",
		}, []string{"operation", "outcome"}),
		gatewayLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "gateway_call_seconds",
			Help:      "Gateway call latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "attempts_total",
			Help:      "Ledger attempts recorded by type and status.",
		}, []string{"type", "status"}),
		undefined: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "undefined_status_total",
			Help:      "Gateway statuses that did not map to a canonical status.",
		}, []string{"kind", "value"}),
		reconciliations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconciliations_total",
			Help:      "Reconciliation results for pending attempts.",
		}, []string{"result"}),
	}

	reg.MustRegister(m.gatewayCalls, m.gatewayLatency, m.attempts, m.undefined, m.reconciliations)
	return m
}

func (m *Prometheus) GatewayCall(operation, outcome string, elapsed time.Duration) {
	m.gatewayCalls.WithLabelValues(operation, outcome).Inc()
	m.gatewayLatency.WithLabelValues(operation).Observe(elapsed.Seconds())
}

func (m *Prometheus) AttemptRecorded(txType domain.TransactionType, status domain.AttemptStatus) {
	m.attempts.WithLabelValues(string(txType), string(status)).Inc()
}

func (m *Prometheus) UndefinedStatus(kind, value string) {
	m.undefined.WithLabelValues(kind, value).Inc()
}

func (m *Prometheus) Reconciliation(result string) {
	m.reconciliations.WithLabelValues(result).Inc()
}

// Noop discards everything.
type Noop struct{}

func (Noop) GatewayCall(string, string, time.Duration)                    {}
func (Noop) AttemptRecorded(domain.TransactionType, domain.AttemptStatus) {}
func (Noop) UndefinedStatus(string, string)                               {}
func (Noop) Reconciliation(string)                                        {}
