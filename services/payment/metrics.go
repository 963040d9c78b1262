package payment

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeApproved = "approved"
	OutcomeDeclined = "declined"
	OutcomeRejected = "rejected" // refused locally before any request
	OutcomeError    = "error"
)

type Metrics struct {
	transactions *prometheus.CounterVec
	duration     *prometheus.HistogramVec
}

// NewMetrics registers the gateway collectors on reg. A nil reg uses
// prometheus.DefaultRegisterer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		transactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mcpe_transactions_total",
			Help: "Gateway transactions by action and outcome",
		}, []string{"action", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mcpe_transaction_duration_seconds",
			Help:    "Time spent on gateway transactions",
			Buckets: prometheus.DefBuckets,
		}, []string{"action"}),
	}
	reg.MustRegister(m.transactions, m.duration)
	return m
}

func (m *Metrics) observe(action, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.transactions.WithLabelValues(action, outcome).Inc()
	if outcome != OutcomeRejected {
		m.duration.WithLabelValues(action).Observe(elapsed.Seconds())
	}
}
