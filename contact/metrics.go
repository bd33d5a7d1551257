package contact

import "github.com/prometheus/client_golang/prometheus"

// Metrics exposes counters and latency for contact submissions. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	submissions *prometheus.CounterVec
	delivery    *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "folio",
			Subsystem: "contact",
			Name:      "submissions_total",
			Help:      "Contact submissions by outcome",
		}, []string{"outcome"}),
		delivery: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "folio",
			Subsystem: "contact",
			Name:      "delivery_seconds",
			Help:      "Latency of webhook deliveries",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.submissions, m.delivery)
	return m
}

func (m *Metrics) ObserveOutcome(o Outcome) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(string(o)).Inc()
}

func (m *Metrics) ObserveDelivery(status string, seconds float64) {
	if m == nil {
		return
	}
	m.delivery.WithLabelValues(status).Observe(seconds)
}
