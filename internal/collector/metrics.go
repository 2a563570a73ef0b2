package collector

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/PratikDhanave/ga-hit-relay/internal/hit"
)

// Metrics instruments send attempts. A nil *Metrics records nothing.
type Metrics struct {
	Hits         *prometheus.CounterVec
	SendDuration prometheus.Histogram
}

// NewMetrics registers the collector metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		Hits: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ga_hits_total",
			Help: "Hits processed, by hit type and outcome.",
		}, []string{"hit_type", "outcome"}),
		SendDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "ga_hit_send_duration_seconds",
			Help:    "Time spent building, validating and sending a hit.",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

func (m *Metrics) observe(t hit.Type, o Outcome, d time.Duration) {
	if m == nil {
		return
	}
	label := string(t)
	if label == "" {
		label = "unset"
	}
	m.Hits.WithLabelValues(label, string(o)).Inc()
	m.SendDuration.Observe(d.Seconds())
}
