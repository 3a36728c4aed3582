package relay

import (
	"github.com/michael-berardi/harborform/internal/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeAccepted = "accepted"
	outcomeRejected = "rejected"
	outcomeFailed   = "failed"
)

// Metrics counts relay outcomes. A nil *Metrics records nothing.
type Metrics struct {
	Submissions  *prometheus.CounterVec
	SinkFailures *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Submissions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "harborform",
			Subsystem: "relay",
			Name:      "submissions_total",
			Help:      "Form submissions by kind and outcome.",
		}, []string{"kind", "outcome"}),
		SinkFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "harborform",
			Subsystem: "relay",
			Name:      "sink_failures_total",
			Help:      "Failed deliveries by sink.",
		}, []string{"sink"}),
	}
}

func (m *Metrics) submission(kind models.SubmissionKind, outcome string) {
	if m == nil {
		return
	}
	m.Submissions.WithLabelValues(string(kind), outcome).Inc()
}

func (m *Metrics) sinkFailure(sink string) {
	if m == nil {
		return
	}
	m.SinkFailures.WithLabelValues(sink).Inc()
}
