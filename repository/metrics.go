package repository

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts the degraded paths of the repository. A nil *Metrics is a
// valid no-op.
type Metrics struct {
	fallbackReads *prometheus.CounterVec
	demotions     *prometheus.CounterVec
	uploads       *prometheus.CounterVec
}

// NewMetrics registers the repository counters on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		fallbackReads: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "content_fallback_reads_total",
			Help: "Reads answered from the bundled dataset because the primary store failed.",
		}, []string{"operation"}),
		demotions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "content_schema_demotions_total",
			Help: "Optional columns found missing from the primary store.",
		}, []string{"column"}),
		uploads: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "content_asset_uploads_total",
			Help: "Asset uploads by outcome.",
		}, []string{"result"}),
	}
}

func (m *Metrics) fallbackRead(operation string) {
	if m == nil {
		return
	}
	m.fallbackReads.WithLabelValues(operation).Inc()
}

func (m *Metrics) demoted(column string) {
	if m == nil {
		return
	}
	m.demotions.WithLabelValues(column).Inc()
}

func (m *Metrics) upload(result string) {
	if m == nil {
		return
	}
	m.uploads.WithLabelValues(result).Inc()
}
