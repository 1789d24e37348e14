package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sentinel/internal/service"
)

const namespace = "sentinel"

// Scan metrics. Verdict labels are "duplicate" and "unique".
type Metrics struct {
	ScansTotal        *prometheus.CounterVec
	Similarity        prometheus.Histogram
	ScanDuration      prometheus.Histogram
	ReferencesScanned prometheus.Gauge
}

// New creates the scan collectors and registers them on reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		ScansTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scans_total",
			Help:      "Documents scanned, by verdict.",
		}, []string{"verdict"}),
		Similarity: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scan_similarity",
			Help:      "Best cosine similarity found per scan.",
			Buckets:   prometheus.LinearBuckets(0.1, 0.1, 10),
		}),
		ScanDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scan_duration_seconds",
			Help:      "Time spent loading references and scoring a document.",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}),
		ReferencesScanned: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "references_scanned",
			Help:      "Reference projects compared in the most recent scan.",
		}),
	}
	for _, c := range []prometheus.Collector{m.ScansTotal, m.Similarity, m.ScanDuration, m.ReferencesScanned} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// ObserveScan records a finished scan.
func (m *Metrics) ObserveScan(r *service.Report) {
	verdict := "unique"
	if r.IsDuplicate {
		verdict = "duplicate"
	}
	m.ScansTotal.WithLabelValues(verdict).Inc()
	m.Similarity.Observe(r.Score)
	m.ScanDuration.Observe(r.Elapsed.Seconds())
	m.ReferencesScanned.Set(float64(r.References))
}

// Handler exposes the collectors gathered by g in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
