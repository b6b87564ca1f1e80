package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	stageDuration    *prom.HistogramVec
	pipelineDuration prom.Histogram
	documents        prom.Counter
	failures         prom.Counter
	references       *prom.CounterVec
	outcomes         *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers pipeline metrics on the
// given registry. A nil registry falls back to the default registerer.
func NewPrometheusRecorder(reg prom.Registerer) *PrometheusRecorder {
	if reg == nil {
		reg = prom.DefaultRegisterer
	}

	r := &PrometheusRecorder{
		stageDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Name:    "docsite_stage_duration_seconds",
			Help:    "Duration of each pipeline stage.",
			Buckets: prom.DefBuckets,
		}, []string{"stage"}),
		pipelineDuration: prom.NewHistogram(prom.HistogramOpts{
			Name:    "docsite_pipeline_duration_seconds",
			Help:    "Total duration of a pipeline run.",
			Buckets: prom.DefBuckets,
		}),
		documents: prom.NewCounter(prom.CounterOpts{
			Name: "docsite_documents_processed_total",
			Help: "Documents that survived the transform phase.",
		}),
		failures: prom.NewCounter(prom.CounterOpts{
			Name: "docsite_transform_failures_total",
			Help: "Documents dropped by per-document transform failures.",
		}),
		references: prom.NewCounterVec(prom.CounterOpts{
			Name: "docsite_references_total",
			Help: "Cross-document references by validity.",
		}, []string{"valid"}),
		outcomes: prom.NewCounterVec(prom.CounterOpts{
			Name: "docsite_pipeline_outcome_total",
			Help: "Pipeline run outcomes.",
		}, []string{"outcome"}),
	}

	reg.MustRegister(r.stageDuration, r.pipelineDuration, r.documents,
		r.failures, r.references, r.outcomes)
	return r
}

func (r *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	r.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (r *PrometheusRecorder) ObservePipelineDuration(d time.Duration) {
	r.pipelineDuration.Observe(d.Seconds())
}

func (r *PrometheusRecorder) AddDocumentsProcessed(n int) {
	r.documents.Add(float64(n))
}

func (r *PrometheusRecorder) AddTransformFailures(n int) {
	r.failures.Add(float64(n))
}

func (r *PrometheusRecorder) AddReferences(valid bool, n int) {
	label := "false"
	if valid {
		label = "true"
	}
	r.references.WithLabelValues(label).Add(float64(n))
}

func (r *PrometheusRecorder) IncPipelineOutcome(outcome string) {
	r.outcomes.WithLabelValues(outcome).Inc()
}
