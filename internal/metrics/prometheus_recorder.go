package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "docgraph"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once               sync.Once
	stageDuration      *prom.HistogramVec
	generationDuration prom.Histogram
	stageResults       *prom.CounterVec
	outcomes           *prom.CounterVec
	edges              *prom.GaugeVec
	documentsScanned   prom.Counter
	lastSuccess        prom.Gauge
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.stageDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual generation stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"})
		pr.generationDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "generation_duration_seconds",
			Help:      "Total duration of a generation run",
			Buckets:   prom.DefBuckets,
		})
		pr.stageResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "stage_results_total",
			Help:      "Stage result counts by outcome",
		}, []string{"stage", "result"})
		pr.outcomes = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "generation_outcomes_total",
			Help:      "Generation runs by final status",
		}, []string{"outcome"})
		pr.edges = prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "plan_edges",
			Help:      "Edges per rule in the last generated build file",
		}, []string{"rule"})
		pr.documentsScanned = prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "documents_scanned_total",
			Help:      "Pages and fragments read while assembling",
		})
		pr.lastSuccess = prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful generation",
		})
		reg.MustRegister(pr.stageDuration, pr.generationDuration, pr.stageResults, pr.outcomes, pr.edges, pr.documentsScanned, pr.lastSuccess)
	})
	return pr
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil || p.stageDuration == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveGenerationDuration(d time.Duration) {
	if p == nil || p.generationDuration == nil {
		return
	}
	p.generationDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncStageResult(stage string, result ResultLabel) {
	if p == nil || p.stageResults == nil {
		return
	}
	p.stageResults.WithLabelValues(stage, string(result)).Inc()
}

func (p *PrometheusRecorder) IncGenerationOutcome(outcome OutcomeLabel) {
	if p == nil || p.outcomes == nil {
		return
	}
	p.outcomes.WithLabelValues(string(outcome)).Inc()
	if outcome == OutcomeWritten || outcome == OutcomeUnchanged {
		p.lastSuccess.SetToCurrentTime()
	}
}

func (p *PrometheusRecorder) SetEdges(rule string, n int) {
	if p == nil || p.edges == nil {
		return
	}
	p.edges.WithLabelValues(rule).Set(float64(n))
}

func (p *PrometheusRecorder) AddDocumentsScanned(n int) {
	if p == nil || p.documentsScanned == nil {
		return
	}
	p.documentsScanned.Add(float64(n))
}
