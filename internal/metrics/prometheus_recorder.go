package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "hmmpress"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	stageDuration   *prom.HistogramVec
	batchDuration   prom.Histogram
	stageResults    *prom.CounterVec
	batchOutcomes   *prom.CounterVec
	documentResults *prom.CounterVec
	cachedDocuments prom.Gauge
	notifications   *prom.CounterVec
}

// NewPrometheusRecorder constructs the metrics and registers them on reg.
// A nil reg gets a private registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		stageDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual compilation stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"}),
		batchDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_duration_seconds",
			Help:      "Total duration of a compilation batch",
			Buckets:   prom.DefBuckets,
		}),
		stageResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "stage_results_total",
			Help:      "Stage result counts by outcome",
		}, []string{"stage", "result"}),
		batchOutcomes: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "batch_outcomes_total",
			Help:      "Compilation batches by final status",
		}, []string{"outcome"}),
		documentResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "document_results_total",
			Help:      "Compiled documents by result category (ok or error category)",
		}, []string{"category"}),
		cachedDocuments: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "cached_documents",
			Help:      "Number of documents in the cache after the last batch",
		}),
		notifications: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Batch notifications published by result",
		}, []string{"result"}),
	}
	reg.MustRegister(pr.stageDuration, pr.batchDuration, pr.stageResults, pr.batchOutcomes,
		pr.documentResults, pr.cachedDocuments, pr.notifications)
	return pr
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveBatchDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.batchDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncStageResult(stage string, result ResultLabel) {
	if p == nil {
		return
	}
	p.stageResults.WithLabelValues(stage, string(result)).Inc()
}

func (p *PrometheusRecorder) IncBatchOutcome(outcome BatchOutcomeLabel) {
	if p == nil {
		return
	}
	p.batchOutcomes.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) IncDocumentResult(category string) {
	if p == nil {
		return
	}
	p.documentResults.WithLabelValues(category).Inc()
}

func (p *PrometheusRecorder) SetCachedDocuments(n int) {
	if p == nil {
		return
	}
	p.cachedDocuments.Set(float64(n))
}

func (p *PrometheusRecorder) IncNotification(success bool) {
	if p == nil {
		return
	}
	res := "failed"
	if success {
		res = "success"
	}
	p.notifications.WithLabelValues(res).Inc()
}
