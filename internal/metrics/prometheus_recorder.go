package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once             sync.Once
	commitDuration   prom.Histogram
	batchSize        prom.Histogram
	commitOutcomes   *prom.CounterVec
	recordsCommitted prom.Counter
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.commitDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "seedkit",
			Name:      "commit_duration_seconds",
			Help:      "Duration of unit-of-work commits",
			Buckets:   prom.DefBuckets,
		})
		pr.batchSize = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "seedkit",
			Name:      "commit_batch_size",
			Help:      "Number of records prepared per commit",
			Buckets:   []float64{1, 2, 5, 10, 25, 50, 100, 250},
		})
		pr.commitOutcomes = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "seedkit",
			Name:      "commit_outcomes_total",
			Help:      "Commit outcomes by final status",
		}, []string{"outcome"})
		pr.recordsCommitted = prom.NewCounter(prom.CounterOpts{
			Namespace: "seedkit",
			Name:      "records_committed_total",
			Help:      "Total records committed across all batches",
		})
		reg.MustRegister(pr.commitDuration, pr.batchSize, pr.commitOutcomes, pr.recordsCommitted)
	})
	return pr
}

func (pr *PrometheusRecorder) ObserveCommitDuration(d time.Duration) {
	pr.commitDuration.Observe(d.Seconds())
}

func (pr *PrometheusRecorder) ObserveBatchSize(n int) {
	pr.batchSize.Observe(float64(n))
}

func (pr *PrometheusRecorder) IncCommitOutcome(outcome OutcomeLabel) {
	pr.commitOutcomes.WithLabelValues(string(outcome)).Inc()
}

func (pr *PrometheusRecorder) IncRecordsCommitted(n int) {
	pr.recordsCommitted.Add(float64(n))
}
