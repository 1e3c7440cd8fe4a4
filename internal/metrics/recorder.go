package metrics

import "time"

// OutcomeLabel enumerates commit result categories for counters.
type OutcomeLabel string

const (
	OutcomeSuccess OutcomeLabel = "success"
	OutcomeFailure OutcomeLabel = "failure"
)

// Recorder defines observability hooks for commit metrics. Implementations
// may forward to Prometheus, OpenTelemetry, etc. The NoopRecorder is the
// default so components never need nil checks.
type Recorder interface {
	ObserveCommitDuration(d time.Duration)
	ObserveBatchSize(n int)
	IncCommitOutcome(outcome OutcomeLabel)
	IncRecordsCommitted(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveCommitDuration(time.Duration) {}
func (NoopRecorder) ObserveBatchSize(int)                {}
func (NoopRecorder) IncCommitOutcome(OutcomeLabel)       {}
func (NoopRecorder) IncRecordsCommitted(int)             {}
