package metrics

import "time"

// ResultLabel enumerates stage result categories for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultFatal    ResultLabel = "fatal"
	ResultCanceled ResultLabel = "canceled"
)

// OutcomeLabel is the final status of one generation run.
type OutcomeLabel string

const (
	OutcomeWritten   OutcomeLabel = "written"   // build file replaced
	OutcomeUnchanged OutcomeLabel = "unchanged" // identical content, write skipped
	OutcomeFailed    OutcomeLabel = "failed"
	OutcomeCanceled  OutcomeLabel = "canceled"
)

// Recorder defines observability hooks for generation and stage metrics.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObserveGenerationDuration(d time.Duration)
	IncStageResult(stage string, result ResultLabel)
	IncGenerationOutcome(outcome OutcomeLabel)
	// SetEdges records the number of edges per rule in the last plan.
	SetEdges(rule string, n int)
	AddDocumentsScanned(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) ObserveGenerationDuration(time.Duration)    {}
func (NoopRecorder) IncStageResult(string, ResultLabel)         {}
func (NoopRecorder) IncGenerationOutcome(OutcomeLabel)          {}
func (NoopRecorder) SetEdges(string, int)                       {}
func (NoopRecorder) AddDocumentsScanned(int)                    {}
