// Package metrics provides observability hooks for the content pipeline.
//
// The default NoopRecorder makes metrics optional without nil checks at call
// sites; a Prometheus-backed implementation can be injected where the host
// exposes a registry.
package metrics

import "time"

// Recorder defines observability hooks for pipeline metrics. Implementations
// must be safe for concurrent use.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObservePipelineDuration(d time.Duration)
	AddDocumentsProcessed(n int)
	AddTransformFailures(n int)
	AddReferences(valid bool, n int)
	IncPipelineOutcome(outcome string) // outcome: success|warning|failed
}

// NoopRecorder is a Recorder that does nothing (default when metrics are not
// configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) ObservePipelineDuration(time.Duration)      {}
func (NoopRecorder) AddDocumentsProcessed(int)                  {}
func (NoopRecorder) AddTransformFailures(int)                   {}
func (NoopRecorder) AddReferences(bool, int)                    {}
func (NoopRecorder) IncPipelineOutcome(string)                  {}
