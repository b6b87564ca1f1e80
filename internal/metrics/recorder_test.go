package metrics

import (
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder_RegistersAndCounts(t *testing.T) {
	reg := prom.NewRegistry()
	r := NewPrometheusRecorder(reg)

	r.AddDocumentsProcessed(3)
	r.AddTransformFailures(1)
	r.AddReferences(true, 2)
	r.AddReferences(false, 1)
	r.IncPipelineOutcome("success")
	r.ObserveStageDuration("transform", 50*time.Millisecond)
	r.ObservePipelineDuration(120 * time.Millisecond)

	families, err := reg.Gather()
	require.NoError(t, err)

	byName := map[string]bool{}
	for _, f := range families {
		byName[f.GetName()] = true
	}
	require.True(t, byName["docsite_documents_processed_total"])
	require.True(t, byName["docsite_transform_failures_total"])
	require.True(t, byName["docsite_references_total"])
	require.True(t, byName["docsite_pipeline_outcome_total"])
	require.True(t, byName["docsite_stage_duration_seconds"])
	require.True(t, byName["docsite_pipeline_duration_seconds"])
}

func TestNoopRecorder_IsSafe(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.AddDocumentsProcessed(1)
	r.AddReferences(true, 1)
	r.IncPipelineOutcome("success")
	r.ObserveStageDuration("x", time.Second)
}
