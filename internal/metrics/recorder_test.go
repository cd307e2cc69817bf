package metrics

import (
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestPrometheusRecorder_Counters(t *testing.T) {
	reg := prom.NewRegistry()
	rec := NewPrometheusRecorder(reg)

	rec.IncStageResult("extract", ResultSuccess)
	rec.IncStageResult("extract", ResultSuccess)
	rec.IncBuildOutcome("success")
	rec.IncExtractorExit(2)
	rec.ObserveStageDuration("extract", 50*time.Millisecond)
	rec.ObserveBuildDuration(time.Second)

	if got := testutil.ToFloat64(rec.stageResults.WithLabelValues("extract", "success")); got != 2 {
		t.Errorf("stage results = %v, want 2", got)
	}
	if got := testutil.ToFloat64(rec.buildOutcome.WithLabelValues("success")); got != 1 {
		t.Errorf("build outcomes = %v, want 1", got)
	}
	if got := testutil.ToFloat64(rec.extractorExit.WithLabelValues("2")); got != 1 {
		t.Errorf("extractor exits = %v, want 1", got)
	}
}

func TestNilRecorderSafe(t *testing.T) {
	var rec *PrometheusRecorder
	rec.ObserveStageDuration("extract", time.Second)
	rec.ObserveBuildDuration(time.Second)
	rec.IncStageResult("extract", ResultFatal)
	rec.IncBuildOutcome("failed")
	rec.IncExtractorExit(1)
}

func TestNoopRecorder(t *testing.T) {
	var rec Recorder = NoopRecorder{}
	rec.ObserveStageDuration("extract", time.Second)
	rec.IncBuildOutcome("success")
}
