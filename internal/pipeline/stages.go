package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ddinu/doxybuild/internal/logfields"
	"github.com/ddinu/doxybuild/internal/metrics"
)

// Stage is a discrete unit of work in the documentation build.
type Stage func(ctx context.Context, bs *BuildState) error

// Stage names, in execution order.
const (
	StagePrepare           = "prepare"
	StageFetchSource       = "fetch_source"
	StageInitializedHooks  = "initialized_hooks"
	StageWriteRenderConfig = "write_render_config"
	StageRunRenderer       = "run_renderer"
	StageVerifyLinks       = "verify_links"
)

// StageErrorKind enumerates structured stage error categories.
type StageErrorKind string

const (
	StageErrorFatal    StageErrorKind = "fatal"    // Build must abort.
	StageErrorWarning  StageErrorKind = "warning"  // Non-fatal; record and continue.
	StageErrorCanceled StageErrorKind = "canceled" // Context cancellation.
)

// StageError is a structured error carrying category and underlying cause.
type StageError struct {
	Kind  StageErrorKind
	Stage string
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("%s stage %s: %v", e.Kind, e.Stage, e.Err) }
func (e *StageError) Unwrap() error { return e.Err }

func newFatalStageError(stage string, err error) *StageError {
	return &StageError{Kind: StageErrorFatal, Stage: stage, Err: err}
}
func newWarnStageError(stage string, err error) *StageError {
	return &StageError{Kind: StageErrorWarning, Stage: stage, Err: err}
}
func newCanceledStageError(stage string, err error) *StageError {
	return &StageError{Kind: StageErrorCanceled, Stage: stage, Err: err}
}

type namedStage struct {
	name string
	fn   Stage
}

// runStages executes stages in order, recording timing and stopping on the
// first fatal error. Warnings are recorded and execution continues.
func runStages(ctx context.Context, bs *BuildState, recorder metrics.Recorder, stages []namedStage) error {
	for _, st := range stages {
		select {
		case <-ctx.Done():
			se := newCanceledStageError(st.name, ctx.Err())
			bs.Report.recordError(se)
			recorder.IncStageResult(st.name, metrics.ResultCanceled)
			return se
		default:
		}

		t0 := time.Now()
		err := st.fn(ctx, bs)
		dur := time.Since(t0)
		bs.Report.StageDurations[st.name] = dur
		recorder.ObserveStageDuration(st.name, dur)

		if err == nil {
			recorder.IncStageResult(st.name, metrics.ResultSuccess)
			continue
		}

		var se *StageError
		if !errors.As(err, &se) {
			// Unknown errors are fatal by default.
			se = newFatalStageError(st.name, err)
		}

		switch se.Kind {
		case StageErrorWarning:
			bs.Report.recordWarning(se)
			recorder.IncStageResult(st.name, metrics.ResultWarning)
			slog.Warn("Stage completed with warning", logfields.Stage(st.name), logfields.Error(se.Err))
			continue
		case StageErrorCanceled:
			bs.Report.recordError(se)
			recorder.IncStageResult(st.name, metrics.ResultCanceled)
			return se
		default:
			bs.Report.recordError(se)
			recorder.IncStageResult(st.name, metrics.ResultFatal)
			return se
		}
	}
	return nil
}
