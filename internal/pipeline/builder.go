// Package pipeline runs the documentation build: extraction over the library
// source, render configuration generation, and the external renderer, as an
// ordered sequence of stages with structured error classification.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/ddinu/doxybuild/internal/config"
	"github.com/ddinu/doxybuild/internal/doxygen"
	"github.com/ddinu/doxybuild/internal/gitfetch"
	"github.com/ddinu/doxybuild/internal/linkverify"
	"github.com/ddinu/doxybuild/internal/logfields"
	"github.com/ddinu/doxybuild/internal/metrics"
	"github.com/ddinu/doxybuild/internal/render"
	"github.com/ddinu/doxybuild/internal/sphinx"
	"github.com/ddinu/doxybuild/internal/workspace"
)

// Hook is a lifecycle callback invoked at the renderer's "initialized" point,
// after preparation and before the renderer processes content. Hooks are
// explicit function values registered on the Builder; the built-in extraction
// hook is registered by New.
type Hook func(ctx context.Context, bs *BuildState) error

// BuildState carries mutable state across stages of a single build.
type BuildState struct {
	Paths   config.Paths // may be repointed by the fetch stage
	SiteDir string       // final rendered site location
	Report  *BuildReport
}

// Builder orchestrates a documentation build.
type Builder struct {
	cfg       *config.Config
	paths     config.Paths
	extractor doxygen.Runner
	renderer  sphinx.Runner
	recorder  metrics.Recorder
	workDir   string // base for source checkouts; defaults to the system temp dir

	initializedHooks []Hook
}

// New creates a Builder with the real extractor and renderer. The extraction
// hook is registered at the initialized lifecycle point; additional hooks can
// be appended with RegisterInitializedHook.
func New(cfg *config.Config, paths config.Paths) *Builder {
	b := &Builder{
		cfg:       cfg,
		paths:     paths,
		extractor: doxygen.ExecRunner{},
		renderer:  sphinx.ExecRunner{Builder: cfg.Render.SphinxBuilder},
		recorder:  metrics.NoopRecorder{},
	}
	b.RegisterInitializedHook(b.runExtraction)
	return b
}

// WithExtractor replaces the extractor runner (used by tests and dry runs).
func (b *Builder) WithExtractor(r doxygen.Runner) *Builder { b.extractor = r; return b }

// WithRenderer replaces the renderer runner.
func (b *Builder) WithRenderer(r sphinx.Runner) *Builder { b.renderer = r; return b }

// WithRecorder attaches a metrics recorder.
func (b *Builder) WithRecorder(rec metrics.Recorder) *Builder { b.recorder = rec; return b }

// WithWorkDir overrides the checkout base directory.
func (b *Builder) WithWorkDir(dir string) *Builder { b.workDir = dir; return b }

// RegisterInitializedHook appends a hook run at the initialized lifecycle
// point, in registration order.
func (b *Builder) RegisterInitializedHook(h Hook) {
	b.initializedHooks = append(b.initializedHooks, h)
}

// Run executes the full build synchronously and returns its report. The
// report is non-nil even on failure. Run does not return until every stage
// (including any child process) has completed or the context is canceled.
func (b *Builder) Run(ctx context.Context) (*BuildReport, error) {
	buildID := uuid.NewString()
	report := newBuildReport(buildID)

	bs := &BuildState{
		Paths:   b.paths,
		SiteDir: b.siteDir(),
		Report:  report,
	}

	slog.Info("Starting documentation build",
		logfields.BuildID(buildID),
		logfields.InputDir(bs.Paths.CodeSourceDir),
		logfields.OutputDir(bs.Paths.DoxygenOutputDir))

	stages := []namedStage{
		{StagePrepare, b.stagePrepare},
		{StageFetchSource, b.stageFetchSource},
		{StageInitializedHooks, b.stageInitializedHooks},
		{StageWriteRenderConfig, b.stageWriteRenderConfig},
		{StageRunRenderer, b.stageRunRenderer},
		{StageVerifyLinks, b.stageVerifyLinks},
	}

	err := runStages(ctx, bs, b.recorder, stages)
	report.finish(err)
	b.recorder.ObserveBuildDuration(report.Duration)
	b.recorder.IncBuildOutcome(report.Outcome)

	if err != nil {
		slog.Error("Build failed",
			logfields.BuildID(buildID),
			logfields.Error(err),
			logfields.DurationMS(float64(report.Duration)/float64(time.Millisecond)))
		return report, err
	}

	slog.Info("Build completed",
		logfields.BuildID(buildID),
		slog.String("outcome", report.Outcome),
		logfields.DurationMS(float64(report.Duration)/float64(time.Millisecond)))
	return report, nil
}

func (b *Builder) siteDir() string {
	dir := b.cfg.Render.SiteOutputDir
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(b.paths.DocsSourceDir, dir)
}

func (b *Builder) stagePrepare(_ context.Context, bs *BuildState) error {
	if err := os.MkdirAll(bs.Paths.DoxygenOutputDir, 0o750); err != nil {
		return fmt.Errorf("failed to create extractor output directory: %w", err)
	}
	if err := os.MkdirAll(bs.SiteDir, 0o750); err != nil {
		return fmt.Errorf("failed to create site output directory: %w", err)
	}
	return nil
}

// stageFetchSource repoints the code source directory at a fresh checkout
// when a source URL is configured. Without a URL the stage is a no-op and
// the resolved local directory is used as-is.
func (b *Builder) stageFetchSource(_ context.Context, bs *BuildState) error {
	if b.cfg.Source.URL == "" {
		return nil
	}

	ws := workspace.NewPersistentManager(b.workDir, "doxybuild-checkout")
	if err := ws.Create(); err != nil {
		return err
	}

	client := gitfetch.NewClient(ws.GetPath())
	checkout, err := client.Fetch(b.cfg.Source.URL, b.cfg.Source.Branch)
	if err != nil {
		return err
	}

	bs.Paths.CodeSourceDir = filepath.Join(checkout, filepath.FromSlash(b.cfg.Source.Subdir))
	slog.Info("Using fetched source checkout", logfields.InputDir(bs.Paths.CodeSourceDir))
	return nil
}

func (b *Builder) stageInitializedHooks(ctx context.Context, bs *BuildState) error {
	for _, hook := range b.initializedHooks {
		if err := hook(ctx, bs); err != nil {
			return err
		}
	}
	return nil
}

// runExtraction is the built-in initialized hook: it blocks until the
// extractor has fully consumed its configuration and terminated.
func (b *Builder) runExtraction(ctx context.Context, bs *BuildState) error {
	opts := doxygen.Options{
		ProjectName: b.cfg.Project.Name,
		InputDir:    bs.Paths.CodeSourceDir,
		OutputDir:   bs.Paths.DoxygenOutputDir,
	}
	err := doxygen.Extract(ctx, b.extractor, opts)
	var exitErr *doxygen.ExitError
	if errors.As(err, &exitErr) {
		b.recorder.IncExtractorExit(exitErr.Code)
	}
	return err
}

func (b *Builder) stageWriteRenderConfig(_ context.Context, bs *BuildState) error {
	_, err := render.WriteConfig(render.Settings{
		Project: b.cfg.Project,
		Render:  b.cfg.Render,
		Paths:   bs.Paths,
	})
	return err
}

func (b *Builder) stageRunRenderer(ctx context.Context, bs *BuildState) error {
	return b.renderer.Run(ctx, bs.Paths.DocsSourceDir, bs.SiteDir)
}

func (b *Builder) stageVerifyLinks(_ context.Context, bs *BuildState) error {
	if !b.cfg.Verify.Links {
		return nil
	}

	broken, err := linkverify.VerifyDir(bs.SiteDir)
	if err != nil {
		return newWarnStageError(StageVerifyLinks, err)
	}
	if len(broken) > 0 {
		for _, l := range broken {
			bs.Report.BrokenLinks = append(bs.Report.BrokenLinks, l.String())
		}
		return newWarnStageError(StageVerifyLinks, fmt.Errorf("%d broken internal links", len(broken)))
	}
	return nil
}
