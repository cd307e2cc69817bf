// Package daemon keeps the documentation continuously up to date: it watches
// the library source for changes, schedules periodic rebuilds, and serves
// build status and metrics over HTTP.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"
	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/ddinu/doxybuild/internal/config"
	"github.com/ddinu/doxybuild/internal/history"
	"github.com/ddinu/doxybuild/internal/logfields"
	"github.com/ddinu/doxybuild/internal/pipeline"
)

// BuildFunc runs one full documentation build.
type BuildFunc func(ctx context.Context) (*pipeline.BuildReport, error)

// Daemon owns the continuous-build loop.
type Daemon struct {
	cfg   *config.Config
	paths config.Paths
	build BuildFunc

	store     *history.Store // nil disables persistence
	publisher *Publisher     // nil disables event publication

	mu     sync.RWMutex
	latest *pipeline.BuildReport
}

// New creates a daemon. store and publisher may be nil.
func New(cfg *config.Config, paths config.Paths, build BuildFunc, store *history.Store, publisher *Publisher) *Daemon {
	return &Daemon{
		cfg:       cfg,
		paths:     paths,
		build:     build,
		store:     store,
		publisher: publisher,
	}
}

func (d *Daemon) latestReport() *pipeline.BuildReport {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.latest
}

// Run starts the HTTP server, the source watcher, and the rebuild schedule,
// then blocks until ctx is canceled. An initial build runs immediately.
func (d *Daemon) Run(ctx context.Context, registry *prom.Registry) error {
	server := d.newHTTPServer(registry)
	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Status server listening", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	requests := make(chan string, 8)

	// Periodic rebuilds.
	if interval := d.cfg.Daemon.RebuildIntervalDuration(); interval > 0 {
		scheduler, err := gocron.NewScheduler()
		if err != nil {
			return fmt.Errorf("failed to create scheduler: %w", err)
		}
		_, err = scheduler.NewJob(
			gocron.DurationJob(interval),
			gocron.NewTask(func() {
				select {
				case requests <- "schedule":
				default:
				}
			}),
			gocron.WithName("periodic-rebuild"),
		)
		if err != nil {
			return fmt.Errorf("failed to schedule periodic rebuild: %w", err)
		}
		scheduler.Start()
		defer func() { _ = scheduler.Shutdown() }()
		slog.Info("Scheduled periodic rebuilds", slog.Duration("interval", interval))
	}

	// Source watching with debounce.
	debouncer := NewDebouncer(d.cfg.Daemon.DebounceDuration())
	defer debouncer.Stop()

	var watcherEvents <-chan fsnotify.Event
	var watcherErrors <-chan error
	if d.cfg.Daemon.Watch {
		watcher, err := newRecursiveWatcher(d.paths.CodeSourceDir)
		if err != nil {
			return err
		}
		defer func() { _ = watcher.Close() }()
		watcherEvents = watcher.Events
		watcherErrors = watcher.Errors
	}

	// Initial build.
	d.runBuild(ctx, "startup")

	for {
		select {
		case <-ctx.Done():
			slog.Info("Daemon shutting down")
			return nil
		case err := <-serverErr:
			return fmt.Errorf("status server failed: %w", err)
		case reason := <-requests:
			d.runBuild(ctx, reason)
		case event := <-watcherEvents:
			if relevantEvent(event) {
				slog.Debug("Source change detected", logfields.Path(event.Name))
				debouncer.Trigger()
			}
		case err := <-watcherErrors:
			slog.Warn("Watcher error", logfields.Error(err))
		case <-debouncer.C():
			d.runBuild(ctx, "source-change")
		}
	}
}

func (d *Daemon) runBuild(ctx context.Context, reason string) {
	slog.Info("Triggering build", slog.String("reason", reason))

	report, err := d.build(ctx)
	if err != nil {
		slog.Error("Build failed", logfields.Error(err))
	}
	if report == nil {
		return
	}

	d.mu.Lock()
	d.latest = report
	d.mu.Unlock()

	if d.store != nil {
		data, jsonErr := report.JSON()
		if jsonErr != nil {
			slog.Warn("Failed to serialize report for history", logfields.Error(jsonErr))
		}
		rec := history.Record{
			BuildID:    report.BuildID,
			StartedAt:  report.StartedAt,
			FinishedAt: report.StartedAt.Add(report.Duration),
			Outcome:    report.Outcome,
			ReportJSON: data,
		}
		if appendErr := d.store.Append(ctx, rec); appendErr != nil {
			slog.Warn("Failed to record build history", logfields.Error(appendErr))
		}
	}

	if d.publisher != nil {
		if pubErr := d.publisher.PublishReport(report); pubErr != nil {
			slog.Warn("Failed to publish build event", logfields.Error(pubErr))
		}
	}
}

func relevantEvent(event fsnotify.Event) bool {
	return event.Op.Has(fsnotify.Create) ||
		event.Op.Has(fsnotify.Write) ||
		event.Op.Has(fsnotify.Remove) ||
		event.Op.Has(fsnotify.Rename)
}

// newRecursiveWatcher watches root and every directory beneath it.
// fsnotify watches are not recursive on their own.
func newRecursiveWatcher(root string) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
	if err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch source tree %s: %w", root, err)
	}

	slog.Info("Watching source tree for changes", logfields.Path(root))
	return watcher, nil
}
