package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/ddinu/doxybuild/internal/config"
	"github.com/ddinu/doxybuild/internal/daemon"
	"github.com/ddinu/doxybuild/internal/doxygen"
	"github.com/ddinu/doxybuild/internal/history"
	"github.com/ddinu/doxybuild/internal/logfields"
	"github.com/ddinu/doxybuild/internal/metrics"
	"github.com/ddinu/doxybuild/internal/pipeline"
	"github.com/ddinu/doxybuild/internal/render"
)

var CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"doxybuild.yaml"`
	Docs    string `short:"d" help:"Documentation source directory" default:"docs"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Build struct{} `cmd:"" help:"Run extraction, write the renderer configuration and render the site"`

	Extract struct{} `cmd:"" help:"Run the interface extractor only"`

	RenderConfig struct{} `cmd:"" name:"render-config" help:"Write the renderer configuration only"`

	Init struct {
		Force bool `help:"Overwrite existing configuration file"`
	} `cmd:"" help:"Initialize a new configuration file"`

	Daemon struct{} `cmd:"" help:"Continuously rebuild on source changes and serve build status"`
}

func main() {
	ctx := kong.Parse(&CLI)

	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	switch ctx.Command() {
	case "build":
		cfg, paths, ok := loadConfigAndPaths()
		if !ok {
			os.Exit(1)
		}
		if err := runBuild(cfg, paths); err != nil {
			slog.Error("Build failed", logfields.Error(err))
			os.Exit(1)
		}
	case "extract":
		cfg, paths, ok := loadConfigAndPaths()
		if !ok {
			os.Exit(1)
		}
		if err := runExtract(cfg, paths); err != nil {
			slog.Error("Extraction failed", logfields.Error(err))
			os.Exit(1)
		}
	case "render-config":
		cfg, paths, ok := loadConfigAndPaths()
		if !ok {
			os.Exit(1)
		}
		if _, err := render.WriteConfig(render.Settings{Project: cfg.Project, Render: cfg.Render, Paths: paths}); err != nil {
			slog.Error("Failed to write renderer configuration", logfields.Error(err))
			os.Exit(1)
		}
	case "init":
		if err := config.Init(CLI.Config, CLI.Init.Force); err != nil {
			slog.Error("Init failed", logfields.Error(err))
			os.Exit(1)
		}
		slog.Info("Wrote configuration file", logfields.Path(CLI.Config))
	case "daemon":
		cfg, paths, ok := loadConfigAndPaths()
		if !ok {
			os.Exit(1)
		}
		if err := runDaemon(cfg, paths); err != nil {
			slog.Error("Daemon failed", logfields.Error(err))
			os.Exit(1)
		}
	}
}

func loadConfigAndPaths() (*config.Config, config.Paths, bool) {
	cfg, err := config.LoadOrDefault(CLI.Config)
	if err != nil {
		slog.Error("Failed to load configuration", logfields.Error(err))
		return nil, config.Paths{}, false
	}

	paths, err := config.ResolvePaths(config.EnvSnapshot(), CLI.Docs)
	if err != nil {
		slog.Error("Failed to resolve paths", logfields.Error(err))
		return nil, config.Paths{}, false
	}
	return cfg, paths, true
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func runBuild(cfg *config.Config, paths config.Paths) error {
	ctx, cancel := signalContext()
	defer cancel()

	_, err := pipeline.New(cfg, paths).Run(ctx)
	return err
}

func runExtract(cfg *config.Config, paths config.Paths) error {
	ctx, cancel := signalContext()
	defer cancel()

	if err := os.MkdirAll(paths.DoxygenOutputDir, 0o750); err != nil {
		return err
	}
	return doxygen.Extract(ctx, doxygen.ExecRunner{}, doxygen.Options{
		ProjectName: cfg.Project.Name,
		InputDir:    paths.CodeSourceDir,
		OutputDir:   paths.DoxygenOutputDir,
	})
}

func runDaemon(cfg *config.Config, paths config.Paths) error {
	ctx, cancel := signalContext()
	defer cancel()

	registry := prom.NewRegistry()
	recorder := metrics.NewPrometheusRecorder(registry)
	builder := pipeline.New(cfg, paths).WithRecorder(recorder)

	store, err := history.NewStore(cfg.Daemon.HistoryPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = store.Close()
	}()

	var publisher *daemon.Publisher
	if cfg.Daemon.NATSURL != "" {
		publisher, err = daemon.NewPublisher(cfg.Daemon.NATSURL, cfg.Daemon.NATSSubject)
		if err != nil {
			return err
		}
		defer publisher.Close()
	}

	d := daemon.New(cfg, paths, builder.Run, store, publisher)
	return d.Run(ctx, registry)
}
