package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultsApplied(t *testing.T) {
	cfg := Default()

	if cfg.Project.Name != "Observable" {
		t.Errorf("Project.Name = %q", cfg.Project.Name)
	}
	if cfg.Render.MasterDoc != "index" {
		t.Errorf("Render.MasterDoc = %q", cfg.Render.MasterDoc)
	}
	if cfg.Render.Theme != "alabaster" {
		t.Errorf("Render.Theme = %q", cfg.Render.Theme)
	}
	if cfg.Render.PygmentsStyle != "xcode" {
		t.Errorf("Render.PygmentsStyle = %q", cfg.Render.PygmentsStyle)
	}
	if !cfg.Render.ThemeOptions.GithubButton {
		t.Error("expected github button enabled when user and repo are set")
	}
	if cfg.Render.ThemeOptions.FontFamily != "Helvetica, Arial, sans-serif" {
		t.Errorf("FontFamily = %q", cfg.Render.ThemeOptions.FontFamily)
	}
	want := []string{"globaltoc.html", "searchbox.html"}
	got := cfg.Render.Sidebars["**"]
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("Sidebars[**] = %v, want %v", got, want)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doxybuild.yaml")
	content := `
project:
  name: Widgets
  github_user: acme
  github_repo: widgets
daemon:
  debounce: 5s
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Project.Name != "Widgets" {
		t.Errorf("Project.Name = %q, want Widgets", cfg.Project.Name)
	}
	// Theme options inherit project identity fields.
	if cfg.Render.ThemeOptions.GithubUser != "acme" {
		t.Errorf("ThemeOptions.GithubUser = %q, want acme", cfg.Render.ThemeOptions.GithubUser)
	}
	if d := cfg.Daemon.DebounceDuration(); d != 5*time.Second {
		t.Errorf("DebounceDuration() = %v, want 5s", d)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestLoadOrDefault_MissingFileFallsBack(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadOrDefault() failed: %v", err)
	}
	if cfg.Project.Name != "Observable" {
		t.Errorf("Project.Name = %q, want default", cfg.Project.Name)
	}
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("DOXYBUILD_TEST_PROJECT", "Expanded")

	dir := t.TempDir()
	path := filepath.Join(dir, "doxybuild.yaml")
	if err := os.WriteFile(path, []byte("project:\n  name: ${DOXYBUILD_TEST_PROJECT}\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Project.Name != "Expanded" {
		t.Errorf("Project.Name = %q, want Expanded", cfg.Project.Name)
	}
}

func TestDaemonDurations_Defaults(t *testing.T) {
	var d DaemonConfig
	if got := d.DebounceDuration(); got != 2*time.Second {
		t.Errorf("DebounceDuration() = %v, want 2s", got)
	}
	if got := d.RebuildIntervalDuration(); got != 0 {
		t.Errorf("RebuildIntervalDuration() = %v, want 0", got)
	}
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doxybuild.yaml")

	if err := Init(path, false); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	if err := Init(path, false); err == nil {
		t.Fatal("expected error when file exists and force is false")
	}
	if err := Init(path, true); err != nil {
		t.Fatalf("Init(force) failed: %v", err)
	}

	// The starter file must load cleanly.
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load(starter) failed: %v", err)
	}
	if !cfg.Daemon.Watch {
		t.Error("starter config should enable daemon watch")
	}
}
