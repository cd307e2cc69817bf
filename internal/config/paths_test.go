package config

import (
	"path/filepath"
	"testing"
)

func TestResolvePaths_Defaults(t *testing.T) {
	paths, err := ResolvePaths(Snapshot{}, "/repo/docs")
	if err != nil {
		t.Fatalf("ResolvePaths() failed: %v", err)
	}

	if paths.CodeSourceDir != "/repo/include/observable" {
		t.Errorf("CodeSourceDir = %q, want /repo/include/observable", paths.CodeSourceDir)
	}
	if paths.DoxygenOutputDir != "/repo/docs/doxygen" {
		t.Errorf("DoxygenOutputDir = %q, want /repo/docs/doxygen", paths.DoxygenOutputDir)
	}
	if paths.DocsSourceDir != "/repo/docs" {
		t.Errorf("DocsSourceDir = %q, want /repo/docs", paths.DocsSourceDir)
	}
}

func TestResolvePaths_OverridePrecedence(t *testing.T) {
	env := Snapshot{
		EnvDoxygenOutputDir: "/tmp/out",
		EnvCodeSourceDir:    "/srv/code",
	}
	paths, err := ResolvePaths(env, "/repo/docs")
	if err != nil {
		t.Fatalf("ResolvePaths() failed: %v", err)
	}

	if paths.DoxygenOutputDir != "/tmp/out" {
		t.Errorf("DoxygenOutputDir = %q, want /tmp/out", paths.DoxygenOutputDir)
	}
	if paths.CodeSourceDir != "/srv/code" {
		t.Errorf("CodeSourceDir = %q, want /srv/code", paths.CodeSourceDir)
	}
	// Docs source dir is never overridable.
	if paths.DocsSourceDir != "/repo/docs" {
		t.Errorf("DocsSourceDir = %q, want /repo/docs", paths.DocsSourceDir)
	}
}

func TestResolvePaths_OverrideIndependentOfDocsRoot(t *testing.T) {
	env := Snapshot{EnvDoxygenOutputDir: "/tmp/out"}

	for _, root := range []string{"/repo/docs", "/elsewhere/documentation"} {
		paths, err := ResolvePaths(env, root)
		if err != nil {
			t.Fatalf("ResolvePaths(%q) failed: %v", root, err)
		}
		if paths.DoxygenOutputDir != "/tmp/out" {
			t.Errorf("root %q: DoxygenOutputDir = %q, want /tmp/out", root, paths.DoxygenOutputDir)
		}
	}
}

func TestResolvePaths_RelativeOverrideNormalized(t *testing.T) {
	env := Snapshot{EnvDoxygenOutputDir: "build/doxygen"}
	paths, err := ResolvePaths(env, "/repo/docs")
	if err != nil {
		t.Fatalf("ResolvePaths() failed: %v", err)
	}
	if !filepath.IsAbs(paths.DoxygenOutputDir) {
		t.Errorf("expected absolute path, got %q", paths.DoxygenOutputDir)
	}
}

func TestResolvePaths_RelativeDocsRootNormalized(t *testing.T) {
	paths, err := ResolvePaths(Snapshot{}, "docs")
	if err != nil {
		t.Fatalf("ResolvePaths() failed: %v", err)
	}
	for _, p := range []string{paths.DoxygenOutputDir, paths.CodeSourceDir, paths.DocsSourceDir} {
		if !filepath.IsAbs(p) {
			t.Errorf("expected absolute path, got %q", p)
		}
	}
}

// Resolution must be a pure function of its inputs.
func TestResolvePaths_Idempotent(t *testing.T) {
	env := Snapshot{EnvCodeSourceDir: "/srv/code"}

	first, err := ResolvePaths(env, "/repo/docs")
	if err != nil {
		t.Fatalf("first ResolvePaths() failed: %v", err)
	}
	second, err := ResolvePaths(env, "/repo/docs")
	if err != nil {
		t.Fatalf("second ResolvePaths() failed: %v", err)
	}
	if first != second {
		t.Errorf("resolution not idempotent: %+v vs %+v", first, second)
	}
}

func TestSnapshotGet(t *testing.T) {
	var nilSnap Snapshot
	if got := nilSnap.Get("X"); got != "" {
		t.Errorf("nil snapshot Get = %q, want empty", got)
	}
	snap := Snapshot{"X": "1"}
	if got := snap.Get("X"); got != "1" {
		t.Errorf("Get(X) = %q, want 1", got)
	}
	if got := snap.Get("Y"); got != "" {
		t.Errorf("Get(Y) = %q, want empty", got)
	}
}
