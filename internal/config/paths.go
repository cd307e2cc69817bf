package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Environment variables that override the default directory layout.
const (
	EnvDoxygenOutputDir = "DOXYGEN_OUTPUT_DIR"
	EnvCodeSourceDir    = "CODE_SOURCE_DIR"
)

// Default locations relative to the docs root when no override is set.
const (
	defaultDoxygenSubdir = "doxygen"
	defaultCodeSubdir    = "../include/observable"
)

// Snapshot is an explicit view of the process environment. Passing it as an
// argument keeps path resolution a pure function and independently testable.
type Snapshot map[string]string

// EnvSnapshot captures the current process environment.
func EnvSnapshot() Snapshot {
	snap := make(Snapshot)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			snap[k] = v
		}
	}
	return snap
}

// Get returns the value for key or the empty string when unset.
func (s Snapshot) Get(key string) string {
	if s == nil {
		return ""
	}
	return s[key]
}

// Paths holds the three resolved directories the pipeline operates on.
// All values are absolute so behavior does not depend on the working
// directory the build was launched from.
type Paths struct {
	DoxygenOutputDir string // where extracted interface XML is written
	CodeSourceDir    string // root of the source tree to extract from
	DocsSourceDir    string // renderer source documents (the docs root itself)
}

// ResolvePaths computes Paths from an environment snapshot and the docs root.
// An override is used verbatim (after absolute normalization); otherwise the
// documented default relative to the docs root applies. Existence of the
// resulting directories is not checked here: a bad source directory surfaces
// when the extractor runs.
func ResolvePaths(env Snapshot, docsRoot string) (Paths, error) {
	docsAbs, err := filepath.Abs(docsRoot)
	if err != nil {
		return Paths{}, fmt.Errorf("resolve docs root: %w", err)
	}

	outputDir := filepath.Join(docsAbs, defaultDoxygenSubdir)
	if v := env.Get(EnvDoxygenOutputDir); v != "" {
		if outputDir, err = filepath.Abs(v); err != nil {
			return Paths{}, fmt.Errorf("resolve %s: %w", EnvDoxygenOutputDir, err)
		}
	}

	codeDir := filepath.Join(docsAbs, defaultCodeSubdir)
	if v := env.Get(EnvCodeSourceDir); v != "" {
		if codeDir, err = filepath.Abs(v); err != nil {
			return Paths{}, fmt.Errorf("resolve %s: %w", EnvCodeSourceDir, err)
		}
	}

	return Paths{
		DoxygenOutputDir: outputDir,
		CodeSourceDir:    codeDir,
		DocsSourceDir:    docsAbs,
	}, nil
}
