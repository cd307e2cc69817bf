package workspace

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestManager_EphemeralMode(t *testing.T) {
	tempBase := t.TempDir()
	mgr := NewManager(tempBase)

	if err := mgr.Create(); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	wsPath := mgr.GetPath()
	if wsPath == "" {
		t.Fatal("GetPath() returned empty string")
	}
	if !strings.Contains(filepath.Base(wsPath), "doxybuild-") {
		t.Errorf("Expected timestamped directory, got: %s", wsPath)
	}
	if _, err := os.Stat(wsPath); os.IsNotExist(err) {
		t.Errorf("Workspace directory does not exist: %s", wsPath)
	}

	if err := mgr.Cleanup(); err != nil {
		t.Fatalf("Cleanup() failed: %v", err)
	}
	if _, err := os.Stat(wsPath); !os.IsNotExist(err) {
		t.Errorf("Workspace directory still exists after cleanup: %s", wsPath)
	}
}

func TestManager_PersistentMode(t *testing.T) {
	tempBase := t.TempDir()
	mgr := NewPersistentManager(tempBase, "working")

	if err := mgr.Create(); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	wsPath := mgr.GetPath()
	if wsPath != filepath.Join(tempBase, "working") {
		t.Errorf("unexpected path: %s", wsPath)
	}

	markerFile := filepath.Join(wsPath, "marker.txt")
	if err := os.WriteFile(markerFile, []byte("persistent"), 0o600); err != nil {
		t.Fatalf("Failed to create marker file: %v", err)
	}

	// Cleanup should NOT remove directory in persistent mode
	if err := mgr.Cleanup(); err != nil {
		t.Fatalf("Cleanup() failed: %v", err)
	}
	if _, err := os.Stat(markerFile); os.IsNotExist(err) {
		t.Error("Marker file was removed from persistent workspace")
	}
}

func TestManager_CreateSubdir(t *testing.T) {
	mgr := NewManager(t.TempDir())
	if _, err := mgr.CreateSubdir("source"); err == nil {
		t.Fatal("expected error before Create()")
	}

	if err := mgr.Create(); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	defer func() { _ = mgr.Cleanup() }()

	subdir, err := mgr.CreateSubdir("source")
	if err != nil {
		t.Fatalf("CreateSubdir() failed: %v", err)
	}
	if _, err := os.Stat(subdir); os.IsNotExist(err) {
		t.Errorf("Subdirectory does not exist: %s", subdir)
	}
}
