package preflight

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"lgdhemis/internal/config"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir, ReadWrite)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
	if !strings.Contains(result.Detail, "read/write ok") {
		t.Fatalf("unexpected detail %q", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"), Read)
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if !strings.Contains(result.Detail, "does not exist") {
		t.Fatalf("unexpected detail %q", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f, Read)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestRunAllSkipsUnsetWorkDir(t *testing.T) {
	cfg := config.Default()
	results := RunAll(&cfg, t.TempDir(), t.TempDir())
	if len(results) != 2 {
		t.Fatalf("expected 2 checks, got %d", len(results))
	}
	if err := Failed(results); err != nil {
		t.Fatalf("expected all checks to pass, got %v", err)
	}

	cfg.Paths.WorkDir = filepath.Join(t.TempDir(), "missing")
	results = RunAll(&cfg, t.TempDir(), t.TempDir())
	if len(results) != 3 {
		t.Fatalf("expected 3 checks, got %d", len(results))
	}
	err := Failed(results)
	if err == nil || !strings.Contains(err.Error(), "Work directory") {
		t.Fatalf("expected work directory failure, got %v", err)
	}
}

func TestFailedMissingInput(t *testing.T) {
	results := RunAll(nil, filepath.Join(t.TempDir(), "absent"), t.TempDir())
	err := Failed(results)
	if err == nil || !strings.Contains(err.Error(), "Input directory") {
		t.Fatalf("expected input directory failure, got %v", err)
	}
}
