package runlock

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestAcquireRejectsSecondHolder(t *testing.T) {
	lockDir := filepath.Join(t.TempDir(), "locks")
	out := t.TempDir()

	first, err := Acquire(lockDir, out)
	if err != nil {
		t.Fatalf("first Acquire: %v", err)
	}
	if _, err := Acquire(lockDir, out); !errors.Is(err, ErrHeld) {
		t.Fatalf("expected ErrHeld, got %v", err)
	}
	if err := first.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}

	again, err := Acquire(lockDir, out)
	if err != nil {
		t.Fatalf("Acquire after release: %v", err)
	}
	_ = again.Release()
}

func TestDistinctOutputsDoNotConflict(t *testing.T) {
	lockDir := t.TempDir()
	a, err := Acquire(lockDir, filepath.Join(t.TempDir(), "a"))
	if err != nil {
		t.Fatalf("Acquire a: %v", err)
	}
	defer a.Release()
	b, err := Acquire(lockDir, filepath.Join(t.TempDir(), "b"))
	if err != nil {
		t.Fatalf("Acquire b: %v", err)
	}
	defer b.Release()
	if a.Path() == b.Path() {
		t.Fatal("expected distinct lock files")
	}
}

func TestPathForNormalizes(t *testing.T) {
	p1, err := PathFor("/locks", "/data/out/")
	if err != nil {
		t.Fatal(err)
	}
	p2, err := PathFor("/locks", "/data/./out")
	if err != nil {
		t.Fatal(err)
	}
	if p1 != p2 {
		t.Fatalf("expected equal lock paths, got %q and %q", p1, p2)
	}
}

func TestReleaseNil(t *testing.T) {
	var l *Lock
	if err := l.Release(); err != nil {
		t.Fatalf("expected nil release to succeed, got %v", err)
	}
}
