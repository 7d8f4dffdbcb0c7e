package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteTree creates every relative path under root as a small placeholder
// volume and returns root.
func WriteTree(t testing.TB, root string, rels ...string) string {
	t.Helper()

	for _, rel := range rels {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir for %s: %v", path, err)
		}
		if err := os.WriteFile(path, []byte("minc"), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
	return root
}

// EntryCount returns the number of entries directly inside dir.
func EntryCount(t testing.TB, dir string) int {
	t.Helper()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read %s: %v", dir, err)
	}
	return len(entries)
}
