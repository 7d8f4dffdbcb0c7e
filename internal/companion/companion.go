// Package companion locates the anatomical reference image that sits next to
// a segmentation volume.
package companion

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var (
	// ErrNotFound means the subject directory holds no reference candidate.
	ErrNotFound = errors.New("reference image not found")
	// ErrTooMany means the subject directory holds more than one candidate.
	ErrTooMany = errors.New("too many files")
)

// Find returns the single regular file in seg's directory that shares seg's
// extension and is not seg itself. Every subject directory is expected to
// hold exactly the segmentation and its reference image.
func Find(seg string) (string, error) {
	candidates, err := Candidates(seg)
	if err != nil {
		return "", err
	}
	dir := filepath.Dir(seg)
	switch len(candidates) {
	case 0:
		return "", fmt.Errorf("%w in %s", ErrNotFound, dir)
	case 1:
		return candidates[0], nil
	default:
		return "", fmt.Errorf("%w in %s", ErrTooMany, dir)
	}
}

// Candidates lists the sibling files Find chooses from, sorted by name.
func Candidates(seg string) ([]string, error) {
	dir := filepath.Dir(seg)
	name := filepath.Base(seg)
	ext := filepath.Ext(seg)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}

	var out []string
	for _, entry := range entries {
		if entry.Name() == name || !strings.HasSuffix(entry.Name(), ext) {
			continue
		}
		if !isRegular(dir, entry) {
			continue
		}
		out = append(out, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(out)
	return out, nil
}

func isRegular(dir string, entry os.DirEntry) bool {
	if entry.Type().IsRegular() {
		return true
	}
	if entry.Type()&os.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(filepath.Join(dir, entry.Name()))
	return err == nil && info.Mode().IsRegular()
}
