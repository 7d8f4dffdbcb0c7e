// Package pathmap discovers segmentation volumes under an input root and
// mirrors each onto a path under the output root.
package pathmap

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrNoInputs means the pattern matched nothing under the input root.
var ErrNoInputs = errors.New("no input files matched")

const (
	leftStem  = "wm_left"
	rightStem = "wm_right"
)

// Pair couples a segmentation volume with its mirrored output path.
type Pair struct {
	Input  string
	Output string
}

// Subject returns the directory holding the segmentation.
func (p Pair) Subject() string {
	return filepath.Dir(p.Input)
}

// Discover globs pattern relative to inputDir (** spans directories) and maps
// each matching file to outputDir/<relative path>. The parent directory of
// every output is created. Results are sorted by input path.
func Discover(inputDir, outputDir, pattern string) ([]Pair, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("pattern %q: %w", pattern, doublestar.ErrBadPattern)
	}

	matches, err := doublestar.Glob(os.DirFS(inputDir), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("glob %s in %s: %w", pattern, inputDir, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w %q in %s", ErrNoInputs, pattern, inputDir)
	}
	sort.Strings(matches)

	pairs := make([]Pair, 0, len(matches))
	for _, rel := range matches {
		rel = filepath.FromSlash(rel)
		out := filepath.Join(outputDir, rel)
		if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
			return nil, fmt.Errorf("create output directory for %s: %w", rel, err)
		}
		pairs = append(pairs, Pair{
			Input:  filepath.Join(inputDir, rel),
			Output: out,
		})
	}
	return pairs, nil
}

// HemisphereOutputs returns the left and right mask paths for a mapped
// output: same directory and extension, stems replaced by wm_left/wm_right.
func HemisphereOutputs(output string) (left, right string) {
	return WithStem(output, leftStem), WithStem(output, rightStem)
}

// Template renders both hemisphere outputs as one path for log lines, e.g.
// out/subjA/wm_{left,right}.mnc.
func Template(output string) string {
	return WithStem(output, "wm_{left,right}")
}

// WithStem replaces the file name of path, keeping its directory and final
// extension.
func WithStem(path, stem string) string {
	ext := filepath.Ext(path)
	if ext == filepath.Base(path) {
		// dotfile such as ".mnc" has no extension of its own
		ext = ""
	}
	return filepath.Join(filepath.Dir(path), stem+ext)
}

// Relative returns path relative to root, or path unchanged when it does not
// sit below root.
func Relative(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}
