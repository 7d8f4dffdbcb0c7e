package preflight

import (
	"fmt"
	"strings"

	"lgdhemis/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll checks the input directory for read access and the output and
// workspace roots for write access. The workspace check is skipped when no
// work_dir is configured.
func RunAll(cfg *config.Config, inputDir, outputDir string) []Result {
	results := []Result{
		CheckDirectoryAccess("Input directory", inputDir, Read),
		CheckDirectoryAccess("Output directory", outputDir, ReadWrite),
	}
	if cfg != nil && strings.TrimSpace(cfg.Paths.WorkDir) != "" {
		results = append(results, CheckDirectoryAccess("Work directory", cfg.Paths.WorkDir, ReadWrite))
	}
	return results
}

// Failed joins the details of every failing result into one error.
func Failed(results []Result) error {
	var failed []string
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, fmt.Sprintf("%s: %s", r.Name, r.Detail))
		}
	}
	if len(failed) == 0 {
		return nil
	}
	return fmt.Errorf("preflight failed: %s", strings.Join(failed, "; "))
}
