package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"lgdhemis/internal/batch"
	"lgdhemis/internal/config"
	"lgdhemis/internal/deps"
	"lgdhemis/internal/hemis"
	"lgdhemis/internal/labels"
	"lgdhemis/internal/ledger"
	"lgdhemis/internal/logging"
	"lgdhemis/internal/pathmap"
	"lgdhemis/internal/preflight"
	"lgdhemis/internal/runlock"
)

func runBatch(cmd *cobra.Command, ctx *commandContext, opts *runOptions, args []string) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	pattern, workers, err := batchSettings(cmd, cfg, opts)
	if err != nil {
		return err
	}
	inputDir, outputDir, err := resolveDirs(args)
	if err != nil {
		return err
	}
	logger, err := ctx.logger()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprint(out, displayTitle+"\n")

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := preflight.Failed(preflight.RunAll(cfg, inputDir, outputDir)); err != nil {
		return err
	}
	if err := deps.Missing(deps.CheckBinaries(deps.Requirements(cfg))); err != nil {
		return err
	}

	if !opts.noLock {
		lock, err := runlock.Acquire(cfg.LockDir(), outputDir)
		if err != nil {
			return err
		}
		defer func() {
			if err := lock.Release(); err != nil {
				logger.Warn("failed to release run lock",
					logging.String("lock", lock.Path()),
					logging.Error(err),
					logging.String(logging.FieldEventType, "run_lock_release_failed"),
				)
			}
		}()
	}

	pairs, err := pathmap.Discover(inputDir, outputDir, pattern)
	if err != nil {
		return err
	}

	driver, err := hemis.NewDriver(hemis.Options{
		ExtractBinary: cfg.Tools.ExtractWMHemispheres,
		WorkDir:       cfg.Paths.WorkDir,
		Calculator:    labels.NewCalculator(cfg.Tools.Minccalc, nil, logger),
		Logger:        logger,
	})
	if err != nil {
		return err
	}

	summary := batch.New(driver, workers, logger).Run(cmd.Context(), pairs)
	recordRun(cmd, cfg, logger, ledger.RunInfo{InputDir: inputDir, OutputDir: outputDir, Pattern: pattern}, summary)
	printFailures(out, inputDir, summary)
	return summary.Err()
}

// batchSettings merges flag overrides with the configured batch section.
func batchSettings(cmd *cobra.Command, cfg *config.Config, opts *runOptions) (string, int, error) {
	pattern := cfg.Batch.Pattern
	if cmd.Flags().Changed("pattern") {
		pattern = strings.TrimSpace(opts.pattern)
		if err := config.ValidatePattern(pattern); err != nil {
			return "", 0, err
		}
	}
	workers := cfg.Batch.Workers
	if cmd.Flags().Changed("workers") {
		if opts.workers < 0 {
			return "", 0, errors.New("--workers must be >= 0")
		}
		workers = opts.workers
	}
	return pattern, workers, nil
}

func recordRun(cmd *cobra.Command, cfg *config.Config, logger *slog.Logger, info ledger.RunInfo, summary batch.Summary) {
	if !cfg.Ledger.Enabled {
		return
	}
	store, err := ledger.Open(cfg.LedgerPath())
	if err != nil {
		logging.WarnWithContext(logger, "run history unavailable", "ledger_open_failed",
			logging.String("path", cfg.LedgerPath()),
			logging.Error(err),
			logging.String(logging.FieldImpact, "this run is not listed by lgd-hemis history"),
		)
		return
	}
	defer store.Close()
	if err := store.Record(cmd.Context(), info, summary); err != nil {
		logging.WarnWithContext(logger, "failed to record run history", "ledger_record_failed",
			logging.String(logging.FieldRunID, summary.RunID),
			logging.Error(err),
			logging.String(logging.FieldImpact, "this run is not listed by lgd-hemis history"),
		)
	}
}

func printFailures(out io.Writer, inputDir string, summary batch.Summary) {
	fmt.Fprintf(out, "%d succeeded, %d failed\n", summary.Succeeded(), summary.Failed())
	if summary.OK() {
		return
	}
	rows := make([][]string, 0, summary.Failed())
	for _, r := range summary.Results {
		if r.OK() {
			continue
		}
		reason := ""
		if r.Err != nil {
			reason = r.Err.Error()
		}
		rows = append(rows, []string{pathmap.Relative(inputDir, r.Pair.Input), r.FailedAt.String(), reason})
	}
	fmt.Fprintln(out, renderTable("Failed subjects", []string{"Segmentation", "Stage", "Error"}, rows, nil))
}
