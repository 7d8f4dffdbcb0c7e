package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"lgdhemis/internal/companion"
	"lgdhemis/internal/config"
	"lgdhemis/internal/pathmap"
)

func newPlanCommand(ctx *commandContext) *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "plan <inputdir> <outputdir>",
		Short: "Show which subjects a run would process without invoking any tool",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			pattern, _, err := batchSettings(cmd, cfg, opts)
			if err != nil {
				return err
			}
			inputDir, outputDir, err := resolveDirs(args)
			if err != nil {
				return err
			}
			pairs, err := pathmap.Discover(inputDir, outputDir, pattern)
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(pairs))
			ready := 0
			for _, pair := range pairs {
				row := planRow(inputDir, outputDir, pair)
				if row[3] == "ready" {
					ready++
				}
				rows = append(rows, row)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable("", []string{"Segmentation", "Reference", "Outputs", "Status"}, rows, nil))
			fmt.Fprintf(out, "%d of %d subjects ready\n", ready, len(pairs))
			return nil
		},
	}
	cmd.Flags().StringVarP(&opts.pattern, "pattern", "p", config.DefaultPattern, "Input segmentation files glob")
	return cmd
}

func planRow(inputDir, outputDir string, pair pathmap.Pair) []string {
	seg := pathmap.Relative(inputDir, pair.Input)
	outputs := pathmap.Relative(outputDir, pathmap.Template(pair.Output))

	ref, err := companion.Find(pair.Input)
	switch {
	case err == nil:
		return []string{seg, filepath.Base(ref), outputs, "ready"}
	case errors.Is(err, companion.ErrTooMany):
		candidates, _ := companion.Candidates(pair.Input)
		return []string{seg, fmt.Sprintf("%d candidates", len(candidates)), outputs, "ambiguous"}
	case errors.Is(err, companion.ErrNotFound):
		return []string{seg, "-", outputs, "missing reference"}
	default:
		return []string{seg, "-", outputs, err.Error()}
	}
}
