package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"lgdhemis/internal/ledger"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var runID string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent batch runs recorded in the ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := ledger.Open(cfg.LedgerPath())
			if err != nil {
				return err
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			if runID != "" {
				subjects, err := store.Subjects(cmd.Context(), runID)
				if err != nil {
					return err
				}
				if len(subjects) == 0 {
					fmt.Fprintf(out, "No subjects recorded for run %s\n", runID)
					return nil
				}
				fmt.Fprintln(out, renderTable(runID, []string{"Segmentation", "Reference", "State", "Failed at", "Duration", "Error"},
					subjectRows(subjects), []columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight}))
				return nil
			}

			runs, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				if !cfg.Ledger.Enabled {
					fmt.Fprintln(out, "No runs recorded (enable [ledger] in the config to keep history)")
				} else {
					fmt.Fprintln(out, "No runs recorded")
				}
				return nil
			}
			fmt.Fprintln(out, renderTable("", []string{"Run", "Started", "Elapsed", "Workers", "OK", "Failed", "Input"},
				runRows(runs), []columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight}))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to list")
	cmd.Flags().StringVar(&runID, "run", "", "Show per-subject results for one run")
	return cmd
}

func runRows(runs []ledger.Run) [][]string {
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		rows = append(rows, []string{
			r.ID,
			r.Started.Local().Format(time.DateTime),
			r.Finished.Sub(r.Started).Round(time.Second).String(),
			strconv.Itoa(r.Workers),
			strconv.Itoa(r.Succeeded),
			strconv.Itoa(r.Failed),
			r.InputDir,
		})
	}
	return rows
}

func subjectRows(subjects []ledger.Subject) [][]string {
	rows := make([][]string, 0, len(subjects))
	for _, s := range subjects {
		rows = append(rows, []string{
			s.Segmentation,
			s.Reference,
			s.State,
			s.FailedAt,
			s.Duration.Round(time.Millisecond).String(),
			s.Error,
		})
	}
	return rows
}
