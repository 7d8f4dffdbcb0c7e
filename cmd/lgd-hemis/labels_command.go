package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"lgdhemis/internal/labels"
)

func newLabelsCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "labels",
		Short:       "Print the tissue label remap table and minccalc expressions",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := make([][]string, 0, len(labels.Rules)+1)
			for i, rule := range labels.Rules {
				rows = append(rows, []string{
					fmt.Sprintf("%d", i+1),
					rule.Name,
					rule.Interval(),
					fmt.Sprintf("%d (%s)", uint8(rule.Class), rule.Class),
				})
			}
			rows = append(rows, []string{
				fmt.Sprintf("%d", len(labels.Rules)+1),
				"otherwise",
				"any",
				fmt.Sprintf("%d (%s)", uint8(labels.Fallback), labels.Fallback),
			})

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable("Label remap (first match wins)",
				[]string{"#", "Rule", "Intensity", "Class"}, rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft}))
			fmt.Fprintf(out, "classify: %s\n", labels.ClassifyExpression())
			fmt.Fprintf(out, "mask:     %s\n", labels.MaskExpression())
			return nil
		},
	}
}
