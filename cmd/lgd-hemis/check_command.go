package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"lgdhemis/internal/deps"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Report whether the external MINC tools are available",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			statuses := deps.CheckBinaries(deps.Requirements(cfg))
			rows := make([][]string, 0, len(statuses))
			for _, s := range statuses {
				location := s.Path
				if !s.Available {
					location = s.Detail
				}
				rows = append(rows, []string{s.Name, yesNo(s.Available), location, s.Description})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable("", []string{"Tool", "Available", "Location", "Purpose"}, rows, nil))
			return deps.Missing(statuses)
		},
	}
}
