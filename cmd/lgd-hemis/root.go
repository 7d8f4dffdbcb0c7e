package main

import (
	"github.com/spf13/cobra"

	"lgdhemis/internal/config"
)

type runOptions struct {
	pattern string
	workers int
	noLock  bool
}

func newRootCommand() *cobra.Command {
	ctx := &commandContext{}
	opts := &runOptions{}

	rootCmd := &cobra.Command{
		Use:           "lgd-hemis [flags] <inputdir> <outputdir>",
		Short:         "WM mask extraction for LGD project data",
		Long:          "Extract left and right white matter hemisphere masks from fetal brain segmentations.",
		Version:       version,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, ctx, opts, args)
		},
	}

	flags := rootCmd.Flags()
	flags.StringVarP(&opts.pattern, "pattern", "p", config.DefaultPattern, "Input segmentation files glob")
	flags.IntVarP(&opts.workers, "workers", "j", 0, "Concurrent subjects (0 uses every available CPU)")
	flags.BoolVar(&opts.noLock, "no-lock", false, "Skip the output directory run lock")

	persistent := rootCmd.PersistentFlags()
	persistent.StringVarP(&ctx.configFlag, "config", "c", "", "Configuration file path")
	persistent.StringVar(&ctx.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	persistent.StringVar(&ctx.logFormat, "log-format", "", "Log format (console, json, auto)")

	rootCmd.AddCommand(newPlanCommand(ctx))
	rootCmd.AddCommand(newCheckCommand(ctx))
	rootCmd.AddCommand(newLabelsCommand())
	rootCmd.AddCommand(newHistoryCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
