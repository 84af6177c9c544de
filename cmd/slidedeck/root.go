package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string

	ctx := newCommandContext(&configFlag)

	rootCmd := &cobra.Command{
		Use:           "slidedeck",
		Short:         "Manage slides and shows",
		Long:          "slidedeck stores slides and shows as documents under a data directory and\nkeeps a SQLite catalog of them for search.",
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
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")

	rootCmd.AddCommand(
		newConfigCommand(),
		newSlideCommand(ctx),
		newShowCommand(ctx),
		newImportCommand(ctx),
		newExportCommand(ctx),
		newSearchCommand(ctx),
		newMediaCommand(ctx),
		newCatalogCommand(ctx),
		newStatusCommand(ctx),
		newLogsCommand(ctx),
	)

	return rootCmd
}
