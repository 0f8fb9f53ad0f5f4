package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/creativeforge/brandcheck/config"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "brandcheck",
		Short:         "Validate campaign creatives against brand guidelines",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	cmd.AddCommand(newCheckCmd())
	cmd.AddCommand(newReportCmd())
	cmd.AddCommand(newVersionCmd())
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show brandcheck version",
		RunE: func(cmd *cobra.Command, args []string) error {
			version := config.AppVersion
			if version == "" {
				version = "dev"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "brandcheck %s\n", version)
			return nil
		},
	}
}
