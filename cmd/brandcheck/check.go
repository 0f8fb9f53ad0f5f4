package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/creativeforge/brandcheck/config"
	"github.com/creativeforge/brandcheck/pkg/compliance"
	"github.com/creativeforge/brandcheck/pkg/pipeline"
)

func newCheckCmd() *cobra.Command {
	var (
		guidelinesPath string
		workers        int
		threshold      float64
		jsonOutput     bool
		strict         bool
	)

	cmd := &cobra.Command{
		Use:   "check [assets-dir]",
		Short: "Check a directory of campaign assets and write a compliance report",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			settings, err := loadSettings()
			if err != nil {
				return err
			}
			if guidelinesPath == "" {
				guidelinesPath = settings.GuidelinesPath
			}
			if guidelinesPath == "" {
				return fmt.Errorf("no guidelines document: pass --guidelines or set guidelines_path in the config file")
			}
			if workers == 0 {
				workers = settings.Workers
			}
			if threshold == 0 {
				threshold = settings.PassThreshold
			}

			guidelines, err := compliance.LoadGuidelines(guidelinesPath)
			if err != nil {
				return err
			}

			checker := compliance.NewChecker(guidelines,
				compliance.WithPassThreshold(threshold),
				compliance.WithPaletteSize(settings.PaletteSize),
			)
			runner := pipeline.NewRunner(checker, pipeline.WithWorkers(workers))

			report, err := runner.RunDir(cmd.Context(), dir)
			if err != nil {
				return err
			}

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(report); err != nil {
					return err
				}
			} else {
				printSummary(cmd, report)
			}

			if strict && report.CompliantCount < report.TotalAssets {
				return fmt.Errorf("%d of %d assets non-compliant",
					report.TotalAssets-report.CompliantCount, report.TotalAssets)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&guidelinesPath, "guidelines", "g", "", "Path to the brand guidelines JSON document")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "Parallel asset checks (default from config)")
	cmd.Flags().Float64Var(&threshold, "threshold", 0, "Compliance score threshold (default from config)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the full report as JSON")
	cmd.Flags().BoolVar(&strict, "strict", false, "Exit non-zero if any asset is non-compliant")

	return cmd
}

func newReportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report <compliance_report.json>",
		Short: "Summarize a previously written compliance report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := compliance.ReadReport(args[0])
			if err != nil {
				return err
			}
			printSummary(cmd, report)
			return nil
		},
	}
}

func loadSettings() (*config.Settings, error) {
	filename, err := config.Filename()
	if err != nil {
		return nil, err
	}
	return config.Load(filename)
}

func printSummary(cmd *cobra.Command, report *compliance.Report) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Assets checked:  %d\n", report.TotalAssets)
	fmt.Fprintf(out, "Compliant:       %d\n", report.CompliantCount)
	fmt.Fprintf(out, "Average score:   %.1f\n", report.AverageScore)

	issues := report.RankedIssues()
	if len(issues) > 0 {
		fmt.Fprintln(out, "Most common issues:")
		for _, issue := range issues {
			fmt.Fprintf(out, "  %-18s %d\n", issue.CheckName, issue.Count)
		}
	}
	for _, asset := range report.PerAsset {
		if asset.IsCompliant {
			continue
		}
		fmt.Fprintf(out, "non-compliant: %s (score %.1f)\n", asset.AssetPath, asset.Score)
		for _, check := range asset.Checks {
			if !check.Passed {
				fmt.Fprintf(out, "    %s [%s]: %s\n", check.CheckName, check.Severity, check.Detail)
			}
		}
	}
}
