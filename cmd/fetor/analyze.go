package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/fetor-sh/fetor/internal/analyzer"
	"github.com/fetor-sh/fetor/internal/output"
	"github.com/fetor-sh/fetor/internal/progress"
	"github.com/fetor-sh/fetor/internal/scanner"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [path...]",
	Short: "Extract metrics and detect smells across Python files",
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().Int("workers", 0, "Worker goroutines (0 = 2x NumCPU)")
	analyzeCmd.Flags().Bool("no-smells", false, "Skip smell classification")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if workers, _ := cmd.Flags().GetInt("workers"); workers > 0 {
		cfg.Analysis.Workers = workers
	}
	if skip, _ := cmd.Flags().GetBool("no-smells"); skip {
		cfg.Analysis.Smells = false
	}

	files, err := scanner.NewScanner(cfg).ScanPaths(getPaths(args))
	if err != nil {
		return err
	}
	files, skipped := scanner.FilterBySize(files, cfg.Analysis.MaxFileSize)
	if len(files) == 0 {
		color.Yellow("No Python files found")
		return nil
	}
	if skipped > 0 {
		color.Yellow("Skipped %d oversized files", skipped)
	}

	var opts []analyzer.ProjectOption
	var tracker *progress.Tracker
	if !noProgress {
		tracker = progress.NewTracker("Analyzing files...", len(files))
		opts = append(opts, analyzer.WithTracker(tracker))
	}

	pa, err := analyzer.NewProjectAnalyzer(cfg, opts...)
	if err != nil {
		return err
	}

	report := pa.AnalyzeFiles(cmd.Context(), files)
	if tracker != nil {
		tracker.FinishSuccess()
	}

	formatter, err := output.NewFormatter(output.ParseFormat(formatFlag), outputFile, cfg.Output.Color)
	if err != nil {
		return err
	}
	defer formatter.Close()

	var rows [][]string
	for _, r := range report.Results {
		s := r.Summary

		findings := "0"
		if r.Smells != nil && r.Smells.Summary.TotalFindings > 0 {
			findings = color.YellowString("%d", r.Smells.Summary.TotalFindings)
			if r.Smells.Summary.HighCount > 0 {
				findings = color.RedString("%d", r.Smells.Summary.TotalFindings)
			}
		}

		rows = append(rows, []string{
			s.FilePath,
			itoa(s.LinesOfCode),
			itoa(s.Functions),
			itoa(s.Classes),
			ftoa(s.AverageCyclomaticComplexity),
			findings,
			ftoa(s.MaintainabilityScore),
		})
	}

	table := output.NewTable(
		"Analysis Results",
		[]string{"File", "Lines", "Functions", "Classes", "Avg CC", "Smells", "Score"},
		rows,
		[]string{
			fmt.Sprintf("Files: %d", report.ScannedFiles),
			"", "", "", "",
			fmt.Sprintf("Errors: %d", report.ErrorCount),
			"",
		},
		report,
	)

	if err := formatter.Output(table); err != nil {
		return err
	}

	if report.ErrorCount > 0 && formatter.Format() == output.FormatText {
		color.Yellow("Failed files (%d):", report.ErrorCount)
		for _, e := range report.Errors {
			fmt.Printf("  - %s: %s\n", e.Path, truncate(e.Message, 80))
		}
	}

	return nil
}
