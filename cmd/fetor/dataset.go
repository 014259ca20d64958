package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/fetor-sh/fetor/internal/analyzer"
	"github.com/fetor-sh/fetor/internal/output"
	"github.com/fetor-sh/fetor/internal/progress"
	"github.com/fetor-sh/fetor/internal/scanner"
	"github.com/fetor-sh/fetor/pkg/models"
)

var datasetCmd = &cobra.Command{
	Use:   "dataset [path...]",
	Short: "Export per-file metric records as a flat CSV dataset",
	Long: `Dataset analyzes every Python file under the given paths and writes
one CSV record per file. Every record carries the same columns, so the
output loads directly into dataframe or training pipelines. History
columns are left empty for files without git data.`,
	RunE: runDataset,
}

func init() {
	datasetCmd.Flags().Int("workers", 0, "Worker goroutines (0 = 2x NumCPU)")

	rootCmd.AddCommand(datasetCmd)
}

func runDataset(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.Analysis.Smells = false
	if workers, _ := cmd.Flags().GetInt("workers"); workers > 0 {
		cfg.Analysis.Workers = workers
	}

	files, err := scanner.NewScanner(cfg).ScanPaths(getPaths(args))
	if err != nil {
		return err
	}
	files, _ = scanner.FilterBySize(files, cfg.Analysis.MaxFileSize)
	if len(files) == 0 {
		color.Yellow("No Python files found")
		return nil
	}

	var opts []analyzer.ProjectOption
	var tracker *progress.Tracker
	if !noProgress {
		tracker = progress.NewTracker("Building dataset...", len(files))
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

	summaries := make([]*models.NumericalSummary, 0, len(report.Results))
	for i := range report.Results {
		summaries = append(summaries, &report.Results[i].Summary)
	}

	// The dataset is CSV no matter what format was requested elsewhere.
	format := output.ParseFormat(formatFlag)
	if format == output.FormatText || format == output.FormatMarkdown {
		format = output.FormatCSV
	}

	formatter, err := output.NewFormatter(format, outputFile, false)
	if err != nil {
		return err
	}
	defer formatter.Close()

	if err := formatter.Output(&output.SummaryCSV{Summaries: summaries}); err != nil {
		return err
	}

	if report.ErrorCount > 0 {
		color.Yellow("%d files failed and were left out of the dataset", report.ErrorCount)
	}
	return nil
}
