package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/fetor-sh/fetor/internal/analyzer"
	"github.com/fetor-sh/fetor/internal/output"
	"github.com/fetor-sh/fetor/internal/progress"
	"github.com/fetor-sh/fetor/internal/scanner"
	"github.com/fetor-sh/fetor/pkg/models"
)

var smellsCmd = &cobra.Command{
	Use:   "smells [path...]",
	Short: "Classify Python files against the code smell rules",
	RunE:  runSmells,
}

func init() {
	smellsCmd.Flags().Bool("labels", false, "Show the binary label vector per file")
	smellsCmd.Flags().String("severity", "", "Only show findings at this severity (high, medium, low)")

	rootCmd.AddCommand(smellsCmd)
}

func runSmells(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.Analysis.Smells = true

	showLabels, _ := cmd.Flags().GetBool("labels")
	severityFilter, _ := cmd.Flags().GetString("severity")

	files, err := scanner.NewScanner(cfg).ScanPaths(getPaths(args))
	if err != nil {
		return err
	}
	if len(files) == 0 {
		color.Yellow("No Python files found")
		return nil
	}

	var opts []analyzer.ProjectOption
	var tracker *progress.Tracker
	if !noProgress {
		tracker = progress.NewTracker("Classifying files...", len(files))
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

	if showLabels {
		return outputLabels(formatter, report)
	}

	var rows [][]string
	total, high, medium, low := 0, 0, 0, 0
	for _, r := range report.Results {
		if r.Smells == nil {
			continue
		}
		for _, f := range r.Smells.Findings {
			if severityFilter != "" && string(f.Severity) != severityFilter {
				continue
			}
			total++
			switch f.Severity {
			case models.SmellSeverityHigh:
				high++
			case models.SmellSeverityMedium:
				medium++
			case models.SmellSeverityLow:
				low++
			}

			rows = append(rows, []string{
				r.Summary.FilePath,
				string(f.Type),
				output.SeverityColor(string(f.Severity), string(f.Severity)),
				fmt.Sprintf("%s=%.2f (limit %.2f)", f.Metric, f.Value, f.Threshold),
				truncate(f.Description, 60),
			})
		}
	}

	if len(rows) == 0 && formatter.Format() == output.FormatText {
		color.Green("No code smells detected in %d files", len(report.Results))
		return nil
	}

	table := output.NewTable(
		"Code Smells",
		[]string{"File", "Smell", "Severity", "Trigger", "Description"},
		rows,
		[]string{
			fmt.Sprintf("Total: %d", total),
			fmt.Sprintf("High: %d", high),
			fmt.Sprintf("Medium: %d", medium),
			fmt.Sprintf("Low: %d", low),
			"",
		},
		report,
	)

	return formatter.Output(table)
}

// outputLabels renders one row per file with the fixed-order binary
// label vector.
func outputLabels(formatter *output.Formatter, report *models.BatchReport) error {
	headers := []string{"File"}
	for _, smell := range models.SmellOrder {
		headers = append(headers, string(smell))
	}

	var rows [][]string
	for _, r := range report.Results {
		if r.Smells == nil {
			continue
		}
		row := []string{r.Summary.FilePath}
		for _, b := range r.Smells.Labels {
			row = append(row, itoa(b))
		}
		rows = append(rows, row)
	}

	table := output.NewTable("Smell Labels", headers, rows, nil, report)
	return formatter.Output(table)
}
