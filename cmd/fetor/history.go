package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/fetor-sh/fetor/internal/analyzer"
	"github.com/fetor-sh/fetor/internal/output"
	"github.com/fetor-sh/fetor/internal/progress"
)

var historyCmd = &cobra.Command{
	Use:   "history <file>",
	Short: "Show git change history metrics for a single file",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().Int("top-coupled", 5, "Number of co-changed files to show")
	historyCmd.Flags().Int("burst-window", 7, "Sliding window in days for burst detection")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	topCoupled, _ := cmd.Flags().GetInt("top-coupled")
	burstWindow, _ := cmd.Flags().GetInt("burst-window")

	opts := []analyzer.HistoryOption{
		analyzer.WithTimeout(time.Duration(cfg.History.TimeoutSeconds) * time.Second),
		analyzer.WithTopCoupled(topCoupled),
		analyzer.WithBurstWindow(time.Duration(burstWindow) * 24 * time.Hour),
	}

	var spinner *progress.Tracker
	if !noProgress {
		spinner = progress.NewSpinner("Walking git history...")
		opts = append(opts, analyzer.WithHistorySpinner(spinner))
	}

	h, err := analyzer.NewHistoryAnalyzer(opts...).Analyze(cmd.Context(), args[0])
	if spinner != nil {
		spinner.FinishSuccess()
	}
	if err != nil {
		return fmt.Errorf("history analysis failed: %w", err)
	}

	formatter, err := output.NewFormatter(output.ParseFormat(formatFlag), outputFile, cfg.Output.Color)
	if err != nil {
		return err
	}
	defer formatter.Close()

	if !h.Available {
		if formatter.Format() == output.FormatText {
			color.Yellow("No git history available for %s", args[0])
			return nil
		}
		return formatter.Output(h)
	}

	rows := [][]string{
		{"Commits", itoa(h.Commits)},
		{"Authors", itoa(h.Authors)},
		{"Lines added", itoa(h.LinesAdded)},
		{"Lines deleted", itoa(h.LinesDeleted)},
		{"First commit", h.FirstCommit.Format("2006-01-02")},
		{"Last commit", h.LastCommit.Format("2006-01-02")},
		{"Age (days)", itoa(h.AgeDays)},
		{"Max commit burst", itoa(h.CommitBursts)},
	}

	table := output.NewTable(
		fmt.Sprintf("History: %s", h.Path),
		[]string{"Metric", "Value"},
		rows,
		nil,
		h,
	)
	if err := formatter.Output(table); err != nil {
		return err
	}

	if len(h.CoupledFiles) > 0 && formatter.Format() != output.FormatJSON {
		var coupledRows [][]string
		for _, cf := range h.CoupledFiles {
			coupledRows = append(coupledRows, []string{cf.Path, itoa(cf.Commits)})
		}
		coupled := output.NewTable(
			"Frequently Changed Together",
			[]string{"File", "Shared Commits"},
			coupledRows,
			nil,
			nil,
		)
		return formatter.Output(coupled)
	}

	return nil
}
