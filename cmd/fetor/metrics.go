package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fetor-sh/fetor/internal/analyzer"
	"github.com/fetor-sh/fetor/internal/output"
)

var metricsCmd = &cobra.Command{
	Use:   "metrics <file>",
	Short: "Show the full metric record for a single file",
	Args:  cobra.ExactArgs(1),
	RunE:  runMetrics,
}

func init() {
	rootCmd.AddCommand(metricsCmd)
}

func runMetrics(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	opts := []analyzer.FileAnalyzerOption{}
	if cfg.Analysis.History {
		opts = append(opts, analyzer.WithHistory(analyzer.NewHistoryAnalyzer()))
	}

	fa := analyzer.NewFileAnalyzer(opts...)
	defer fa.Close()

	s, err := fa.Analyze(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	formatter, err := output.NewFormatter(output.ParseFormat(formatFlag), outputFile, cfg.Output.Color)
	if err != nil {
		return err
	}
	defer formatter.Close()

	rows := [][]string{
		{"Lines of code", itoa(s.LinesOfCode)},
		{"Source lines", itoa(s.SourceLines)},
		{"Comment lines", itoa(s.CommentLines)},
		{"Docstring lines", itoa(s.DocstringLines)},
		{"Functions", itoa(s.Functions)},
		{"Methods", itoa(s.Methods)},
		{"Classes", itoa(s.Classes)},
		{"Imports", itoa(s.TotalImports)},
		{"Avg cyclomatic complexity", ftoa(s.AverageCyclomaticComplexity)},
		{"Max cyclomatic complexity", itoa(s.MaxCyclomaticComplexity)},
		{"Max nesting level", itoa(s.MaxNestingLevel)},
		{"Max function lines", itoa(s.MaxFunctionLines)},
		{"Max parameters", itoa(s.MaxParameters)},
		{"Documentation coverage", ftoa(s.DocumentationCoverage) + "%"},
		{"Call graph nodes/edges", fmt.Sprintf("%d/%d", s.CallGraphNodes, s.CallGraphEdges)},
		{"Cross-file call edges", itoa(s.CrossFileCallEdges)},
		{"Halstead volume", ftoa(s.HalsteadVolume)},
		{"Style violations", itoa(s.StyleViolations)},
		{"Unit test present", fmt.Sprintf("%t", s.UnitTestPresence)},
		{"Maintainability score", ftoa(s.MaintainabilityScore)},
	}

	if s.VCSAvailable {
		rows = append(rows,
			[]string{"Commits", itoa(*s.CommitCount)},
			[]string{"Authors", itoa(*s.AuthorCount)},
			[]string{"Commit bursts", itoa(*s.CommitBursts)},
		)
	}

	table := output.NewTable(
		fmt.Sprintf("Metrics: %s", s.FilePath),
		[]string{"Metric", "Value"},
		rows,
		nil,
		s,
	)
	return formatter.Output(table)
}
