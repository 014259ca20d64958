package analyzer

import (
	"fmt"

	"github.com/fetor-sh/fetor/pkg/models"
)

// Classifier evaluates the smell rules against a metric summary. Every
// comparison is strict, so a value equal to its threshold never fires.
type Classifier struct {
	thresholds models.SmellThresholds
}

// NewClassifier creates a classifier with the given thresholds.
func NewClassifier(thresholds models.SmellThresholds) *Classifier {
	return &Classifier{thresholds: thresholds}
}

// DefaultClassifier creates a classifier with the canonical thresholds.
func DefaultClassifier() *Classifier {
	return NewClassifier(models.DefaultSmellThresholds())
}

// Classify runs every rule over a summary. The report always carries a
// full label vector, all zeros when the file is clean. The unstable
// module rule is skipped entirely when no history is available.
func (c *Classifier) Classify(s *models.NumericalSummary) *models.SmellReport {
	report := models.NewSmellReport(s.FilePath)
	t := c.thresholds

	// Long method: any one oversized dimension is enough.
	switch {
	case s.MaxFunctionLines > t.MaxFunctionLines:
		c.add(report, models.SmellLongMethod, "max_function_lines",
			float64(s.MaxFunctionLines), float64(t.MaxFunctionLines),
			fmt.Sprintf("longest function spans %d lines", s.MaxFunctionLines))
	case s.MaxCyclomaticRatio > t.ComplexityPerLine:
		c.add(report, models.SmellLongMethod, "max_cyclomatic_ratio",
			s.MaxCyclomaticRatio, t.ComplexityPerLine,
			"complexity per line is excessive for at least one function")
	case s.MaxNestingLevel > t.MaxNesting:
		c.add(report, models.SmellLongMethod, "max_nesting_level",
			float64(s.MaxNestingLevel), float64(t.MaxNesting),
			fmt.Sprintf("blocks nest %d levels deep", s.MaxNestingLevel))
	}

	switch {
	case s.MaxParameters > t.MaxParameters:
		c.add(report, models.SmellLargeParameterList, "max_parameters",
			float64(s.MaxParameters), float64(t.MaxParameters),
			fmt.Sprintf("a function takes %d parameters", s.MaxParameters))
	case s.ParameterNameEntropy > t.ParameterEntropy:
		c.add(report, models.SmellLargeParameterList, "parameter_name_entropy",
			s.ParameterNameEntropy, t.ParameterEntropy,
			"parameter naming is unusually scattered")
	}

	if s.Classes > 0 {
		switch {
		case s.MaxWMC > t.GodClassWMC:
			c.add(report, models.SmellGodClass, "max_wmc",
				float64(s.MaxWMC), float64(t.GodClassWMC),
				fmt.Sprintf("the heaviest class carries a weighted method count of %d", s.MaxWMC))
		case s.InterFileCoupling > t.GodClassCoupling:
			c.add(report, models.SmellGodClass, "inter_file_coupling",
				float64(s.InterFileCoupling), float64(t.GodClassCoupling),
				fmt.Sprintf("file couples to %d other modules", s.InterFileCoupling))
		case s.CrossFileCallEdges > t.GodClassCrossCalls:
			c.add(report, models.SmellGodClass, "cross_file_call_edges",
				float64(s.CrossFileCallEdges), float64(t.GodClassCrossCalls),
				fmt.Sprintf("%d calls reach into other modules", s.CrossFileCallEdges))
		case s.AverageCyclomaticComplexity > t.GodClassComplexity:
			c.add(report, models.SmellGodClass, "average_cyclomatic_complexity",
				s.AverageCyclomaticComplexity, t.GodClassComplexity,
				"class logic is uniformly complex")
		}

		if s.AverageMethodsPerClass < t.LazyMethodsPerClass &&
			s.MeanLinesPerClass < t.LazyClassLines {
			c.add(report, models.SmellLazyClass, "average_methods_per_class",
				s.AverageMethodsPerClass, t.LazyMethodsPerClass,
				"classes carry too little behavior to justify themselves")
		}
	}

	if s.Functions > 0 {
		switch {
		case s.AverageCyclomaticComplexity > t.SpaghettiComplexity:
			c.add(report, models.SmellSpaghettiCode, "average_cyclomatic_complexity",
				s.AverageCyclomaticComplexity, t.SpaghettiComplexity,
				"control flow is tangled across the file")
		case s.NestingVariance > t.NestingVariance:
			c.add(report, models.SmellSpaghettiCode, "nesting_variance",
				s.NestingVariance, t.NestingVariance,
				"nesting depth swings wildly between functions")
		}
	}

	if s.LinesOfCode > t.MinDocumentedLines {
		switch {
		case s.DocumentationCoverage < t.DocCoverage:
			c.add(report, models.SmellPoorDocumentation, "documentation_coverage",
				s.DocumentationCoverage, t.DocCoverage,
				fmt.Sprintf("only %.0f%% of functions carry docstrings", s.DocumentationCoverage))
		case s.CommentPercentage < t.CommentPercentage:
			c.add(report, models.SmellPoorDocumentation, "comment_percentage",
				s.CommentPercentage, t.CommentPercentage,
				"the file is nearly comment free")
		}
	}

	if s.CommentCodeMismatchScore > t.CommentMismatch {
		c.add(report, models.SmellMisleadingComments, "comment_code_mismatch_score",
			s.CommentCodeMismatchScore, t.CommentMismatch,
			"comments share almost no vocabulary with the code")
	}

	switch {
	case s.ModuleLevelGlobals > t.ModuleGlobals:
		c.add(report, models.SmellGlobalStateAbuse, "module_level_globals",
			float64(s.ModuleLevelGlobals), float64(t.ModuleGlobals),
			fmt.Sprintf("%d mutable module globals", s.ModuleLevelGlobals))
	case s.GlobalUsages > t.GlobalUsages:
		c.add(report, models.SmellGlobalStateAbuse, "global_usages",
			float64(s.GlobalUsages), float64(t.GlobalUsages),
			fmt.Sprintf("global statements used %d times", s.GlobalUsages))
	}

	switch {
	case s.ExternalFieldAccessRatio > t.FieldAccessRatio:
		c.add(report, models.SmellFeatureEnvy, "external_field_access_ratio",
			s.ExternalFieldAccessRatio, t.FieldAccessRatio,
			"code reaches into foreign objects far more than its own")
	case s.CrossFileCallEdges > t.FeatureEnvyCrossCalls:
		c.add(report, models.SmellFeatureEnvy, "cross_file_call_edges",
			float64(s.CrossFileCallEdges), float64(t.FeatureEnvyCrossCalls),
			"most interesting work happens in other modules")
	}

	if s.LinesOfCode > t.UntestedMinLines && !s.UnitTestPresence {
		c.add(report, models.SmellUntestedCode, "unit_test_presence",
			0, 1,
			fmt.Sprintf("%d lines with no companion test file", s.LinesOfCode))
	}

	switch {
	case s.StyleViolations > t.StyleViolations:
		c.add(report, models.SmellFormattingIssues, "style_violations",
			float64(s.StyleViolations), float64(t.StyleViolations),
			fmt.Sprintf("%d style violations", s.StyleViolations))
	case s.IndentationIrregularity > t.IndentIrregularity:
		c.add(report, models.SmellFormattingIssues, "indentation_irregularity",
			s.IndentationIrregularity, t.IndentIrregularity,
			"indentation is inconsistent across the file")
	}

	if s.VCSAvailable {
		switch {
		case s.CommitBursts != nil && *s.CommitBursts > t.CommitBursts:
			c.add(report, models.SmellUnstableModule, "commit_bursts",
				float64(*s.CommitBursts), float64(t.CommitBursts),
				fmt.Sprintf("%d commits landed within one window", *s.CommitBursts))
		case s.LinesAdded != nil && *s.LinesAdded > t.LifetimeLinesAdded:
			c.add(report, models.SmellUnstableModule, "lines_added",
				float64(*s.LinesAdded), float64(t.LifetimeLinesAdded),
				fmt.Sprintf("%d lines added over the file's lifetime", *s.LinesAdded))
		}
	}

	return report
}

// add appends a finding with a severity graded by how far the value
// overshoots its threshold.
func (c *Classifier) add(report *models.SmellReport, smell models.SmellType, metric string, value, threshold float64, desc string) {
	report.AddFinding(models.SmellFinding{
		Type:        smell,
		Severity:    severityFor(smell, value, threshold),
		Metric:      metric,
		Value:       value,
		Threshold:   threshold,
		Description: desc,
	})
}

// severityFor grades a finding. Rules that fire on a value below the
// threshold (lazy class, poor documentation) use the inverse ratio.
func severityFor(smell models.SmellType, value, threshold float64) models.SmellSeverity {
	ratio := 0.0
	switch smell {
	case models.SmellLazyClass, models.SmellPoorDocumentation:
		if value <= 0 {
			return models.SmellSeverityHigh
		}
		ratio = threshold / value
	case models.SmellUntestedCode:
		return models.SmellSeverityMedium
	default:
		if threshold > 0 {
			ratio = value / threshold
		} else if value > 0 {
			ratio = 2
		}
	}

	switch {
	case ratio >= 2:
		return models.SmellSeverityHigh
	case ratio >= 1.5:
		return models.SmellSeverityMedium
	default:
		return models.SmellSeverityLow
	}
}
