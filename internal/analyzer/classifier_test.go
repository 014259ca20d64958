package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fetor-sh/fetor/pkg/models"
)

// cleanSummary returns a summary no rule should fire on.
func cleanSummary() *models.NumericalSummary {
	return &models.NumericalSummary{
		FilePath:              "clean.py",
		LinesOfCode:           30,
		Functions:             2,
		DocumentationCoverage: 100,
		CommentPercentage:     15,
		UnitTestPresence:      true,
	}
}

func TestClassifyCleanFile(t *testing.T) {
	report := DefaultClassifier().Classify(cleanSummary())

	assert.Empty(t, report.Findings)
	assert.True(t, report.Labels.IsZero())
	assert.Len(t, report.Labels, len(models.SmellOrder))
}

func TestClassifyBoundaryValuesDoNotFire(t *testing.T) {
	thr := models.DefaultSmellThresholds()
	s := cleanSummary()
	s.MaxFunctionLines = thr.MaxFunctionLines
	s.MaxParameters = thr.MaxParameters
	s.MaxNestingLevel = thr.MaxNesting
	s.ModuleLevelGlobals = thr.ModuleGlobals
	s.GlobalUsages = thr.GlobalUsages
	s.StyleViolations = thr.StyleViolations
	s.CommentCodeMismatchScore = thr.CommentMismatch
	s.ExternalFieldAccessRatio = thr.FieldAccessRatio
	s.NestingVariance = thr.NestingVariance

	report := DefaultClassifier().Classify(s)
	assert.Empty(t, report.Findings)
}

func TestClassifyLongMethod(t *testing.T) {
	s := cleanSummary()
	s.MaxFunctionLines = 80

	report := DefaultClassifier().Classify(s)
	require.Len(t, report.Findings, 1)
	assert.Equal(t, models.SmellLongMethod, report.Findings[0].Type)
	assert.Equal(t, 1, report.Labels[0])
}

func TestClassifyGodClassScenario(t *testing.T) {
	s := cleanSummary()
	s.Classes = 1
	s.InterFileCoupling = 25
	s.AverageMethodsPerClass = 10
	s.MeanLinesPerClass = 200

	report := DefaultClassifier().Classify(s)
	types := findingTypes(report)
	assert.True(t, types[models.SmellGodClass], "god_class not detected: %v", report.Findings)
	assert.False(t, types[models.SmellLazyClass], "a god class is not lazy")
}

func TestClassifyGodClassByHeaviestClass(t *testing.T) {
	s := cleanSummary()
	s.Classes = 1
	s.AverageMethodsPerClass = 25
	s.MeanLinesPerClass = 400
	s.MaxWMC = 60

	report := DefaultClassifier().Classify(s)
	types := findingTypes(report)
	require.True(t, types[models.SmellGodClass], "heavy class not detected: %v", report.Findings)
	assert.Equal(t, "max_wmc", report.Findings[0].Metric)

	// Many simple methods alone do not make a god class.
	s.MaxWMC = 10
	report = DefaultClassifier().Classify(s)
	assert.False(t, findingTypes(report)[models.SmellGodClass],
		"god_class fired for a class of simple methods: %v", report.Findings)
}

func TestClassifyLazyClassRequiresClasses(t *testing.T) {
	s := cleanSummary()
	s.Classes = 0
	s.AverageMethodsPerClass = 0
	s.MeanLinesPerClass = 0

	report := DefaultClassifier().Classify(s)
	assert.False(t, findingTypes(report)[models.SmellLazyClass], "lazy_class fired with no classes present")

	s.Classes = 1
	report = DefaultClassifier().Classify(s)
	assert.True(t, findingTypes(report)[models.SmellLazyClass], "lazy_class should fire for a near-empty class")
}

func TestClassifyPoorDocumentation(t *testing.T) {
	s := cleanSummary()
	s.LinesOfCode = 100
	s.DocumentationCoverage = 5
	s.CommentPercentage = 1

	report := DefaultClassifier().Classify(s)
	assert.True(t, findingTypes(report)[models.SmellPoorDocumentation])

	// Short files are exempt regardless of coverage.
	s.LinesOfCode = 10
	report = DefaultClassifier().Classify(s)
	assert.False(t, findingTypes(report)[models.SmellPoorDocumentation], "short file should be exempt from documentation rules")
}

func TestClassifyUntestedCode(t *testing.T) {
	s := cleanSummary()
	s.LinesOfCode = 120
	s.UnitTestPresence = false
	s.DocumentationCoverage = 100
	s.CommentPercentage = 15

	report := DefaultClassifier().Classify(s)
	assert.True(t, findingTypes(report)[models.SmellUntestedCode])
}

func TestClassifyUnstableModuleSkippedWithoutHistory(t *testing.T) {
	s := cleanSummary()
	s.VCSAvailable = false

	report := DefaultClassifier().Classify(s)
	assert.False(t, findingTypes(report)[models.SmellUnstableModule], "unstable_module must be skipped without history")

	bursts := 9
	s.VCSAvailable = true
	s.CommitBursts = &bursts
	report = DefaultClassifier().Classify(s)
	assert.True(t, findingTypes(report)[models.SmellUnstableModule])
}

func TestClassifySeverityGrading(t *testing.T) {
	s := cleanSummary()
	s.MaxFunctionLines = 200 // 4x the threshold

	report := DefaultClassifier().Classify(s)
	require.NotEmpty(t, report.Findings)
	assert.Equal(t, models.SmellSeverityHigh, report.Findings[0].Severity)

	s.MaxFunctionLines = 55 // just past the threshold
	report = DefaultClassifier().Classify(s)
	require.NotEmpty(t, report.Findings)
	assert.Equal(t, models.SmellSeverityLow, report.Findings[0].Severity)
}

func TestClassifyMultiLabel(t *testing.T) {
	s := cleanSummary()
	s.MaxFunctionLines = 80
	s.MaxParameters = 9
	s.ModuleLevelGlobals = 10

	report := DefaultClassifier().Classify(s)
	assert.Equal(t, 3, report.Summary.TotalFindings)
	set := 0
	for _, b := range report.Labels {
		set += b
	}
	assert.Equal(t, 3, set, "labels set: %v", report.Labels)
}

func findingTypes(report *models.SmellReport) map[models.SmellType]bool {
	types := make(map[models.SmellType]bool)
	for _, f := range report.Findings {
		types[f.Type] = true
	}
	return types
}
