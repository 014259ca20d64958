package analyzer

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/fetor-sh/fetor/pkg/models"
	"github.com/fetor-sh/fetor/pkg/parser"
)

// FileAnalyzer runs every metric analyzer over a single file and folds
// the results into one flat summary.
type FileAnalyzer struct {
	parser     *parser.Parser
	complexity *ComplexityAnalyzer
	oo         *OOAnalyzer
	callGraph  *CallGraphAnalyzer
	halstead   *HalsteadAnalyzer
	style      *StyleAnalyzer
	history    *HistoryAnalyzer
	ownsParser bool
}

// FileAnalyzerOption configures a FileAnalyzer.
type FileAnalyzerOption func(*FileAnalyzer)

// WithParser reuses an existing parser instead of creating one. The
// caller keeps ownership and must close it.
func WithParser(p *parser.Parser) FileAnalyzerOption {
	return func(a *FileAnalyzer) {
		a.parser = p
		a.ownsParser = false
	}
}

// WithHistory enables git history extraction.
func WithHistory(h *HistoryAnalyzer) FileAnalyzerOption {
	return func(a *FileAnalyzer) {
		a.history = h
	}
}

// NewFileAnalyzer creates a file analyzer. History extraction is off
// unless WithHistory is given.
func NewFileAnalyzer(opts ...FileAnalyzerOption) *FileAnalyzer {
	a := &FileAnalyzer{
		complexity: NewComplexityAnalyzer(),
		oo:         NewOOAnalyzer(),
		callGraph:  NewCallGraphAnalyzer(),
		halstead:   NewHalsteadAnalyzer(),
		style:      NewStyleAnalyzer(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.parser == nil {
		a.parser = parser.New()
		a.ownsParser = true
	}
	return a
}

// Close releases the analyzer's parser if it owns one.
func (a *FileAnalyzer) Close() {
	if a.ownsParser {
		a.parser.Close()
	}
}

// Analyze parses one file and produces its metric summary.
func (a *FileAnalyzer) Analyze(ctx context.Context, path string) (*models.NumericalSummary, error) {
	result, err := a.parser.ParseFile(path)
	if err != nil {
		return nil, err
	}
	return a.analyzeResult(ctx, result)
}

// AnalyzeSource analyzes in-memory source, attributed to path.
func (a *FileAnalyzer) AnalyzeSource(ctx context.Context, source []byte, path string) (*models.NumericalSummary, error) {
	result, err := a.parser.Parse(source, path)
	if err != nil {
		return nil, err
	}
	return a.analyzeResult(ctx, result)
}

func (a *FileAnalyzer) analyzeResult(ctx context.Context, result *parser.ParseResult) (*models.NumericalSummary, error) {
	idx := BuildIndex(result)
	s := &models.NumericalSummary{FilePath: result.Path}

	a.applyStructure(s, idx)
	a.applyComplexity(s, idx)
	a.applyOO(s, idx)
	a.applyCallGraph(s, idx)
	a.applyHalstead(s, idx)
	a.applyStyle(s, idx)
	a.applyTestContext(s, idx)

	if a.history != nil {
		h, err := a.history.Analyze(ctx, result.Path)
		if err != nil {
			return nil, err
		}
		s.ApplyHistory(h)
	}

	a.applyDerived(s)
	return s, nil
}

func (a *FileAnalyzer) applyStructure(s *models.NumericalSummary, idx *FileIndex) {
	s.LinesOfCode = idx.Lines.Total
	s.SourceLines = idx.Lines.Source
	s.CommentLines = idx.Lines.Comment
	s.DocstringLines = idx.Lines.Docstring
	s.BlankLines = idx.Lines.Blank
	s.CommentPercentage = idx.Lines.CommentPercentage()

	s.Classes = len(idx.Classes)
	s.TotalImports = idx.Imports
	s.ModuleLevelGlobals = idx.ModuleLevelGlobals
	s.GlobalUsages = idx.GlobalUsages

	var funcLines, paramCounts []float64
	documented := 0
	var paramNames []string
	for i := range idx.Functions {
		fn := &idx.Functions[i]
		s.Functions++
		if fn.IsMethod {
			s.Methods++
		}
		if fn.IsAsync {
			s.AsyncFunctions++
		}
		if fn.HasDocstring {
			documented++
		}

		s.MaxFunctionLines = max(s.MaxFunctionLines, fn.Lines)
		s.MaxParameters = max(s.MaxParameters, len(fn.Params))
		funcLines = append(funcLines, float64(fn.Lines))
		paramCounts = append(paramCounts, float64(len(fn.Params)))
		paramNames = append(paramNames, fn.Params...)
	}

	if s.Functions > 0 {
		s.MeanFunctionLines = stat.Mean(funcLines, nil)
		s.MeanParameters = stat.Mean(paramCounts, nil)
		s.DocumentationCoverage = float64(documented) / float64(s.Functions) * 100
	}
	s.ParameterNameEntropy = nameEntropy(paramNames)
}

func (a *FileAnalyzer) applyComplexity(s *models.NumericalSummary, idx *FileIndex) {
	m := a.complexity.Analyze(idx)
	s.TotalDecisionPoints = m.TotalDecisionPoints
	s.AverageCyclomaticComplexity = m.AverageComplexity
	s.MaxCyclomaticComplexity = m.MaxComplexity
	s.MaxCyclomaticRatio = m.MaxRatio
	s.MeanCyclomaticRatio = m.MeanRatio
	s.MaxNestingLevel = m.MaxNesting
	s.NestingMean = m.NestingMean
	s.NestingVariance = m.NestingVariance
}

func (a *FileAnalyzer) applyOO(s *models.NumericalSummary, idx *FileIndex) {
	m := a.oo.Analyze(idx)
	s.TotalWMC = m.TotalWMC
	s.MaxWMC = m.MaxWMC
	s.MeanLCOM = m.MeanLCOM
	s.MaxLCOM = m.MaxLCOM
	s.MeanRFC = m.MeanRFC
	s.MaxCBO = m.MaxCBO
	s.InterFileCoupling = m.InterFileCoupling
	s.MaxDIT = m.MaxDIT
	s.TotalAttributes = m.TotalAttributes
	s.AttributeMutationsOutsideInit = m.MutationsOutsideInit
	s.MethodsAttributesRatio = m.MethodsAttributesRatio
	s.AverageMethodsPerClass = m.AverageMethodsPerClass
	s.MeanLinesPerClass = m.MeanLinesPerClass
	s.MaxLinesPerClass = m.MaxLinesPerClass
	s.ClassesWithInheritance = m.ClassesWithInheritance
	s.GodClassProxies = m.GodClassProxies
	s.ExternalFieldAccessRatio = m.ExternalFieldAccessRatio
}

func (a *FileAnalyzer) applyCallGraph(s *models.NumericalSummary, idx *FileIndex) {
	m := a.callGraph.Analyze(idx)
	s.CallGraphNodes = m.Nodes
	s.CallGraphEdges = m.Edges
	s.CallGraphDensity = m.Density
	s.MaxCallDepth = m.MaxDepth
	s.MaxFanIn = m.MaxFanIn
	s.MaxFanOut = m.MaxFanOut
	s.CrossFileCallEdges = m.CrossFileEdges
}

func (a *FileAnalyzer) applyHalstead(s *models.NumericalSummary, idx *FileIndex) {
	m := a.halstead.Analyze(idx)
	s.HalsteadVolume = m.Volume
	s.HalsteadDifficulty = m.Difficulty
	s.HalsteadEffort = m.Effort
	s.HalsteadEstimatedBugs = m.EstimatedBugs
	s.HalsteadVocabulary = m.Vocabulary
	s.HalsteadLength = m.Length
}

func (a *FileAnalyzer) applyStyle(s *models.NumericalSummary, idx *FileIndex) {
	m := a.style.Analyze(idx)
	s.AverageLineLength = m.AverageLineLength
	s.MaxLineLength = m.MaxLineLength
	s.LongLinePercentage = m.LongLinePercentage
	s.StyleViolations = m.StyleViolations
	s.IndentationIrregularity = m.IndentIrregularity
	s.MixedIndentLines = m.MixedIndentLines
	s.AbbreviationDensity = m.AbbreviationDensity
	s.CommentCodeMismatchScore = m.CommentMismatch
}

// applyTestContext looks for a sibling test file following the common
// test_name.py or name_test.py conventions.
func (a *FileAnalyzer) applyTestContext(s *models.NumericalSummary, idx *FileIndex) {
	dir := filepath.Dir(idx.Path)
	base := filepath.Base(idx.Path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	// The file may itself be a test.
	if strings.HasPrefix(stem, "test_") || strings.HasSuffix(stem, "_test") {
		s.UnitTestPresence = true
		s.TestToSourceRatio = 1
		return
	}

	for _, candidate := range []string{
		filepath.Join(dir, "test_"+base),
		filepath.Join(dir, stem+"_test.py"),
		filepath.Join(dir, "tests", "test_"+base),
	} {
		data, err := os.ReadFile(candidate)
		if err != nil {
			continue
		}
		s.UnitTestPresence = true
		if idx.Lines.Total > 0 {
			testLines := strings.Count(string(data), "\n")
			s.TestToSourceRatio = float64(testLines) / float64(idx.Lines.Total)
		}
		return
	}
}

// applyDerived fills the indicator fields computed from other metrics.
func (a *FileAnalyzer) applyDerived(s *models.NumericalSummary) {
	t := models.DefaultSmellThresholds()
	s.LongMethod = s.MaxFunctionLines > t.MaxFunctionLines ||
		s.MaxCyclomaticRatio > t.ComplexityPerLine ||
		s.MaxNestingLevel > t.MaxNesting
	s.LargeParameterList = s.MaxParameters > t.MaxParameters ||
		s.ParameterNameEntropy > t.ParameterEntropy
	s.MaintainabilityScore = maintainabilityScore(s)
}

// maintainabilityScore is a coarse 0 to 100 health heuristic.
func maintainabilityScore(s *models.NumericalSummary) float64 {
	score := 100.0

	switch {
	case s.LinesOfCode > 200:
		score -= 20
	case s.LinesOfCode > 100:
		score -= 10
	}

	switch {
	case s.AverageCyclomaticComplexity > 20:
		score -= 20
	case s.AverageCyclomaticComplexity > 10:
		score -= 10
	}

	coverage := s.DocumentationCoverage / 100
	switch {
	case coverage > 0.8:
		score += 10
	case coverage < 0.3:
		score -= 15
	}

	return math.Min(100, math.Max(0, score))
}

// nameEntropy is the Shannon entropy of the name distribution in bits.
// Repetitive naming scores low; varied naming scores high.
func nameEntropy(names []string) float64 {
	if len(names) == 0 {
		return 0
	}
	counts := make(map[string]int)
	for _, n := range names {
		counts[n]++
	}

	total := float64(len(names))
	entropy := 0.0
	for _, c := range counts {
		p := float64(c) / total
		entropy -= p * math.Log2(p)
	}
	return entropy
}
