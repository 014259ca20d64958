package analyzer

import (
	"math"

	sitter "github.com/smacker/go-tree-sitter"
	"gonum.org/v1/gonum/stat"

	"github.com/fetor-sh/fetor/pkg/parser"
)

// decisionTypes are the node kinds that add a decision point. Each
// boolean operator counts separately, matching the per-operator rule.
var decisionTypes = map[string]bool{
	"if_statement":           true,
	"elif_clause":            true,
	"for_statement":          true,
	"while_statement":        true,
	"except_clause":          true,
	"with_statement":         true,
	"conditional_expression": true,
	"boolean_operator":       true,
	"for_in_clause":          true,
	"if_clause":              true,
	"assert_statement":       true,
	"case_clause":            true,
}

// nestingTypes are the block constructs that deepen the nesting level.
var nestingTypes = map[string]bool{
	"if_statement":    true,
	"for_statement":   true,
	"while_statement": true,
	"with_statement":  true,
	"try_statement":   true,
	"match_statement": true,
}

// FunctionComplexity holds per-function complexity results.
type FunctionComplexity struct {
	Name            string
	Complexity      int
	MaxNesting      int
	ComplexityRatio float64
}

// ComplexityMetrics aggregates complexity over a file.
type ComplexityMetrics struct {
	Functions           []FunctionComplexity
	TotalDecisionPoints int
	AverageComplexity   float64
	MaxComplexity       int
	MaxRatio            float64
	MeanRatio           float64
	MaxNesting          int
	NestingMean         float64
	NestingVariance     float64
}

// ComplexityAnalyzer computes cyclomatic complexity and nesting depth.
type ComplexityAnalyzer struct{}

// NewComplexityAnalyzer creates a complexity analyzer.
func NewComplexityAnalyzer() *ComplexityAnalyzer {
	return &ComplexityAnalyzer{}
}

// Analyze computes complexity metrics for every function in the index.
func (a *ComplexityAnalyzer) Analyze(idx *FileIndex) *ComplexityMetrics {
	m := &ComplexityMetrics{}

	var complexities, ratios, nestings []float64
	for i := range idx.Functions {
		fn := &idx.Functions[i]
		cc, decisions := functionComplexity(fn.Body, idx.Source)
		nesting := maxNesting(fn.Body)

		ratio := 0.0
		if fn.Lines > 0 {
			ratio = float64(cc) / float64(fn.Lines)
		}

		m.Functions = append(m.Functions, FunctionComplexity{
			Name:            fn.QualifiedName,
			Complexity:      cc,
			MaxNesting:      nesting,
			ComplexityRatio: ratio,
		})

		m.TotalDecisionPoints += decisions
		m.MaxComplexity = max(m.MaxComplexity, cc)
		m.MaxRatio = math.Max(m.MaxRatio, ratio)
		m.MaxNesting = max(m.MaxNesting, nesting)

		complexities = append(complexities, float64(cc))
		ratios = append(ratios, ratio)
		nestings = append(nestings, float64(nesting))
	}

	if len(complexities) > 0 {
		m.AverageComplexity = stat.Mean(complexities, nil)
		m.MeanRatio = stat.Mean(ratios, nil)
		m.NestingMean = stat.Mean(nestings, nil)
		m.NestingVariance = stat.PopVariance(nestings, nil)
	}

	return m
}

// FunctionComplexityFor exposes the per-function computation for callers
// that need a single method's complexity.
func FunctionComplexityFor(body *sitter.Node, source []byte) int {
	cc, _ := functionComplexity(body, source)
	return cc
}

// functionComplexity walks a function body counting decision points.
// Nested definitions are skipped; they carry their own complexity.
func functionComplexity(body *sitter.Node, source []byte) (complexity, decisions int) {
	if body == nil {
		return 1, 0
	}
	parser.WalkTyped(body, source, func(node *sitter.Node, nodeType string, _ []byte) bool {
		if nodeType == "function_definition" || nodeType == "class_definition" {
			return false
		}
		if decisionTypes[nodeType] {
			decisions++
		}
		return true
	})
	return decisions + 1, decisions
}

// maxNesting returns the deepest block nesting inside a function body.
func maxNesting(body *sitter.Node) int {
	if body == nil {
		return 0
	}
	var walk func(node *sitter.Node, depth int) int
	walk = func(node *sitter.Node, depth int) int {
		deepest := depth
		for i := 0; i < int(node.ChildCount()); i++ {
			child := node.Child(i)
			t := child.Type()
			if t == "function_definition" || t == "class_definition" {
				continue
			}
			d := depth
			if nestingTypes[t] {
				d++
			}
			deepest = max(deepest, walk(child, d))
		}
		return deepest
	}
	return walk(body, 0)
}
