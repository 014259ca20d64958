package analyzer

import (
	"math"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/fetor-sh/fetor/pkg/parser"
)

// operandTypes are leaf nodes counted as Halstead operands.
var operandTypes = map[string]bool{
	"identifier": true,
	"integer":    true,
	"float":      true,
	"string":     true,
	"true":       true,
	"false":      true,
	"none":       true,
}

// operatorFieldTypes are expression nodes whose operator token sits in
// the "operator" field.
var operatorFieldTypes = map[string]bool{
	"binary_operator":      true,
	"boolean_operator":     true,
	"unary_operator":       true,
	"augmented_assignment": true,
}

// operatorTypes are nodes counted as one operator under their own kind.
var operatorTypes = map[string]bool{
	"comparison_operator":    true,
	"not_operator":           true,
	"assignment":             true,
	"conditional_expression": true,
	"call":                   true,
	"subscript":              true,
	"attribute":              true,
	"lambda":                 true,
	"await":                  true,
	"if_statement":           true,
	"for_statement":          true,
	"while_statement":        true,
	"return_statement":       true,
	"yield":                  true,
}

// HalsteadMetrics holds Halstead complexity measures for a file.
type HalsteadMetrics struct {
	DistinctOperators int
	DistinctOperands  int
	TotalOperators    int
	TotalOperands     int
	Vocabulary        int
	Length            int
	Volume            float64
	Difficulty        float64
	Effort            float64
	EstimatedBugs     float64
}

// HalsteadAnalyzer counts operators and operands over the whole file.
type HalsteadAnalyzer struct{}

// NewHalsteadAnalyzer creates a Halstead analyzer.
func NewHalsteadAnalyzer() *HalsteadAnalyzer {
	return &HalsteadAnalyzer{}
}

// Analyze computes Halstead metrics from the file's syntax tree.
func (a *HalsteadAnalyzer) Analyze(idx *FileIndex) *HalsteadMetrics {
	operators := make(map[string]int)
	operands := make(map[string]int)

	parser.WalkTyped(idx.Root, idx.Source, func(node *sitter.Node, nodeType string, source []byte) bool {
		switch {
		case operandTypes[nodeType]:
			operands[parser.GetNodeText(node, source)]++
		case operatorFieldTypes[nodeType]:
			op := nodeType
			if opNode := node.ChildByFieldName("operator"); opNode != nil {
				op = parser.GetNodeText(opNode, source)
			}
			operators[op]++
		case operatorTypes[nodeType]:
			operators[nodeType]++
		}
		return true
	})

	m := &HalsteadMetrics{
		DistinctOperators: len(operators),
		DistinctOperands:  len(operands),
	}
	for _, n := range operators {
		m.TotalOperators += n
	}
	for _, n := range operands {
		m.TotalOperands += n
	}

	m.Vocabulary = m.DistinctOperators + m.DistinctOperands
	m.Length = m.TotalOperators + m.TotalOperands

	if m.Vocabulary > 0 {
		m.Volume = float64(m.Length) * math.Log2(float64(m.Vocabulary))
	}
	if m.DistinctOperands > 0 {
		m.Difficulty = float64(m.DistinctOperators) / 2 *
			float64(m.TotalOperands) / float64(m.DistinctOperands)
	}
	m.Effort = m.Difficulty * m.Volume
	m.EstimatedBugs = m.Volume / 3000

	return m
}
