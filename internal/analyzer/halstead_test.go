package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHalsteadEmptyModule(t *testing.T) {
	idx := parseIndex(t, "pass\n")

	m := NewHalsteadAnalyzer().Analyze(idx)
	if m.Volume != 0 {
		assert.NotZero(t, m.Vocabulary, "volume without vocabulary: %+v", m)
	}
	assert.LessOrEqual(t, m.EstimatedBugs, 0.01, "trivial module should estimate near-zero bugs")
}

func TestHalsteadCountsOperatorsAndOperands(t *testing.T) {
	idx := parseIndex(t, `
def area(w, h):
    return w * h
`)

	m := NewHalsteadAnalyzer().Analyze(idx)
	assert.NotZero(t, m.DistinctOperands, "expected operands (identifiers)")
	assert.NotZero(t, m.DistinctOperators, "expected operators (* and return)")
	assert.Equal(t, m.TotalOperators+m.TotalOperands, m.Length)
	assert.Equal(t, m.DistinctOperators+m.DistinctOperands, m.Vocabulary)
	assert.Greater(t, m.Volume, 0.0)
}

func TestHalsteadGrowsWithCode(t *testing.T) {
	small := NewHalsteadAnalyzer().Analyze(parseIndex(t, "x = 1\n"))
	large := NewHalsteadAnalyzer().Analyze(parseIndex(t, `
def f(a, b, c):
    total = a + b + c
    if total > 10:
        total = total - 1
    return total * 2
`))

	assert.Greater(t, large.Volume, small.Volume, "volume should grow with code")
	assert.Greater(t, large.Effort, small.Effort, "effort should grow with code")
}

func TestHalsteadDistinctOperatorsByToken(t *testing.T) {
	plus := NewHalsteadAnalyzer().Analyze(parseIndex(t, "y = a + b + c\n"))
	mixed := NewHalsteadAnalyzer().Analyze(parseIndex(t, "y = a + b * c\n"))

	assert.Greater(t, mixed.DistinctOperators, plus.DistinctOperators,
		"mixed operators should be more distinct")
}
