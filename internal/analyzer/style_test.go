package analyzer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStyleLineLengths(t *testing.T) {
	long := strings.Repeat("x", 100)
	idx := parseIndex(t, "short = 1\ny = \""+long+"\"\n")

	m := NewStyleAnalyzer().Analyze(idx)
	assert.GreaterOrEqual(t, m.MaxLineLength, 100)
	assert.Equal(t, 50.0, m.LongLinePercentage)
	assert.Equal(t, 1, m.StyleViolations)
}

func TestStyleMixedIndent(t *testing.T) {
	idx := parseIndex(t, "def f():\n\t  x = 1\n\t  return x\n")

	m := NewStyleAnalyzer().Analyze(idx)
	assert.Equal(t, 2, m.MixedIndentLines)
}

func TestStyleUniformIndentIsRegular(t *testing.T) {
	idx := parseIndex(t, `
def f(x):
    if x:
        return 1
    return 0
`)

	m := NewStyleAnalyzer().Analyze(idx)
	assert.LessOrEqual(t, m.IndentIrregularity, 1.0, "uniform indentation scored irregular")
	assert.Equal(t, 0, m.MixedIndentLines)
}

func TestAbbreviationDensity(t *testing.T) {
	abbreviated := NewStyleAnalyzer().Analyze(parseIndex(t, `
def fn(x, q):
    tmp = x
    return tmp + q
`))
	readable := NewStyleAnalyzer().Analyze(parseIndex(t, `
def compute_total(amount, quantity):
    subtotal = amount
    return subtotal + quantity
`))

	assert.Greater(t, abbreviated.AbbreviationDensity, readable.AbbreviationDensity,
		"abbreviation density should separate naming styles")
}

func TestCommentMismatch(t *testing.T) {
	aligned := NewStyleAnalyzer().Analyze(parseIndex(t, `
# compute total price
def compute_total(price):
    return price * 2
`))
	drifted := NewStyleAnalyzer().Analyze(parseIndex(t, `
# velociraptor containment breach procedures
def compute_total(price):
    return price * 2
`))

	assert.Less(t, aligned.CommentMismatch, drifted.CommentMismatch,
		"mismatch should rank drifted comments higher")
	assert.Equal(t, 1.0, drifted.CommentMismatch, "fully unrelated comment should score 1")
}

func TestCommentMismatchNoComments(t *testing.T) {
	m := NewStyleAnalyzer().Analyze(parseIndex(t, "x = 1\n"))
	assert.Equal(t, 0.0, m.CommentMismatch)
}
