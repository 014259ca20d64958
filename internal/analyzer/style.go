package analyzer

import (
	"strings"
	"unicode"

	sitter "github.com/smacker/go-tree-sitter"
	"gonum.org/v1/gonum/stat"

	"github.com/fetor-sh/fetor/pkg/parser"
)

// longLineLimit is the PEP 8 line length.
const longLineLimit = 79

// StyleMetrics holds formatting and naming measurements.
type StyleMetrics struct {
	AverageLineLength   float64
	MaxLineLength       int
	LongLinePercentage  float64
	StyleViolations     int
	IndentIrregularity  float64
	MixedIndentLines    int
	AbbreviationDensity float64
	CommentMismatch     float64
}

// StyleAnalyzer measures line shape, indentation consistency, identifier
// naming, and comment drift.
type StyleAnalyzer struct{}

// NewStyleAnalyzer creates a style analyzer.
func NewStyleAnalyzer() *StyleAnalyzer {
	return &StyleAnalyzer{}
}

// Analyze computes style metrics for the file.
func (a *StyleAnalyzer) Analyze(idx *FileIndex) *StyleMetrics {
	m := &StyleMetrics{}

	lines := strings.Split(string(idx.Source), "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	longLines := 0
	totalLen := 0
	var indents []float64
	for _, line := range lines {
		length := len(line)
		totalLen += length
		m.MaxLineLength = max(m.MaxLineLength, length)
		if length > longLineLimit {
			longLines++
		}

		indent, mixed := leadingIndent(line)
		if mixed {
			m.MixedIndentLines++
		}
		if indent > 0 && strings.TrimSpace(line) != "" {
			indents = append(indents, float64(indent))
		}
	}

	if len(lines) > 0 {
		m.AverageLineLength = float64(totalLen) / float64(len(lines))
		m.LongLinePercentage = float64(longLines) / float64(len(lines)) * 100
	}

	// Irregularity is the coefficient of variation of indent widths. A
	// file indented in uniform steps still varies, so this only grows
	// large when indentation is genuinely erratic.
	if len(indents) > 1 {
		mean := stat.Mean(indents, nil)
		if mean > 0 {
			m.IndentIrregularity = stat.PopStdDev(indents, nil) / mean
		}
	}

	m.StyleViolations = longLines + m.MixedIndentLines
	m.AbbreviationDensity = a.abbreviationDensity(idx)
	m.CommentMismatch = a.commentMismatch(idx)

	return m
}

// leadingIndent measures the leading whitespace width with tabs counted
// as four columns, and reports whether tabs and spaces are mixed.
func leadingIndent(line string) (width int, mixed bool) {
	sawTab, sawSpace := false, false
	for _, r := range line {
		switch r {
		case ' ':
			width++
			sawSpace = true
		case '\t':
			width += 4
			sawTab = true
		default:
			return width, sawTab && sawSpace
		}
	}
	return width, sawTab && sawSpace
}

// abbreviationDensity is the fraction of distinct identifiers that are
// two characters or shorter, or contain no vowel.
func (a *StyleAnalyzer) abbreviationDensity(idx *FileIndex) float64 {
	names := make(map[string]bool)
	parser.WalkTyped(idx.Root, idx.Source, func(node *sitter.Node, nodeType string, source []byte) bool {
		if nodeType == "identifier" {
			names[parser.GetNodeText(node, source)] = true
		}
		return true
	})
	if len(names) == 0 {
		return 0
	}

	abbreviated := 0
	for name := range names {
		if name == "self" || name == "cls" || name == "_" {
			continue
		}
		if len(name) <= 2 || !containsVowel(name) {
			abbreviated++
		}
	}
	return float64(abbreviated) / float64(len(names))
}

func containsVowel(s string) bool {
	return strings.ContainsAny(strings.ToLower(s), "aeiouy")
}

// commentMismatch scores how little comment vocabulary overlaps the
// identifiers in the file. 0 means every comment word appears in some
// identifier; 1 means none do. Files without comments score 0.
func (a *StyleAnalyzer) commentMismatch(idx *FileIndex) float64 {
	identWords := make(map[string]bool)
	commentWords := make(map[string]bool)

	parser.WalkTyped(idx.Root, idx.Source, func(node *sitter.Node, nodeType string, source []byte) bool {
		switch nodeType {
		case "identifier":
			for _, w := range splitIdentifier(parser.GetNodeText(node, source)) {
				identWords[w] = true
			}
		case "comment":
			for _, w := range commentTokens(parser.GetNodeText(node, source)) {
				commentWords[w] = true
			}
		}
		return true
	})

	if len(commentWords) == 0 {
		return 0
	}

	matched := 0
	for w := range commentWords {
		if identWords[w] {
			matched++
		}
	}
	return 1 - float64(matched)/float64(len(commentWords))
}

// splitIdentifier breaks snake_case and camelCase names into lowercase words.
func splitIdentifier(name string) []string {
	var words []string
	var current strings.Builder
	flush := func() {
		if current.Len() >= 3 {
			words = append(words, strings.ToLower(current.String()))
		}
		current.Reset()
	}
	for _, r := range name {
		switch {
		case r == '_':
			flush()
		case unicode.IsUpper(r) && current.Len() > 0:
			flush()
			current.WriteRune(r)
		default:
			current.WriteRune(r)
		}
	}
	flush()
	return words
}

// commentTokens extracts lowercase alphabetic words of three or more
// characters, dropping short connectives that carry no meaning.
func commentTokens(comment string) []string {
	var words []string
	var current strings.Builder
	flush := func() {
		if current.Len() >= 3 {
			w := strings.ToLower(current.String())
			if !stopWords[w] {
				words = append(words, w)
			}
		}
		current.Reset()
	}
	for _, r := range comment {
		if unicode.IsLetter(r) {
			current.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()
	return words
}

var stopWords = map[string]bool{
	"the": true, "and": true, "for": true, "this": true, "that": true,
	"with": true, "from": true, "are": true, "was": true, "will": true,
	"not": true, "but": true, "has": true, "have": true, "its": true,
	"can": true, "when": true, "then": true, "than": true, "into": true,
	"todo": true, "fixme": true, "note": true,
}
