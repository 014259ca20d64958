package analyzer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const aggregateSample = `"""Utility module."""
import os


def ensure_dir(path):
    """Create a directory if missing."""
    if not os.path.exists(path):
        os.makedirs(path)
    return path


def remove_dir(path):
    """Remove a directory tree."""
    if os.path.exists(path):
        os.removedirs(path)
`

func TestFileAnalyzerSummary(t *testing.T) {
	fa := NewFileAnalyzer()
	defer fa.Close()

	s, err := fa.AnalyzeSource(context.Background(), []byte(aggregateSample), "util.py")
	require.NoError(t, err)

	assert.Equal(t, "util.py", s.FilePath)
	assert.Equal(t, 2, s.Functions)
	assert.Equal(t, 0, s.Classes)
	assert.Equal(t, 1, s.TotalImports)
	assert.Equal(t, float64(100), s.DocumentationCoverage)
	assert.Equal(t, 2, s.MaxCyclomaticComplexity)
	assert.Greater(t, s.CrossFileCallEdges, 0, "expected cross-file call edges into os")
	assert.Greater(t, s.HalsteadVolume, 0.0)
	assert.False(t, s.VCSAvailable, "history disabled, summary must not claim VCS data")
	assert.Nil(t, s.CommitCount, "history fields must stay null when history is off")
}

func TestFileAnalyzerDerivedIndicators(t *testing.T) {
	fa := NewFileAnalyzer()
	defer fa.Close()

	source := "def f(a1, b2, c3, d4, e5, f6, g7):\n    return a1\n"
	s, err := fa.AnalyzeSource(context.Background(), []byte(source), "wide.py")
	require.NoError(t, err)

	assert.True(t, s.LargeParameterList, "7 parameters should set the large parameter list indicator")
	assert.False(t, s.LongMethod, "a 2-line function is not a long method")
}

func TestMaintainabilityScoreBounds(t *testing.T) {
	fa := NewFileAnalyzer()
	defer fa.Close()

	s, err := fa.AnalyzeSource(context.Background(), []byte(aggregateSample), "util.py")
	require.NoError(t, err)

	assert.GreaterOrEqual(t, s.MaintainabilityScore, 0.0)
	assert.LessOrEqual(t, s.MaintainabilityScore, 100.0)
	// Small, fully documented module should score at the top.
	assert.Equal(t, float64(100), s.MaintainabilityScore)
}

func TestUnitTestSiblingDetection(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "mod.py")
	require.NoError(t, os.WriteFile(src, []byte("x = 1\ny = 2\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "test_mod.py"), []byte("def test_x():\n    pass\n"), 0644))

	fa := NewFileAnalyzer()
	defer fa.Close()

	s, err := fa.Analyze(context.Background(), src)
	require.NoError(t, err)

	assert.True(t, s.UnitTestPresence, "sibling test_mod.py not detected")
	assert.Greater(t, s.TestToSourceRatio, 0.0)
}

func TestNameEntropy(t *testing.T) {
	assert.Equal(t, 0.0, nameEntropy(nil))
	assert.Equal(t, 0.0, nameEntropy([]string{"x", "x", "x"}))
	assert.Equal(t, 2.0, nameEntropy([]string{"a", "b", "c", "d"}))
}
