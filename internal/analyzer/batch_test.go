package analyzer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fetor-sh/fetor/pkg/config"
)

func batchConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Analysis.History = false
	cfg.Cache.Dir = filepath.Join(t.TempDir(), "cache")
	return cfg
}

func writeBatchFiles(t *testing.T, dir string, n int) []string {
	t.Helper()
	files := make([]string, 0, n)
	for i := 0; i < n; i++ {
		path := filepath.Join(dir, string(rune('a'+i))+".py")
		require.NoError(t, os.WriteFile(path, []byte("def f(x):\n    return x\n"), 0644))
		files = append(files, path)
	}
	return files
}

func TestBatchAnalyzeDirectory(t *testing.T) {
	dir := t.TempDir()
	writeBatchFiles(t, dir, 3)

	pa, err := NewProjectAnalyzer(batchConfig(t))
	require.NoError(t, err)

	report, err := pa.Analyze(context.Background(), []string{dir})
	require.NoError(t, err)

	assert.Equal(t, 3, report.ScannedFiles)
	assert.Len(t, report.Results, 3)
	assert.Equal(t, 0, report.ErrorCount, "errors: %v", report.Errors)

	for _, r := range report.Results {
		require.NotNil(t, r.Smells, "smell classification missing")
		assert.NotEmpty(t, r.Smells.Labels)
	}
}

func TestBatchResultsSortedByPath(t *testing.T) {
	dir := t.TempDir()
	files := writeBatchFiles(t, dir, 4)

	pa, err := NewProjectAnalyzer(batchConfig(t))
	require.NoError(t, err)
	report := pa.AnalyzeFiles(context.Background(), files)

	for i := 1; i < len(report.Results); i++ {
		assert.LessOrEqual(t, report.Results[i-1].Summary.FilePath, report.Results[i].Summary.FilePath,
			"results not sorted")
	}
}

func TestBatchFailingFileDoesNotAbort(t *testing.T) {
	dir := t.TempDir()
	files := writeBatchFiles(t, dir, 2)
	files = append(files, filepath.Join(dir, "missing.py"))

	pa, err := NewProjectAnalyzer(batchConfig(t))
	require.NoError(t, err)
	report := pa.AnalyzeFiles(context.Background(), files)

	assert.Equal(t, 3, report.ScannedFiles)
	assert.Len(t, report.Results, 2)
	assert.Equal(t, 1, report.ErrorCount)
	require.Len(t, report.Errors, 1)
	assert.Equal(t, files[2], report.Errors[0].Path)
}

func TestBatchSmellsCanBeDisabled(t *testing.T) {
	dir := t.TempDir()
	files := writeBatchFiles(t, dir, 1)

	cfg := batchConfig(t)
	cfg.Analysis.Smells = false

	pa, err := NewProjectAnalyzer(cfg)
	require.NoError(t, err)
	report := pa.AnalyzeFiles(context.Background(), files)

	require.Len(t, report.Results, 1)
	assert.Nil(t, report.Results[0].Smells, "smells should be skipped when disabled")
}

func TestBatchUsesCache(t *testing.T) {
	dir := t.TempDir()
	files := writeBatchFiles(t, dir, 1)

	cfg := batchConfig(t)
	pa, err := NewProjectAnalyzer(cfg)
	require.NoError(t, err)

	first := pa.AnalyzeFiles(context.Background(), files)
	second := pa.AnalyzeFiles(context.Background(), files)

	require.Len(t, first.Results, 1)
	require.Len(t, second.Results, 1)
	assert.Equal(t, first.Results[0].Summary.Functions, second.Results[0].Summary.Functions,
		"cached result should match fresh analysis")
}
