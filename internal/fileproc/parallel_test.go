package fileproc

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fetor-sh/fetor/pkg/parser"
)

func writePythonFiles(t *testing.T, dir string, n int) []string {
	t.Helper()
	files := make([]string, 0, n)
	for i := 0; i < n; i++ {
		path := filepath.Join(dir, "f"+string(rune('a'+i))+".py")
		require.NoError(t, os.WriteFile(path, []byte("x = 1\n"), 0644))
		files = append(files, path)
	}
	return files
}

func TestMapFiles(t *testing.T) {
	files := writePythonFiles(t, t.TempDir(), 5)

	results, errs := MapFiles(context.Background(), files, 0, func(psr *parser.Parser, path string) (string, error) {
		if _, err := psr.ParseFile(path); err != nil {
			return "", err
		}
		return filepath.Base(path), nil
	}, nil)

	require.Nil(t, errs)
	require.Len(t, results, 5)

	sort.Strings(results)
	assert.Equal(t, "fa.py", results[0])
}

func TestMapFilesEmpty(t *testing.T) {
	results, errs := MapFiles(context.Background(), nil, 0, func(psr *parser.Parser, path string) (int, error) {
		return 0, nil
	}, nil)
	assert.Nil(t, results)
	assert.Nil(t, errs)
}

func TestMapFilesCollectsFileErrors(t *testing.T) {
	dir := t.TempDir()
	files := writePythonFiles(t, dir, 3)
	files = append(files, filepath.Join(dir, "missing.py"))

	results, errs := MapFiles(context.Background(), files, 2, func(psr *parser.Parser, path string) (string, error) {
		if _, err := psr.ParseFile(path); err != nil {
			return "", err
		}
		return path, nil
	}, nil)

	assert.Len(t, results, 3)
	require.NotNil(t, errs)
	require.Len(t, errs.Errors, 1)
	assert.Equal(t, files[3], errs.Errors[0].Path)
}

func TestMapFilesCancellation(t *testing.T) {
	files := writePythonFiles(t, t.TempDir(), 4)

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel before processing starts

	results, errs := MapFiles(ctx, files, 0, func(psr *parser.Parser, path string) (string, error) {
		return path, nil
	}, nil)

	require.NotNil(t, errs, "expected context errors")
	assert.Equal(t, len(files), len(results)+len(errs.Errors),
		"results and errors should cover all files")
}

func TestMapFilesProgress(t *testing.T) {
	files := writePythonFiles(t, t.TempDir(), 4)

	var ticks atomic.Int32
	results, errs := MapFiles(context.Background(), files, 2, func(psr *parser.Parser, path string) (string, error) {
		return path, nil
	}, func() {
		ticks.Add(1)
	})

	require.Nil(t, errs)
	assert.Len(t, results, 4)
	assert.Equal(t, int32(4), ticks.Load())
}

func TestProcessingErrorsMessage(t *testing.T) {
	errs := &ProcessingErrors{}
	assert.False(t, errs.HasErrors())

	errs.Add("a.py", os.ErrNotExist)
	assert.True(t, errs.HasErrors())
	assert.NotEmpty(t, errs.Error())
}
