package analyzer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fetor-sh/fetor/pkg/parser"
)

// parseIndex parses in-memory Python source into a FileIndex.
func parseIndex(t *testing.T, source string) *FileIndex {
	t.Helper()

	p := parser.New()
	t.Cleanup(p.Close)

	result, err := p.Parse([]byte(source), "test.py")
	require.NoError(t, err)
	return BuildIndex(result)
}
