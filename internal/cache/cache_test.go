package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fetor-sh/fetor/pkg/models"
)

func TestSummaryRoundTrip(t *testing.T) {
	c, err := New(t.TempDir(), 1, true)
	require.NoError(t, err)

	summary := &models.NumericalSummary{
		FilePath:    "app.py",
		LinesOfCode: 42,
		Functions:   3,
	}
	hash := HashBytes([]byte("content"))

	require.NoError(t, c.SetSummary("app.py", hash, summary))

	got, ok := c.GetSummary("app.py", hash)
	require.True(t, ok, "expected cache hit")
	assert.Equal(t, 42, got.LinesOfCode)
	assert.Equal(t, 3, got.Functions)
}

func TestStaleHashMisses(t *testing.T) {
	c, err := New(t.TempDir(), 1, true)
	require.NoError(t, err)

	summary := &models.NumericalSummary{FilePath: "app.py"}
	require.NoError(t, c.SetSummary("app.py", HashBytes([]byte("v1")), summary))

	_, ok := c.GetSummary("app.py", HashBytes([]byte("v2")))
	assert.False(t, ok, "expected miss after content change")
}

func TestDisabledCacheIsNoop(t *testing.T) {
	c, err := New("", 1, false)
	require.NoError(t, err)

	assert.NoError(t, c.SetSummary("a.py", "h", &models.NumericalSummary{}))
	_, ok := c.GetSummary("a.py", "h")
	assert.False(t, ok, "disabled cache should never hit")
}

func TestHashBytesStable(t *testing.T) {
	a := HashBytes([]byte("same"))
	b := HashBytes([]byte("same"))
	assert.Equal(t, a, b, "hash should be deterministic")
	assert.NotEqual(t, a, HashBytes([]byte("different")))
}
