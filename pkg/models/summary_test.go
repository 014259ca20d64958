package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyHistoryUnavailableKeepsNulls(t *testing.T) {
	var s NumericalSummary
	s.ApplyHistory(Unavailable("a.py"))

	assert.False(t, s.VCSAvailable)
	assert.Nil(t, s.CommitCount, "history fields must stay nil without repository data")
	assert.Nil(t, s.LinesAdded)
	assert.Nil(t, s.CommitBursts)

	data, err := json.Marshal(&s)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"commit_count":null`)
}

func TestApplyHistoryCopiesValues(t *testing.T) {
	var s NumericalSummary
	s.ApplyHistory(&FileHistory{
		Available:    true,
		Commits:      7,
		Authors:      2,
		LinesAdded:   120,
		LinesDeleted: 40,
		AgeDays:      365,
		CommitBursts: 3,
	})

	require.True(t, s.VCSAvailable)
	require.NotNil(t, s.CommitCount)
	assert.Equal(t, 7, *s.CommitCount)
	require.NotNil(t, s.CommitBursts)
	assert.Equal(t, 3, *s.CommitBursts)
}
