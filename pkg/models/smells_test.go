package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabelVectorOrder(t *testing.T) {
	// The vector layout is part of the output contract.
	want := []SmellType{
		SmellLongMethod,
		SmellLargeParameterList,
		SmellGodClass,
		SmellLazyClass,
		SmellSpaghettiCode,
		SmellPoorDocumentation,
		SmellMisleadingComments,
		SmellGlobalStateAbuse,
		SmellFeatureEnvy,
		SmellUntestedCode,
		SmellFormattingIssues,
		SmellUnstableModule,
	}

	require.Len(t, SmellOrder, len(want))
	for i, w := range want {
		assert.Equal(t, w, SmellOrder[i], "SmellOrder[%d]", i)
	}
}

func TestLabelVectorSet(t *testing.T) {
	v := NewLabelVector()
	require.True(t, v.IsZero(), "new vector should be all zeros")

	v.Set(SmellGodClass)
	assert.Equal(t, 1, v[2], "expected position 2 set for god_class")
	assert.False(t, v.IsZero())
}

func TestAddFindingUpdatesSummary(t *testing.T) {
	r := NewSmellReport("app.py")

	r.AddFinding(SmellFinding{Type: SmellLongMethod, Severity: SmellSeverityHigh})
	r.AddFinding(SmellFinding{Type: SmellUntestedCode, Severity: SmellSeverityLow})

	assert.Equal(t, 2, r.Summary.TotalFindings)
	assert.Equal(t, 1, r.Summary.HighCount)
	assert.Equal(t, 1, r.Summary.LowCount)
	assert.False(t, r.Labels.IsZero(), "labels should reflect findings")
}
