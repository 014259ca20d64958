package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fetor-sh/fetor/pkg/models"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input string
		want  Format
	}{
		{"json", FormatJSON},
		{"JSON", FormatJSON},
		{"markdown", FormatMarkdown},
		{"md", FormatMarkdown},
		{"csv", FormatCSV},
		{"text", FormatText},
		{"unknown", FormatText},
		{"", FormatText},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseFormat(tt.input), "ParseFormat(%q)", tt.input)
	}
}

func TestTableRenderMarkdown(t *testing.T) {
	table := NewTable("Findings", []string{"Smell", "Severity"}, [][]string{
		{"long_method", "high"},
		{"lazy_class", "low"},
	}, nil, nil)

	var buf bytes.Buffer
	require.NoError(t, table.RenderMarkdown(&buf))

	out := buf.String()
	assert.Contains(t, out, "## Findings")
	assert.Contains(t, out, "| Smell | Severity |")
	assert.Contains(t, out, "| long_method | high |")
}

func TestTableRenderData(t *testing.T) {
	table := NewTable("", []string{"A", "B"}, [][]string{{"1", "2"}}, nil, nil)

	data, ok := table.RenderData().([]map[string]string)
	require.True(t, ok, "unexpected type %T", table.RenderData())
	assert.Equal(t, "1", data[0]["A"])
	assert.Equal(t, "2", data[0]["B"])
}

func TestSummaryCSVRender(t *testing.T) {
	commits := 4
	csvOut := &SummaryCSV{Summaries: []*models.NumericalSummary{
		{
			FilePath:     "a.py",
			LinesOfCode:  10,
			VCSAvailable: true,
			CommitCount:  &commits,
		},
		{
			FilePath:    "b.py",
			LinesOfCode: 20,
		},
	}}

	var buf bytes.Buffer
	require.NoError(t, csvOut.RenderCSV(&buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3, "expected header + 2 records")

	header := strings.Split(lines[0], ",")
	assert.Equal(t, "file_path", header[0])

	// Column count must match JSON field count for every record.
	for i, line := range lines[1:] {
		assert.Len(t, strings.Split(line, ","), len(header), "record %d", i)
	}

	assert.True(t, strings.HasPrefix(lines[1], "a.py,"))
	assert.True(t, strings.Contains(lines[1], ",4,") || strings.HasSuffix(lines[1], ",4"),
		"expected commit count 4 in record %q", lines[1])
}

func TestFormatterOutputJSON(t *testing.T) {
	f, err := NewFormatter(FormatJSON, "", false)
	require.NoError(t, err)
	var buf bytes.Buffer
	f.writer = &buf

	require.NoError(t, f.Output(map[string]int{"files": 2}))

	var got map[string]int
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, 2, got["files"])
}
