package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"reflect"
	"strconv"

	"github.com/fetor-sh/fetor/pkg/models"
)

// SummaryCSV renders a set of numerical summaries as one CSV table, one
// row per file. Column order follows the summary's field order so the
// schema is stable across runs.
type SummaryCSV struct {
	Summaries []*models.NumericalSummary
}

// RenderCSV writes a header row followed by one record per summary.
func (s *SummaryCSV) RenderCSV(w io.Writer) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(summaryColumns()); err != nil {
		return err
	}
	for _, summary := range s.Summaries {
		if err := cw.Write(summaryRecord(summary)); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func (s *SummaryCSV) RenderData() any { return s.Summaries }

func (s *SummaryCSV) RenderText(w io.Writer, colored bool) error {
	return s.RenderCSV(w)
}

func (s *SummaryCSV) RenderMarkdown(w io.Writer) error {
	return s.RenderCSV(w)
}

// summaryColumns derives the column names from the summary's JSON tags
// so the CSV schema never drifts from the JSON one.
func summaryColumns() []string {
	t := reflect.TypeOf(models.NumericalSummary{})
	cols := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		cols = append(cols, columnName(t.Field(i)))
	}
	return cols
}

func summaryRecord(s *models.NumericalSummary) []string {
	v := reflect.ValueOf(*s)
	record := make([]string, 0, v.NumField())
	for i := 0; i < v.NumField(); i++ {
		record = append(record, formatCell(v.Field(i)))
	}
	return record
}

func columnName(f reflect.StructField) string {
	tag := f.Tag.Get("json")
	for j := 0; j < len(tag); j++ {
		if tag[j] == ',' {
			return tag[:j]
		}
	}
	if tag != "" {
		return tag
	}
	return f.Name
}

// formatCell renders a single field value. Nil pointers become empty
// cells so unavailable history stays distinguishable from zero.
func formatCell(v reflect.Value) string {
	switch v.Kind() {
	case reflect.Pointer:
		if v.IsNil() {
			return ""
		}
		return formatCell(v.Elem())
	case reflect.Bool:
		if v.Bool() {
			return "1"
		}
		return "0"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10)
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'f', -1, 64)
	case reflect.String:
		return v.String()
	default:
		return fmt.Sprintf("%v", v.Interface())
	}
}
