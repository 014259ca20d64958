package models

import "time"

// SmellType identifies a code smell rule.
type SmellType string

const (
	SmellLongMethod         SmellType = "long_method"
	SmellLargeParameterList SmellType = "large_parameter_list"
	SmellGodClass           SmellType = "god_class"
	SmellLazyClass          SmellType = "lazy_class"
	SmellSpaghettiCode      SmellType = "spaghetti_code"
	SmellPoorDocumentation  SmellType = "poor_documentation"
	SmellMisleadingComments SmellType = "misleading_comments"
	SmellGlobalStateAbuse   SmellType = "global_state_abuse"
	SmellFeatureEnvy        SmellType = "feature_envy"
	SmellUntestedCode       SmellType = "untested_code"
	SmellFormattingIssues   SmellType = "formatting_issues"
	SmellUnstableModule     SmellType = "unstable_module"
)

// SmellOrder is the closed, ordered smell enumeration. The label vector
// follows this order, so it must never be reordered or extended in place.
var SmellOrder = []SmellType{
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

// SmellSeverity represents how far past its threshold a rule fired.
type SmellSeverity string

const (
	SmellSeverityHigh   SmellSeverity = "high"
	SmellSeverityMedium SmellSeverity = "medium"
	SmellSeverityLow    SmellSeverity = "low"
)

// SmellFinding is a single detected smell with its triggering metric.
type SmellFinding struct {
	Type        SmellType     `json:"type"`
	Severity    SmellSeverity `json:"severity"`
	Metric      string        `json:"metric"`
	Value       float64       `json:"value"`
	Threshold   float64       `json:"threshold"`
	Description string        `json:"description"`
}

// LabelVector is a binary vector over SmellOrder.
type LabelVector []int

// NewLabelVector returns an all-zero vector sized to the smell enumeration.
func NewLabelVector() LabelVector {
	return make(LabelVector, len(SmellOrder))
}

// Set marks the position of a smell type in the vector.
func (v LabelVector) Set(t SmellType) {
	for i, s := range SmellOrder {
		if s == t {
			v[i] = 1
			return
		}
	}
}

// IsZero reports whether no label is set.
func (v LabelVector) IsZero() bool {
	for _, b := range v {
		if b != 0 {
			return false
		}
	}
	return true
}

// SmellReport holds the classification outcome for one file.
type SmellReport struct {
	Path        string         `json:"path"`
	GeneratedAt time.Time      `json:"generated_at"`
	Findings    []SmellFinding `json:"findings"`
	Labels      LabelVector    `json:"labels"`
	Summary     SmellSummary   `json:"summary"`
}

// SmellSummary provides aggregate finding counts.
type SmellSummary struct {
	TotalFindings int `json:"total_findings"`
	HighCount     int `json:"high_count"`
	MediumCount   int `json:"medium_count"`
	LowCount      int `json:"low_count"`
}

// NewSmellReport creates an initialized report with an all-zero label vector.
func NewSmellReport(path string) *SmellReport {
	return &SmellReport{
		Path:        path,
		GeneratedAt: time.Now().UTC(),
		Findings:    make([]SmellFinding, 0),
		Labels:      NewLabelVector(),
	}
}

// AddFinding records a finding, sets its label, and updates the summary.
func (r *SmellReport) AddFinding(f SmellFinding) {
	r.Findings = append(r.Findings, f)
	r.Labels.Set(f.Type)
	r.Summary.TotalFindings++

	switch f.Severity {
	case SmellSeverityHigh:
		r.Summary.HighCount++
	case SmellSeverityMedium:
		r.Summary.MediumCount++
	case SmellSeverityLow:
		r.Summary.LowCount++
	}
}

// SmellThresholds configures every classifier rule. All comparisons in the
// classifier are strict, so a metric sitting exactly on its threshold does
// not fire.
type SmellThresholds struct {
	MaxFunctionLines      int     `json:"max_function_lines" koanf:"max_function_lines"`
	ComplexityPerLine     float64 `json:"complexity_per_line" koanf:"complexity_per_line"`
	MaxNesting            int     `json:"max_nesting" koanf:"max_nesting"`
	MaxParameters         int     `json:"max_parameters" koanf:"max_parameters"`
	ParameterEntropy      float64 `json:"parameter_entropy" koanf:"parameter_entropy"`
	LazyMethodsPerClass   float64 `json:"lazy_methods_per_class" koanf:"lazy_methods_per_class"`
	LazyClassLines        float64 `json:"lazy_class_lines" koanf:"lazy_class_lines"`
	GodClassWMC           int     `json:"god_class_wmc" koanf:"god_class_wmc"`
	GodClassCoupling      int     `json:"god_class_coupling" koanf:"god_class_coupling"`
	GodClassCrossCalls    int     `json:"god_class_cross_calls" koanf:"god_class_cross_calls"`
	GodClassComplexity    float64 `json:"god_class_complexity" koanf:"god_class_complexity"`
	SpaghettiComplexity   float64 `json:"spaghetti_complexity" koanf:"spaghetti_complexity"`
	NestingVariance       float64 `json:"nesting_variance" koanf:"nesting_variance"`
	MinDocumentedLines    int     `json:"min_documented_lines" koanf:"min_documented_lines"`
	DocCoverage           float64 `json:"doc_coverage" koanf:"doc_coverage"`
	CommentPercentage     float64 `json:"comment_percentage" koanf:"comment_percentage"`
	CommentMismatch       float64 `json:"comment_mismatch" koanf:"comment_mismatch"`
	ModuleGlobals         int     `json:"module_globals" koanf:"module_globals"`
	GlobalUsages          int     `json:"global_usages" koanf:"global_usages"`
	FieldAccessRatio      float64 `json:"field_access_ratio" koanf:"field_access_ratio"`
	FeatureEnvyCrossCalls int     `json:"feature_envy_cross_calls" koanf:"feature_envy_cross_calls"`
	UntestedMinLines      int     `json:"untested_min_lines" koanf:"untested_min_lines"`
	StyleViolations       int     `json:"style_violations" koanf:"style_violations"`
	IndentIrregularity    float64 `json:"indent_irregularity" koanf:"indent_irregularity"`
	CommitBursts          int     `json:"commit_bursts" koanf:"commit_bursts"`
	LifetimeLinesAdded    int     `json:"lifetime_lines_added" koanf:"lifetime_lines_added"`
}

// DefaultSmellThresholds returns the canonical rule thresholds.
func DefaultSmellThresholds() SmellThresholds {
	return SmellThresholds{
		MaxFunctionLines:      50,
		ComplexityPerLine:     0.5,
		MaxNesting:            4,
		MaxParameters:         5,
		ParameterEntropy:      2.0,
		LazyMethodsPerClass:   2.0,
		LazyClassLines:        50.0,
		GodClassWMC:           20,
		GodClassCoupling:      20,
		GodClassCrossCalls:    15,
		GodClassComplexity:    15.0,
		SpaghettiComplexity:   10.0,
		NestingVariance:       1.5,
		MinDocumentedLines:    20,
		DocCoverage:           20.0,
		CommentPercentage:     5.0,
		CommentMismatch:       0.7,
		ModuleGlobals:         3,
		GlobalUsages:          10,
		FieldAccessRatio:      3.0,
		FeatureEnvyCrossCalls: 10,
		UntestedMinLines:      50,
		StyleViolations:       5,
		IndentIrregularity:    1.0,
		CommitBursts:          5,
		LifetimeLinesAdded:    500,
	}
}
