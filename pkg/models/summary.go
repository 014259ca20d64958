// Package models defines the data types shared by analyzers and output.
package models

// NumericalSummary is the flat per-file metric record. The field set is
// fixed, so every record in a batch carries the same keys regardless of
// file content. History fields are pointers and stay null when no
// repository data is available.
type NumericalSummary struct {
	FilePath string `json:"file_path"`

	// Size metrics
	LinesOfCode       int     `json:"lines_of_code"`
	SourceLines       int     `json:"source_lines"`
	CommentLines      int     `json:"comment_lines"`
	DocstringLines    int     `json:"docstring_lines"`
	BlankLines        int     `json:"blank_lines"`
	CommentPercentage float64 `json:"comment_percentage"`

	// Structural counts
	Classes            int `json:"classes"`
	Functions          int `json:"functions"`
	Methods            int `json:"methods"`
	AsyncFunctions     int `json:"async_functions"`
	TotalImports       int `json:"total_imports"`
	ModuleLevelGlobals int `json:"module_level_globals"`
	GlobalUsages       int `json:"global_usages"`

	// Complexity
	TotalDecisionPoints         int     `json:"total_decision_points"`
	AverageCyclomaticComplexity float64 `json:"average_cyclomatic_complexity"`
	MaxCyclomaticComplexity     int     `json:"max_cyclomatic_complexity"`
	MaxCyclomaticRatio          float64 `json:"max_cyclomatic_ratio"`
	MeanCyclomaticRatio         float64 `json:"mean_cyclomatic_ratio"`
	MaxNestingLevel             int     `json:"max_nesting_level"`
	NestingMean                 float64 `json:"nesting_mean"`
	NestingVariance             float64 `json:"nesting_variance"`

	// Function shape
	MaxFunctionLines      int     `json:"max_function_lines"`
	MeanFunctionLines     float64 `json:"mean_function_lines"`
	MaxParameters         int     `json:"max_parameters"`
	MeanParameters        float64 `json:"mean_parameters"`
	ParameterNameEntropy  float64 `json:"parameter_name_entropy"`
	DocumentationCoverage float64 `json:"documentation_coverage"`

	// Class metrics
	TotalWMC                      int     `json:"total_wmc"`
	MaxWMC                        int     `json:"max_wmc"`
	MeanLCOM                      float64 `json:"mean_lcom"`
	MaxLCOM                       float64 `json:"max_lcom"`
	MeanRFC                       float64 `json:"mean_rfc"`
	MaxCBO                        int     `json:"max_cbo"`
	InterFileCoupling             int     `json:"inter_file_coupling"`
	MaxDIT                        int     `json:"max_dit"`
	TotalAttributes               int     `json:"total_attributes"`
	AttributeMutationsOutsideInit int     `json:"attribute_mutations_outside_init"`
	MethodsAttributesRatio        float64 `json:"methods_attributes_ratio"`
	AverageMethodsPerClass        float64 `json:"average_methods_per_class"`
	MeanLinesPerClass             float64 `json:"mean_lines_per_class"`
	MaxLinesPerClass              int     `json:"max_lines_per_class"`
	ClassesWithInheritance        int     `json:"classes_with_inheritance"`
	GodClassProxies               int     `json:"god_class_proxies"`

	// Call graph
	CallGraphNodes           int     `json:"call_graph_nodes"`
	CallGraphEdges           int     `json:"call_graph_edges"`
	CallGraphDensity         float64 `json:"call_graph_density"`
	MaxCallDepth             int     `json:"max_call_depth"`
	MaxFanIn                 int     `json:"max_fan_in"`
	MaxFanOut                int     `json:"max_fan_out"`
	CrossFileCallEdges       int     `json:"cross_file_call_edges"`
	ExternalFieldAccessRatio float64 `json:"external_field_access_ratio"`

	// Halstead
	HalsteadVolume        float64 `json:"halstead_volume"`
	HalsteadDifficulty    float64 `json:"halstead_difficulty"`
	HalsteadEffort        float64 `json:"halstead_effort"`
	HalsteadEstimatedBugs float64 `json:"halstead_estimated_bugs"`
	HalsteadVocabulary    int     `json:"halstead_vocabulary"`
	HalsteadLength        int     `json:"halstead_length"`

	// Style
	AverageLineLength        float64 `json:"average_line_length"`
	MaxLineLength            int     `json:"max_line_length"`
	LongLinePercentage       float64 `json:"long_line_percentage"`
	StyleViolations          int     `json:"style_violations"`
	IndentationIrregularity  float64 `json:"indentation_irregularity"`
	MixedIndentLines         int     `json:"mixed_indent_lines"`
	AbbreviationDensity      float64 `json:"abbreviation_density"`
	CommentCodeMismatchScore float64 `json:"comment_code_mismatch_score"`

	// Test context
	UnitTestPresence  bool    `json:"unit_test_presence"`
	TestToSourceRatio float64 `json:"test_to_source_ratio"`

	// History (null without repository data)
	VCSAvailable bool `json:"vcs_available"`
	CommitCount  *int `json:"commit_count"`
	AuthorCount  *int `json:"author_count"`
	LinesAdded   *int `json:"lines_added"`
	LinesDeleted *int `json:"lines_deleted"`
	FileAgeDays  *int `json:"file_age_days"`
	CommitBursts *int `json:"commit_bursts"`

	// Derived indicators
	LongMethod           bool    `json:"long_method"`
	LargeParameterList   bool    `json:"large_parameter_list"`
	MaintainabilityScore float64 `json:"maintainability_score"`
}

// ApplyHistory copies history metrics into the summary. Without data the
// pointer fields stay nil so downstream consumers see null, not zero.
func (s *NumericalSummary) ApplyHistory(h *FileHistory) {
	if h == nil || !h.Available {
		s.VCSAvailable = false
		return
	}

	s.VCSAvailable = true
	s.CommitCount = intPtr(h.Commits)
	s.AuthorCount = intPtr(h.Authors)
	s.LinesAdded = intPtr(h.LinesAdded)
	s.LinesDeleted = intPtr(h.LinesDeleted)
	s.FileAgeDays = intPtr(h.AgeDays)
	s.CommitBursts = intPtr(h.CommitBursts)
}

func intPtr(v int) *int {
	return &v
}
