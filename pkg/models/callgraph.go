package models

// CallGraphMetrics summarizes the intra-file call graph. Nodes are the
// file's functions and methods under their qualified names; edges are
// resolved call sites between them. Calls into imported modules are
// counted as cross-file edges rather than graph edges.
type CallGraphMetrics struct {
	Nodes          int     `json:"nodes"`
	Edges          int     `json:"edges"`
	Density        float64 `json:"density"`
	MaxDepth       int     `json:"max_depth"`
	MaxFanIn       int     `json:"max_fan_in"`
	MaxFanOut      int     `json:"max_fan_out"`
	CrossFileEdges int     `json:"cross_file_edges"`
}
