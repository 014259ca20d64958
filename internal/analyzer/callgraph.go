package analyzer

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/fetor-sh/fetor/pkg/models"
	"github.com/fetor-sh/fetor/pkg/parser"
)

// CallGraphAnalyzer builds the intra-file call graph between functions
// and methods and derives shape metrics from it.
type CallGraphAnalyzer struct{}

// NewCallGraphAnalyzer creates a call graph analyzer.
func NewCallGraphAnalyzer() *CallGraphAnalyzer {
	return &CallGraphAnalyzer{}
}

// Analyze resolves call sites into edges between the file's definitions.
// Calls into imported modules count as cross-file edges instead.
func (a *CallGraphAnalyzer) Analyze(idx *FileIndex) *models.CallGraphMetrics {
	nodes := make(map[string]bool, len(idx.Functions))
	moduleFuncs := make(map[string]string)
	classMethods := make(map[string]map[string]string)
	for i := range idx.Functions {
		fn := &idx.Functions[i]
		nodes[fn.QualifiedName] = true
		if fn.IsMethod {
			if classMethods[fn.ClassName] == nil {
				classMethods[fn.ClassName] = make(map[string]string)
			}
			classMethods[fn.ClassName][fn.Name] = fn.QualifiedName
		} else {
			moduleFuncs[fn.Name] = fn.QualifiedName
		}
	}

	edges := make(map[string]map[string]bool)
	crossFile := 0
	addEdge := func(from, to string) {
		if from == to {
			return
		}
		if edges[from] == nil {
			edges[from] = make(map[string]bool)
		}
		edges[from][to] = true
	}

	for i := range idx.Functions {
		fn := &idx.Functions[i]
		if fn.Body == nil {
			continue
		}
		parser.WalkTyped(fn.Body, idx.Source, func(node *sitter.Node, nodeType string, source []byte) bool {
			if nodeType == "function_definition" || nodeType == "class_definition" {
				return false
			}
			if nodeType != "call" {
				return true
			}
			callee := node.ChildByFieldName("function")
			if callee == nil {
				return true
			}

			switch callee.Type() {
			case "identifier":
				name := parser.GetNodeText(callee, source)
				if target, ok := moduleFuncs[name]; ok {
					addEdge(fn.QualifiedName, target)
				} else if idx.ImportedModules[name] {
					crossFile++
				}
			case "attribute":
				obj := callee.ChildByFieldName("object")
				attr := callee.ChildByFieldName("attribute")
				if obj == nil || attr == nil || obj.Type() != "identifier" {
					return true
				}
				objName := parser.GetNodeText(obj, source)
				method := parser.GetNodeText(attr, source)
				switch {
				case objName == "self" && fn.ClassName != "":
					if target, ok := classMethods[fn.ClassName][method]; ok {
						addEdge(fn.QualifiedName, target)
					}
				case classMethods[objName] != nil:
					if target, ok := classMethods[objName][method]; ok {
						addEdge(fn.QualifiedName, target)
					}
				case idx.ImportedModules[objName]:
					crossFile++
				}
			}
			return true
		})
	}

	m := &models.CallGraphMetrics{
		Nodes:          len(nodes),
		CrossFileEdges: crossFile,
	}

	fanIn := make(map[string]int)
	for _, targets := range edges {
		m.Edges += len(targets)
		m.MaxFanOut = max(m.MaxFanOut, len(targets))
		for to := range targets {
			fanIn[to]++
		}
	}
	for _, n := range fanIn {
		m.MaxFanIn = max(m.MaxFanIn, n)
	}

	if m.Nodes > 1 {
		m.Density = float64(m.Edges) / float64(m.Nodes*(m.Nodes-1))
	}
	m.MaxDepth = maxCallDepth(nodes, edges)

	return m
}

// maxCallDepth returns the longest simple call chain. Depths are
// memoized across roots so shared subchains are walked once; the
// per-path visited set keeps cycles from recursing.
func maxCallDepth(nodes map[string]bool, edges map[string]map[string]bool) int {
	memo := make(map[string]int, len(nodes))
	var depth func(name string, visited map[string]bool) int
	depth = func(name string, visited map[string]bool) int {
		if d, ok := memo[name]; ok {
			return d
		}
		visited[name] = true
		deepest := 0
		for to := range edges[name] {
			if visited[to] {
				continue
			}
			deepest = max(deepest, 1+depth(to, visited))
		}
		delete(visited, name)
		memo[name] = deepest
		return deepest
	}

	longest := 0
	for name := range nodes {
		longest = max(longest, depth(name, make(map[string]bool)))
	}
	return longest
}
