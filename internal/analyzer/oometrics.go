package analyzer

import (
	sitter "github.com/smacker/go-tree-sitter"
	"gonum.org/v1/gonum/stat"

	"github.com/fetor-sh/fetor/pkg/parser"
)

// ClassMetrics holds per-class object-oriented metrics.
type ClassMetrics struct {
	Name string
	WMC  int
	LCOM float64
	RFC  int
	CBO  int
	DIT  int
}

// OOMetrics aggregates class metrics over a file.
type OOMetrics struct {
	Classes                  []ClassMetrics
	TotalWMC                 int
	MaxWMC                   int
	MeanLCOM                 float64
	MaxLCOM                  float64
	MeanRFC                  float64
	MaxCBO                   int
	MaxDIT                   int
	InterFileCoupling        int
	TotalAttributes          int
	MutationsOutsideInit     int
	MethodsAttributesRatio   float64
	AverageMethodsPerClass   float64
	MeanLinesPerClass        float64
	MaxLinesPerClass         int
	ClassesWithInheritance   int
	GodClassProxies          int
	ExternalFieldAccessRatio float64
}

// OOAnalyzer computes class cohesion and coupling metrics.
type OOAnalyzer struct{}

// NewOOAnalyzer creates an OO metrics analyzer.
func NewOOAnalyzer() *OOAnalyzer {
	return &OOAnalyzer{}
}

// Analyze computes OO metrics for every class in the index.
func (a *OOAnalyzer) Analyze(idx *FileIndex) *OOMetrics {
	m := &OOMetrics{}

	classByName := make(map[string]*ClassInfo, len(idx.Classes))
	for i := range idx.Classes {
		classByName[idx.Classes[i].Name] = &idx.Classes[i]
	}

	var lcoms, rfcs, methodCounts, classLines []float64
	totalMethods := 0
	for i := range idx.Classes {
		class := &idx.Classes[i]

		cm := ClassMetrics{
			Name: class.Name,
			WMC:  a.weightedMethods(idx, class),
			LCOM: a.lackOfCohesion(idx, class),
			RFC:  a.responseForClass(idx, class),
			CBO:  a.couplingBetweenObjects(idx, class, classByName),
			DIT:  inheritanceDepth(class.Name, classByName, nil),
		}
		m.Classes = append(m.Classes, cm)

		m.TotalWMC += cm.WMC
		m.MaxWMC = max(m.MaxWMC, cm.WMC)
		m.MaxLCOM = maxFloat(m.MaxLCOM, cm.LCOM)
		m.MaxCBO = max(m.MaxCBO, cm.CBO)
		m.MaxDIT = max(m.MaxDIT, cm.DIT)
		m.TotalAttributes += len(class.Attributes)
		m.MutationsOutsideInit += class.MutationsOutsideInit
		m.MaxLinesPerClass = max(m.MaxLinesPerClass, class.Lines)
		totalMethods += len(class.Methods)

		if len(class.Bases) > 0 {
			m.ClassesWithInheritance++
		}
		if cm.WMC > 20 || len(class.Methods) > 15 || len(class.Attributes) > 10 {
			m.GodClassProxies++
		}

		lcoms = append(lcoms, cm.LCOM)
		rfcs = append(rfcs, float64(cm.RFC))
		methodCounts = append(methodCounts, float64(len(class.Methods)))
		classLines = append(classLines, float64(class.Lines))
	}

	if len(idx.Classes) > 0 {
		m.MeanLCOM = stat.Mean(lcoms, nil)
		m.MeanRFC = stat.Mean(rfcs, nil)
		m.AverageMethodsPerClass = stat.Mean(methodCounts, nil)
		m.MeanLinesPerClass = stat.Mean(classLines, nil)
	}
	if m.TotalAttributes > 0 {
		m.MethodsAttributesRatio = float64(totalMethods) / float64(m.TotalAttributes)
	}

	m.InterFileCoupling = a.interFileCoupling(idx)
	m.ExternalFieldAccessRatio = a.fieldAccessRatio(idx)

	return m
}

// weightedMethods sums the cyclomatic complexity of a class's methods.
func (a *OOAnalyzer) weightedMethods(idx *FileIndex, class *ClassInfo) int {
	wmc := 0
	for _, mi := range class.Methods {
		wmc += FunctionComplexityFor(idx.Functions[mi].Body, idx.Source)
	}
	return wmc
}

// lackOfCohesion returns the fraction of method pairs that share no
// instance attribute. Classes with at most one method are fully cohesive.
func (a *OOAnalyzer) lackOfCohesion(idx *FileIndex, class *ClassInfo) float64 {
	if len(class.Methods) <= 1 {
		return 0
	}

	attrs := make([]map[string]bool, len(class.Methods))
	for i, mi := range class.Methods {
		attrs[i] = methodAttributeUses(idx.Functions[mi].Body, idx.Source)
	}

	pairs, disjoint := 0, 0
	for i := 0; i < len(attrs); i++ {
		for j := i + 1; j < len(attrs); j++ {
			pairs++
			if !shareAny(attrs[i], attrs[j]) {
				disjoint++
			}
		}
	}
	return float64(disjoint) / float64(pairs)
}

// methodAttributeUses collects the self attributes a method reads or writes.
func methodAttributeUses(body *sitter.Node, source []byte) map[string]bool {
	uses := make(map[string]bool)
	if body == nil {
		return uses
	}
	parser.WalkTyped(body, source, func(node *sitter.Node, nodeType string, source []byte) bool {
		if nodeType == "function_definition" || nodeType == "class_definition" {
			return false
		}
		if nodeType != "attribute" {
			return true
		}
		obj := node.ChildByFieldName("object")
		attr := node.ChildByFieldName("attribute")
		if obj != nil && attr != nil && parser.GetNodeText(obj, source) == "self" {
			uses[parser.GetNodeText(attr, source)] = true
		}
		return true
	})
	return uses
}

func shareAny(a, b map[string]bool) bool {
	for k := range a {
		if b[k] {
			return true
		}
	}
	return false
}

// responseForClass counts a class's methods plus the distinct methods
// they invoke.
func (a *OOAnalyzer) responseForClass(idx *FileIndex, class *ClassInfo) int {
	called := make(map[string]bool)
	for _, mi := range class.Methods {
		body := idx.Functions[mi].Body
		if body == nil {
			continue
		}
		parser.WalkTyped(body, idx.Source, func(node *sitter.Node, nodeType string, source []byte) bool {
			if nodeType == "function_definition" || nodeType == "class_definition" {
				return false
			}
			if nodeType != "call" {
				return true
			}
			if fn := node.ChildByFieldName("function"); fn != nil {
				called[parser.GetNodeText(fn, source)] = true
			}
			return true
		})
	}
	return len(class.Methods) + len(called)
}

// couplingBetweenObjects counts the distinct other classes and imported
// modules a class references.
func (a *OOAnalyzer) couplingBetweenObjects(idx *FileIndex, class *ClassInfo, classByName map[string]*ClassInfo) int {
	coupled := make(map[string]bool)

	for _, base := range class.Bases {
		name := rootModule(base)
		if name != class.Name && (classByName[name] != nil || idx.ImportedModules[name]) {
			coupled[name] = true
		}
	}

	for _, mi := range class.Methods {
		body := idx.Functions[mi].Body
		if body == nil {
			continue
		}
		parser.WalkTyped(body, idx.Source, func(node *sitter.Node, nodeType string, source []byte) bool {
			if nodeType == "function_definition" || nodeType == "class_definition" {
				return false
			}
			if nodeType != "identifier" {
				return true
			}
			name := parser.GetNodeText(node, source)
			if name == class.Name || name == "self" {
				return true
			}
			if classByName[name] != nil || idx.ImportedModules[name] {
				coupled[name] = true
			}
			return true
		})
	}

	return len(coupled)
}

// inheritanceDepth walks the within-file base chain. Bases that do not
// resolve inside the file contribute no depth. The visited set breaks
// inheritance cycles.
func inheritanceDepth(name string, classByName map[string]*ClassInfo, visited map[string]bool) int {
	class := classByName[name]
	if class == nil {
		return 0
	}
	if visited == nil {
		visited = make(map[string]bool)
	}
	if visited[name] {
		return 0
	}
	visited[name] = true

	deepest := 0
	for _, base := range class.Bases {
		if classByName[base] != nil {
			deepest = max(deepest, 1+inheritanceDepth(base, classByName, visited))
		}
	}
	return deepest
}

// interFileCoupling counts imported modules the file actually references
// after the import statement.
func (a *OOAnalyzer) interFileCoupling(idx *FileIndex) int {
	if len(idx.ImportedModules) == 0 {
		return 0
	}
	used := make(map[string]bool)
	parser.WalkTyped(idx.Root, idx.Source, func(node *sitter.Node, nodeType string, source []byte) bool {
		switch nodeType {
		case "import_statement", "import_from_statement":
			return false
		case "attribute":
			obj := node.ChildByFieldName("object")
			if obj != nil && obj.Type() == "identifier" {
				name := parser.GetNodeText(obj, source)
				if idx.ImportedModules[name] {
					used[name] = true
				}
			}
		case "identifier":
			name := parser.GetNodeText(node, source)
			if idx.ImportedModules[name] {
				used[name] = true
			}
		}
		return true
	})
	return len(used)
}

// fieldAccessRatio returns attribute accesses on other objects divided by
// accesses on self. All accesses count as external in module-level code.
func (a *OOAnalyzer) fieldAccessRatio(idx *FileIndex) float64 {
	internal, external := 0, 0
	parser.WalkTyped(idx.Root, idx.Source, func(node *sitter.Node, nodeType string, source []byte) bool {
		if nodeType != "attribute" {
			return true
		}
		obj := node.ChildByFieldName("object")
		if obj == nil {
			return true
		}
		if obj.Type() == "identifier" && parser.GetNodeText(obj, source) == "self" {
			internal++
		} else {
			external++
		}
		return true
	})

	if internal == 0 {
		if external == 0 {
			return 0
		}
		return float64(external)
	}
	return float64(external) / float64(internal)
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
