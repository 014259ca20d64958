// Package analyzer extracts structural metrics from Python source files
// and classifies them against threshold rules.
package analyzer

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/fetor-sh/fetor/pkg/parser"
)

// FunctionInfo describes one function or method definition.
type FunctionInfo struct {
	Name          string
	QualifiedName string
	ClassName     string
	Params        []string
	StartLine     int
	EndLine       int
	Lines         int
	IsAsync       bool
	IsMethod      bool
	HasDocstring  bool
	Node          *sitter.Node
	Body          *sitter.Node
}

// ClassInfo describes one class definition. Methods holds indexes into
// the owning FileIndex's Functions slice.
type ClassInfo struct {
	Name                 string
	Bases                []string
	StartLine            int
	EndLine              int
	Lines                int
	HasDocstring         bool
	Methods              []int
	Attributes           map[string]bool
	MutationsOutsideInit int
	Node                 *sitter.Node
}

// LineCounts classifies every physical line of a file exactly once.
type LineCounts struct {
	Total     int
	Source    int
	Comment   int
	Docstring int
	Blank     int
}

// FileIndex is the structural view of one parsed file that the metric
// analyzers share. It is built in a single traversal so the expensive
// tree walk happens once.
type FileIndex struct {
	Path               string
	Source             []byte
	Root               *sitter.Node
	Functions          []FunctionInfo
	Classes            []ClassInfo
	Imports            int
	ImportedModules    map[string]bool
	ModuleLevelGlobals int
	GlobalUsages       int
	Lines              LineCounts
	HasModuleDocstring bool
}

// BuildIndex constructs a FileIndex from a parse result.
func BuildIndex(result *parser.ParseResult) *FileIndex {
	idx := &FileIndex{
		Path:            result.Path,
		Source:          result.Source,
		Root:            result.Tree.RootNode(),
		ImportedModules: make(map[string]bool),
	}

	idx.HasModuleDocstring = parser.Docstring(idx.Root, idx.Source) != ""
	idx.collectDefinitions()
	idx.collectImports()
	idx.collectGlobals()
	idx.countLines()

	return idx
}

// collectDefinitions walks the tree once recording every function and
// class. Nested functions are indexed too; a method is any function whose
// nearest enclosing definition is a class.
func (idx *FileIndex) collectDefinitions() {
	var visit func(node *sitter.Node, className string)
	visit = func(node *sitter.Node, className string) {
		for i := 0; i < int(node.ChildCount()); i++ {
			child := node.Child(i)
			switch child.Type() {
			case "function_definition":
				idx.addFunction(child, className, false)
				visit(childBody(child), "")
			case "decorated_definition":
				if def := parser.ChildOfType(child, "function_definition"); def != nil {
					idx.addFunction(def, className, false)
					visit(childBody(def), "")
				} else if def := parser.ChildOfType(child, "class_definition"); def != nil {
					idx.addClass(def)
				}
			case "class_definition":
				idx.addClass(child)
			default:
				visit(child, className)
			}
		}
	}
	visit(idx.Root, "")
}

func childBody(def *sitter.Node) *sitter.Node {
	if body := def.ChildByFieldName("body"); body != nil {
		return body
	}
	return def
}

func (idx *FileIndex) addFunction(node *sitter.Node, className string, isAsync bool) int {
	nameNode := node.ChildByFieldName("name")
	name := parser.GetNodeText(nameNode, idx.Source)
	body := node.ChildByFieldName("body")

	// The async keyword is a plain child token of function_definition.
	if !isAsync {
		for i := 0; i < int(node.ChildCount()); i++ {
			if node.Child(i).Type() == "async" {
				isAsync = true
				break
			}
		}
	}

	info := FunctionInfo{
		Name:         name,
		ClassName:    className,
		Params:       parser.ParameterNames(node, idx.Source),
		StartLine:    parser.StartLine(node),
		EndLine:      parser.EndLine(node),
		IsAsync:      isAsync,
		IsMethod:     className != "",
		HasDocstring: parser.Docstring(body, idx.Source) != "",
		Node:         node,
		Body:         body,
	}
	info.Lines = info.EndLine - info.StartLine + 1
	if className != "" {
		info.QualifiedName = className + "." + name
	} else {
		info.QualifiedName = name
	}

	idx.Functions = append(idx.Functions, info)
	return len(idx.Functions) - 1
}

func (idx *FileIndex) addClass(node *sitter.Node) {
	nameNode := node.ChildByFieldName("name")
	body := node.ChildByFieldName("body")

	info := ClassInfo{
		Name:         parser.GetNodeText(nameNode, idx.Source),
		StartLine:    parser.StartLine(node),
		EndLine:      parser.EndLine(node),
		HasDocstring: parser.Docstring(body, idx.Source) != "",
		Attributes:   make(map[string]bool),
		Node:         node,
	}
	info.Lines = info.EndLine - info.StartLine + 1

	if bases := node.ChildByFieldName("superclasses"); bases != nil {
		for i := 0; i < int(bases.ChildCount()); i++ {
			arg := bases.Child(i)
			if arg.Type() == "identifier" || arg.Type() == "attribute" {
				info.Bases = append(info.Bases, parser.GetNodeText(arg, idx.Source))
			}
		}
	}

	if body != nil {
		for i := 0; i < int(body.ChildCount()); i++ {
			child := body.Child(i)
			def := child
			if child.Type() == "decorated_definition" {
				def = parser.ChildOfType(child, "function_definition")
				if def == nil {
					continue
				}
			}
			switch def.Type() {
			case "function_definition":
				mi := idx.addFunction(def, info.Name, false)
				info.Methods = append(info.Methods, mi)
				idx.collectAttributes(&info, idx.Functions[mi])
			case "expression_statement":
				idx.collectClassFields(&info, def)
			}
		}
	}

	idx.Classes = append(idx.Classes, info)
}

// collectClassFields records assignments directly under the class body,
// such as shared defaults and counters. They join the attribute union
// alongside self-assigned names.
func (idx *FileIndex) collectClassFields(class *ClassInfo, stmt *sitter.Node) {
	for i := 0; i < int(stmt.ChildCount()); i++ {
		assign := stmt.Child(i)
		if assign.Type() != "assignment" && assign.Type() != "augmented_assignment" {
			continue
		}
		left := assign.ChildByFieldName("left")
		if left == nil || left.Type() != "identifier" {
			continue
		}
		name := parser.GetNodeText(left, idx.Source)
		if strings.HasPrefix(name, "__") && strings.HasSuffix(name, "__") {
			continue
		}
		class.Attributes[name] = true
	}
}

// collectAttributes records self.x attribute names and counts assignments
// to them outside __init__.
func (idx *FileIndex) collectAttributes(class *ClassInfo, method FunctionInfo) {
	if method.Body == nil {
		return
	}
	parser.WalkTyped(method.Body, idx.Source, func(node *sitter.Node, nodeType string, source []byte) bool {
		if nodeType == "function_definition" || nodeType == "class_definition" {
			return false
		}
		if nodeType != "assignment" && nodeType != "augmented_assignment" {
			return true
		}
		left := node.ChildByFieldName("left")
		if left == nil || left.Type() != "attribute" {
			return true
		}
		obj := left.ChildByFieldName("object")
		attr := left.ChildByFieldName("attribute")
		if obj == nil || attr == nil || parser.GetNodeText(obj, source) != "self" {
			return true
		}
		class.Attributes[parser.GetNodeText(attr, source)] = true
		if method.Name != "__init__" {
			class.MutationsOutsideInit++
		}
		return true
	})
}

// collectImports counts import statements and records the root module
// names they bind.
func (idx *FileIndex) collectImports() {
	parser.WalkTyped(idx.Root, idx.Source, func(node *sitter.Node, nodeType string, source []byte) bool {
		switch nodeType {
		case "import_statement":
			idx.Imports++
			for i := 0; i < int(node.ChildCount()); i++ {
				child := node.Child(i)
				switch child.Type() {
				case "dotted_name":
					idx.ImportedModules[rootModule(parser.GetNodeText(child, source))] = true
				case "aliased_import":
					if alias := child.ChildByFieldName("alias"); alias != nil {
						idx.ImportedModules[parser.GetNodeText(alias, source)] = true
					} else if name := child.ChildByFieldName("name"); name != nil {
						idx.ImportedModules[rootModule(parser.GetNodeText(name, source))] = true
					}
				}
			}
			return false
		case "import_from_statement":
			idx.Imports++
			// from m import a, b binds a and b, not m.
			seenName := false
			for i := 0; i < int(node.ChildCount()); i++ {
				child := node.Child(i)
				switch child.Type() {
				case "dotted_name":
					if !seenName {
						seenName = true
						continue
					}
					idx.ImportedModules[rootModule(parser.GetNodeText(child, source))] = true
				case "aliased_import":
					if alias := child.ChildByFieldName("alias"); alias != nil {
						idx.ImportedModules[parser.GetNodeText(alias, source)] = true
					}
				}
			}
			return false
		}
		return true
	})
}

func rootModule(dotted string) string {
	if i := strings.IndexByte(dotted, '.'); i >= 0 {
		return dotted[:i]
	}
	return dotted
}

// collectGlobals counts module-level assignments and how often functions
// refer to those names. Plain reads count as usages too, not just names
// declared with a global statement.
func (idx *FileIndex) collectGlobals() {
	// Module-level globals: assignments directly under the module node
	// whose target is a plain name, excluding dunder metadata.
	names := make(map[string]bool)
	for i := 0; i < int(idx.Root.ChildCount()); i++ {
		stmt := idx.Root.Child(i)
		if stmt.Type() != "expression_statement" {
			continue
		}
		for j := 0; j < int(stmt.ChildCount()); j++ {
			assign := stmt.Child(j)
			if assign.Type() != "assignment" && assign.Type() != "augmented_assignment" {
				continue
			}
			left := assign.ChildByFieldName("left")
			if left == nil || left.Type() != "identifier" {
				continue
			}
			name := parser.GetNodeText(left, idx.Source)
			if strings.HasPrefix(name, "__") && strings.HasSuffix(name, "__") {
				continue
			}
			idx.ModuleLevelGlobals++
			names[name] = true
		}
	}

	if len(names) == 0 {
		return
	}
	for i := range idx.Functions {
		idx.GlobalUsages += countNameReads(idx.Functions[i].Body, idx.Source, names)
	}
}

// countNameReads counts references to the given names inside a body.
// Nested definitions are indexed as their own functions, so the walk
// stops at them; only the object side of an attribute access can refer
// to a module-level name.
func countNameReads(node *sitter.Node, source []byte, names map[string]bool) int {
	if node == nil {
		return 0
	}
	switch node.Type() {
	case "function_definition", "class_definition":
		return 0
	case "identifier":
		if names[parser.GetNodeText(node, source)] {
			return 1
		}
		return 0
	case "attribute":
		return countNameReads(node.ChildByFieldName("object"), source, names)
	}

	count := 0
	for i := 0; i < int(node.ChildCount()); i++ {
		count += countNameReads(node.Child(i), source, names)
	}
	return count
}

// countLines classifies every physical line. Docstring ranges are marked
// from the AST first so a '#' inside a docstring is not miscounted.
func (idx *FileIndex) countLines() {
	lines := strings.Split(string(idx.Source), "\n")
	// A trailing newline produces one phantom empty element.
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	idx.Lines.Total = len(lines)

	docLines := make(map[int]bool)
	markDoc := func(body *sitter.Node) {
		str := parser.DocstringNode(body)
		if str == nil {
			return
		}
		for l := parser.StartLine(str); l <= parser.EndLine(str); l++ {
			docLines[l] = true
		}
	}
	markDoc(idx.Root)
	for i := range idx.Functions {
		markDoc(idx.Functions[i].Body)
	}
	for i := range idx.Classes {
		markDoc(idx.Classes[i].Node.ChildByFieldName("body"))
	}

	for i, line := range lines {
		lineNo := i + 1
		trimmed := strings.TrimSpace(line)
		switch {
		case docLines[lineNo]:
			idx.Lines.Docstring++
		case trimmed == "":
			idx.Lines.Blank++
		case strings.HasPrefix(trimmed, "#"):
			idx.Lines.Comment++
		default:
			idx.Lines.Source++
		}
	}
}

// CommentPercentage returns comment plus docstring lines over total lines.
func (l LineCounts) CommentPercentage() float64 {
	if l.Total == 0 {
		return 0
	}
	return float64(l.Comment+l.Docstring) / float64(l.Total) * 100
}
