// Package parser wraps tree-sitter for Python source parsing.
package parser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// ParseError indicates a file could not be parsed into a usable syntax tree.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ErrSyntax is the underlying cause when tree-sitter produced an error tree.
var ErrSyntax = fmt.Errorf("syntax error")

// Parser wraps a tree-sitter parser configured for Python.
type Parser struct {
	parser *sitter.Parser
}

// ParseResult contains the parsed AST and metadata.
type ParseResult struct {
	Tree   *sitter.Tree
	Source []byte
	Path   string
}

// New creates a new parser instance.
func New() *Parser {
	p := sitter.NewParser()
	p.SetLanguage(python.GetLanguage())
	return &Parser{parser: p}
}

// ParseFile reads and parses a Python source file.
func (p *Parser) ParseFile(path string) (*ParseResult, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	if !IsPythonFile(path) {
		return nil, &ParseError{Path: path, Err: fmt.Errorf("not a python file")}
	}

	return p.Parse(source, path)
}

// Parse parses Python source code.
// A tree whose root is an ERROR node yields a ParseError; partial errors
// deeper in the tree are tolerated and analyzed as-is.
func (p *Parser) Parse(source []byte, path string) (*ParseResult, error) {
	tree, err := p.parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	root := tree.RootNode()
	if root == nil || root.Type() == "ERROR" {
		return nil, &ParseError{Path: path, Err: ErrSyntax}
	}

	return &ParseResult{
		Tree:   tree,
		Source: source,
		Path:   path,
	}, nil
}

// IsPythonFile reports whether a path has a Python source extension.
func IsPythonFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".py", ".pyw", ".pyi":
		return true
	default:
		return false
	}
}

// Close releases parser resources.
func (p *Parser) Close() {
	p.parser.Close()
}

// NodeVisitor is a function that visits AST nodes.
type NodeVisitor func(node *sitter.Node, source []byte) bool

// TypedNodeVisitor visits AST nodes with pre-cached node type to avoid CGO overhead.
type TypedNodeVisitor func(node *sitter.Node, nodeType string, source []byte) bool

// Walk traverses the AST calling visitor for each node.
func Walk(node *sitter.Node, source []byte, visitor NodeVisitor) {
	if node == nil {
		return
	}

	if !visitor(node, source) {
		return
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		Walk(node.Child(i), source, visitor)
	}
}

// WalkTyped traverses the AST with cached node types to reduce CGO overhead.
// Use this when you need to check node types frequently.
func WalkTyped(node *sitter.Node, source []byte, visitor TypedNodeVisitor) {
	if node == nil {
		return
	}

	nodeType := node.Type() // Cache the type once per node
	if !visitor(node, nodeType, source) {
		return
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		WalkTyped(node.Child(i), source, visitor)
	}
}

// FindNodes returns all nodes matching a predicate.
func FindNodes(root *sitter.Node, source []byte, predicate func(*sitter.Node) bool) []*sitter.Node {
	var results []*sitter.Node
	Walk(root, source, func(node *sitter.Node, source []byte) bool {
		if predicate(node) {
			results = append(results, node)
		}
		return true
	})
	return results
}

// FindNodesByType returns all nodes of a specific type.
func FindNodesByType(root *sitter.Node, source []byte, nodeType string) []*sitter.Node {
	return FindNodes(root, source, func(n *sitter.Node) bool {
		return n.Type() == nodeType
	})
}

// GetNodeText extracts the source text for a node.
// Returns empty string if node is nil or byte offsets are out of bounds.
func GetNodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	start := node.StartByte()
	end := node.EndByte()
	if start > end || end > uint32(len(source)) {
		return ""
	}
	return string(source[start:end])
}

// StartLine returns the 1-based start line of a node.
func StartLine(node *sitter.Node) int {
	return int(node.StartPoint().Row) + 1
}

// EndLine returns the 1-based end line of a node.
func EndLine(node *sitter.Node) int {
	return int(node.EndPoint().Row) + 1
}

// ChildOfType returns the first direct child with the given type, or nil.
func ChildOfType(node *sitter.Node, nodeType string) *sitter.Node {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() == nodeType {
			return child
		}
	}
	return nil
}

// Docstring returns the docstring of a function, class, or module body
// node, or "" when the first statement is not a string expression.
func Docstring(body *sitter.Node, source []byte) string {
	if body == nil {
		return ""
	}
	for i := 0; i < int(body.ChildCount()); i++ {
		child := body.Child(i)
		if !child.IsNamed() {
			continue
		}
		if child.Type() == "comment" {
			continue
		}
		if child.Type() == "expression_statement" {
			if str := ChildOfType(child, "string"); str != nil {
				return GetNodeText(str, source)
			}
		}
		return ""
	}
	return ""
}

// DocstringNode returns the string node of a body's docstring, or nil.
func DocstringNode(body *sitter.Node) *sitter.Node {
	if body == nil {
		return nil
	}
	for i := 0; i < int(body.ChildCount()); i++ {
		child := body.Child(i)
		if !child.IsNamed() {
			continue
		}
		if child.Type() == "comment" {
			continue
		}
		if child.Type() == "expression_statement" {
			return ChildOfType(child, "string")
		}
		return nil
	}
	return nil
}

// ParameterNames extracts parameter names from a function_definition node,
// excluding self and cls receivers.
func ParameterNames(fn *sitter.Node, source []byte) []string {
	params := fn.ChildByFieldName("parameters")
	if params == nil {
		return nil
	}

	var names []string
	for i := 0; i < int(params.ChildCount()); i++ {
		child := params.Child(i)
		var name string
		switch child.Type() {
		case "identifier":
			name = GetNodeText(child, source)
		case "typed_parameter", "default_parameter", "typed_default_parameter":
			if id := ChildOfType(child, "identifier"); id != nil {
				name = GetNodeText(id, source)
			}
		case "list_splat_pattern", "dictionary_splat_pattern":
			if id := ChildOfType(child, "identifier"); id != nil {
				name = GetNodeText(id, source)
			}
		}
		if name == "" || name == "self" || name == "cls" {
			continue
		}
		names = append(names, name)
	}
	return names
}
