// Package extract builds a declaration inventory from Python source
// using tree-sitter.
package extract

import (
	"context"
	"fmt"
	"os"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/phobologic/docsteward/internal/lang"
	"github.com/phobologic/docsteward/internal/model"
)

// ParseError indicates the source text is not syntactically valid.
// No partial inventory is produced.
type ParseError struct {
	Path string
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Msg)
}

// File reads and extracts a single file.
func File(path string) (*model.Inventory, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return Source(path, source)
}

// Source extracts the declaration inventory from raw source text in a
// single depth-first traversal. The returned inventory's module root
// always starts at line 1; classes own their methods as children.
func Source(path string, source []byte) (*model.Inventory, error) {
	py := lang.Languages["python"]
	parser := py.NewParser()
	defer parser.Close()

	tree, err := parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, &ParseError{Path: path, Line: 1, Msg: err.Error()}
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		line, msg := firstError(root)
		return nil, &ParseError{Path: path, Line: line, Msg: msg}
	}

	ex := &extractor{source: source}
	ex.module = &model.Declaration{
		Name:      "Module",
		Kind:      model.Module,
		StartLine: 1,
		EndLine:   endLine(root),
		HasDoc:    hasDocstring(root),
	}
	ex.walk(root, nil)

	for _, c := range ex.children {
		ex.module.Children = append(ex.module.Children, *c)
	}
	return &model.Inventory{Path: path, Module: *ex.module}, nil
}

type extractor struct {
	source   []byte
	module   *model.Declaration
	children []*model.Declaration
}

// walk visits named children of node, collecting classes and callables.
// cls is the enclosing class declaration, nil at module level. Function
// bodies are never descended into: a def nested inside a callable is
// not part of the inventory.
func (ex *extractor) walk(node *sitter.Node, cls *model.Declaration) {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "class_definition":
			ex.visitClass(child)
		case "function_definition":
			ex.visitCallable(child, cls)
		case "decorated_definition":
			// The declaration spans from the def/class line, not the
			// decorator, so unwrap and use the inner node throughout.
			inner := child.ChildByFieldName("definition")
			if inner == nil {
				continue
			}
			switch inner.Type() {
			case "class_definition":
				ex.visitClass(inner)
			case "function_definition":
				ex.visitCallable(inner, cls)
			}
		default:
			ex.walk(child, cls)
		}
	}
}

// visitClass records a class declaration and walks its body for
// methods. A class nested inside another class body is recorded as a
// further class under the module, matching the flat class inventory.
func (ex *extractor) visitClass(node *sitter.Node) {
	decl := &model.Declaration{
		Name:      fieldText(node, "name", ex.source),
		Kind:      model.Class,
		StartLine: startLine(node),
		EndLine:   endLine(node),
		HasDoc:    hasDocstring(node.ChildByFieldName("body")),
	}
	ex.children = append(ex.children, decl)

	if body := node.ChildByFieldName("body"); body != nil {
		ex.walk(body, decl)
	}
}

func (ex *extractor) visitCallable(node *sitter.Node, cls *model.Declaration) {
	kind := model.Function
	if cls != nil {
		kind = model.Method
	}
	decl := model.Declaration{
		Name:      fieldText(node, "name", ex.source),
		Kind:      kind,
		StartLine: startLine(node),
		EndLine:   endLine(node),
		HasDoc:    hasDocstring(node.ChildByFieldName("body")),
		Params:    parameterNames(node.ChildByFieldName("parameters"), ex.source),
	}
	if cls != nil {
		cls.Children = append(cls.Children, decl)
		return
	}
	ex.children = append(ex.children, &decl)
}

// parameterNames collects declared parameter identifiers, excluding
// the implicit receivers self and cls.
func parameterNames(params *sitter.Node, source []byte) []string {
	if params == nil {
		return nil
	}
	var names []string
	for i := 0; i < int(params.NamedChildCount()); i++ {
		p := params.NamedChild(i)
		name := parameterName(p, source)
		if name == "" || name == "self" || name == "cls" {
			continue
		}
		names = append(names, name)
	}
	return names
}

func parameterName(p *sitter.Node, source []byte) string {
	switch p.Type() {
	case "identifier":
		return lang.NodeText(p, source)
	case "default_parameter", "typed_default_parameter":
		if n := p.ChildByFieldName("name"); n != nil {
			return lang.NodeText(n, source)
		}
	case "typed_parameter", "list_splat_pattern", "dictionary_splat_pattern":
		for j := 0; j < int(p.NamedChildCount()); j++ {
			if c := p.NamedChild(j); c.Type() == "identifier" {
				return lang.NodeText(c, source)
			}
		}
	}
	// positional_separator, keyword_separator and friends carry no name.
	return ""
}

// hasDocstring reports whether the first statement of a body block is
// a bare string-literal expression. Comments never count as
// documentation, and a leading comment does not hide a docstring
// behind it.
func hasDocstring(body *sitter.Node) bool {
	if body == nil {
		return false
	}
	var first *sitter.Node
	for i := 0; i < int(body.NamedChildCount()); i++ {
		if c := body.NamedChild(i); c.Type() != "comment" {
			first = c
			break
		}
	}
	if first == nil || first.Type() != "expression_statement" {
		return false
	}
	expr := first.NamedChild(0)
	if expr == nil {
		return false
	}
	switch expr.Type() {
	case "string", "concatenated_string":
		return true
	}
	return false
}

func fieldText(node *sitter.Node, field string, source []byte) string {
	n := node.ChildByFieldName(field)
	if n == nil {
		return ""
	}
	return lang.NodeText(n, source)
}

func startLine(node *sitter.Node) int {
	return int(node.StartPoint().Row) + 1
}

func endLine(node *sitter.Node) int {
	return int(node.EndPoint().Row) + 1
}

// firstError locates the first ERROR or missing node for diagnostics.
func firstError(node *sitter.Node) (int, string) {
	if node.Type() == "ERROR" {
		return startLine(node), "syntax error"
	}
	if node.IsMissing() {
		return startLine(node), fmt.Sprintf("missing %s", node.Type())
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		if child := node.Child(i); child.HasError() || child.IsMissing() {
			return firstError(child)
		}
	}
	return startLine(node), "syntax error"
}
