package adapter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/csharp"

	m "cleandesigner.dev/pkg/cleandesigner/internal/model"
)

var (
	// ErrClassNotInTree is returned when a class does not belong to the tree being rewritten.
	ErrClassNotInTree = errors.New("class does not belong to syntax tree")
	// ErrMemberNotInClass is returned when a replacement member is unknown to the class
	// or appears out of its original order.
	ErrMemberNotInClass = errors.New("member does not belong to class")
)

// SyntaxAdapter hides the C# parser behind a small contract so the domain
// layer only deals with classes and their members.
type SyntaxAdapter interface {
	// Parse builds a syntax tree. Malformed source still yields a best-effort
	// tree; only cancellation or parser setup failures return an error.
	Parse(ctx context.Context, path m.Path, src []byte) (*m.SyntaxTree, error)

	// FindClass returns the first class declaration in document order.
	FindClass(tree *m.SyntaxTree) (*m.Class, bool)

	// Members returns the ordered member list of a class.
	Members(class *m.Class) []m.Member

	// ReplaceMembers returns a tree in which class only holds members. The
	// members must be an order-preserving subset of the class members.
	ReplaceMembers(tree *m.SyntaxTree, class *m.Class, members []m.Member) (*m.SyntaxTree, error)

	// Print serializes a tree back to source text.
	Print(tree *m.SyntaxTree) []byte
}

// CSharpSyntaxAdapter implements SyntaxAdapter with tree-sitter's C# grammar.
type CSharpSyntaxAdapter struct{}

// NewCSharpSyntaxAdapter constructs a CSharpSyntaxAdapter.
func NewCSharpSyntaxAdapter() *CSharpSyntaxAdapter {
	return &CSharpSyntaxAdapter{}
}

// Parse builds a syntax snapshot of src.
func (a *CSharpSyntaxAdapter) Parse(ctx context.Context, path m.Path, src []byte) (*m.SyntaxTree, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	parser := sitter.NewParser()
	defer parser.Close()

	parser.SetLanguage(csharp.GetLanguage())

	source := make([]byte, len(src))
	copy(source, src)

	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	result := &m.SyntaxTree{
		Path:      path,
		Source:    source,
		HasErrors: root.HasError(),
	}

	collector := syntaxCollector{source: source, tree: result}
	collector.walk(root)

	if result.HasErrors {
		slog.Debug("parser recovered from malformed source", "path", path)
	}

	slog.Debug("parsed C# file",
		"path", path,
		"classes", len(result.Classes),
		"properties", len(result.Properties),
		"fieldVariables", len(result.FieldVariables))

	return result, nil
}

// FindClass returns the first class in pre-order.
func (a *CSharpSyntaxAdapter) FindClass(tree *m.SyntaxTree) (*m.Class, bool) {
	if tree == nil || len(tree.Classes) == 0 {
		return nil, false
	}

	return &tree.Classes[0], true
}

// Members returns a copy of the class member list.
func (a *CSharpSyntaxAdapter) Members(class *m.Class) []m.Member {
	if class == nil {
		return nil
	}

	members := make([]m.Member, len(class.Members))
	copy(members, class.Members)

	return members
}

// ReplaceMembers excises every member of class that is not listed in members.
func (a *CSharpSyntaxAdapter) ReplaceMembers(tree *m.SyntaxTree, class *m.Class, members []m.Member) (*m.SyntaxTree, error) {
	if tree == nil || class == nil {
		return nil, ErrClassNotInTree
	}

	if !containsClass(tree, class) {
		return nil, fmt.Errorf("%w: %s", ErrClassNotInTree, class.Name)
	}

	removed, err := removedExtents(class, members)
	if err != nil {
		return nil, err
	}

	return spliceTree(tree, mergeSpans(removed)), nil
}

// Print returns the source text of tree.
func (a *CSharpSyntaxAdapter) Print(tree *m.SyntaxTree) []byte {
	if tree == nil {
		return nil
	}

	out := make([]byte, len(tree.Source))
	copy(out, tree.Source)

	return out
}

const (
	nodeClass              = "class_declaration"
	nodeProperty           = "property_declaration"
	nodeField              = "field_declaration"
	nodeVariableDecl       = "variable_declaration"
	nodeVariableDeclarator = "variable_declarator"
	nodeIdentifier         = "identifier"
	nodeDeclarationList    = "declaration_list"
	nodeComment            = "comment"
	nodeAccessorList       = "accessor_list"
	nodeArrowExpression    = "arrow_expression_clause"
)

type syntaxCollector struct {
	source []byte
	tree   *m.SyntaxTree
}

func (c *syntaxCollector) walk(n *sitter.Node) {
	if n == nil {
		return
	}

	switch n.Type() {
	case nodeClass:
		c.tree.Classes = append(c.tree.Classes, c.class(n))
	case nodeProperty:
		if name := c.propertyName(n); name != "" {
			c.tree.Properties = append(c.tree.Properties, m.Declaration{Name: name, Offset: int(n.StartByte())})
		}
	case nodeField:
		c.tree.FieldVariables = append(c.tree.FieldVariables, c.fieldVariables(n)...)
	}

	for i := 0; i < int(n.NamedChildCount()); i++ {
		c.walk(n.NamedChild(i))
	}
}

func (c *syntaxCollector) class(n *sitter.Node) m.Class {
	class := m.Class{
		Node: nodeSpan(n),
	}

	if name := n.ChildByFieldName("name"); name != nil {
		class.Name = name.Content(c.source)
	}

	body := n.ChildByFieldName("body")
	if body == nil {
		body = namedChildOfType(n, nodeDeclarationList)
	}

	if body == nil {
		return class
	}

	children := make([]*sitter.Node, 0, body.NamedChildCount())
	for i := 0; i < int(body.NamedChildCount()); i++ {
		children = append(children, body.NamedChild(i))
	}

	for i, child := range children {
		if isTrivia(child) {
			continue
		}

		class.Members = append(class.Members, c.member(children, i))
	}

	return class
}

func (c *syntaxCollector) member(siblings []*sitter.Node, index int) m.Member {
	n := siblings[index]
	member := m.Member{
		Kind:   m.MemberOther,
		Node:   nodeSpan(n),
		Extent: memberExtent(c.source, siblings, index),
	}

	switch n.Type() {
	case nodeProperty:
		member.Kind = m.MemberProperty
		member.Name = c.propertyName(n)
	case nodeField:
		member.Kind = m.MemberField
		for _, variable := range c.fieldVariables(n) {
			member.Variables = append(member.Variables, variable.Name)
		}
	}

	return member
}

func (c *syntaxCollector) propertyName(n *sitter.Node) string {
	if name := n.ChildByFieldName("name"); name != nil {
		return name.Content(c.source)
	}

	// Older grammars do not label the name; it is the last identifier before the body.
	var last string

	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)

		switch child.Type() {
		case nodeIdentifier:
			last = child.Content(c.source)
		case nodeAccessorList, nodeArrowExpression:
			return last
		}
	}

	return last
}

func (c *syntaxCollector) fieldVariables(n *sitter.Node) []m.Declaration {
	declaration := namedChildOfType(n, nodeVariableDecl)
	if declaration == nil {
		return nil
	}

	var variables []m.Declaration

	for i := 0; i < int(declaration.NamedChildCount()); i++ {
		declarator := declaration.NamedChild(i)
		if declarator.Type() != nodeVariableDeclarator {
			continue
		}

		name := declarator.ChildByFieldName("name")
		if name == nil {
			name = namedChildOfType(declarator, nodeIdentifier)
		}

		if name == nil {
			continue
		}

		variables = append(variables, m.Declaration{
			Name:   name.Content(c.source),
			Offset: int(name.StartByte()),
		})
	}

	return variables
}

func namedChildOfType(n *sitter.Node, nodeType string) *sitter.Node {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child.Type() == nodeType {
			return child
		}
	}

	return nil
}

// isTrivia reports whether a class body child is a comment or preprocessor directive.
func isTrivia(n *sitter.Node) bool {
	return n.Type() == nodeComment || strings.HasPrefix(n.Type(), "preproc")
}

func nodeSpan(n *sitter.Node) m.Span {
	return m.Span{Start: int(n.StartByte()), End: int(n.EndByte())}
}
