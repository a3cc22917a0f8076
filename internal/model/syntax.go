package model

// MemberKind tags a class member.
type MemberKind int

const (
	// MemberOther is any declaration that is neither a property nor a field.
	MemberOther MemberKind = iota
	// MemberProperty is a property declaration.
	MemberProperty
	// MemberField is a field declaration binding one or more variables.
	MemberField
)

func (k MemberKind) String() string {
	switch k {
	case MemberProperty:
		return "property"
	case MemberField:
		return "field"
	default:
		return "other"
	}
}

// Span is a half-open byte range [Start, End) into a source file.
type Span struct {
	Start int
	End   int
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// Contains reports whether offset lies inside the span.
func (s Span) Contains(offset int) bool {
	return offset >= s.Start && offset < s.End
}

// Member is a declaration inside a class body.
type Member struct {
	Kind MemberKind
	// Name is the declared identifier of a property.
	Name string
	// Variables are the names bound by a field declaration, in order.
	Variables []string
	// Node covers the declaration itself, attributes included.
	Node Span
	// Extent covers the declaration plus the trivia that goes away with it:
	// leading own-line comments, indentation, a trailing same-line comment
	// and the line break.
	Extent Span
}

// Class is a class declaration and its ordered members.
type Class struct {
	Name    string
	Node    Span
	Members []Member
}

// Declaration is a named declaration found anywhere in a file.
type Declaration struct {
	Name   string
	Offset int
}

// SyntaxTree is an immutable snapshot of a parsed C# file.
type SyntaxTree struct {
	Path   Path
	Source []byte
	// Classes lists every class declaration in pre-order.
	Classes []Class
	// Properties lists every property declaration in the file.
	Properties []Declaration
	// FieldVariables lists every variable bound by a field declaration in the file.
	FieldVariables []Declaration
	// HasErrors is set when the parser had to recover from malformed input.
	HasErrors bool
}

// PropertyNames returns the distinct property names in first declaration order.
func (t *SyntaxTree) PropertyNames() []string {
	return distinctNames(t.Properties)
}

// FieldVariableNames returns the distinct field variable names in first declaration order.
func (t *SyntaxTree) FieldVariableNames() []string {
	return distinctNames(t.FieldVariables)
}

func distinctNames(decls []Declaration) []string {
	seen := make(map[string]struct{}, len(decls))
	names := make([]string, 0, len(decls))

	for _, decl := range decls {
		if _, ok := seen[decl.Name]; ok {
			continue
		}

		seen[decl.Name] = struct{}{}
		names = append(names, decl.Name)
	}

	return names
}
