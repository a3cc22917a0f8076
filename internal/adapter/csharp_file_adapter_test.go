package adapter

import (
	"context"
	"errors"
	"testing"

	m "cleandesigner.dev/pkg/cleandesigner/internal/model"
)

const customerDesigner = `namespace Shop
{
    partial class Customer
    {
        private string fName;

        public string Name
        {
            get { return fName; }
            set { fName = value; }
        }

        public int Age { get; set; }
    }
}
`

func parseSource(t *testing.T, src string) *m.SyntaxTree {
	t.Helper()

	tree, err := NewCSharpSyntaxAdapter().Parse(context.Background(), "Customer.Designer.cs", []byte(src))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	return tree
}

func TestCSharpSyntaxAdapter_Parse(t *testing.T) {
	tree := parseSource(t, customerDesigner)

	if tree.HasErrors {
		t.Fatalf("Parse() HasErrors = true for valid source")
	}

	if got := tree.PropertyNames(); len(got) != 2 || got[0] != "Name" || got[1] != "Age" {
		t.Fatalf("PropertyNames() = %v, want [Name Age]", got)
	}

	if got := tree.FieldVariableNames(); len(got) != 1 || got[0] != "fName" {
		t.Fatalf("FieldVariableNames() = %v, want [fName]", got)
	}

	class, ok := NewCSharpSyntaxAdapter().FindClass(tree)
	if !ok {
		t.Fatalf("FindClass() found no class")
	}

	if class.Name != "Customer" {
		t.Fatalf("FindClass() name = %s, want Customer", class.Name)
	}

	members := NewCSharpSyntaxAdapter().Members(class)
	wantKinds := []m.MemberKind{m.MemberField, m.MemberProperty, m.MemberProperty}

	if len(members) != len(wantKinds) {
		t.Fatalf("Members() returned %d members, want %d", len(members), len(wantKinds))
	}

	for i, kind := range wantKinds {
		if members[i].Kind != kind {
			t.Fatalf("Members()[%d] kind = %s, want %s", i, members[i].Kind, kind)
		}
	}

	if members[0].Variables[0] != "fName" || members[1].Name != "Name" || members[2].Name != "Age" {
		t.Fatalf("Members() names = %v %s %s", members[0].Variables, members[1].Name, members[2].Name)
	}
}

func TestCSharpSyntaxAdapter_Parse_MultipleVariables(t *testing.T) {
	tree := parseSource(t, `class Form1
{
    private int fTop, fLeft = 2;
    public void Load() { }
}
`)

	class, ok := NewCSharpSyntaxAdapter().FindClass(tree)
	if !ok {
		t.Fatalf("FindClass() found no class")
	}

	if len(class.Members) != 2 {
		t.Fatalf("Members() = %d, want 2", len(class.Members))
	}

	field := class.Members[0]
	if len(field.Variables) != 2 || field.Variables[0] != "fTop" || field.Variables[1] != "fLeft" {
		t.Fatalf("field variables = %v, want [fTop fLeft]", field.Variables)
	}

	if class.Members[1].Kind != m.MemberOther {
		t.Fatalf("method kind = %s, want other", class.Members[1].Kind)
	}
}

func TestCSharpSyntaxAdapter_Parse_FindsFirstClass(t *testing.T) {
	tree := parseSource(t, `namespace A
{
    partial class First
    {
        class Nested { public int X { get; set; } }
    }

    class Second { }
}
`)

	class, ok := NewCSharpSyntaxAdapter().FindClass(tree)
	if !ok || class.Name != "First" {
		t.Fatalf("FindClass() = %v, %v, want First", class, ok)
	}

	// Nested declarations still count for the whole-tree index.
	if got := tree.PropertyNames(); len(got) != 1 || got[0] != "X" {
		t.Fatalf("PropertyNames() = %v, want [X]", got)
	}
}

func TestCSharpSyntaxAdapter_Parse_NoClass(t *testing.T) {
	tree := parseSource(t, "namespace Empty\n{\n    interface IThing { }\n}\n")

	if _, ok := NewCSharpSyntaxAdapter().FindClass(tree); ok {
		t.Fatalf("FindClass() found a class in a file without one")
	}
}

func TestCSharpSyntaxAdapter_Parse_Malformed(t *testing.T) {
	tree := parseSource(t, "partial class Broken\n{\n    public string Name { get; set; }\n    private int\n}\n")

	if !tree.HasErrors {
		t.Fatalf("Parse() HasErrors = false for malformed source")
	}
}

func TestCSharpSyntaxAdapter_Parse_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewCSharpSyntaxAdapter().Parse(ctx, "x.cs", []byte("class X { }")); err == nil {
		t.Fatalf("Parse() expected error due to context cancellation")
	}
}

func TestCSharpSyntaxAdapter_PrintRoundTrip(t *testing.T) {
	src := "// header\r\nclass  X\r\n{\r\n\tint   a ;  // keep\r\n}\r\n"
	tree := parseSource(t, src)

	if got := string(NewCSharpSyntaxAdapter().Print(tree)); got != src {
		t.Fatalf("Print() = %q, want %q", got, src)
	}
}

func TestCSharpSyntaxAdapter_ReplaceMembers(t *testing.T) {
	adapter := NewCSharpSyntaxAdapter()
	tree := parseSource(t, customerDesigner)
	class, _ := adapter.FindClass(tree)
	members := adapter.Members(class)

	cleaned, err := adapter.ReplaceMembers(tree, class, members[2:])
	if err != nil {
		t.Fatalf("ReplaceMembers() error = %v", err)
	}

	want := `namespace Shop
{
    partial class Customer
    {
        public int Age { get; set; }
    }
}
`
	if got := string(adapter.Print(cleaned)); got != want {
		t.Fatalf("Print() after ReplaceMembers =\n%s\nwant\n%s", got, want)
	}

	if got := cleaned.PropertyNames(); len(got) != 1 || got[0] != "Age" {
		t.Fatalf("PropertyNames() after ReplaceMembers = %v, want [Age]", got)
	}

	if len(cleaned.FieldVariables) != 0 {
		t.Fatalf("FieldVariables after ReplaceMembers = %v, want none", cleaned.FieldVariables)
	}

	// The original tree is not modified.
	if string(adapter.Print(tree)) != customerDesigner {
		t.Fatalf("ReplaceMembers() modified the input tree")
	}
}

func TestCSharpSyntaxAdapter_ReplaceMembers_KeepsAll(t *testing.T) {
	adapter := NewCSharpSyntaxAdapter()
	tree := parseSource(t, customerDesigner)
	class, _ := adapter.FindClass(tree)

	cleaned, err := adapter.ReplaceMembers(tree, class, adapter.Members(class))
	if err != nil {
		t.Fatalf("ReplaceMembers() error = %v", err)
	}

	if got := string(adapter.Print(cleaned)); got != customerDesigner {
		t.Fatalf("Print() = %q, want unchanged source", got)
	}
}

func TestCSharpSyntaxAdapter_ReplaceMembers_RemovesOwnComments(t *testing.T) {
	adapter := NewCSharpSyntaxAdapter()
	src := `class Form1
{
    // the caption
    private string fCaption; // set by designer
    #region Layout
    public int Width { get; set; }
    #endregion
}
`
	tree := parseSource(t, src)
	class, _ := adapter.FindClass(tree)
	members := adapter.Members(class)

	if len(members) != 2 {
		t.Fatalf("Members() = %d, want 2 (directives are not members)", len(members))
	}

	cleaned, err := adapter.ReplaceMembers(tree, class, members[1:])
	if err != nil {
		t.Fatalf("ReplaceMembers() error = %v", err)
	}

	want := `class Form1
{
    #region Layout
    public int Width { get; set; }
    #endregion
}
`
	if got := string(adapter.Print(cleaned)); got != want {
		t.Fatalf("Print() =\n%s\nwant\n%s", got, want)
	}
}

func TestCSharpSyntaxAdapter_ReplaceMembers_Errors(t *testing.T) {
	adapter := NewCSharpSyntaxAdapter()
	tree := parseSource(t, customerDesigner)
	class, _ := adapter.FindClass(tree)
	members := adapter.Members(class)

	t.Run("out of order", func(t *testing.T) {
		_, err := adapter.ReplaceMembers(tree, class, []m.Member{members[2], members[0]})
		if !errors.Is(err, ErrMemberNotInClass) {
			t.Fatalf("ReplaceMembers() error = %v, want ErrMemberNotInClass", err)
		}
	})

	t.Run("foreign class", func(t *testing.T) {
		other := parseSource(t, "class Other { int fX; }\n")
		otherClass, _ := adapter.FindClass(other)

		_, err := adapter.ReplaceMembers(tree, otherClass, nil)
		if !errors.Is(err, ErrClassNotInTree) {
			t.Fatalf("ReplaceMembers() error = %v, want ErrClassNotInTree", err)
		}
	})
}
