package domain_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"

	"cleandesigner.dev/pkg/cleandesigner/internal/domain"
	m "cleandesigner.dev/pkg/cleandesigner/internal/model"
)

func property(name string, start int) m.Member {
	return m.Member{Kind: m.MemberProperty, Name: name, Node: m.Span{Start: start, End: start + 1}}
}

func field(start int, variables ...string) m.Member {
	return m.Member{Kind: m.MemberField, Variables: variables, Node: m.Span{Start: start, End: start + 1}}
}

func companionWith(names ...string) *m.SyntaxTree {
	tree := &m.SyntaxTree{Path: "Form1.cs"}
	for i, name := range names {
		tree.Properties = append(tree.Properties, m.Declaration{Name: name, Offset: i})
	}

	return tree
}

type decisionView struct {
	Keep    bool
	Reason  m.Reason
	Matched []string
}

func decisions(verdict m.Verdict) []decisionView {
	views := make([]decisionView, 0, len(verdict.Decisions))
	for _, decision := range verdict.Decisions {
		views = append(views, decisionView{Keep: decision.Keep, Reason: decision.Reason, Matched: decision.Matched})
	}

	return views
}

func TestAnalyze(t *testing.T) {
	tests := []struct {
		name      string
		members   []m.Member
		companion []string
		prefix    rune
		want      []decisionView
	}{
		{
			name:      "duplicate property and its backing field",
			members:   []m.Member{field(0, "fName"), property("Name", 10), property("Age", 20)},
			companion: []string{"Name"},
			prefix:    'f',
			want: []decisionView{
				{Keep: false, Reason: m.ReasonBackingField, Matched: []string{"fName"}},
				{Keep: false, Reason: m.ReasonDuplicateProperty},
				{Keep: true},
			},
		},
		{
			name:      "lower-case remainder is capitalized",
			members:   []m.Member{field(0, "fname")},
			companion: []string{"Name"},
			prefix:    'f',
			want:      []decisionView{{Keep: false, Reason: m.ReasonBackingField, Matched: []string{"fname"}}},
		},
		{
			name:      "property names are case-sensitive",
			members:   []m.Member{property("name", 0)},
			companion: []string{"Name"},
			prefix:    'f',
			want:      []decisionView{{Keep: true}},
		},
		{
			name:      "prefix is case-sensitive",
			members:   []m.Member{field(0, "FName")},
			companion: []string{"Name"},
			prefix:    'f',
			want:      []decisionView{{Keep: true}},
		},
		{
			name:      "custom prefix",
			members:   []m.Member{field(0, "_Name"), field(5, "fName")},
			companion: []string{"Name"},
			prefix:    '_',
			want: []decisionView{
				{Keep: false, Reason: m.ReasonBackingField, Matched: []string{"_Name"}},
				{Keep: true},
			},
		},
		{
			name:      "declaration goes when any variable matches",
			members:   []m.Member{field(0, "fTop", "fName", "fLeft")},
			companion: []string{"Name"},
			prefix:    'f',
			want:      []decisionView{{Keep: false, Reason: m.ReasonBackingField, Matched: []string{"fName"}}},
		},
		{
			name:      "prefix alone never matches",
			members:   []m.Member{field(0, "f")},
			companion: []string{""},
			prefix:    'f',
			want:      []decisionView{{Keep: true}},
		},
		{
			name:      "fields are not compared with companion fields",
			members:   []m.Member{field(0, "fName")},
			companion: nil,
			prefix:    'f',
			want:      []decisionView{{Keep: true}},
		},
		{
			name:      "other members are always kept",
			members:   []m.Member{{Kind: m.MemberOther, Node: m.Span{Start: 0, End: 4}}},
			companion: []string{"Name"},
			prefix:    'f',
			want:      []decisionView{{Keep: true}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			class := &m.Class{Name: "Form1", Members: tt.members}
			designer := &m.SyntaxTree{Path: "Form1.Designer.cs", Classes: []m.Class{*class}}

			verdict := domain.Analyze(designer, class, companionWith(tt.companion...), tt.prefix)

			if diff := cmp.Diff(tt.want, decisions(verdict), cmpopts.EquateEmpty()); diff != "" {
				t.Fatalf("Analyze() decisions mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAnalyze_KeepsOrderAndInputs(t *testing.T) {
	members := []m.Member{property("A", 0), field(5, "fB"), property("B", 10), property("C", 15)}
	class := &m.Class{Name: "Form1", Members: members}
	designer := &m.SyntaxTree{Path: "Form1.Designer.cs", Classes: []m.Class{*class}}
	companion := companionWith("B", "A", "B")

	verdict := domain.Analyze(designer, class, companion, 'f')

	assert.Equal(t, []string{"B", "A"}, verdict.CompanionProperties)
	assert.Equal(t, []m.Member{members[3]}, verdict.Kept())
	assert.Len(t, verdict.Dropped(), 3)
	assert.True(t, verdict.HasDuplicates())
	assert.Equal(t, m.Path("Form1.Designer.cs"), verdict.Designer)
	assert.Equal(t, 'f', verdict.Prefix)

	// The class handed in is not modified.
	assert.Len(t, class.Members, 4)
}

func TestAnalyze_NoDuplicates(t *testing.T) {
	class := &m.Class{Name: "Form1", Members: []m.Member{property("Width", 0)}}

	verdict := domain.Analyze(&m.SyntaxTree{Classes: []m.Class{*class}}, class, companionWith("Height"), 'f')

	assert.False(t, verdict.HasDuplicates())
	assert.Empty(t, verdict.Dropped())
}

func TestMatchesBackingField(t *testing.T) {
	properties := map[string]struct{}{"Name": {}, "zip": {}, "": {}}

	tests := []struct {
		variable string
		prefix   rune
		want     bool
	}{
		{"fName", 'f', true},
		{"fname", 'f', true},
		{"fzip", 'f', true},
		{"fZip", 'f', false},
		{"Name", 'f', false},
		{"f", 'f', false},
		{"", 'f', false},
		{"mName", 'm', true},
		{"éName", 'é', true},
	}

	for _, tt := range tests {
		t.Run(tt.variable, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.MatchesBackingField(tt.variable, tt.prefix, properties))
		})
	}
}

func TestBackingFieldCandidate(t *testing.T) {
	candidate, ok := domain.BackingFieldCandidate("fName", 'f')
	assert.True(t, ok)
	assert.Equal(t, "Name", candidate)

	candidate, ok = domain.BackingFieldCandidate("f", 'f')
	assert.True(t, ok)
	assert.Empty(t, candidate)

	_, ok = domain.BackingFieldCandidate("gName", 'f')
	assert.False(t, ok)
}
