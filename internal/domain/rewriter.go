package domain

import (
	"context"
	"fmt"

	"github.com/pmezard/go-difflib/difflib"

	"cleandesigner.dev/pkg/cleandesigner/internal/adapter"
	m "cleandesigner.dev/pkg/cleandesigner/internal/model"
)

// Rewrite is the new content of a designer file.
type Rewrite struct {
	Content []byte
	// Changed is false when the verdict dropped nothing.
	Changed bool
}

// Rewriter turns a verdict into the text of the cleaned designer file.
type Rewriter interface {
	Rewrite(ctx context.Context, tree *m.SyntaxTree, verdict m.Verdict) (Rewrite, error)
}

type rewriter struct {
	adapter.SyntaxAdapter
}

// NewRewriter creates a Rewriter that edits trees through syntaxAdapter.
func NewRewriter(syntaxAdapter adapter.SyntaxAdapter) Rewriter {
	return &rewriter{SyntaxAdapter: syntaxAdapter}
}

func (r *rewriter) Rewrite(ctx context.Context, tree *m.SyntaxTree, verdict m.Verdict) (Rewrite, error) {
	if err := ctx.Err(); err != nil {
		return Rewrite{}, err
	}

	if !verdict.HasDuplicates() {
		return Rewrite{Content: r.Print(tree)}, nil
	}

	class := verdict.Class

	cleaned, err := r.ReplaceMembers(tree, &class, verdict.Kept())
	if err != nil {
		return Rewrite{}, fmt.Errorf("replace members of %s: %w", class.Name, err)
	}

	return Rewrite{Content: r.Print(cleaned), Changed: true}, nil
}

// CleanEvents lists the removal notices for a verdict: one per dropped
// property and one per matching variable of a dropped field.
func CleanEvents(designer string, verdict m.Verdict) []m.Event {
	var events []m.Event

	for _, decision := range verdict.Dropped() {
		switch decision.Reason {
		case m.ReasonDuplicateProperty:
			events = append(events, m.Event{
				Kind:     m.EventRemovedProperty,
				Designer: designer,
				Name:     decision.Member.Name,
			})
		case m.ReasonBackingField:
			for _, variable := range decision.Matched {
				events = append(events, m.Event{
					Kind:     m.EventRemovedField,
					Designer: designer,
					Name:     variable,
				})
			}
		case m.ReasonNone:
		}
	}

	return events
}

// UnifiedDiff renders the change from before to after for path.
func UnifiedDiff(path m.Path, before, after []byte) (string, error) {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(before)),
		B:        difflib.SplitLines(string(after)),
		FromFile: string(path),
		ToFile:   string(path) + " (cleaned)",
		Context:  3,
	}

	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return "", fmt.Errorf("diff %s: %w", path, err)
	}

	return text, nil
}
