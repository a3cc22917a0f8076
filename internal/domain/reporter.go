package domain

import (
	m "cleandesigner.dev/pkg/cleandesigner/internal/model"
)

// Report lists the duplicates of a pair without changing anything.
//
// Unlike the clean rules, the associated field lookup only tries the literal
// prefix+name spelling; a field such as "fname" next to property "Name" is
// removed by clean mode but not mentioned here.
func Report(designer string, tree *m.SyntaxTree, verdict m.Verdict) []m.Event {
	events := []m.Event{{Kind: m.EventAnalyzing, Designer: designer}}

	designerProperties := nameSet(tree.Properties)
	designerFields := nameSet(tree.FieldVariables)

	for _, name := range verdict.CompanionProperties {
		if _, ok := designerProperties[name]; !ok {
			continue
		}

		events = append(events, m.Event{
			Kind:     m.EventDuplicateProperty,
			Designer: designer,
			Name:     name,
		})

		field := string(verdict.Prefix) + name
		if _, ok := designerFields[field]; ok {
			events = append(events, m.Event{
				Kind:     m.EventAssociatedField,
				Designer: designer,
				Name:     field,
			})
		}
	}

	return append(events, m.Event{Kind: m.EventAnalysisCompleted, Designer: designer})
}

func nameSet(decls []m.Declaration) map[string]struct{} {
	set := make(map[string]struct{}, len(decls))
	for _, decl := range decls {
		set[decl.Name] = struct{}{}
	}

	return set
}
