package domain

import (
	"unicode"
	"unicode/utf8"

	m "cleandesigner.dev/pkg/cleandesigner/internal/model"
)

// Analyze decides, member by member, which declarations of the designer
// class duplicate the companion file. It does not touch either tree.
//
// A property is dropped when the companion declares a property with the
// same name. A field declaration is dropped when any of its variables is a
// backing field of a companion property (see MatchesBackingField).
func Analyze(designer *m.SyntaxTree, class *m.Class, companion *m.SyntaxTree, prefix rune) m.Verdict {
	verdict := m.Verdict{
		Class:  *class,
		Prefix: prefix,
	}

	if designer != nil {
		verdict.Designer = designer.Path
	}

	if companion != nil {
		verdict.CompanionProperties = companion.PropertyNames()
	}

	properties := make(map[string]struct{}, len(verdict.CompanionProperties))
	for _, name := range verdict.CompanionProperties {
		properties[name] = struct{}{}
	}

	verdict.Decisions = make([]m.Decision, 0, len(class.Members))

	for _, member := range class.Members {
		verdict.Decisions = append(verdict.Decisions, decide(member, properties, prefix))
	}

	return verdict
}

func decide(member m.Member, properties map[string]struct{}, prefix rune) m.Decision {
	decision := m.Decision{Member: member, Keep: true}

	switch member.Kind {
	case m.MemberProperty:
		if _, ok := properties[member.Name]; ok {
			decision.Keep = false
			decision.Reason = m.ReasonDuplicateProperty
		}

	case m.MemberField:
		for _, variable := range member.Variables {
			if MatchesBackingField(variable, prefix, properties) {
				decision.Matched = append(decision.Matched, variable)
			}
		}

		// The declaration goes as a whole as soon as one variable matches.
		if len(decision.Matched) > 0 {
			decision.Keep = false
			decision.Reason = m.ReasonBackingField
		}

	case m.MemberOther:
	}

	return decision
}

// MatchesBackingField reports whether variable is the backing field of one of
// properties: it must start with prefix, and the rest of the name, as is or
// with its first letter upper-cased, must be a property name. A variable made
// of the prefix alone never matches.
func MatchesBackingField(variable string, prefix rune, properties map[string]struct{}) bool {
	candidate, ok := BackingFieldCandidate(variable, prefix)
	if !ok || candidate == "" {
		return false
	}

	if _, found := properties[candidate]; found {
		return true
	}

	_, found := properties[capitalize(candidate)]

	return found
}

// BackingFieldCandidate strips prefix from variable. ok is false when the
// variable does not start with prefix.
func BackingFieldCandidate(variable string, prefix rune) (string, bool) {
	first, size := utf8.DecodeRuneInString(variable)
	if size == 0 || first != prefix {
		return "", false
	}

	return variable[size:], true
}

func capitalize(s string) string {
	first, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}

	return string(unicode.ToUpper(first)) + s[size:]
}
