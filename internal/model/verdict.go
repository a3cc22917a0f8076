package model

// Reason explains why a designer member is dropped.
type Reason int

const (
	// ReasonNone marks a kept member.
	ReasonNone Reason = iota
	// ReasonDuplicateProperty marks a property also declared by the companion file.
	ReasonDuplicateProperty
	// ReasonBackingField marks a field whose prefixed variable backs a companion property.
	ReasonBackingField
)

func (r Reason) String() string {
	switch r {
	case ReasonDuplicateProperty:
		return "duplicate property"
	case ReasonBackingField:
		return "backing field"
	default:
		return "none"
	}
}

// Decision is the analyzer's keep/drop call for one designer member.
type Decision struct {
	Member Member
	Keep   bool
	Reason Reason
	// Matched lists the field variables that satisfied the backing-field rule.
	Matched []string
}

// Verdict is the analysis result for one designer/companion pair.
type Verdict struct {
	Designer Path
	Class    Class
	Prefix   rune
	// CompanionProperties are the companion property names in first declaration order.
	CompanionProperties []string
	Decisions           []Decision
}

// Kept returns the kept members in original order.
func (v Verdict) Kept() []Member {
	kept := make([]Member, 0, len(v.Decisions))

	for _, decision := range v.Decisions {
		if decision.Keep {
			kept = append(kept, decision.Member)
		}
	}

	return kept
}

// Dropped returns the decisions of the members to remove, in original order.
func (v Verdict) Dropped() []Decision {
	var dropped []Decision

	for _, decision := range v.Decisions {
		if !decision.Keep {
			dropped = append(dropped, decision)
		}
	}

	return dropped
}

// HasDuplicates reports whether at least one member is dropped.
func (v Verdict) HasDuplicates() bool {
	for _, decision := range v.Decisions {
		if !decision.Keep {
			return true
		}
	}

	return false
}
