package model

// EventKind identifies a console notice produced while processing a pair.
type EventKind int

// Available EventKind values.
const (
	EventFileNotFound EventKind = iota
	EventReadError
	EventNoClass
	EventWriteError
	EventRemovedProperty
	EventRemovedField
	EventUpdated
	EventUnchanged
	EventDiff
	EventAnalyzing
	EventDuplicateProperty
	EventAssociatedField
	EventAnalysisCompleted
)

// IsError reports whether the event ends processing of its pair.
func (k EventKind) IsError() bool {
	switch k {
	case EventFileNotFound, EventReadError, EventNoClass, EventWriteError:
		return true
	default:
		return false
	}
}

// Event is one notice about a pair.
type Event struct {
	Kind EventKind
	// Designer is the designer file name the event refers to.
	Designer string
	// Name is the member name for member-level events.
	Name string
	// Path is the file path for file-level events.
	Path Path
	// Detail carries free text such as a unified diff.
	Detail string
	Err    error
}

// PairStatus summarizes how a pair ended.
type PairStatus string

const (
	// StatusUpdated means the designer file was rewritten.
	StatusUpdated PairStatus = "updated"
	// StatusUnchanged means no duplicates were found in clean mode.
	StatusUnchanged PairStatus = "unchanged"
	// StatusPreview means duplicates were found but the file was left alone (dry run).
	StatusPreview PairStatus = "preview"
	// StatusReported means report mode analyzed the pair.
	StatusReported PairStatus = "reported"
	// StatusSkipped means the pair was skipped because of an error.
	StatusSkipped PairStatus = "skipped"
)

// PairOutcome is everything produced for one pair.
type PairOutcome struct {
	Pair                Pair
	Status              PairStatus
	Events              []Event
	RemovedProperties   []string
	RemovedFields       []string
	DuplicateProperties []string
	AssociatedFields    []string
	Err                 error
}

// RunSummary is the persisted outcome of one run.
type RunSummary struct {
	Directory Path          `yaml:"directory"`
	Mode      string        `yaml:"mode"`
	Prefix    string        `yaml:"prefix"`
	DryRun    bool          `yaml:"dry_run,omitempty"`
	Pairs     []PairSummary `yaml:"pairs"`
}

// PairSummary is the persisted outcome of one pair.
type PairSummary struct {
	Designer            string   `yaml:"designer"`
	Companion           string   `yaml:"companion"`
	Status              string   `yaml:"status"`
	Error               string   `yaml:"error,omitempty"`
	RemovedProperties   []string `yaml:"removed_properties,omitempty"`
	RemovedFields       []string `yaml:"removed_fields,omitempty"`
	DuplicateProperties []string `yaml:"duplicate_properties,omitempty"`
	AssociatedFields    []string `yaml:"associated_fields,omitempty"`
}
