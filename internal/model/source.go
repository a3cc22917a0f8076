// Package model defines the data structures shared by the designer cleaner.
package model

// Path represents a file system path.
type Path string

// Pair links a designer file with its hand-authored companion.
type Pair struct {
	// Name is the designer file name without its directory, e.g. "Customer.Designer.cs".
	Name      string
	Designer  Path
	Companion Path
}
