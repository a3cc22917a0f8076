package domain

import (
	"path/filepath"
	"strings"

	m "cleandesigner.dev/pkg/cleandesigner/internal/model"
)

const (
	// DesignerSuffix ends every designer file name (matched case-insensitively).
	DesignerSuffix = ".Designer.cs"
	// SourceExtension ends every companion file name.
	SourceExtension = ".cs"
)

// IsDesignerFile reports whether name ends with DesignerSuffix, ignoring case.
func IsDesignerFile(name string) bool {
	return len(name) >= len(DesignerSuffix) &&
		strings.EqualFold(name[len(name)-len(DesignerSuffix):], DesignerSuffix)
}

// CompanionName maps "X.Designer.cs" to "X.cs". Other names are returned unchanged.
func CompanionName(name string) string {
	if !IsDesignerFile(name) {
		return name
	}

	return name[:len(name)-len(DesignerSuffix)] + SourceExtension
}

// ResolvePair builds the designer/companion paths for a designer file in dir.
func ResolvePair(dir m.Path, designerName string) m.Pair {
	return m.Pair{
		Name:      designerName,
		Designer:  m.Path(filepath.Join(string(dir), designerName)),
		Companion: m.Path(filepath.Join(string(dir), CompanionName(designerName))),
	}
}

// designerPairs keeps the designer files of names, in order.
func designerPairs(dir m.Path, names []string) []m.Pair {
	var pairs []m.Pair

	for _, name := range names {
		if IsDesignerFile(name) {
			pairs = append(pairs, ResolvePair(dir, name))
		}
	}

	return pairs
}

// affectedPairs keeps the pairs whose designer or companion file is in changed.
func affectedPairs(pairs []m.Pair, changed []string) []m.Pair {
	set := make(map[string]struct{}, len(changed))
	for _, name := range changed {
		set[name] = struct{}{}
	}

	var affected []m.Pair

	for _, pair := range pairs {
		_, designer := set[pair.Name]
		_, companion := set[filepath.Base(string(pair.Companion))]

		if designer || companion {
			affected = append(affected, pair)
		}
	}

	return affected
}
