package masking

import "strings"

const (
	// SpecSeparator separates individual field specifications in one policy value.
	SpecSeparator = ","

	// PatternSeparator separates the path of a field specification from its
	// regex clauses, and the clauses from each other.
	PatternSeparator = "::"

	// ListMarker marks a path segment whose value is a collection to descend into.
	ListMarker = "(List)"
)

// Segment is one accessor step of a field path.
type Segment struct {
	Name string
	List bool // Written with the list-descent marker
}

// FieldSpec is one parsed field specification: a path plus optional
// capture patterns. An empty Patterns slice means the whole value is masked,
// and so does every blank pattern in it.
type FieldSpec struct {
	Raw      string
	Path     []Segment
	Patterns []string
}

// ParseFieldSpecs splits a comma-joined policy value into field specifications.
// Entries with an empty path are dropped.
//
// Grammar of one entry:
//
//	path ["::" regex]*
//
// where path is dot separated and a segment may be suffixed with "(List)".
// Blank regex clauses are kept as "" and mask the whole value.
func ParseFieldSpecs(csv string) []FieldSpec {
	var specs []FieldSpec
	for _, raw := range strings.Split(csv, SpecSeparator) {
		spec, ok := ParseFieldSpec(raw)
		if !ok {
			continue
		}
		specs = append(specs, spec)
	}
	return specs
}

// ParseFieldSpec parses a single field specification.
// It reports false when the entry carries no path.
func ParseFieldSpec(raw string) (FieldSpec, bool) {
	parts := strings.Split(raw, PatternSeparator)
	path := parsePath(parts[0])
	if len(path) == 0 {
		return FieldSpec{}, false
	}

	spec := FieldSpec{Raw: raw, Path: path}
	for _, p := range parts[1:] {
		if IsBlankPattern(p) {
			p = ""
		}
		spec.Patterns = append(spec.Patterns, p)
	}
	return spec, true
}

// IsBlankPattern reports whether a regex clause is empty or whitespace only.
func IsBlankPattern(p string) bool {
	return strings.TrimSpace(p) == ""
}

func parsePath(path string) []Segment {
	var segments []Segment
	for _, name := range strings.Split(strings.TrimSpace(path), ".") {
		name = strings.TrimSpace(name)
		list := false
		if trimmed, ok := strings.CutSuffix(name, ListMarker); ok {
			name = strings.TrimSpace(trimmed)
			list = true
		}
		if name == "" {
			continue
		}
		segments = append(segments, Segment{Name: name, List: list})
	}
	return segments
}
