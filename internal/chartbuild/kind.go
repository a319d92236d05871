// Package chartbuild maps a loaded table and a user chart selection to a
// renderable chart model. Transform failures are captured as a value, never
// propagated as a panic, so the UI always has something drawable.
package chartbuild

import "fmt"

// Kind identifies a chart type selectable in the UI.
type Kind string

const (
	KindBar     Kind = "bar"
	KindLine    Kind = "line"
	KindPie     Kind = "pie"
	KindScatter Kind = "scatter"
	KindArea    Kind = "area"
)

// Kinds lists all supported chart kinds in display order.
func Kinds() []Kind {
	return []Kind{KindBar, KindLine, KindPie, KindScatter, KindArea}
}

// ParseKind validates a user-supplied chart type string.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindBar, KindLine, KindPie, KindScatter, KindArea:
		return Kind(s), nil
	}
	return "", fmt.Errorf("unknown chart type %q", s)
}

// Spec is the user's chart selection: a kind plus x and y column names.
// A spec with both columns unset is the "nothing selected yet" state.
type Spec struct {
	Kind Kind   `json:"kind"`
	X    string `json:"x"`
	Y    string `json:"y"`
}
