package chartbuild

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Chetan-316/visualcraft/internal/dataset"
)

// State tags a build outcome.
type State int

const (
	// StateEmpty means no columns are selected yet: no chart, no error.
	StateEmpty State = iota
	// StateRendered means the build succeeded and Chart is set.
	StateRendered
	// StateFailed means the transform failed and Message describes why.
	StateFailed
)

// Result is the tagged outcome of a chart build. Callers switch on State
// instead of inspecting a renderable for an error marker.
type Result struct {
	State   State
	Chart   *Chart
	Message string
}

// Slice is one labeled value of a bar or pie chart.
type Slice struct {
	Label string
	Value float64
}

// Chart is an in-memory renderable chart model. It is owned by the session
// context and replaced wholesale on every successful build.
type Chart struct {
	Kind  Kind
	Title string
	XName string
	YName string

	// Populated for line, scatter and area.
	XValues []float64
	YValues []float64
	// XLabels is set when x is categorical; XValues then hold ordinal
	// positions and XLabels carry the tick text.
	XLabels []string

	// Populated for bar and pie.
	Slices []Slice
}

// Build maps (table, spec) to a chart model.
//
// With either axis unselected it returns the empty result. Any transform
// failure (unknown column, non-numeric y, nothing plottable) is converted to
// a failed result carrying the message; Build never panics on user data.
func Build(t *dataset.Table, spec Spec) *Result {
	if spec.X == "" || spec.Y == "" {
		return &Result{State: StateEmpty}
	}

	ch, err := build(t, spec)
	if err != nil {
		return &Result{State: StateFailed, Message: err.Error()}
	}
	return &Result{State: StateRendered, Chart: ch}
}

func build(t *dataset.Table, spec Spec) (*Chart, error) {
	if _, err := ParseKind(string(spec.Kind)); err != nil {
		return nil, err
	}
	xRec, err := t.ColumnRecords(spec.X)
	if err != nil {
		return nil, err
	}
	yRec, err := t.ColumnRecords(spec.Y)
	if err != nil {
		return nil, err
	}

	ch := &Chart{
		Kind:  spec.Kind,
		Title: fmt.Sprintf("%s of %s vs %s", titleCase(string(spec.Kind)), spec.Y, spec.X),
		XName: spec.X,
		YName: spec.Y,
	}

	switch spec.Kind {
	case KindPie:
		return buildPie(ch, xRec, yRec, spec)
	case KindBar:
		return buildBar(ch, xRec, yRec, spec)
	default:
		return buildXY(ch, xRec, yRec, spec)
	}
}

// buildPie aggregates y by summing within each distinct x value, then emits
// one slice per distinct x. Plotting raw unaggregated rows would double-count
// repeated categories, so the aggregation is unconditional.
func buildPie(ch *Chart, xRec, yRec []string, spec Spec) (*Chart, error) {
	index := make(map[string]int)
	for i := range xRec {
		y, ok, err := numericCell(yRec[i], spec.Y, i)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		label := xRec[i]
		if at, seen := index[label]; seen {
			ch.Slices[at].Value += y
			continue
		}
		index[label] = len(ch.Slices)
		ch.Slices = append(ch.Slices, Slice{Label: label, Value: y})
	}
	if len(ch.Slices) == 0 {
		return nil, fmt.Errorf("no plottable rows for %q vs %q", spec.Y, spec.X)
	}
	return ch, nil
}

// buildBar plots y against x directly, one bar per row.
func buildBar(ch *Chart, xRec, yRec []string, spec Spec) (*Chart, error) {
	for i := range xRec {
		y, ok, err := numericCell(yRec[i], spec.Y, i)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		ch.Slices = append(ch.Slices, Slice{Label: xRec[i], Value: y})
	}
	if len(ch.Slices) == 0 {
		return nil, fmt.Errorf("no plottable rows for %q vs %q", spec.Y, spec.X)
	}
	return ch, nil
}

// buildXY plots y against x for line, scatter and area. A numeric x is used
// as-is; a categorical x falls back to ordinal positions with tick labels.
func buildXY(ch *Chart, xRec, yRec []string, spec Spec) (*Chart, error) {
	numericX := true
	for _, raw := range xRec {
		if isMissing(raw) {
			continue
		}
		if _, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err != nil {
			numericX = false
			break
		}
	}

	for i := range xRec {
		y, ok, err := numericCell(yRec[i], spec.Y, i)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		if numericX {
			if isMissing(xRec[i]) {
				continue
			}
			x, _ := strconv.ParseFloat(strings.TrimSpace(xRec[i]), 64)
			ch.XValues = append(ch.XValues, x)
			ch.YValues = append(ch.YValues, y)
		} else {
			ch.XValues = append(ch.XValues, float64(len(ch.XLabels)))
			ch.XLabels = append(ch.XLabels, xRec[i])
			ch.YValues = append(ch.YValues, y)
		}
	}
	if len(ch.YValues) == 0 {
		return nil, fmt.Errorf("no plottable rows for %q vs %q", spec.Y, spec.X)
	}
	return ch, nil
}

// numericCell parses one y cell. Missing cells are skipped; non-missing,
// non-numeric cells fail the build.
func numericCell(raw, column string, row int) (float64, bool, error) {
	if isMissing(raw) {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, false, fmt.Errorf("column %q has non-numeric value %q at row %d", column, raw, row+1)
	}
	return v, true, nil
}

// isMissing reports whether a cell holds no usable value. The dataframe
// parser renders missing cells in numeric columns as "NaN".
func isMissing(raw string) bool {
	switch strings.TrimSpace(raw) {
	case "", "NaN", "NA", "<nil>":
		return true
	}
	return false
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
