// Package export builds download artifacts (CSV, PNG, PDF) from the current
// session state. Each export reads the session context at call time and
// returns a fully materialized artifact; nothing is streamed incrementally.
package export

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/Chetan-316/visualcraft/internal/session"
)

// Sentinel errors for exports requested before their prerequisites exist.
// These surface as a disabled-state in the UI, not as hard failures.
var (
	ErrNoData  = errors.New("no data loaded")
	ErrNoChart = errors.New("no chart built")
)

// Artifact is a complete export result: bytes plus the metadata needed to
// serve it as a download.
type Artifact struct {
	Filename    string
	ContentType string
	Data        []byte
}

// CSV serializes the current table to comma-separated text with a header
// row and no index column.
func CSV(ctx *session.Context) (*Artifact, error) {
	table, _, ok := ctx.Table()
	if !ok {
		return nil, ErrNoData
	}

	var buf bytes.Buffer
	if err := table.WriteCSV(&buf); err != nil {
		return nil, fmt.Errorf("write csv: %w", err)
	}

	return &Artifact{
		Filename:    "data.csv",
		ContentType: "text/csv; charset=utf-8",
		Data:        buf.Bytes(),
	}, nil
}

// PNG rasterizes the current chart to a fixed-resolution bitmap.
func PNG(ctx *session.Context) (*Artifact, error) {
	chart, ok := ctx.Chart()
	if !ok {
		return nil, ErrNoChart
	}

	var buf bytes.Buffer
	if err := chart.RenderPNG(&buf); err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}

	return &Artifact{
		Filename:    "chart.png",
		ContentType: "image/png",
		Data:        buf.Bytes(),
	}, nil
}
