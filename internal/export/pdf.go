package export

import (
	"bytes"
	"fmt"
	"os"

	"github.com/go-pdf/fpdf"

	"github.com/Chetan-316/visualcraft/internal/session"
)

const (
	// pdfRowLimit bounds the data preview grid to the first rows.
	pdfRowLimit = 10
	// pdfCellRunes truncates grid cell text to keep the layout bounded.
	pdfCellRunes = 15
	// pdfImageWidth is the chart image width in mm on an A4 page.
	pdfImageWidth = 170.0
)

// PDF assembles the report document: a title line, the rasterized chart,
// and a bordered grid of the first data rows. Both a table and a chart must
// be present since the report combines them.
//
// The chart raster goes through a scoped temporary file that is released on
// every exit path; cleanup failures are logged, never surfaced.
func PDF(ctx *session.Context) (*Artifact, error) {
	table, chart := ctx.Snapshot()
	if table == nil {
		return nil, ErrNoData
	}
	if chart == nil {
		return nil, ErrNoChart
	}

	var img bytes.Buffer
	if err := chart.RenderPNG(&img); err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}

	tmp, err := os.CreateTemp("", "visualcraft-chart-*.png")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer removeWithRetry(tmpPath)

	if _, err := tmp.Write(img.Bytes()); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("close temp file: %w", err)
	}

	data, err := buildReport(table.HeadRecords(pdfRowLimit), chart.Title, tmpPath)
	if err != nil {
		return nil, err
	}

	return &Artifact{
		Filename:    "report.pdf",
		ContentType: "application/pdf",
		Data:        data,
	}, nil
}

// buildReport lays out the PDF: centered title, chart image, "Data Preview:"
// heading, then the grid. records holds the header row first.
func buildReport(records [][]string, chartTitle, imagePath string) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, tr("VizCraft: Data Visualization Report"), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(0, 8, tr(chartTitle), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pageW, _ := pdf.GetPageSize()
	imgX := (pageW - pdfImageWidth) / 2
	pdf.ImageOptions(imagePath, imgX, 0, pdfImageWidth, 0, true, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, "Data Preview:", "", 1, "L", false, 0, "")

	if len(records) > 0 {
		left, _, right, _ := pdf.GetMargins()
		colWidth := (pageW - left - right) / float64(len(records[0]))

		pdf.SetFont("Arial", "B", 9)
		for _, name := range records[0] {
			pdf.CellFormat(colWidth, 7, tr(truncateCell(name)), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont("Arial", "", 9)
		for _, row := range records[1:] {
			for _, cell := range row {
				pdf.CellFormat(colWidth, 7, tr(truncateCell(cell)), "1", 0, "L", false, 0, "")
			}
			pdf.Ln(-1)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("assemble pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// truncateCell bounds cell text so one wide value cannot break the grid.
func truncateCell(s string) string {
	runes := []rune(s)
	if len(runes) <= pdfCellRunes {
		return s
	}
	return string(runes[:pdfCellRunes])
}
