package chartbuild

import (
	"io"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Fixed raster size for chart output (presentation contract).
const (
	RenderWidth  = 1200
	RenderHeight = 800
)

// chartPadding is the fixed margin applied to every chart.
var chartPadding = chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 40}

// maxXTicks caps the number of categorical tick labels so long tables stay
// readable.
const maxXTicks = 12

// RenderPNG rasterizes the chart model to a 1200x800 PNG.
func (c *Chart) RenderPNG(w io.Writer) error {
	switch c.Kind {
	case KindPie:
		return c.renderPie(w)
	case KindBar:
		return c.renderBar(w)
	default:
		return c.renderXY(w)
	}
}

func (c *Chart) renderPie(w io.Writer) error {
	values := make([]chart.Value, len(c.Slices))
	for i, s := range c.Slices {
		values[i] = chart.Value{Label: s.Label, Value: s.Value}
	}

	pie := chart.PieChart{
		Title:      c.Title,
		Width:      RenderWidth,
		Height:     RenderHeight,
		Background: chart.Style{Padding: chartPadding},
		Values:     values,
	}
	return pie.Render(chart.PNG, w)
}

func (c *Chart) renderBar(w io.Writer) error {
	bars := make([]chart.Value, len(c.Slices))
	for i, s := range c.Slices {
		bars[i] = chart.Value{Label: truncateLabel(s.Label), Value: s.Value}
	}

	barWidth := (RenderWidth - 100) / len(bars)
	if barWidth > 60 {
		barWidth = 60
	}
	if barWidth < 4 {
		barWidth = 4
	}

	bc := chart.BarChart{
		Title:      c.Title,
		Width:      RenderWidth,
		Height:     RenderHeight,
		Background: chart.Style{Padding: chartPadding},
		BarWidth:   barWidth,
		XAxis:      chart.Style{},
		YAxis:      chart.YAxis{Name: c.YName},
		Bars:       bars,
	}
	return bc.Render(chart.PNG, w)
}

func (c *Chart) renderXY(w io.Writer) error {
	series := chart.ContinuousSeries{
		Name:    c.YName,
		XValues: c.XValues,
		YValues: c.YValues,
		Style:   c.seriesStyle(),
	}

	xAxis := chart.XAxis{Name: c.XName}
	if c.XLabels != nil {
		xAxis.Ticks = c.categoricalTicks()
		xAxis.Range = &chart.ContinuousRange{Min: -0.5, Max: float64(len(c.XLabels)) - 0.5}
	}

	ch := chart.Chart{
		Title:      c.Title,
		Width:      RenderWidth,
		Height:     RenderHeight,
		Background: chart.Style{Padding: chartPadding},
		XAxis:      xAxis,
		YAxis:      chart.YAxis{Name: c.YName},
		Series:     []chart.Series{series},
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	return ch.Render(chart.PNG, w)
}

// seriesStyle applies the per-kind look: plain stroke for line, filled
// stroke for area, sized and colored dots for scatter. Scatter keys dot
// color by x and dot size by y.
func (c *Chart) seriesStyle() chart.Style {
	switch c.Kind {
	case KindScatter:
		return chart.Style{
			StrokeWidth: chart.Disabled,
			DotWidth:    5,
			DotColorProvider: func(xr, yr chart.Range, index int, x, y float64) drawing.Color {
				return chart.Viridis(x, xr.GetMin(), xr.GetMax())
			},
			DotWidthProvider: func(xr, yr chart.Range, index int, x, y float64) float64 {
				span := yr.GetMax() - yr.GetMin()
				if span <= 0 {
					return 8
				}
				return 4 + 12*(y-yr.GetMin())/span
			},
		}
	case KindArea:
		return chart.Style{
			StrokeWidth: 2,
			StrokeColor: chart.ColorBlue,
			FillColor:   chart.ColorBlue.WithAlpha(64),
		}
	default:
		return chart.Style{
			StrokeWidth: 2,
			StrokeColor: chart.ColorBlue,
		}
	}
}

func (c *Chart) categoricalTicks() []chart.Tick {
	step := 1
	if len(c.XLabels) > maxXTicks {
		step = (len(c.XLabels) + maxXTicks - 1) / maxXTicks
	}
	var ticks []chart.Tick
	for i := 0; i < len(c.XLabels); i += step {
		ticks = append(ticks, chart.Tick{Value: float64(i), Label: truncateLabel(c.XLabels[i])})
	}
	return ticks
}

func truncateLabel(s string) string {
	const max = 16
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}

// RenderErrorPNG draws the failure placeholder: a blank plot with the error
// message as a centered annotation. The UI is never left without a
// renderable object, so build failures surface here instead of as a crash.
func RenderErrorPNG(message string, w io.Writer) error {
	if len(message) > 96 {
		message = message[:95] + "…"
	}

	ch := chart.Chart{
		Title:      "Chart unavailable",
		Width:      RenderWidth,
		Height:     RenderHeight,
		Background: chart.Style{Padding: chartPadding},
		XAxis:      chart.XAxis{Style: chart.Style{Hidden: true}},
		YAxis:      chart.YAxis{Style: chart.Style{Hidden: true}},
		Series: []chart.Series{
			chart.ContinuousSeries{
				XValues: []float64{0, 1},
				YValues: []float64{0, 1},
				Style:   chart.Style{Hidden: true},
			},
			chart.AnnotationSeries{
				Annotations: []chart.Value2{
					{XValue: 0.5, YValue: 0.5, Label: message},
				},
			},
		},
	}
	return ch.Render(chart.PNG, w)
}
