package report

import (
	"bytes"
	"fmt"
	"image/color"
	"math"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// invisibleStroke is non-zero so go-chart does not substitute its default series color.
var invisibleStroke = drawing.Color{R: 255, G: 255, B: 255, A: 0}

func toDrawingColor(c color.Color) drawing.Color {
	if c == nil {
		return chart.ColorBlack
	}
	r, g, b, a := c.RGBA()
	return drawing.Color{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(a >> 8)}
}

// paddedRange widens a degenerate [lo, hi] so go-chart does not reject a zero-width axis.
func paddedRange(lo, hi float64) *chart.ContinuousRange {
	if lo != hi {
		return nil
	}
	return &chart.ContinuousRange{Min: lo - 1, Max: hi + 1}
}

// drawGoChartLinePlot renders a ChartSpec as a PNG line chart with go-chart.
// width and height are in pixels.
func drawGoChartLinePlot(spec *ChartSpec, width, height float64) ([]byte, error) {
	if spec == nil {
		return nil, fmt.Errorf("no chart spec to plot")
	}

	series := spec.Series()
	xMin, xMax := math.Inf(1), math.Inf(-1)
	yMin, yMax := math.Inf(1), math.Inf(-1)
	chartSeries := make([]chart.Series, 0, len(series))
	for _, s := range series {
		xs, ys := s.Series.X, s.Series.Y
		stroke := toDrawingColor(s.Color)
		for i := range xs {
			xMin, xMax = math.Min(xMin, xs[i]), math.Max(xMax, xs[i])
			yMin, yMax = math.Min(yMin, ys[i]), math.Max(yMax, ys[i])
		}
		// Pad to at least two X values for go-chart
		switch len(xs) {
		case 0:
			xs, ys = []float64{0, 1}, []float64{0, 0}
			stroke = invisibleStroke
		case 1:
			xs = []float64{xs[0], xs[0] + 1}
			ys = []float64{ys[0], ys[0]}
			xMax = math.Max(xMax, xs[1])
		}
		chartSeries = append(chartSeries, chart.ContinuousSeries{
			Name:    s.Series.Name,
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeColor: stroke,
				StrokeWidth: 2,
			},
		})
	}
	if len(chartSeries) == 0 {
		return nil, fmt.Errorf("chart %q has no series", spec.Title())
	}
	// A chart without points gets a unit axis
	if math.IsInf(xMin, 1) {
		xMin, xMax, yMin, yMax = 0, 1, 0, 0
	}

	ch := chart.Chart{
		Title:      spec.Title(),
		Width:      int(width),
		Height:     int(height),
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 12}},
		XAxis:      chart.XAxis{Name: spec.XLabel(), GridMajorStyle: gridStyle()},
		YAxis:      chart.YAxis{Name: spec.YLabel(), GridMajorStyle: gridStyle()},
		Series:     chartSeries,
	}
	if r := paddedRange(xMin, xMax); r != nil {
		ch.XAxis.Range = r
	}
	if r := paddedRange(yMin, yMax); r != nil {
		ch.YAxis.Range = r
	}
	if len(chartSeries) > 1 {
		ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}
	return buf.Bytes(), nil
}

func gridStyle() chart.Style {
	return chart.Style{
		StrokeColor: chart.ColorAlternateGray,
		StrokeWidth: 0.5,
	}
}
