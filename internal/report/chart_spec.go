package report

import (
	"fmt"
	"image/color"
	"math"

	"github.com/user/eer_plotter_go/internal/analysis"
)

// StyledSeries is a series with its display color.
type StyledSeries struct {
	Series analysis.Series
	Color  color.Color
}

// ChartSpec is the fully assembled description of a line chart. It is immutable once built:
// NewChartSpec copies its inputs and the accessors hand out copies.
type ChartSpec struct {
	title  string
	xLabel string
	yLabel string
	series []StyledSeries
}

func copySeries(s analysis.Series) analysis.Series {
	return analysis.Series{
		Name: s.Name,
		X:    append([]float64(nil), s.X...),
		Y:    append([]float64(nil), s.Y...),
	}
}

// NewChartSpec builds a ChartSpec from the given labels and series.
func NewChartSpec(title, xLabel, yLabel string, series []StyledSeries) *ChartSpec {
	spec := &ChartSpec{
		title:  title,
		xLabel: xLabel,
		yLabel: yLabel,
		series: make([]StyledSeries, len(series)),
	}
	for i, s := range series {
		spec.series[i] = StyledSeries{Series: copySeries(s.Series), Color: s.Color}
	}
	return spec
}

func (c *ChartSpec) Title() string  { return c.title }
func (c *ChartSpec) XLabel() string { return c.xLabel }
func (c *ChartSpec) YLabel() string { return c.yLabel }

// Series returns a copy of the styled series.
func (c *ChartSpec) Series() []StyledSeries {
	out := make([]StyledSeries, len(c.series))
	for i, s := range c.series {
		out[i] = StyledSeries{Series: copySeries(s.Series), Color: s.Color}
	}
	return out
}

// NumSeries returns how many series the chart draws.
func (c *ChartSpec) NumSeries() int {
	return len(c.series)
}

// Points returns the point count of the first series; all series of a chart share the same domain.
func (c *ChartSpec) Points() int {
	if len(c.series) == 0 {
		return 0
	}
	return c.series[0].Series.Len()
}

// checkRanges rejects a chart whose x or y span is not a finite number. Empty series are ignored.
func (c *ChartSpec) checkRanges() error {
	xMin, xMax := math.Inf(1), math.Inf(-1)
	yMin, yMax := math.Inf(1), math.Inf(-1)
	points := 0
	for _, s := range c.series {
		for i := range s.Series.X {
			xMin, xMax = math.Min(xMin, s.Series.X[i]), math.Max(xMax, s.Series.X[i])
			yMin, yMax = math.Min(yMin, s.Series.Y[i]), math.Max(yMax, s.Series.Y[i])
			points++
		}
	}
	if points == 0 {
		return nil
	}
	if span := xMax - xMin; math.IsInf(span, 0) || math.IsNaN(span) {
		return fmt.Errorf("%w: x spans [%g, %g]", ErrUnplottableRange, xMin, xMax)
	}
	if span := yMax - yMin; math.IsInf(span, 0) || math.IsNaN(span) {
		return fmt.Errorf("%w: y spans [%g, %g]", ErrUnplottableRange, yMin, yMax)
	}
	return nil
}
