package report

import (
	"bytes"
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// drawGonumLinePlot renders a ChartSpec as a PNG line plot with gonum/plot.
// width and height are in points.
func drawGonumLinePlot(spec *ChartSpec, width, height float64) ([]byte, error) {
	if spec == nil {
		return nil, fmt.Errorf("no chart spec to plot")
	}

	p := plot.New()
	p.Title.Text = spec.Title()
	p.X.Label.Text = spec.XLabel()
	p.Y.Label.Text = spec.YLabel()
	p.Add(plotter.NewGrid())

	series := spec.Series()
	for _, s := range series {
		pts := make(plotter.XYs, s.Series.Len())
		for i := range pts {
			pts[i].X = s.Series.X[i]
			pts[i].Y = s.Series.Y[i]
		}

		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("failed to create line for %s: %w", s.Series.Name, err)
		}
		line.Color = s.Color
		line.LineStyle.Width = vg.Points(1.5)
		p.Add(line)
		if len(series) > 1 {
			p.Legend.Add(s.Series.Name, line)
		}
	}
	p.Legend.Top = true

	writer, err := p.WriterTo(vg.Points(width), vg.Points(height), "png")
	if err != nil {
		return nil, fmt.Errorf("failed to create plot writer: %w", err)
	}
	buf := new(bytes.Buffer)
	if _, err := writer.WriteTo(buf); err != nil {
		return nil, fmt.Errorf("failed to write plot to buffer: %w", err)
	}
	return buf.Bytes(), nil
}
