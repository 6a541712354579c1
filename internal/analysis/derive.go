package analysis

import (
	"fmt"
	"math"

	"github.com/user/eer_plotter_go/internal/parser"
)

// AbsDiff is the AbsoluteDifference rule for a single pair of values.
func AbsDiff(a, b float64) float64 {
	return math.Abs(a - b)
}

// SignedDiff is the SignedDifference rule for a single pair of values.
func SignedDiff(a, b float64) float64 {
	return a - b
}

// DeriveSeries builds the plotted series of a parsed table. Identity yields one series per
// mapped Y column; the difference rules need exactly two Y columns and yield a single series.
// Point order follows the file.
func DeriveSeries(table *parser.Table, derivation Derivation) ([]Series, error) {
	if table == nil {
		return nil, fmt.Errorf("table is nil, cannot derive series")
	}
	xs := table.XValues()
	numY := len(table.Mapping.Y)

	switch derivation {
	case Identity:
		series := make([]Series, 0, numY)
		for i := 0; i < numY; i++ {
			series = append(series, Series{
				Name: fmt.Sprintf("col %d", table.Mapping.Y[i]),
				X:    xs,
				Y:    table.YValues(i),
			})
		}
		return series, nil
	case AbsoluteDifference, SignedDifference:
		if numY != 2 {
			return nil, fmt.Errorf("%s needs 2 y columns, mapping has %d", derivation, numY)
		}
		op := SignedDiff
		if derivation == AbsoluteDifference {
			op = AbsDiff
		}
		ys := make([]float64, len(table.Records))
		for i, rec := range table.Records {
			ys[i] = op(rec.Y[0], rec.Y[1])
		}
		name := fmt.Sprintf("col %d - col %d", table.Mapping.Y[0], table.Mapping.Y[1])
		if derivation == AbsoluteDifference {
			name = "|" + name + "|"
		}
		return []Series{{Name: name, X: xs, Y: ys}}, nil
	default:
		return nil, fmt.Errorf("unknown derivation: %v", derivation)
	}
}
