package analysis

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ErrZeroRange indicates a series whose values are all equal (or that is empty).
var ErrZeroRange = errors.New("series has zero range")

// NormalizationError reports a series that cannot be mean-normalized.
type NormalizationError struct {
	Series string
	Err    error
}

func (e *NormalizationError) Error() string {
	return fmt.Sprintf("cannot normalize series %q: %v", e.Series, e.Err)
}

func (e *NormalizationError) Unwrap() error {
	return e.Err
}

// calculateRange returns max - min, or 0 for an empty slice.
func calculateRange(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return floats.Max(data) - floats.Min(data)
}

// Normalize maps every value to 1 + (x - mean) / (max - min). The input is left untouched.
func Normalize(values []float64) ([]float64, error) {
	ran := calculateRange(values)
	if ran == 0 {
		return nil, ErrZeroRange
	}
	mean := stat.Mean(values, nil)

	out := make([]float64, len(values))
	copy(out, values)
	floats.AddConst(-mean, out)
	floats.Scale(1/ran, out)
	floats.AddConst(1, out)
	return out, nil
}

// NormalizeSeries returns a copy of s with normalized Y values.
func NormalizeSeries(s Series) (Series, error) {
	ys, err := Normalize(s.Y)
	if err != nil {
		return Series{}, &NormalizationError{Series: s.Name, Err: err}
	}
	return Series{Name: s.Name, X: s.X, Y: ys}, nil
}
