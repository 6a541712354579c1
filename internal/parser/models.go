package parser

import "fmt"

// ColumnMapping declares which zero-indexed fields of a data line feed the chart.
// X supplies the domain axis; Y holds one or two source columns for the plotted values.
type ColumnMapping struct {
	X int   `json:"x"`
	Y []int `json:"y"`
}

// Validate checks that the mapping names an X column and one or two Y columns, all non-negative.
func (m ColumnMapping) Validate() error {
	if m.X < 0 {
		return fmt.Errorf("x column must be non-negative, got %d", m.X)
	}
	if len(m.Y) == 0 || len(m.Y) > 2 {
		return fmt.Errorf("expected 1 or 2 y columns, got %d", len(m.Y))
	}
	for _, c := range m.Y {
		if c < 0 {
			return fmt.Errorf("y column must be non-negative, got %d", c)
		}
	}
	return nil
}

// RequiredFields is the minimum number of whitespace-separated tokens a data line must carry.
func (m ColumnMapping) RequiredFields() int {
	highest := m.X
	for _, c := range m.Y {
		if c > highest {
			highest = c
		}
	}
	return highest + 1
}

// Record holds the mapped fields of one data line, Y in mapping order.
type Record struct {
	Line int // 1-based line number in the source file
	X    float64
	Y    []float64
}

// Table is a parsed data file: the opaque header line followed by its records in file order.
type Table struct {
	Source  string
	Header  string
	Mapping ColumnMapping
	Records []Record
}

// Helper to initialize Table
func NewTable(source string, mapping ColumnMapping) *Table {
	return &Table{
		Source:  source,
		Mapping: mapping,
		Records: make([]Record, 0),
	}
}

// XValues returns the domain axis values in file order.
func (t *Table) XValues() []float64 {
	xs := make([]float64, len(t.Records))
	for i, rec := range t.Records {
		xs[i] = rec.X
	}
	return xs
}

// YValues returns the values of the idx-th mapped Y column in file order.
func (t *Table) YValues(idx int) []float64 {
	ys := make([]float64, len(t.Records))
	for i, rec := range t.Records {
		ys[i] = rec.Y[idx]
	}
	return ys
}
