package parser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// maxLineBytes bounds a single line; data files carry a handful of numbers per row.
const maxLineBytes = 1024 * 1024

// parseField converts one whitespace-separated token to a finite float.
func parseField(tok string) (float64, error) {
	val, err := strconv.ParseFloat(tok, 64)
	if err != nil || math.IsNaN(val) || math.IsInf(val, 0) {
		return 0, fmt.Errorf("%w %q", ErrBadNumber, tok)
	}
	return val, nil
}

// ParseTable reads a whitespace-delimited data file. The first line is kept as the
// opaque Header; every following non-blank line must supply the fields named by mapping.
// source is only used to label errors.
func ParseTable(r io.Reader, source string, mapping ColumnMapping) (*Table, error) {
	if err := mapping.Validate(); err != nil {
		return nil, fmt.Errorf("invalid column mapping: %w", err)
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	table := NewTable(source, mapping)
	required := mapping.RequiredFields()
	lineNum := 0
	sawHeader := false

	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if !sawHeader {
			table.Header = strings.TrimRight(line, "\r\n")
			sawHeader = true
			continue
		}

		fields := strings.Fields(line)
		if len(fields) == 0 { // Blank lines are not data lines
			continue
		}
		if len(fields) < required {
			return nil, newParseError(source, lineNum, fmt.Errorf("%w: need %d, found %d", ErrShortLine, required, len(fields)))
		}

		x, err := parseField(fields[mapping.X])
		if err != nil {
			return nil, newParseError(source, lineNum, err)
		}
		rec := Record{Line: lineNum, X: x, Y: make([]float64, len(mapping.Y))}
		for i, col := range mapping.Y {
			val, err := parseField(fields[col])
			if err != nil {
				return nil, newParseError(source, lineNum, err)
			}
			rec.Y[i] = val
		}
		table.Records = append(table.Records, rec)
	}
	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, newParseError(source, lineNum+1, fmt.Errorf("line longer than %d bytes: %w", maxLineBytes, err))
		}
		return nil, fmt.Errorf("failed to read %s: %w", source, err)
	}
	if !sawHeader {
		return nil, newParseError(source, 0, ErrMissingHeader)
	}
	return table, nil
}

// HeaderToken returns the first whitespace-separated token of the header, or "" for a blank header.
func (t *Table) HeaderToken() string {
	fields := strings.Fields(t.Header)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
