package parser

import (
	"errors"
	"fmt"
)

// ErrMissingHeader indicates the input has no header line at all.
var ErrMissingHeader = errors.New("missing header line")

// ErrShortLine indicates a data line has fewer fields than the column mapping requires.
var ErrShortLine = errors.New("too few fields")

// ErrBadNumber indicates a mapped field is not a decimal floating-point number.
var ErrBadNumber = errors.New("invalid number")

// ParseError represents a malformed data file.
type ParseError struct {
	Source string
	Line   int // 0 when the error is not tied to a line
	Err    error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse error in %s line %d: %v", e.Source, e.Line, e.Err)
	}
	return fmt.Sprintf("parse error in %s: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func newParseError(source string, line int, err error) *ParseError {
	return &ParseError{Source: source, Line: line, Err: err}
}
