package report

import (
	"errors"
	"fmt"
)

// ErrUnknownBackend indicates a renderer backend name that is not supported.
var ErrUnknownBackend = errors.New("unknown plot backend")

// ErrUnplottableRange indicates data whose axis span overflows float64.
var ErrUnplottableRange = errors.New("axis range is not finite")

// IOError represents a failure to read an input file or write a chart image.
type IOError struct {
	Op   string // "open", "read", "write"
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}
