package analysis

import (
	"fmt"
	"strings"
)

// Derivation maps the raw mapped columns of a record to plotted values.
type Derivation int

const (
	// Identity plots each mapped Y column directly.
	Identity Derivation = iota
	// AbsoluteDifference plots |Y[0] - Y[1]|.
	AbsoluteDifference
	// SignedDifference plots Y[0] - Y[1].
	SignedDifference
)

func (d Derivation) String() string {
	switch d {
	case Identity:
		return "identity"
	case AbsoluteDifference:
		return "abs-diff"
	case SignedDifference:
		return "signed-diff"
	default:
		return fmt.Sprintf("Derivation(%d)", int(d))
	}
}

// ParseDerivation accepts the names printed by String plus a few long forms.
func ParseDerivation(name string) (Derivation, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "identity", "direct":
		return Identity, nil
	case "abs-diff", "absolute-difference", "abs":
		return AbsoluteDifference, nil
	case "signed-diff", "signed-difference", "diff":
		return SignedDifference, nil
	default:
		return 0, fmt.Errorf("unknown derivation: %s", name)
	}
}

// Series is an ordered list of plotted (x, y) pairs. X and Y always have equal length.
type Series struct {
	Name string
	X    []float64
	Y    []float64
}

// Len returns the number of points.
func (s Series) Len() int {
	return len(s.X)
}

// EERPoint is the estimated equal error rate and the threshold it was found at.
type EERPoint struct {
	Threshold float64
	Rate      float64
}
