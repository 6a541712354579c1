package analysis

import (
	"sort"

	"github.com/user/eer_plotter_go/internal/parser"
)

func signum(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// EstimateEER finds the equal error rate of an FRR/FAR sweep. Rows are visited in ascending
// threshold order. A row where frr == far is taken as is; where sign(frr - far) flips between
// neighbours, the EER is the mean of both rows' average error and the threshold is the midpoint.
// The last crossing wins. found is false when the curves never meet or the inputs are unusable.
func EstimateEER(thresholds, frr, far []float64) (point EERPoint, found bool) {
	n := len(thresholds)
	if n == 0 || len(frr) != n || len(far) != n {
		return EERPoint{}, false
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return thresholds[order[i]] < thresholds[order[j]]
	})

	prev := -1
	lastSign := 0
	for _, idx := range order {
		sign := signum(frr[idx] - far[idx])
		switch {
		case sign == 0:
			point, found = EERPoint{Threshold: thresholds[idx], Rate: frr[idx]}, true
		case prev >= 0 && lastSign != 0 && sign != lastSign:
			prevAvg := (frr[prev] + far[prev]) / 2
			curAvg := (frr[idx] + far[idx]) / 2
			point = EERPoint{
				Threshold: (thresholds[prev] + thresholds[idx]) / 2,
				Rate:      (prevAvg + curAvg) / 2,
			}
			found = true
		}
		prev, lastSign = idx, sign
	}
	return point, found
}

// EstimateTableEER runs EstimateEER over a table mapped as threshold, frr, far.
// It returns nil when the mapping does not carry two Y columns or no crossing exists.
func EstimateTableEER(table *parser.Table) *EERPoint {
	if table == nil || len(table.Mapping.Y) != 2 {
		return nil
	}
	point, ok := EstimateEER(table.XValues(), table.YValues(0), table.YValues(1))
	if !ok {
		return nil
	}
	return &point
}
