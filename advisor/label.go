package advisor

import "fmt"

// AxisLabeler turns the loading vector of one principal axis into a short
// human readable description. It is a presentation heuristic: any
// deterministic rule is acceptable as long as the same loadings always
// produce the same label.
type AxisLabeler interface {
	Label(dims []Dimension, loadings []float64) string
}

// HeuristicLabeler is the default labeling rule:
//
//   - every meaningful loading shares one sign and no dimension holds more
//     than DominanceRatio of the absolute loading mass → composite axis
//   - one dimension alone holds more than DominanceRatio → dominant axis
//   - otherwise the two largest-magnitude loadings form a contrast label,
//     negative pole on the left
//
// Loadings below epsilon count as sign-neutral so a constant column never
// influences the label.
type HeuristicLabeler struct {
	DominanceRatio float64
}

const labelEpsilon = 1e-9

// DefaultLabeler returns the heuristic labeler with a 60% dominance cutoff.
func DefaultLabeler() AxisLabeler {
	return HeuristicLabeler{DominanceRatio: 0.6}
}

// Label implements AxisLabeler.
func (h HeuristicLabeler) Label(dims []Dimension, loadings []float64) string {
	ratio := h.DominanceRatio
	if ratio <= 0 {
		ratio = 0.6
	}
	var mass float64
	hasPos, hasNeg := false, false
	for _, l := range loadings {
		mass += abs(l)
		if l > labelEpsilon {
			hasPos = true
		}
		if l < -labelEpsilon {
			hasNeg = true
		}
	}
	if mass <= labelEpsilon {
		return "なし"
	}

	// Two largest magnitudes; stable on ties by dimension order.
	first, second := -1, -1
	for j := range loadings {
		if first < 0 || abs(loadings[j]) > abs(loadings[first]) {
			second = first
			first = j
		} else if second < 0 || abs(loadings[j]) > abs(loadings[second]) {
			second = j
		}
	}

	if abs(loadings[first])/mass > ratio {
		return fmt.Sprintf("%s重視", dims[first].Label)
	}
	if !(hasPos && hasNeg) {
		return "総合性能"
	}
	neg, pos := first, second
	if loadings[neg] > loadings[pos] {
		neg, pos = pos, neg
	}
	return fmt.Sprintf("%s重視 ↔ %s重視", dims[neg].Label, dims[pos].Label)
}
