// Package propagators implements the representative global constraints the
// modelling layer posts: linear (in)equalities, element, maximum,
// all-different, circuit, and cumulative. Every type here satisfies
// sat.Propagator and is built only from that package's public API, the way
// a consumer outside internal/sat would have to.
package propagators

import "github.com/rhartert/lcgo/internal/sat"

// floorDiv and ceilDiv are integer division rounding towards -Inf/+Inf,
// needed because Go's / truncates towards zero and linear bound
// propagation must round the right way for negative operands.
func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func ceilDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) == (b < 0)) {
		q++
	}
	return q
}

// Label is a stable, human-readable tag each propagator reports in proof
// inference steps (DRCP "l:<label>" field).
type Label string

const (
	LabelLinear      Label = "linear"
	LabelElement     Label = "element"
	LabelMaximum     Label = "maximum"
	LabelAllDifferent Label = "all_different"
	LabelTimeTable   Label = "time_table"
	LabelCircuit     Label = "prevent_and_check"
)
