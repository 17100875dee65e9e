package encodings

import "github.com/rhartert/lcgo/internal/sat"

// chain accumulates terms left to right into a single partial-sum
// variable, the classic sequential-sums sum encoding's shape.
func chain(s *sat.Solver, terms []sat.DomainId, tag int) (sat.DomainId, error) {
	acc := terms[0]
	for _, t := range terms[1:] {
		next, err := sumChannel(s, acc, t, tag)
		if err != nil {
			return 0, err
		}
		acc = next
	}
	return acc, nil
}
