package encodings

import "github.com/rhartert/lcgo/internal/sat"

// mergeTree combines terms pairwise as a balanced binary tree, the
// totalizer's merge shape (each internal node totals its two children
// rather than one running accumulator), giving O(log n) depth instead of
// sequentialsums' O(n).
func mergeTree(s *sat.Solver, terms []sat.DomainId, tag int) (sat.DomainId, error) {
	if len(terms) == 1 {
		return terms[0], nil
	}
	mid := len(terms) / 2
	left, err := mergeTree(s, terms[:mid], tag)
	if err != nil {
		return 0, err
	}
	right, err := mergeTree(s, terms[mid:], tag)
	if err != nil {
		return 0, err
	}
	return sumChannel(s, left, right, tag)
}
