// Package encodings provides linear-constraint decompositions selected by
// the --linear-encoding CLI flag as an alternative to posting the global
// LinearLessEqual/LinearEqual propagator directly: SequentialSums chains
// terms left to right, Totalizer merges them as a balanced binary tree.
// Both build on the same "child domains channelled to a parent sum by a
// linear-equality pair" primitive, since the engine's order-encoded
// domains make that equivalent to the bit-level adder clauses the two
// encodings traditionally compile to.
package encodings

import (
	"fmt"

	"github.com/rhartert/lcgo/internal/propagators"
	"github.com/rhartert/lcgo/internal/sat"
)

// Kind selects the decomposition's tree shape.
type Kind uint8

const (
	SequentialSumsKind Kind = iota
	TotalizerKind
)

// PostDecomposed posts Σ coeffs[i]*vars[i] <= rhs (or == rhs when equality)
// without the n-ary global propagator, building a tree of intermediate
// partial-sum variables instead. Every coefficient must be +1 or -1.
func PostDecomposed(s *sat.Solver, coeffs []int64, vars []sat.DomainId, rhs int64, equality bool, tag int, kind Kind) error {
	if len(vars) == 0 {
		return fmt.Errorf("encodings: empty term list")
	}

	terms := make([]sat.DomainId, len(vars))
	for i, v := range vars {
		if coeffs[i] == 1 {
			terms[i] = v
			continue
		}
		neg, err := negateVar(s, v, tag)
		if err != nil {
			return err
		}
		terms[i] = neg
	}

	var (
		root sat.DomainId
		err  error
	)
	if kind == TotalizerKind {
		root, err = mergeTree(s, terms, tag)
	} else {
		root, err = chain(s, terms, tag)
	}
	if err != nil {
		return err
	}

	le := propagators.NewLinearLessEqual([]int64{1}, []sat.DomainId{root}, rhs, tag)
	if _, inc := s.Post(le, tag, string(le.Label())); inc != nil {
		return fmt.Errorf("encodings: decomposition infeasible at the root: %v", inc.Conjunction)
	}
	if equality {
		ge := propagators.NewLinearLessEqual([]int64{-1}, []sat.DomainId{root}, -rhs, tag)
		if _, inc := s.Post(ge, tag, string(ge.Label())); inc != nil {
			return fmt.Errorf("encodings: decomposition infeasible at the root: %v", inc.Conjunction)
		}
	}
	return nil
}

// negateVar grows y = -v and channels it with a linear-equality pair.
func negateVar(s *sat.Solver, v sat.DomainId, tag int) (sat.DomainId, error) {
	lb, ub := s.LowerBound(v), s.UpperBound(v)
	neg := s.GrowDomain(-ub, -lb)
	if err := postSumZero(s, neg, v, tag); err != nil {
		return 0, err
	}
	return neg, nil
}

// postSumZero posts a + b == 0.
func postSumZero(s *sat.Solver, a, b sat.DomainId, tag int) error {
	le := propagators.NewLinearLessEqual([]int64{1, 1}, []sat.DomainId{a, b}, 0, tag)
	if _, inc := s.Post(le, tag, string(le.Label())); inc != nil {
		return fmt.Errorf("encodings: negation infeasible at the root: %v", inc.Conjunction)
	}
	ge := propagators.NewLinearLessEqual([]int64{-1, -1}, []sat.DomainId{a, b}, 0, tag)
	if _, inc := s.Post(ge, tag, string(ge.Label())); inc != nil {
		return fmt.Errorf("encodings: negation infeasible at the root: %v", inc.Conjunction)
	}
	return nil
}

// sumChannel grows a new variable parent == left + right and channels it
// with a linear-equality pair.
func sumChannel(s *sat.Solver, left, right sat.DomainId, tag int) (sat.DomainId, error) {
	parent := s.GrowDomain(s.LowerBound(left)+s.LowerBound(right), s.UpperBound(left)+s.UpperBound(right))
	le := propagators.NewLinearLessEqual([]int64{1, -1, -1}, []sat.DomainId{parent, left, right}, 0, tag)
	if _, inc := s.Post(le, tag, string(le.Label())); inc != nil {
		return 0, fmt.Errorf("encodings: partial sum infeasible at the root: %v", inc.Conjunction)
	}
	ge := propagators.NewLinearLessEqual([]int64{-1, 1, 1}, []sat.DomainId{parent, left, right}, 0, tag)
	if _, inc := s.Post(ge, tag, string(ge.Label())); inc != nil {
		return 0, fmt.Errorf("encodings: partial sum infeasible at the root: %v", inc.Conjunction)
	}
	return parent, nil
}
