package model

import (
	"fmt"

	"github.com/rhartert/lcgo/internal/model/encodings"
	"github.com/rhartert/lcgo/internal/propagators"
	"github.com/rhartert/lcgo/internal/sat"
)

func (vm *VariableMap) resolve(refs []VarRef) []sat.DomainId {
	out := make([]sat.DomainId, len(refs))
	for i, r := range refs {
		out[i] = vm.byRef[r]
	}
	return out
}

func postConstraint(s *sat.Solver, vm *VariableMap, opts Options, tag int, c constraintDecl) error {
	post := func(p sat.Propagator, label propagators.Label) error {
		if _, inc := s.Post(p, tag, string(label)); inc != nil {
			return fmt.Errorf("model: constraint %d (%s) is infeasible at the root: %v", tag, p.Name(), inc.Conjunction)
		}
		return nil
	}

	switch c.kind {
	case KindAllDifferent:
		return post(propagators.NewAllDifferent(vm.resolve(c.vars), tag), propagators.LabelAllDifferent)

	case KindCircuit:
		return post(propagators.NewCircuit(vm.resolve(c.vars), tag), propagators.LabelCircuit)

	case KindElement:
		array := vm.resolve(c.array)
		return post(propagators.NewElement(array, vm.byRef[c.index], vm.byRef[c.value], tag), propagators.LabelElement)

	case KindLinearLessEqual, KindLinearEqual, KindLinearNotEqual:
		return postLinear(s, vm, opts, tag, c)

	case KindMaximum:
		return post(propagators.NewMaximum(vm.resolve(c.maxTerms), vm.byRef[c.value], tag), propagators.LabelMaximum)

	case KindCumulative:
		return post(propagators.NewCumulative(vm.resolve(c.starts), c.durations, c.demands, c.capacity, tag), propagators.LabelTimeTable)

	default:
		return fmt.Errorf("model: unknown constraint kind %d", c.kind)
	}
}

func postLinear(s *sat.Solver, vm *VariableMap, opts Options, tag int, c constraintDecl) error {
	coeffs := make([]int64, len(c.terms))
	vars := make([]sat.DomainId, len(c.terms))
	for i, t := range c.terms {
		coeffs[i] = t.Coeff
		vars[i] = vm.byRef[t.Var]
	}

	if c.kind == KindLinearNotEqual {
		p := propagators.NewLinearNotEqual(coeffs, vars, c.rhs, tag)
		if _, inc := s.Post(p, tag, string(p.Label())); inc != nil {
			return fmt.Errorf("model: constraint %d (linear_ne) is infeasible at the root: %v", tag, inc.Conjunction)
		}
		return nil
	}

	if opts.LinearEncoding != GlobalPropagator && isCardinalityShaped(coeffs) {
		return encodings.PostDecomposed(s, coeffs, vars, c.rhs, c.kind == KindLinearEqual, tag, encodingKind(opts.LinearEncoding))
	}

	le := propagators.NewLinearLessEqual(coeffs, vars, c.rhs, tag)
	if _, inc := s.Post(le, tag, string(le.Label())); inc != nil {
		return fmt.Errorf("model: constraint %d (linear_le) is infeasible at the root: %v", tag, inc.Conjunction)
	}
	if c.kind == KindLinearEqual {
		negCoeffs := make([]int64, len(coeffs))
		for i, co := range coeffs {
			negCoeffs[i] = -co
		}
		ge := propagators.NewLinearLessEqual(negCoeffs, vars, -c.rhs, tag)
		if _, inc := s.Post(ge, tag, string(ge.Label())); inc != nil {
			return fmt.Errorf("model: constraint %d (linear_ge) is infeasible at the root: %v", tag, inc.Conjunction)
		}
	}
	return nil
}

// isCardinalityShaped reports whether every coefficient is +-1, the shape
// the totalizer/sequential-sums decompositions target; other linear
// constraints always use the global propagator regardless of
// opts.LinearEncoding.
func isCardinalityShaped(coeffs []int64) bool {
	for _, c := range coeffs {
		if c != 1 && c != -1 {
			return false
		}
	}
	return true
}

func encodingKind(le LinearEncoding) encodings.Kind {
	if le == Totalizer {
		return encodings.TotalizerKind
	}
	return encodings.SequentialSumsKind
}
