package model

import (
	"fmt"

	"github.com/rhartert/lcgo/internal/propagators"
	"github.com/rhartert/lcgo/internal/sat"
)

// LinearEncoding selects how LinearLessEqual/LinearEqual constraints are
// realised: as the global bound-consistent propagator, or decomposed into
// a chain of smaller propagators over intermediate partial-sum variables
// (the sequential-sums / totalizer family named by the --linear-encoding
// CLI flag).
type LinearEncoding uint8

const (
	// GlobalPropagator posts one LinearLessEqual/LinearEqual per
	// constraint (default).
	GlobalPropagator LinearEncoding = iota
	// SequentialSums decomposes each linear constraint whose coefficients
	// are all +1 or -1 into a chain of binary partial sums, per
	// internal/model/encodings; other linear constraints keep the global
	// propagator.
	SequentialSums
	// Totalizer decomposes cardinality-shaped linear constraints (every
	// coefficient +1 or -1) via a totalizer merge tree, per
	// internal/model/encodings; other linear constraints keep the global
	// propagator.
	Totalizer
)

// Options configures IntoSolver. SolverOptions is passed through to
// sat.NewSolver unchanged; LinearEncoding picks how linear constraints are
// lowered (the CLI's `-G linear` resets it to GlobalPropagator). Every other
// constraint kind always goes through its single global propagator.
type Options struct {
	SolverOptions  sat.Options
	LinearEncoding LinearEncoding
	Strategy       SearchStrategy
}

// DefaultOptions mirrors sat.DefaultOptions plus input-order search and the
// global propagators.
var DefaultOptions = Options{
	SolverOptions:  sat.DefaultOptions,
	LinearEncoding: GlobalPropagator,
	Strategy:       InputOrder,
}

// VariableMap resolves a Model's VarRefs and names to the solver's
// DomainIds, for callers that print or assume solutions after Solve.
type VariableMap struct {
	byRef  []sat.DomainId
	byName map[string]sat.DomainId
	// Names is the C11 supplement: every named declared variable (not
	// synthetic ones introduced by encodings), surviving into the proof's
	// .lits file so atomics are printed against model names, not raw
	// DomainIds.
	Names map[sat.DomainId]string
}

// DomainId resolves a VarRef to its lowered DomainId.
func (vm *VariableMap) DomainId(ref VarRef) sat.DomainId { return vm.byRef[ref] }

// Lookup resolves a declared variable by name.
func (vm *VariableMap) Lookup(name string) (sat.DomainId, bool) {
	x, ok := vm.byName[name]
	return x, ok
}

// IntoSolver lowers m onto a fresh *sat.Solver: every declared variable
// becomes a domain, every affine view becomes a channelled derived
// variable, every constraint is posted via its representative propagator
// (or decomposed, per opts.LinearEncoding), and the default brancher and
// objective (if any) are installed.
func (m *Model) IntoSolver(opts Options) (*sat.Solver, *VariableMap, error) {
	if m.err != nil {
		return nil, nil, m.err
	}

	s := sat.NewSolver(opts.SolverOptions)
	vm := &VariableMap{
		byRef:  make([]sat.DomainId, len(m.vars)),
		byName: make(map[string]sat.DomainId, len(m.vars)),
		Names:  make(map[sat.DomainId]string, len(m.vars)),
	}

	// Base variables first: affine views may reference any base declared
	// before them, and declarations are append-only, so a single forward
	// pass resolving kindAffine lazily (base always has a lower index,
	// since NewAffineView takes an existing VarRef) suffices.
	decisionVars := make([]sat.DomainId, 0, len(m.vars))
	for i, v := range m.vars {
		ref := VarRef(i)
		switch v.kind {
		case kindBase:
			x := s.GrowSparseDomain(v.lb, v.ub, v.excluded)
			vm.byRef[ref] = x
			vm.byName[v.name] = x
			vm.Names[x] = v.name
			decisionVars = append(decisionVars, x)
		case kindAffine:
			base := vm.byRef[v.base]
			lb, ub := affineBounds(s.LowerBound(base), s.UpperBound(base), v.a, v.b)
			x := s.GrowDomain(lb, ub)
			vm.byRef[ref] = x
			vm.byName[v.name] = x
			vm.Names[x] = v.name
			// Internal channelling constraints are tagged negatively so
			// they never collide with a user constraint's proof tag
			// (0..len(m.constraints)-1).
			if err := postAffineChannel(s, x, base, v.a, v.b, -(i + 1)); err != nil {
				return nil, nil, err
			}
		}
	}

	for tag, c := range m.constraints {
		if err := postConstraint(s, vm, opts, tag, c); err != nil {
			return nil, nil, err
		}
	}

	s.SetBrancher(newBrancher(decisionVars, opts.Strategy))

	if m.hasObjective {
		x := vm.byRef[m.objective]
		if m.sense == Maximise {
			negLB, negUB := affineBounds(s.LowerBound(x), s.UpperBound(x), -1, 0)
			neg := s.GrowDomain(negLB, negUB)
			if err := postAffineChannel(s, neg, x, -1, 0, -(len(m.vars) + 1)); err != nil {
				return nil, nil, err
			}
			x = neg
		}
		s.SetObjective(x)
	}

	return s, vm, nil
}

// affineBounds computes [lb, ub] of a*base+b given base's current bounds,
// swapping endpoints when a is negative.
func affineBounds(baseLB, baseUB, a, b int64) (int64, int64) {
	lo, hi := a*baseLB+b, a*baseUB+b
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo, hi
}

// postAffineChannel posts y - a*base == b as a pair of LinearLessEqual
// propagators (<=, >=), tagged with the caller's negative tag so proof tags
// never collide with the user's own constraints (0..n-1).
func postAffineChannel(s *sat.Solver, y, base sat.DomainId, a, b int64, tag int) error {
	le := propagators.NewLinearLessEqual([]int64{1, -a}, []sat.DomainId{y, base}, b, tag)
	if _, inc := s.Post(le, tag, string(le.Label())); inc != nil {
		return fmt.Errorf("model: affine view is infeasible at the root: %v", inc.Conjunction)
	}
	ge := propagators.NewLinearLessEqual([]int64{-1, a}, []sat.DomainId{y, base}, -b, tag)
	if _, inc := s.Post(ge, tag, string(ge.Label())); inc != nil {
		return fmt.Errorf("model: affine view is infeasible at the root: %v", inc.Conjunction)
	}
	return nil
}
