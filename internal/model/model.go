// Package model is the modelling layer (C11): it accumulates named integer
// variables, arrays, and constraints independently of the solver engine,
// then lowers them onto a *sat.Solver via IntoSolver. Nothing in this
// package mutates a solver directly outside of IntoSolver.
package model

import "fmt"

// VarRef is a handle to a variable declared on a Model, stable for the
// lifetime of that Model. It is meaningless on any other Model.
type VarRef int32

type varKind uint8

const (
	kindBase varKind = iota
	kindAffine
)

// varDecl is either a base integer variable (its own domain) or an affine
// view y = a*base + b over another declared variable.
type varDecl struct {
	name     string
	kind     varKind
	lb, ub   int64
	excluded []int64

	base VarRef
	a, b int64
}

// ConstraintKind enumerates the boundary vocabulary accepted from spec.md
// §6: Circuit, Element, LinearEqual, LinearLessEqual, Cumulative, Maximum,
// plus AllDifferent, used internally for permutation constraints (queens,
// the non-subtour half of circuit) and exposed for direct use as well.
type ConstraintKind uint8

const (
	KindAllDifferent ConstraintKind = iota
	KindCircuit
	KindElement
	KindLinearEqual
	KindLinearLessEqual
	KindLinearNotEqual
	KindCumulative
	KindMaximum
)

// AffineTerm is a*x in a linear constraint's left-hand side.
type AffineTerm struct {
	Var   VarRef
	Coeff int64
}

// constraintDecl is the declared (not yet lowered) form of a posted
// constraint. Only the fields relevant to Kind are populated.
type constraintDecl struct {
	kind ConstraintKind

	vars  []VarRef   // AllDifferent, Circuit
	terms []AffineTerm // LinearEqual, LinearLessEqual, LinearNotEqual
	rhs   int64

	array []VarRef // Element
	index VarRef
	value VarRef // Element, Maximum (rhs variable)

	maxTerms []VarRef // Maximum

	starts    []VarRef // Cumulative
	durations []int64
	demands   []int64
	capacity  int64
}

// ObjectiveSense selects minimisation or maximisation for Model.Optimise.
type ObjectiveSense uint8

const (
	Minimise ObjectiveSense = iota
	Maximise
)

// Model accumulates a problem description. Build it with NewIntVar /
// NewIntVarArray / PostXxx, then lower it once with IntoSolver.
type Model struct {
	vars        []varDecl
	constraints []constraintDecl

	hasObjective bool
	objective    VarRef
	sense        ObjectiveSense

	err error // first error encountered; IntoSolver returns it (later Post calls still record their constraints)
}

// New returns an empty model.
func New() *Model {
	return &Model{}
}

// Err returns the first error raised while building the model (malformed
// bounds, unknown variable reference, etc).
func (m *Model) Err() error { return m.err }

// NumVars returns the number of variables declared on m (base and affine
// views alike), the range of valid VarRef values.
func (m *Model) NumVars() int { return len(m.vars) }

func (m *Model) fail(err error) {
	if m.err == nil {
		m.err = err
	}
}

// NewIntVar declares a variable with domain [lb, ub] minus excluded, named
// for diagnostics and for the proof's .lits file.
func (m *Model) NewIntVar(name string, lb, ub int64, excluded ...int64) VarRef {
	if lb > ub {
		m.fail(fmt.Errorf("model: variable %q has empty domain [%d, %d]", name, lb, ub))
	}
	ref := VarRef(len(m.vars))
	m.vars = append(m.vars, varDecl{name: name, kind: kindBase, lb: lb, ub: ub, excluded: append([]int64(nil), excluded...)})
	return ref
}

// NewIntVarArray declares n variables named "<name>[i]" sharing one domain.
func (m *Model) NewIntVarArray(name string, n int, lb, ub int64) []VarRef {
	out := make([]VarRef, n)
	for i := 0; i < n; i++ {
		out[i] = m.NewIntVar(fmt.Sprintf("%s[%d]", name, i), lb, ub)
	}
	return out
}

// NewAffineView declares y = a*base + b without growing a new independent
// domain; it is lowered in IntoSolver to a derived variable channelled to
// base by an equality constraint. a must be non-zero.
func (m *Model) NewAffineView(name string, base VarRef, a, b int64) VarRef {
	if a == 0 {
		m.fail(fmt.Errorf("model: affine view %q has zero coefficient", name))
	}
	ref := VarRef(len(m.vars))
	m.vars = append(m.vars, varDecl{name: name, kind: kindAffine, base: base, a: a, b: b})
	return ref
}

// Negate returns an affine view of x with coefficient -1, offset 0.
// IntoSolver does not use it for Maximise; it channels its own negated
// variable.
func (m *Model) Negate(name string, x VarRef) VarRef {
	return m.NewAffineView(name, x, -1, 0)
}

// Optimise installs the variable to optimise and its sense. Maximise is
// realised at IntoSolver time by minimising a negated affine view.
func (m *Model) Optimise(x VarRef, sense ObjectiveSense) {
	m.hasObjective = true
	m.objective = x
	m.sense = sense
}

func (m *Model) checkRef(ref VarRef) bool {
	if int(ref) < 0 || int(ref) >= len(m.vars) {
		m.fail(fmt.Errorf("model: variable reference %d out of range", ref))
		return false
	}
	return true
}

// PostAllDifferent posts pairwise distinctness over vars.
func (m *Model) PostAllDifferent(vars []VarRef) {
	for _, v := range vars {
		if !m.checkRef(v) {
			return
		}
	}
	m.constraints = append(m.constraints, constraintDecl{kind: KindAllDifferent, vars: append([]VarRef(nil), vars...)})
}

// PostCircuit posts the successor-encoding subtour-prevention constraint
// over vars (0-indexed internally). Callers that also need the permutation
// half should additionally PostAllDifferent(vars).
func (m *Model) PostCircuit(vars []VarRef) {
	for _, v := range vars {
		if !m.checkRef(v) {
			return
		}
	}
	m.constraints = append(m.constraints, constraintDecl{kind: KindCircuit, vars: append([]VarRef(nil), vars...)})
}

// PostElement posts array[index] == rhs.
func (m *Model) PostElement(array []VarRef, index, rhs VarRef) {
	for _, v := range array {
		if !m.checkRef(v) {
			return
		}
	}
	if !m.checkRef(index) || !m.checkRef(rhs) {
		return
	}
	m.constraints = append(m.constraints, constraintDecl{
		kind: KindElement, array: append([]VarRef(nil), array...), index: index, value: rhs,
	})
}

// PostLinearLessEqual posts Σ terms[i].Coeff*terms[i].Var <= rhs.
func (m *Model) PostLinearLessEqual(terms []AffineTerm, rhs int64) {
	m.postLinear(KindLinearLessEqual, terms, rhs)
}

// PostLinearEqual posts Σ terms[i].Coeff*terms[i].Var == rhs.
func (m *Model) PostLinearEqual(terms []AffineTerm, rhs int64) {
	m.postLinear(KindLinearEqual, terms, rhs)
}

// PostLinearNotEqual posts Σ terms[i].Coeff*terms[i].Var != rhs.
func (m *Model) PostLinearNotEqual(terms []AffineTerm, rhs int64) {
	m.postLinear(KindLinearNotEqual, terms, rhs)
}

func (m *Model) postLinear(kind ConstraintKind, terms []AffineTerm, rhs int64) {
	for _, t := range terms {
		if !m.checkRef(t.Var) {
			return
		}
	}
	m.constraints = append(m.constraints, constraintDecl{kind: kind, terms: append([]AffineTerm(nil), terms...), rhs: rhs})
}

// PostMaximum posts max(terms) == rhs.
func (m *Model) PostMaximum(terms []VarRef, rhs VarRef) {
	for _, v := range terms {
		if !m.checkRef(v) {
			return
		}
	}
	if !m.checkRef(rhs) {
		return
	}
	m.constraints = append(m.constraints, constraintDecl{kind: KindMaximum, maxTerms: append([]VarRef(nil), terms...), value: rhs})
}

// PostCumulative posts the non-preemptive resource constraint: at every
// instant, the sum of demands of running tasks must not exceed capacity.
func (m *Model) PostCumulative(starts []VarRef, durations, demands []int64, capacity int64) {
	for _, v := range starts {
		if !m.checkRef(v) {
			return
		}
	}
	if len(starts) != len(durations) || len(starts) != len(demands) {
		m.fail(fmt.Errorf("model: cumulative arrays have mismatched lengths"))
		return
	}
	m.constraints = append(m.constraints, constraintDecl{
		kind: KindCumulative, starts: append([]VarRef(nil), starts...),
		durations: append([]int64(nil), durations...),
		demands:   append([]int64(nil), demands...),
		capacity:  capacity,
	})
}
