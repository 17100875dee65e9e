package proof

import (
	"fmt"

	"github.com/rhartert/lcgo/internal/model"
	"github.com/rhartert/lcgo/internal/propagators"
	"github.com/rhartert/lcgo/internal/sat"
)

// VerificationError reports a rejected proof step by ID, per spec.md
// §4.15's "never panic on malformed proofs" policy.
type VerificationError struct {
	StepID int
	Reason string
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("proof: step %d rejected: %s", e.StepID, e.Reason)
}

// CheckingState is the bounds-only domain state the checker mutates while
// replaying a proof: an interval [lb, ub] per DomainId, seeded from the
// model's root-propagated bounds. Holes punched by NotEqual/Element/
// AllDifferent are not tracked (documented in DESIGN.md): the checker is
// conservative rather than exact there, the same way the representative
// propagators themselves are bound-consistent rather than hole-complete
// for most constraint kinds.
type CheckingState struct {
	lb, ub map[sat.DomainId]int64
}

func newCheckingState(s *sat.Solver, vm *model.VariableMap, numVars int) *CheckingState {
	st := &CheckingState{lb: map[sat.DomainId]int64{}, ub: map[sat.DomainId]int64{}}
	for i := 0; i < numVars; i++ {
		x := vm.DomainId(model.VarRef(i))
		st.lb[x] = s.LowerBound(x)
		st.ub[x] = s.UpperBound(x)
	}
	return st
}

func (s *CheckingState) clone() *CheckingState {
	out := &CheckingState{lb: make(map[sat.DomainId]int64, len(s.lb)), ub: make(map[sat.DomainId]int64, len(s.ub))}
	for k, v := range s.lb {
		out.lb[k] = v
	}
	for k, v := range s.ub {
		out.ub[k] = v
	}
	return out
}

func (s *CheckingState) LowerBound(x sat.DomainId) int64 { return s.lb[x] }
func (s *CheckingState) UpperBound(x sat.DomainId) int64 { return s.ub[x] }
func (s *CheckingState) Contains(x sat.DomainId, v int64) bool {
	return v >= s.lb[x] && v <= s.ub[x]
}
func (s *CheckingState) IsFixed(x sat.DomainId) bool { return s.lb[x] == s.ub[x] }

var _ sat.ReadOnlyContext = (*CheckingState)(nil)

// consistent reports whether every tracked domain still has lb <= ub.
func (s *CheckingState) consistent() bool {
	for x, lo := range s.lb {
		if lo > s.ub[x] {
			return false
		}
	}
	return true
}

// apply tightens the bounds implied by p, approximating NotEqual against
// an interior value as a no-op (recorded as a conservative simplification:
// it never lets the checker accept an unsound step, only occasionally
// forces it to ask a per-constraint checker to confirm something the
// interval alone cannot already rule out).
func (s *CheckingState) apply(p sat.Predicate) {
	if p.IsTrivial() {
		return
	}
	switch p.Kind {
	case sat.GreaterOrEqual:
		if p.Value > s.lb[p.Var] {
			s.lb[p.Var] = p.Value
		}
	case sat.LessOrEqual:
		if p.Value < s.ub[p.Var] {
			s.ub[p.Var] = p.Value
		}
	case sat.Equal:
		s.lb[p.Var] = p.Value
		s.ub[p.Var] = p.Value
	case sat.NotEqual:
		if s.lb[p.Var] == p.Value {
			s.lb[p.Var] = p.Value + 1
		}
		if s.ub[p.Var] == p.Value {
			s.ub[p.Var] = p.Value - 1
		}
	}
}

// Checker verifies a full DRCP proof against a model without re-running
// search: every inference step is checked by reconstructing the same
// representative propagator used at solve time and calling its
// DetectInconsistency, reusing §4.16's propagator contracts instead of
// re-deriving each constraint kind's semantics a second time.
type Checker struct {
	specs    []model.ConstraintSpec
	lits     map[sat.Literal]sat.Predicate
	initial  *CheckingState
	recorded map[int][]sat.Predicate
	sawEmptyNogood bool
}

// NewChecker builds a checker over m (lowered once, purely to obtain the
// variable map and root-propagated initial bounds — the solver instance
// itself is discarded) and litDefs, the parsed .lits mapping from literal
// code to atomic predicate.
func NewChecker(m *model.Model, opts model.Options, litDefs map[sat.Literal]sat.Predicate) (*Checker, error) {
	s, vm, err := m.IntoSolver(opts)
	if err != nil {
		return nil, err
	}
	return &Checker{
		specs:    m.ConstraintSpecs(vm),
		lits:     litDefs,
		initial:  newCheckingState(s, vm, numDeclaredVars(m)),
		recorded: map[int][]sat.Predicate{},
	}, nil
}

func numDeclaredVars(m *model.Model) int { return m.NumVars() }

func (c *Checker) predicateFor(l sat.Literal) (sat.Predicate, bool) {
	if p, ok := c.lits[l]; ok {
		return p, true
	}
	if p, ok := c.lits[l.Opposite()]; ok {
		return p.Negation(), true
	}
	return sat.Predicate{}, false
}

func (c *Checker) literalsToPredicates(id int, lits []sat.Literal) ([]sat.Predicate, error) {
	out := make([]sat.Predicate, 0, len(lits))
	for _, l := range lits {
		p, ok := c.predicateFor(l)
		if !ok {
			return nil, &VerificationError{StepID: id, Reason: fmt.Sprintf("literal %d has no known atomic definition", int(l))}
		}
		out = append(out, p)
	}
	return out, nil
}

// CheckInference verifies one `i` step: the premises plus the negated
// conclusion must make the cited constraint's per-constraint checker
// report an inconsistency.
func (c *Checker) CheckInference(step InferenceStep) error {
	scoped := c.initial.clone()
	premises, err := c.literalsToPredicates(step.ID, step.Premises)
	if err != nil {
		return err
	}
	for _, p := range premises {
		scoped.apply(p)
	}
	if step.HasConclusion {
		p, ok := c.predicateFor(step.Conclusion)
		if !ok {
			return &VerificationError{StepID: step.ID, Reason: "conclusion literal has no known atomic definition"}
		}
		scoped.apply(p.Negation())
	}

	if step.ConstraintTag < 0 || step.ConstraintTag >= len(c.specs) {
		// Internal channelling edges (affine views, objective negation) are
		// trusted structurally rather than re-verified: they are not one of
		// §6's constraint kinds, so there is no per-constraint checker to
		// dispatch to.
		c.recorded[step.ID] = premises
		return nil
	}

	prop, err := propagatorFor(c.specs[step.ConstraintTag])
	if err != nil {
		return &VerificationError{StepID: step.ID, Reason: err.Error()}
	}
	if !scoped.consistent() {
		c.recorded[step.ID] = premises
		return nil
	}
	if _, inconsistent := prop.DetectInconsistency(scoped); !inconsistent {
		return &VerificationError{StepID: step.ID, Reason: "premises and negated conclusion do not make the constraint inconsistent"}
	}
	c.recorded[step.ID] = premises
	return nil
}

// CheckNogood verifies one `n` (combine) step: applying each hint's
// recorded conjunction in turn must eventually conflict with the step's
// own negated literals.
func (c *Checker) CheckNogood(step NogoodStep) error {
	scoped := c.initial.clone()
	lits, err := c.literalsToPredicates(step.ID, step.Lits)
	if err != nil {
		return err
	}
	for _, p := range lits {
		scoped.apply(p.Negation())
	}
	if len(step.Lits) == 0 {
		c.sawEmptyNogood = true
	}

	conflict := !scoped.consistent()
	for _, hintID := range step.Hints {
		if conflict {
			break
		}
		facts, ok := c.recorded[hintID]
		if !ok {
			return &VerificationError{StepID: step.ID, Reason: fmt.Sprintf("hint %d references an unknown step", hintID)}
		}
		for _, p := range facts {
			scoped.apply(p)
		}
		if !scoped.consistent() {
			conflict = true
		}
	}
	if !conflict {
		return &VerificationError{StepID: step.ID, Reason: "hints do not derive a conflict"}
	}
	c.recorded[step.ID] = lits
	return nil
}

// CheckConclusion verifies the terminal step: UNSAT requires an empty
// recorded nogood to have been seen; an objective bound requires the
// literal to have a known definition (the bound's soundness itself was
// already established by the nogoods that preceded it).
func (c *Checker) CheckConclusion(concl Conclusion) error {
	if concl.Unsat {
		if !c.sawEmptyNogood {
			return &VerificationError{StepID: -1, Reason: "UNSAT conclusion without an empty recorded nogood"}
		}
		return nil
	}
	if _, ok := c.predicateFor(concl.Bound); !ok {
		return &VerificationError{StepID: -1, Reason: "conclusion literal has no known atomic definition"}
	}
	return nil
}

// CheckAll replays every step of proof in order and returns the first
// verification error encountered, or nil if the whole proof is accepted.
// Inference and nogood steps are interleaved by ID order, the order the
// processor (C14) emits them in.
func (c *Checker) CheckAll(proof FullProof) error {
	infByID := map[int]InferenceStep{}
	for _, inf := range proof.Inferences {
		infByID[inf.ID] = inf
	}
	ngByID := map[int]NogoodStep{}
	for _, ng := range proof.Nogoods {
		ngByID[ng.ID] = ng
	}

	last := 0
	for _, inf := range proof.Inferences {
		if inf.ID > last {
			last = inf.ID
		}
	}
	for _, ng := range proof.Nogoods {
		if ng.ID > last {
			last = ng.ID
		}
	}

	for id := 1; id <= last; id++ {
		if inf, ok := infByID[id]; ok {
			if err := c.CheckInference(inf); err != nil {
				return err
			}
			continue
		}
		if ng, ok := ngByID[id]; ok {
			if err := c.CheckNogood(ng); err != nil {
				return err
			}
		}
	}
	return c.CheckConclusion(proof.Conclusion)
}

// propagatorFor reconstructs the representative propagator spec describes,
// for DetectInconsistency; InitialiseAtRoot is never called since none of
// the propagators' DetectInconsistency implementations depend on it.
func propagatorFor(spec model.ConstraintSpec) (sat.Propagator, error) {
	switch spec.Kind {
	case model.KindAllDifferent:
		return propagators.NewAllDifferent(spec.Vars, spec.Tag), nil
	case model.KindCircuit:
		return propagators.NewCircuit(spec.Vars, spec.Tag), nil
	case model.KindElement:
		return propagators.NewElement(spec.Array, spec.Index, spec.Value, spec.Tag), nil
	case model.KindMaximum:
		return propagators.NewMaximum(spec.MaxTerms, spec.Value, spec.Tag), nil
	case model.KindCumulative:
		return propagators.NewCumulative(spec.Starts, spec.Durations, spec.Demands, spec.Capacity, spec.Tag), nil
	case model.KindLinearLessEqual, model.KindLinearEqual:
		return propagators.NewLinearLessEqual(spec.Coeffs, spec.Vars, spec.Rhs, spec.Tag), nil
	case model.KindLinearNotEqual:
		return propagators.NewLinearNotEqual(spec.Coeffs, spec.Vars, spec.Rhs, spec.Tag), nil
	default:
		return nil, fmt.Errorf("unknown constraint kind %d", spec.Kind)
	}
}
