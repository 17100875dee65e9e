package sat

// This file is the public surface the proof subsystem (internal/proof)
// needs to observe completed propagation without reaching into the
// solver's private trail representation: resolving a literal back to the
// predicate and reason that produced it, and running one propagation step
// outside of full Search/Solve so the reverse-propagation engine can probe
// "what follows from these assumptions" without learning a clause.

// PredicateForLiteral resolves l to the integer predicate it represents,
// if any (reification literals and other plain booleans have none).
func (s *Solver) PredicateForLiteral(l Literal) (Predicate, bool) {
	return s.literalAsPredicateOK(l)
}

// LiteralForPredicate is the forward direction of PredicateForLiteral: it
// resolves (creating lazily if necessary) the literal standing for an
// atomic integer predicate, for the proof processor to turn a propagator's
// explanation conjunction into DRCP literal codes.
func (s *Solver) LiteralForPredicate(p Predicate) Literal {
	return s.literalForPredicate(p)
}

// ReasonRefForLiteral returns the reason handle recorded for l's variable
// on the boolean trail, and whether one exists (root facts and decisions
// have none).
func (s *Solver) ReasonRefForLiteral(l Literal) (ReasonRef, bool) {
	ref := s.reasonRef[l.Var()]
	if ref == NoReason {
		return NoReason, false
	}
	return ref, true
}

// ReasonClauseForLiteral returns the clause that propagated l, if its
// reason was a clause rather than a CP propagator reason.
func (s *Solver) ReasonClauseForLiteral(l Literal) (*Clause, bool) {
	c := s.reasonClause[l.Var()]
	return c, c != nil
}

// ExplainReason returns the conjunction a reason ref stands for, computing
// (and caching) a lazy reason if needed.
func (s *Solver) ExplainReason(ref ReasonRef) []Predicate {
	return s.reasons.Explain(ref, s)
}

// ReasonOwner returns the propagator that installed ref, or a negative
// PropagatorId for reasons with no owning propagator.
func (s *Solver) ReasonOwner(ref ReasonRef) PropagatorId {
	return s.reasons.Owner(ref)
}

// Literals returns c's current literals. Callers must not mutate the
// returned slice.
func (c *Clause) Literals() []Literal { return c.literals }

// BoolTrailLen returns the number of literals currently on the boolean
// trail, usable as a marker to later inspect everything propagated after
// it with TrailLiteralsFrom.
func (s *Solver) BoolTrailLen() int { return len(s.boolTrail) }

// NumPropositionalVariables returns the number of boolean variables the
// literal/predicate map currently spans, for the proof writer to iterate
// every literal when emitting the .lits file.
func (s *Solver) NumPropositionalVariables() int { return len(s.assigns) / 2 }

// TrailLiteralsFrom returns a copy of the boolean trail from index from
// onward, in trail order.
func (s *Solver) TrailLiteralsFrom(from int) []Literal {
	out := make([]Literal, len(s.boolTrail)-from)
	copy(out, s.boolTrail[from:])
	return out
}

// PropagationResult reports the outcome of one PropagateToFixpoint call.
type PropagationResult struct {
	Conflict    bool
	Conjunction []Predicate // set when the conflict came from a CP propagator or empty domain
	Clause      []Literal   // set when the conflict came from a falsified clause
}

// PropagateToFixpoint alternates clausal and CP propagation to a local
// fixpoint, the same step Search runs before each decision, but without
// conflict analysis, learning, or deciding: callers (the reverse-propagation
// engine) drive decisions and backtracking themselves.
func (s *Solver) PropagateToFixpoint() PropagationResult {
	src := s.propagateToFixpoint()
	if !src.isConflict() {
		return PropagationResult{}
	}
	if src.clause != nil {
		lits := make([]Literal, len(src.clause.literals))
		copy(lits, src.clause.literals)
		return PropagationResult{Conflict: true, Clause: lits}
	}
	return PropagationResult{Conflict: true, Conjunction: src.conjunction}
}
