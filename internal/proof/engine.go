package proof

import "github.com/rhartert/lcgo/internal/sat"

// rpEngine is the reverse-propagation engine spec.md §4.14 asks for: a
// propagator-only view of a *sat.Solver that installs nogoods as ordinary
// clauses and runs propagation to a fixpoint, recording every
// edge (clause or CP propagator) the fixpoint passed through so the
// processor can turn them into DRCP inference/hint references.
//
// Each trial (Trim redundancy check, Introduce-inferences justification
// replay) gets its own rpEngine built fresh over a freshly lowered solver,
// rather than incrementally adding/removing clauses from one shared
// instance: simpler to reason about correctly, and the model is small
// enough that re-lowering per trial costs nothing a checker cares about.
// clauseNogood maps an installed clause back to the scaffold nogood ID it
// came from, so a clause-caused propagation can be cited as a hint instead
// of a synthesised inference step.
type rpEngine struct {
	s            *sat.Solver
	clauseNogood map[*sat.Clause]int
}

// newRPEngine builds an engine from a fresh solver and installs every
// nogood in present through AddAllocatedDeletableClause; none of them is
// ever removed, since a trial engine is always discarded after use.
func newRPEngine(s *sat.Solver, present []NogoodStep) *rpEngine {
	e := &rpEngine{s: s, clauseNogood: map[*sat.Clause]int{}}
	for _, ng := range present {
		lits := append([]sat.Literal(nil), ng.Lits...)
		c, ok := s.AddAllocatedDeletableClause(lits)
		if ok && c != nil {
			e.clauseNogood[c] = ng.ID
		}
	}
	return e
}

// edge is one step of a derivation: either a CP propagator inference
// (owner >= 0, with the premises/conclusion needed to emit an `i` step) or
// a reference to an already-known nogood (nogoodID set), the two kinds of
// hint a combine step can cite.
type edge struct {
	owner         sat.PropagatorId
	label         string
	constraintTag int
	premises      []sat.Literal
	conclusion    sat.Literal
	hasConclusion bool
	nogoodID      int
	isNogoodEdge  bool
}

// proveByAssumptions asserts the negation of every literal in candidate,
// propagates to a fixpoint, and reports whether a conflict followed, along
// with every edge (propagator or nogood) touched while deriving it. It
// always restores the engine to decision level 0 before returning.
func (e *rpEngine) proveByAssumptions(candidate []sat.Literal) (conflict bool, edges []edge) {
	from := e.s.BoolTrailLen()
	ok := true
	for _, l := range candidate {
		if !e.s.EnqueueDecisionLiteral(l.Opposite()) {
			ok = false
			break
		}
	}
	if ok {
		res := e.s.PropagateToFixpoint()
		conflict = res.Conflict
	} else {
		conflict = true
	}
	edges = e.collectEdges(from)
	e.s.BacktrackTo(0)
	return conflict, edges
}

// collectEdges walks the boolean trail from the mark left before the
// trial's assumptions, turning every propagated (non-decision) literal
// into an edge: a CP propagator inference if it has a reason with a
// propagator owner, a nogood reference if its reason clause is one of the
// engine's installed nogoods, or a bare clause-channel inference
// otherwise (tagged with a negative constraint tag, since it did not come
// from a user constraint).
func (e *rpEngine) collectEdges(from int) []edge {
	var out []edge
	for _, l := range e.s.TrailLiteralsFrom(from) {
		if ref, ok := e.s.ReasonRefForLiteral(l); ok {
			owner := e.s.ReasonOwner(ref)
			premises := e.s.ExplainReason(ref)
			ed := edge{
				owner:         owner,
				label:         "channel",
				constraintTag: -1,
				premises:      predicatesToLiterals(e.s, premises),
				conclusion:    l,
				hasConclusion: true,
			}
			if owner >= 0 {
				ed.label = e.s.PropagatorLabel(owner)
				ed.constraintTag = e.s.PropagatorTag(owner)
			}
			out = append(out, ed)
			continue
		}
		if c, ok := e.s.ReasonClauseForLiteral(l); ok {
			if id, known := e.clauseNogood[c]; known {
				out = append(out, edge{isNogoodEdge: true, nogoodID: id})
				continue
			}
			premises := make([]sat.Literal, 0, len(c.Literals())-1)
			for _, cl := range c.Literals() {
				if cl != l {
					premises = append(premises, cl.Opposite())
				}
			}
			out = append(out, edge{
				owner:         -1,
				label:         "channel",
				constraintTag: -1,
				premises:      premises,
				conclusion:    l,
				hasConclusion: true,
			})
		}
	}
	return out
}

// predicatesToLiterals turns a reason's antecedent conjunction (predicates
// that currently hold) into the literals that are currently true for them.
func predicatesToLiterals(s *sat.Solver, ps []sat.Predicate) []sat.Literal {
	out := make([]sat.Literal, len(ps))
	for i, p := range ps {
		out[i] = s.LiteralForPredicate(p)
	}
	return out
}
