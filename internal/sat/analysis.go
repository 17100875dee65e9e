package sat

// This file implements conflict analysis: turning a conflicting
// clause or CP inconsistency into a learned nogood and a backjump level,
// under one of three selectable strategies.

// BumpClauseActivity increases c's activity, rescaling the whole learnt
// database if it grows unreasonably large (the usual VSIDS-for-clauses
// rescaling trick).
func (s *Solver) BumpClauseActivity(c *Clause) {
	c.activity += s.clauseInc
	if c.activity > 1e100 {
		s.clauseInc *= 1e-100
		for _, l := range s.learnts {
			l.activity *= 1e-100
		}
	}
}

// DecayClaActivity decays the clause activity increment once per conflict.
func (s *Solver) DecayClaActivity() { s.clauseInc *= s.clauseDecay }

// BumpVarActivity increases v's branching score, mirroring the clause
// variant.
func (s *Solver) BumpVarActivity(v PropositionalVariable) {
	s.order.BumpScore(int(v))
}

// DecayVarActivity decays the variable-order activity increment.
func (s *Solver) DecayVarActivity() { s.order.DecayScores() }

// explainConflict returns the conjunction of predicates that caused
// confl/literal l to fail: either a clause's own explanation or, for a
// CP-driven conflict/implication, the reason store's record.
func (s *Solver) explainConflict(confl *Clause, ref ReasonRef, l Literal) []Predicate {
	if confl != nil {
		if l == invalidLiteral {
			return confl.ExplainFailure(s)
		}
		return confl.ExplainAssign(s)
	}
	return s.reasons.Explain(ref, s)
}

// invalidLiteral stands in for the "no literal" conflict marker the
// some solvers represent with -1, since Literal 0 is a valid (positive)
// literal in this solver.
const invalidLiteral Literal = -1

// conflictSource names what triggered conflict analysis: either a
// falsified clause or an emptied integer domain discovered by a
// propagator.
type conflictSource struct {
	clause      *Clause
	ref         ReasonRef
	conjunction []Predicate // set directly when the conflict came from DetectInconsistency
}

// analyze dispatches to the configured conflict-analysis strategy. The
// default, analyzeOneUIP, implements 1-UIP resolution, generalised to
// resolve over predicates (so that CP-derived reasons and clausal reasons
// are treated uniformly) and projecting the learned nogood back down to
// literals via the predicate/literal map.
func (s *Solver) analyze(src conflictSource) ([]Literal, int) {
	switch s.conflictStrategy {
	case NoLearning:
		return s.analyzeNoLearning(src)
	case AllDecision:
		return s.analyzeAllDecision(src)
	default:
		return s.analyzeOneUIP(src)
	}
}

func (s *Solver) analyzeOneUIP(src conflictSource) ([]Literal, int) {
	nImplicationPoints := 0
	s.tmpLearnts = s.tmpLearnts[:0]
	s.tmpLearnts = append(s.tmpLearnts, invalidLiteral)

	nextLiteral := len(s.boolTrail) - 1
	l := invalidLiteral
	confl := src.clause
	ref := src.ref
	s.seenVar.Clear()
	backtrackLevel := 0

	first := true
	for {
		var preds []Predicate
		if first && src.conjunction != nil {
			preds = src.conjunction
		} else {
			preds = s.explainConflict(confl, ref, l)
		}
		first = false

		for _, p := range preds {
			q := s.literalForPredicate(p) // p currently holds: q is the corresponding true literal
			v := q.Var()
			if s.seenVar.Contains(int(v)) {
				continue
			}
			s.seenVar.Add(int(v))
			s.BumpVarActivity(v)

			if s.varLevel[v] == s.decisionLevel() {
				nImplicationPoints++
				continue
			}
			s.tmpLearnts = append(s.tmpLearnts, q.Opposite())
			if lvl := s.varLevel[v]; lvl > backtrackLevel {
				backtrackLevel = lvl
			}
		}

		for {
			l = s.boolTrail[nextLiteral]
			nextLiteral--
			v := l.Var()
			confl = s.reasonClause[v]
			ref = s.reasonRef[v]
			if s.seenVar.Contains(int(v)) {
				break
			}
		}

		nImplicationPoints--
		if nImplicationPoints <= 0 {
			break
		}
	}

	s.tmpLearnts[0] = l.Opposite()
	return s.tmpLearnts, backtrackLevel
}

// analyzeAllDecision resolves all the way back to the decision literals
// instead of stopping at the first UIP, producing a (usually larger)
// nogood over exactly the current path of decisions.
func (s *Solver) analyzeAllDecision(src conflictSource) ([]Literal, int) {
	s.seenVar.Clear()
	out := []Literal{invalidLiteral}
	backtrackLevel := 0

	frontier := src.conjunction
	confl, ref := src.clause, src.ref
	if frontier == nil {
		frontier = s.explainConflict(confl, ref, invalidLiteral)
	}

	stack := append([]Predicate{}, frontier...)
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		q := s.literalForPredicate(p) // p currently holds: q is the corresponding true literal
		v := q.Var()
		if s.seenVar.Contains(int(v)) {
			continue
		}
		s.seenVar.Add(int(v))

		lvl := s.varLevel[v]
		if lvl == 0 {
			continue
		}
		if s.reasonClause[v] == nil && s.reasonRef[v] == NoReason {
			// A decision literal: keep it in the learned nogood.
			out = append(out, q.Opposite())
			if lvl > backtrackLevel {
				backtrackLevel = lvl
			}
			continue
		}
		stack = append(stack, s.explainConflict(s.reasonClause[v], s.reasonRef[v], q)...)
	}

	// Drop the placeholder, put the decision of the highest level first as
	// the asserting literal, and backjump to the highest level of the rest.
	out = out[1:]
	top := 0
	for i, l := range out {
		if s.varLevel[l.Var()] > s.varLevel[out[top].Var()] {
			top = i
		}
	}
	out[0], out[top] = out[top], out[0]
	backtrackLevel = 0
	for _, l := range out[1:] {
		if lvl := s.varLevel[l.Var()]; lvl > backtrackLevel {
			backtrackLevel = lvl
		}
	}
	return out, backtrackLevel
}

// analyzeNoLearning produces a nogood containing every decision literal
// taken so far and backjumps exactly one level, trading search guidance
// for a trivial, allocation-light conflict step.
func (s *Solver) analyzeNoLearning(src conflictSource) ([]Literal, int) {
	out := make([]Literal, 0, len(s.trailLim))
	// The negated last decision is the asserting literal, so that
	// backjumping one level flips that decision.
	last := len(s.trailLim) - 1
	out = append(out, s.boolTrail[s.trailLim[last]].Opposite())
	for _, lim := range s.trailLim[:last] {
		out = append(out, s.boolTrail[lim].Opposite())
	}
	backtrack := s.decisionLevel() - 1
	if backtrack < 0 {
		backtrack = 0
	}
	return out, backtrack
}

// record installs a freshly analysed nogood and immediately enqueues its
// asserting literal.
func (s *Solver) record(clause []Literal) {
	c := s.AddAssertingLearnedClause(clause)
	_ = c
	s.log.WithField("decision_level", s.decisionLevel()).Debugf("learned nogood %v", clause)
	if s.proof != nil {
		s.proof.OnLearnedNogood(clause, s.decisionLevel())
	}
}
