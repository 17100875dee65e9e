package sat

// This file implements nogood minimisation: shrinking a freshly
// learned clause by dropping literals whose assignment is already implied
// by the rest of the clause, which shortens future propagation and
// improves LBD without changing what the clause asserts.

// minimise shrinks clause according to the solver's configured strategy.
// clause[0] (the asserting literal) is never touched.
func (s *Solver) minimise(clause []Literal) []Literal {
	switch s.minimisationStrategy {
	case Semantic:
		return s.minimiseSemantic(clause)
	case Recursive:
		return s.minimiseRecursive(clause)
	case SemanticAndRecursive:
		return s.minimiseRecursive(s.minimiseSemantic(clause))
	default:
		return clause
	}
}

// minimiseSemantic drops a literal when every predicate in its reason is
// either a root-level fact or already covered by another literal in the
// clause (one resolution step, no recursion into the reason's own reasons).
func (s *Solver) minimiseSemantic(clause []Literal) []Literal {
	seen := make(map[PropositionalVariable]bool, len(clause))
	for _, l := range clause {
		seen[l.Var()] = true
	}

	out := clause[:1]
	for _, l := range clause[1:] {
		if s.reasonCoveredBy(l.Opposite(), seen) {
			continue
		}
		out = append(out, l)
	}
	return out
}

// reasonCoveredBy reports whether every antecedent of impliedLit (a literal
// already True on the trail) is either a root-level fact or present in
// seen; impliedLit itself must not be a decision literal.
func (s *Solver) reasonCoveredBy(impliedLit Literal, seen map[PropositionalVariable]bool) bool {
	v := impliedLit.Var()
	confl, ref := s.reasonClause[v], s.reasonRef[v]
	if confl == nil && ref == NoReason {
		return false // decision literal: nothing implies it
	}
	for _, p := range s.explainConflict(confl, ref, impliedLit) {
		q := s.literalForPredicate(p)
		qv := q.Var()
		if qv == TrueLiteral.Var() {
			continue // trivial predicate, always covered
		}
		if seen[qv] {
			continue
		}
		if s.varLevel[qv] == 0 {
			continue
		}
		return false
	}
	return true
}

// minimiseRecursive generalises minimiseSemantic by following each
// uncovered antecedent's own reason transitively, memoising per variable to
// keep the cost linear in the size of the implication graph explored
//.
func (s *Solver) minimiseRecursive(clause []Literal) []Literal {
	seen := make(map[PropositionalVariable]bool, len(clause))
	for _, l := range clause {
		seen[l.Var()] = true
	}
	memo := make(map[PropositionalVariable]bool)

	var redundant func(v PropositionalVariable) bool
	redundant = func(v PropositionalVariable) bool {
		if done, ok := memo[v]; ok {
			return done
		}
		memo[v] = false // breaks cycles conservatively; the implication graph is acyclic in practice
		if s.varLevel[v] == 0 {
			memo[v] = true
			return true
		}
		confl, ref := s.reasonClause[v], s.reasonRef[v]
		if confl == nil && ref == NoReason {
			return false
		}
		for _, p := range s.explainConflict(confl, ref, PositiveLiteral(v)) {
			q := s.literalForPredicate(p)
			qv := q.Var()
			if qv == TrueLiteral.Var() || seen[qv] {
				continue
			}
			if !redundant(qv) {
				memo[v] = false
				return false
			}
		}
		memo[v] = true
		return true
	}

	out := clause[:1]
	for _, l := range clause[1:] {
		if redundant(l.Var()) {
			continue
		}
		out = append(out, l)
	}
	return out
}
