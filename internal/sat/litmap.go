package sat

import "sort"

// This file implements the predicate <-> literal map: a
// partial, lazily extended bijection between atomic integer constraints and
// propositional literals, together with the channelling clauses that keep
// the clausal layer consistent with bound ordering.

// Reason is the value API offered to callers that tighten a domain: either
// an eager conjunction or a lazy callback. It is
// converted to a ReasonRef by the reason store at the point of use.
type Reason struct {
	kind  reasonKind
	eager []Predicate
	lazy  LazyReasonFunc
}

// Eager wraps an already-known conjunction of predicates.
func Eager(conjunction []Predicate) Reason {
	return Reason{kind: reasonEager, eager: conjunction}
}

// LazyReason wraps a callback computed only if the reason is ever needed.
func LazyReason(f LazyReasonFunc) Reason {
	return Reason{kind: reasonLazy, lazy: f}
}

func (s *Solver) pushReason(r Reason, owner PropagatorId) ReasonRef {
	if r.kind == reasonEager && r.eager == nil {
		return NoReason
	}
	if r.kind == reasonEager {
		return s.reasons.PushEager(r.eager, owner)
	}
	return s.reasons.PushLazy(r.lazy, owner)
}

// literalForGE returns the literal for predicate (x >= k), creating it (and
// the channelling clauses tying it to its neighbours) if necessary. Per
// x >= lb is the true_literal; x >= ub+1 is the false_literal.
func (s *Solver) literalForGE(x DomainId, k int64) Literal {
	d := &s.intDomains[x]
	if k <= d.lb {
		return TrueLiteral
	}
	if k > d.ub {
		return FalseLiteral
	}
	if l, ok := s.litGE[x][k]; ok {
		return l
	}

	v := s.newBoolVar()
	lit := PositiveLiteral(v)
	s.predForVar[v] = GreaterOrEqualPredicate(x, k)
	s.predKnown[v] = true
	s.litGE[x][k] = lit

	sorted := s.geSorted[x]
	pos := sort.Search(len(sorted), func(i int) bool { return sorted[i] >= k })
	sorted = append(sorted, 0)
	copy(sorted[pos+1:], sorted[pos:])
	sorted[pos] = k
	s.geSorted[x] = sorted

	// [x >= k] -> [x >= k'] for the next smaller threshold k' < k: weaker
	// predicate is implied by the stronger one.
	if pos > 0 {
		prevLit := s.litGE[x][sorted[pos-1]]
		attachDuringSearch(s, []Literal{lit.Opposite(), prevLit})
	}
	// [x >= k''] -> [x >= k] for the next larger threshold k'' > k.
	if pos+1 < len(sorted) {
		nextLit := s.litGE[x][sorted[pos+1]]
		attachDuringSearch(s, []Literal{nextLit.Opposite(), lit})
	}

	return lit
}

// literalForEQ returns the literal for predicate (x == k), creating it (and
// the two channelling clauses to the ge(k) / le(k) literals) if necessary
//.
func (s *Solver) literalForEQ(x DomainId, k int64) Literal {
	d := &s.intDomains[x]
	if k < d.lb || k > d.ub {
		return FalseLiteral
	}
	if l, ok := s.litEQ[x][k]; ok {
		return l
	}
	geK := s.literalForGE(x, k)
	leK := s.literalForGE(x, k+1).Opposite()

	if geK == TrueLiteral && leK == TrueLiteral {
		s.litEQ[x][k] = TrueLiteral
		return TrueLiteral
	}

	v := s.newBoolVar()
	eqLit := PositiveLiteral(v)
	s.predForVar[v] = EqualPredicate(x, k)
	s.predKnown[v] = true
	s.litEQ[x][k] = eqLit

	attachDuringSearch(s, []Literal{eqLit.Opposite(), geK})           // eq -> ge(k)
	attachDuringSearch(s, []Literal{eqLit.Opposite(), leK})           // eq -> le(k)
	attachDuringSearch(s, []Literal{geK.Opposite(), leK.Opposite(), eqLit}) // ge(k) & le(k) -> eq

	return eqLit
}

// literalForPredicate resolves any atomic predicate to its literal,
// creating it lazily if needed. NotEqual and LessOrEqual are always derived
// as the negation of an Equal/GreaterOrEqual literal.
func (s *Solver) literalForPredicate(p Predicate) Literal {
	if p.IsTrivial() {
		if p == TruePredicate {
			return TrueLiteral
		}
		return FalseLiteral
	}
	switch p.Kind {
	case GreaterOrEqual:
		return s.literalForGE(p.Var, p.Value)
	case LessOrEqual:
		return s.literalForGE(p.Var, p.Value+1).Opposite()
	case Equal:
		return s.literalForEQ(p.Var, p.Value)
	default: // NotEqual
		return s.literalForEQ(p.Var, p.Value).Opposite()
	}
}

// TightenLowerBound raises x's lower bound to k, failing with EmptyDomain if
// that would make lb > ub. It is idempotent: tightening to a
// no-op bound appends no trail entry.
func (s *Solver) TightenLowerBound(x DomainId, k int64, reason Reason, owner PropagatorId) Outcome {
	return s.applyAndProject(GreaterOrEqualPredicate(x, k), reason, owner)
}

// TightenUpperBound lowers x's upper bound to k.
func (s *Solver) TightenUpperBound(x DomainId, k int64, reason Reason, owner PropagatorId) Outcome {
	return s.applyAndProject(LessOrEqualPredicate(x, k), reason, owner)
}

// RemoveValue excludes v from x's domain.
func (s *Solver) RemoveValue(x DomainId, v int64, reason Reason) Outcome {
	return s.applyAndProject(NotEqualPredicate(x, v), reason, noPropagator)
}

// ApplyIntegerPredicate applies an arbitrary atomic predicate to the
// integer trail.
func (s *Solver) ApplyIntegerPredicate(p Predicate, reason Reason, owner PropagatorId) Outcome {
	return s.applyAndProject(p, reason, owner)
}

// applyAndProject is the single entry point every domain-tightening
// operation funnels through: it resolves (and lazily allocates) the
// predicate's literal and enqueues it on the boolean trail, which in turn
// projects the change onto the dense domain cache.
func (s *Solver) applyAndProject(p Predicate, reason Reason, owner PropagatorId) Outcome {
	lit := s.literalForPredicate(p)
	ref := s.pushReason(reason, owner)
	return s.enqueueLiteral(lit, nil, ref)
}
