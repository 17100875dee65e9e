package sat

// This file implements the boolean trail: literal assignment,
// decision levels, reasons, and the enqueue/backtrack operations shared by
// clausal propagation, CP-driven bound tightening, and decisions.

// EnqueueDecisionLiteral starts a new decision level and assigns lit. It
// fails if lit is already falsified.
func (s *Solver) EnqueueDecisionLiteral(lit Literal) bool {
	s.trailLim = append(s.trailLim, len(s.boolTrail))
	s.reasons.NewDecisionLevel()
	out := s.enqueueLiteral(lit, nil, NoReason)
	return !out.Conflict
}

// enqueueLiteral appends lit to the boolean trail with the given reason
// (either a clause, for clausal propagation, or a ReasonRef, for CP-driven
// or lazy reasons — never both). If lit corresponds to an integer
// predicate, the predicate is immediately applied to the dense domain cache
// so that the two trails never drift apart.
func (s *Solver) enqueueLiteral(l Literal, fromClause *Clause, fromRef ReasonRef) Outcome {
	switch s.assigns[l] {
	case False:
		return Outcome{Conflict: true}
	case True:
		return Outcome{}
	}

	v := l.Var()
	s.assigns[l] = True
	s.assigns[l.Opposite()] = False
	s.varLevel[v] = s.decisionLevel()
	s.reasonClause[v] = fromClause
	s.reasonRef[v] = fromRef
	s.boolTrail = append(s.boolTrail, l)
	s.propQueue.Push(l)

	if p, ok := s.literalAsPredicateOK(l); ok {
		_, empty := s.applyPredicateToDomain(p)
		if empty {
			return Outcome{Conflict: true, IsEmptyDomain: true, EmptyDomain: p.Var}
		}
		s.scheduleCPWatchers(p)
	}
	s.scheduleBooleanWatchers(l)
	return Outcome{}
}

// Outcome is the result of an operation that can fail either as a plain
// boolean conflict or as an emptied integer domain.
type Outcome struct {
	Conflict      bool
	IsEmptyDomain bool
	EmptyDomain   DomainId
}

// undoOne unassigns the most recently pushed boolean trail literal.
func (s *Solver) undoOne() {
	l := s.boolTrail[len(s.boolTrail)-1]
	v := l.Var()

	s.order.Reinsert(int(v), s.assigns[l])
	s.assigns[l] = Unknown
	s.assigns[l.Opposite()] = Unknown
	s.reasonClause[v] = nil
	s.reasonRef[v] = NoReason
	s.varLevel[v] = -1

	s.boolTrail = s.boolTrail[:len(s.boolTrail)-1]
}

// cancel undoes every literal assigned at the current decision level.
func (s *Solver) cancel() {
	c := len(s.boolTrail) - s.trailLim[len(s.trailLim)-1]
	for ; c != 0; c-- {
		s.undoOne()
	}
	s.trailLim = s.trailLim[:len(s.trailLim)-1]
}

// BacktrackTo restores both trails to the state they had when level was
// first entered), notifying the brancher
// of every integer variable that lost its fixed value.
func (s *Solver) BacktrackTo(level int) {
	for s.decisionLevel() > level {
		s.cancel()
	}
	s.reasons.Synchronise(level)
	touched := s.SynchroniseIntegerTrail(level)
	if s.brancher != nil {
		for _, x := range touched {
			s.brancher.OnUnassign(x)
		}
	}
	s.propQueue.Clear()
	s.cpQueue.Clear()
}

// literalAsPredicate converts a literal into the predicate it represents,
// returning the zero Predicate if the literal has none. Used by clause
// explanation, where every literal is guaranteed to have been produced by
// the predicate/literal map or to be a plain boolean (reification) literal
// — callers that may see plain booleans use literalAsPredicateOK instead.
func (s *Solver) literalAsPredicate(l Literal) Predicate {
	p, ok := s.literalAsPredicateOK(l)
	if !ok {
		// A plain boolean (e.g. a reification literal) carries no integer
		// predicate; callers that explain pure-SAT clauses must not reach
		// here with such a literal.
		return Predicate{}
	}
	return p
}

func (s *Solver) literalAsPredicateOK(l Literal) (Predicate, bool) {
	v := int(l.Var())
	if v >= len(s.predKnown) || !s.predKnown[v] {
		return Predicate{}, false
	}
	p := s.predForVar[v]
	if l.IsPositive() {
		return p, true
	}
	return p.Negation(), true
}
