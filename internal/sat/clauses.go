package sat

import (
	"strings"
)

// Clause is a stored disjunction of >=2 literals with the flags and
// bookkeeping learned-clause quality tracking requires
// (activity, LBD) and for deletion safety (locked/protected).
type Clause struct {
	activity float64
	literals []Literal
	sliceRef *[]Literal // backing pool slot under the clausepool build tag; nil otherwise

	learnt      bool
	lbd         int
	isProtected bool
	deleted     bool
}

// NewClause builds a clause from tmpLiterals, performing root-level
// simplification (dedup, drop falsified literals, detect
// tautologies) when learnt is false. Learned nogoods skip simplification:
// their literal order already encodes the asserting/second-highest
// structure installed by conflict analysis.
func NewClause(s *Solver, tmpLiterals []Literal, learnt bool) (*Clause, bool) {
	size := len(tmpLiterals)

	if !learnt {
		seen := map[Literal]struct{}{}
		for i := size - 1; i >= 0; i-- {
			if _, ok := seen[tmpLiterals[i].Opposite()]; ok {
				return nil, true // tautology
			}
			if _, ok := seen[tmpLiterals[i]]; ok {
				size--
				tmpLiterals[i], tmpLiterals[size] = tmpLiterals[size], tmpLiterals[i]
				continue
			}
			seen[tmpLiterals[i]] = struct{}{}

			switch s.litValue(tmpLiterals[i]) {
			case True:
				return nil, true
			case False:
				size--
				tmpLiterals[i], tmpLiterals[size] = tmpLiterals[size], tmpLiterals[i]
			}
		}
		tmpLiterals = tmpLiterals[:size]
	}

	switch size {
	case 0:
		return nil, false
	case 1:
		out := s.enqueueLiteral(tmpLiterals[0], nil, NoReason)
		return nil, !out.Conflict
	default:
		c := newClause(tmpLiterals, learnt)

		if learnt {
			// Move the literal from the second-highest decision level into
			// position 1 so that backtracking to the backjump level keeps
			// both watches meaningful.
			maxLevel, wl := -1, -1
			for i := 1; i < len(c.literals); i++ {
				if lvl := s.varLevel[c.literals[i].Var()]; lvl > maxLevel {
					maxLevel = lvl
					wl = i
				}
			}
			if wl >= 0 {
				c.literals[wl], c.literals[1] = c.literals[1], c.literals[wl]
			}
			c.lbd = computeLBD(s, c.literals)
		}

		s.Watch(c, c.literals[0].Opposite(), c.literals[1])
		s.Watch(c, c.literals[1].Opposite(), c.literals[0])
		return c, true
	}
}

// attachDuringSearch registers a freshly synthesised clause (e.g. a
// channelling clause minted by the predicate/literal map) whose
// first literal is guaranteed Unknown, so the clause cannot already be
// falsified and no simplification or immediate propagation is required.
func attachDuringSearch(s *Solver, lits []Literal) *Clause {
	c := newClause(lits, false)
	s.Watch(c, c.literals[0].Opposite(), c.literals[1])
	s.Watch(c, c.literals[1].Opposite(), c.literals[0])
	s.constraints = append(s.constraints, c)
	return c
}

// Watch registers clause c to wake up when watch becomes true.
func (s *Solver) Watch(c *Clause, watch Literal, guard Literal) {
	s.watchers[watch] = append(s.watchers[watch], watcher{clause: c, guard: guard})
}

// Unwatch removes clause c from watch's list.
func (s *Solver) Unwatch(c *Clause, watch Literal) {
	ws := s.watchers[watch]
	j := 0
	for i := range ws {
		if ws[i].clause != c {
			ws[j] = ws[i]
			j++
		}
	}
	s.watchers[watch] = ws[:j]
}

// AddClause posts a permanent clause at the root level. It marks the solver
// UNSAT and returns ErrInfeasibleClause if the clause is immediately
// unsatisfiable.
func (s *Solver) AddClause(lits []Literal) error {
	if s.decisionLevel() != 0 {
		return errRootOnly
	}
	c, ok := NewClause(s, lits, false)
	if c != nil {
		s.constraints = append(s.constraints, c)
	}
	if !ok {
		s.unsat = true
		return ErrInfeasibleClause
	}
	return nil
}

// AddAssertingLearnedClause installs a learned nogood and immediately
// enqueues its asserting literal.
// literals[0] must be the asserting literal per the Nogood invariant.
func (s *Solver) AddAssertingLearnedClause(lits []Literal) *Clause {
	c, _ := NewClause(s, lits, true)
	s.enqueueLiteral(lits[0], c, NoReason)
	if c != nil {
		s.learnts = append(s.learnts, c)
	}
	return c
}

// AddAllocatedDeletableClause installs a clause that the caller may later
// ask to have removed via Clause.Remove, used by the proof processor's
// reverse-propagation engine.
func (s *Solver) AddAllocatedDeletableClause(lits []Literal) (*Clause, bool) {
	return NewClause(s, lits, false)
}

func (c *Clause) locked(s *Solver) bool {
	return len(c.literals) > 0 && s.reasonClause[c.literals[0].Var()] == c
}

// Remove detaches c from both its watch lists and returns its backing
// slice to the allocator. Callers that also maintain an owning slice
// (s.learnts, s.constraints, or the reverse-propagation engine's own list)
// must drop their reference too, and must not touch c.literals afterwards:
// under the clausepool build the backing array may already be handed to
// another clause.
func (c *Clause) Remove(s *Solver) {
	s.Unwatch(c, c.literals[0].Opposite())
	s.Unwatch(c, c.literals[1].Opposite())
	c.deleted = true
	freeClause(c)
}

// Simplify drops literals falsified at the root level and reports whether
// the whole clause is satisfied at the root (and can thus be dropped).
func (c *Clause) Simplify(s *Solver) bool {
	j := 0
	for i := range c.literals {
		switch s.litValue(c.literals[i]) {
		case True:
			return true
		case False:
			// discard
		default:
			c.literals[j] = c.literals[i]
			j++
		}
	}
	c.literals = c.literals[:j]
	return false
}

// Propagate wakes the clause on l becoming true. It returns ok=false
// either because the clause itself is now falsified (domainConflict nil)
// or because asserting its last literal emptied an integer domain
// (domainConflict set) — the two-watched invariant guarantees the clause
// can never already be falsified when the forced literal is enqueued, so
// any conflict discovered here comes from that projection.
func (c *Clause) Propagate(s *Solver, l Literal) (ok bool, domainConflict *Inconsistency) {
	opp := l.Opposite()
	if c.literals[0] == opp {
		c.literals[0] = c.literals[1]
		c.literals[1] = opp
	}

	if s.litValue(c.literals[0]) == True {
		s.Watch(c, l, c.literals[0])
		return true, nil
	}

	for i := 2; i < len(c.literals); i++ {
		if s.litValue(c.literals[i]) != False {
			c.literals[1] = c.literals[i]
			c.literals[i] = l.Opposite()
			s.Watch(c, c.literals[1].Opposite(), c.literals[0])
			return true, nil
		}
	}

	s.Watch(c, l, c.literals[0])
	out := s.enqueueLiteral(c.literals[0], c, NoReason)
	if !out.Conflict {
		return true, nil
	}
	if out.IsEmptyDomain {
		return false, EmptyDomainConflict(out.EmptyDomain)
	}
	return false, nil
}

// ExplainFailure returns the conjunction of predicates that are false when c
// is the conflicting clause: the negation of every literal in c.
func (c *Clause) ExplainFailure(s *Solver) []Predicate {
	if c.learnt {
		s.BumpClauseActivity(c)
	}
	out := make([]Predicate, 0, len(c.literals))
	for _, l := range c.literals {
		out = append(out, s.literalAsPredicate(l.Opposite()))
	}
	return out
}

// ExplainAssign returns the reason for c having forced c.literals[0] true:
// the negation of every other literal.
func (c *Clause) ExplainAssign(s *Solver) []Predicate {
	if c.learnt {
		s.BumpClauseActivity(c)
	}
	out := make([]Predicate, 0, len(c.literals)-1)
	for _, l := range c.literals[1:] {
		out = append(out, s.literalAsPredicate(l.Opposite()))
	}
	return out
}

func (c *Clause) String() string {
	if len(c.literals) == 0 {
		return "Clause[]"
	}
	sb := strings.Builder{}
	sb.WriteString("Clause[")
	sb.WriteString(c.literals[0].String())
	for _, l := range c.literals[1:] {
		sb.WriteByte(' ')
		sb.WriteString(l.String())
	}
	sb.WriteByte(']')
	return sb.String()
}

// computeLBD computes the Literal Block Distance of a learned clause: the
// number of distinct decision levels among its literals.
func computeLBD(s *Solver, lits []Literal) int {
	levels := map[int]struct{}{}
	for _, l := range lits {
		levels[s.varLevel[l.Var()]] = struct{}{}
	}
	return len(levels)
}
