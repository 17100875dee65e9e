package sat

// DomainId is a dense identifier for an integer variable.
type DomainId int32

// domainState is the denormalised (lb, ub, holes) cache queried by
// propagators in O(1). It is always kept consistent with the boolean trail:
// every change to it is driven by a literal becoming true (see
// applyPredicateToDomain), and every restoration on backtrack is driven by
// intTrail, never the other way around.
type domainState struct {
	lb, ub int64
	holes  map[int64]struct{} // nil until the first hole is punched
}

// intTrailEntry is one entry of the per-variable domain trail. removed/hadHole record a value that was
// punched out of the domain, if any, so Synchronise can put it back.
type intTrailEntry struct {
	id      DomainId
	prevLB  int64
	prevUB  int64
	removed int64
	hadHole bool
	level   int
}

// GrowDomain creates a new dense integer variable with domain [lb, ub] and
// returns its handle.
func (s *Solver) GrowDomain(lb, ub int64) DomainId {
	id := DomainId(len(s.intDomains))
	s.intDomains = append(s.intDomains, domainState{lb: lb, ub: ub})
	s.litGE = append(s.litGE, map[int64]Literal{})
	s.geSorted = append(s.geSorted, nil)
	s.litEQ = append(s.litEQ, map[int64]Literal{})
	return id
}

// GrowSparseDomain creates a variable with domain [lb, ub] minus the given
// excluded values, materialising their disequality literals at decision
// level 0 (construction time), rather than lazily on first reference.
func (s *Solver) GrowSparseDomain(lb, ub int64, excluded []int64) DomainId {
	id := s.GrowDomain(lb, ub)
	for _, v := range excluded {
		if v < lb || v > ub {
			continue // outside [lb, ub], nothing to remove
		}
		out := s.RemoveValue(id, v, Eager(nil))
		if out.Conflict {
			// An instance that excludes every value is malformed; callers
			// are expected to validate bounds before construction.
			break
		}
	}
	return id
}

// LowerBound returns the current lower bound of x.
func (s *Solver) LowerBound(x DomainId) int64 { return s.intDomains[x].lb }

// UpperBound returns the current upper bound of x.
func (s *Solver) UpperBound(x DomainId) int64 { return s.intDomains[x].ub }

// Contains reports whether v is still in the domain of x.
func (s *Solver) Contains(x DomainId, v int64) bool {
	d := &s.intDomains[x]
	if v < d.lb || v > d.ub {
		return false
	}
	if d.holes == nil {
		return true
	}
	_, excluded := d.holes[v]
	return !excluded
}

// IsFixed reports whether x has a single remaining value.
func (s *Solver) IsFixed(x DomainId) bool {
	return s.intDomains[x].lb == s.intDomains[x].ub
}

// NumIntVariables returns the number of integer variables created so far.
func (s *Solver) NumIntVariables() int { return len(s.intDomains) }

// NumTrailEntries returns the number of entries on the integer trail.
func (s *Solver) NumTrailEntries() int { return len(s.intTrail) }

// collapseLowerBound advances lb past any holes immediately above it: a
// hole that would otherwise leave a gap at the current bound instead moves
// the bound past it in the same trail entry. The trail entry recorded by
// the caller already captures the net lb before/after this call runs, so
// collapsing here does not need its own trail entry.
func collapseLowerBound(d *domainState) {
	if d.holes == nil {
		return
	}
	for d.lb <= d.ub {
		if _, excluded := d.holes[d.lb]; !excluded {
			break
		}
		d.lb++
	}
}

func collapseUpperBound(d *domainState) {
	if d.holes == nil {
		return
	}
	for d.ub >= d.lb {
		if _, excluded := d.holes[d.ub]; !excluded {
			break
		}
		d.ub--
	}
}

// applyPredicateToDomain mutates the dense domain cache and appends one
// intTrailEntry, returning whether the domain became empty. It never
// allocates literals and never touches the boolean trail: its caller
// (enqueueLiteral, which projects each newly true literal's predicate onto
// the domains) is responsible for keeping both sides in sync.
func (s *Solver) applyPredicateToDomain(p Predicate) (changed bool, empty bool) {
	d := &s.intDomains[p.Var]
	prevLB, prevUB := d.lb, d.ub

	switch p.Kind {
	case GreaterOrEqual:
		if p.Value <= d.lb {
			return false, d.lb > d.ub
		}
		d.lb = p.Value
		collapseLowerBound(d)
		s.intTrail = append(s.intTrail, intTrailEntry{p.Var, prevLB, prevUB, 0, false, s.decisionLevel()})
		return true, d.lb > d.ub
	case LessOrEqual:
		if p.Value >= d.ub {
			return false, d.lb > d.ub
		}
		d.ub = p.Value
		collapseUpperBound(d)
		s.intTrail = append(s.intTrail, intTrailEntry{p.Var, prevLB, prevUB, 0, false, s.decisionLevel()})
		return true, d.lb > d.ub
	case Equal:
		changedAny := false
		if p.Value > d.lb {
			d.lb = p.Value
			changedAny = true
		}
		if p.Value < d.ub {
			d.ub = p.Value
			changedAny = true
		}
		if changedAny {
			s.intTrail = append(s.intTrail, intTrailEntry{p.Var, prevLB, prevUB, 0, false, s.decisionLevel()})
		}
		return changedAny, d.lb > d.ub
	default: // NotEqual
		if p.Value < d.lb || p.Value > d.ub {
			return false, false
		}
		if d.holes == nil {
			d.holes = map[int64]struct{}{}
		}
		if _, already := d.holes[p.Value]; already {
			return false, false
		}
		if p.Value == d.lb && p.Value == d.ub {
			// Removing the only remaining value: record the hole so a
			// future Synchronise can undo it, then let the collapse
			// helpers discover lb > ub.
			d.holes[p.Value] = struct{}{}
			collapseLowerBound(d)
			s.intTrail = append(s.intTrail, intTrailEntry{p.Var, prevLB, prevUB, p.Value, true, s.decisionLevel()})
			return true, true
		}
		d.holes[p.Value] = struct{}{}
		if p.Value == d.lb {
			collapseLowerBound(d)
		} else if p.Value == d.ub {
			collapseUpperBound(d)
		}
		s.intTrail = append(s.intTrail, intTrailEntry{p.Var, prevLB, prevUB, p.Value, true, s.decisionLevel()})
		return true, d.lb > d.ub
	}
}

// DoesIntegerPredicateHold reports whether p currently holds in the integer
// trail.
func (s *Solver) DoesIntegerPredicateHold(p Predicate) bool {
	if p.IsTrivial() {
		return p == TruePredicate
	}
	d := &s.intDomains[p.Var]
	switch p.Kind {
	case GreaterOrEqual:
		return d.lb >= p.Value
	case LessOrEqual:
		return d.ub <= p.Value
	case Equal:
		return d.lb == p.Value && d.ub == p.Value
	default: // NotEqual
		return !s.Contains(p.Var, p.Value)
	}
}

// SynchroniseIntegerTrail restores every domain touched above level to its
// state when level was first entered, walking the trail entries backwards.
// It returns the distinct variables that were touched, in the order their
// last trail entry was undone, for use by branchers that want to
// reconsider unfixed variables.
func (s *Solver) SynchroniseIntegerTrail(level int) []DomainId {
	var touched []DomainId
	seen := map[DomainId]bool{}
	for len(s.intTrail) > 0 {
		e := s.intTrail[len(s.intTrail)-1]
		if e.level <= level {
			break
		}
		s.intTrail = s.intTrail[:len(s.intTrail)-1]
		d := &s.intDomains[e.id]
		d.lb, d.ub = e.prevLB, e.prevUB
		if e.hadHole {
			delete(d.holes, e.removed)
		}
		if !seen[e.id] {
			seen[e.id] = true
			touched = append(touched, e.id)
		}
	}
	return touched
}
