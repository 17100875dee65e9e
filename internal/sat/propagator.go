package sat

import "github.com/rhartert/yagh"

// This file implements the CP propagator framework: the
// Propagator capability, domain-event watch lists, and the priority queue
// that drives one-step-at-a-time propagation from the main loop.

// DomainEvent classifies an integer domain change for watch-list dispatch
//.
type DomainEvent uint8

const (
	EventLowerBound DomainEvent = iota
	EventUpperBound
	EventAssign
	EventRemoval
)

// ReadOnlyContext is the query-only capability available to lazy reasons,
// DetectInconsistency, and the debug replay harness. *Solver
// satisfies it directly.
type ReadOnlyContext interface {
	LowerBound(x DomainId) int64
	UpperBound(x DomainId) int64
	Contains(x DomainId, v int64) bool
	IsFixed(x DomainId) bool
}

var _ ReadOnlyContext = (*Solver)(nil)

// Inconsistency is returned by Propagator.Propagate to report either an
// emptied domain or a custom explanation.
type Inconsistency struct {
	EmptyDomain  bool
	Var          DomainId
	Conjunction  []Predicate
}

func (e *Inconsistency) Error() string {
	if e.EmptyDomain {
		return "propagation emptied a domain"
	}
	return "propagation found an inconsistency"
}

// EmptyDomainConflict and ExplanationConflict build the two Inconsistency
// shapes.
func EmptyDomainConflict(x DomainId) *Inconsistency {
	return &Inconsistency{EmptyDomain: true, Var: x}
}

func ExplanationConflict(conjunction []Predicate) *Inconsistency {
	return &Inconsistency{Conjunction: conjunction}
}

// Propagator is the capability set every constraint-specific inference
// engine implements.
type Propagator interface {
	Name() string
	Priority() int
	InitialiseAtRoot(ctx *InitialisationContext) *Inconsistency
	Propagate(ctx *PropagationContext) *Inconsistency
	DetectInconsistency(ctx ReadOnlyContext) (conjunction []Predicate, found bool)
}

type propWatch struct {
	id      PropagatorId
	localID int
}

type propagatorEntry struct {
	id    PropagatorId
	impl  Propagator
	label string // proof label
	tag   int    // owning constraint tag
}

// InitialisationContext lets a propagator register its subscriptions and
// query the initial domains while being posted.
type InitialisationContext struct {
	s  *Solver
	id PropagatorId
}

func (c *InitialisationContext) LowerBound(x DomainId) int64 { return c.s.LowerBound(x) }
func (c *InitialisationContext) UpperBound(x DomainId) int64 { return c.s.UpperBound(x) }
func (c *InitialisationContext) Contains(x DomainId, v int64) bool {
	return c.s.Contains(x, v)
}
func (c *InitialisationContext) IsFixed(x DomainId) bool { return c.s.IsFixed(x) }

func (c *InitialisationContext) WatchLowerBound(x DomainId, localID int) {
	c.s.watchLB[x] = append(c.s.watchLB[x], propWatch{c.id, localID})
}
func (c *InitialisationContext) WatchUpperBound(x DomainId, localID int) {
	c.s.watchUB[x] = append(c.s.watchUB[x], propWatch{c.id, localID})
}
func (c *InitialisationContext) WatchAssign(x DomainId, localID int) {
	c.s.watchFix[x] = append(c.s.watchFix[x], propWatch{c.id, localID})
}
func (c *InitialisationContext) WatchRemoval(x DomainId, localID int) {
	c.s.watchVal[x] = append(c.s.watchVal[x], propWatch{c.id, localID})
}
func (c *InitialisationContext) WatchTrue(lit Literal, localID int) {
	if lit.IsPositive() {
		c.s.watchTrue[lit.Var()] = append(c.s.watchTrue[lit.Var()], propWatch{c.id, localID})
	} else {
		c.s.watchFalse[lit.Var()] = append(c.s.watchFalse[lit.Var()], propWatch{c.id, localID})
	}
}
func (c *InitialisationContext) WatchFalse(lit Literal, localID int) {
	c.WatchTrue(lit.Opposite(), localID)
}

// PropagationContext is the mutable capability passed to Propagate: every
// write takes an explicit reason, eager or lazy.
type PropagationContext struct {
	s       *Solver
	owner   PropagatorId
	reifLit *Literal // non-nil when wrapped by the reification combinator
}

func (c *PropagationContext) LowerBound(x DomainId) int64         { return c.s.LowerBound(x) }
func (c *PropagationContext) UpperBound(x DomainId) int64         { return c.s.UpperBound(x) }
func (c *PropagationContext) Contains(x DomainId, v int64) bool   { return c.s.Contains(x, v) }
func (c *PropagationContext) IsFixed(x DomainId) bool             { return c.s.IsFixed(x) }

func (c *PropagationContext) augment(r Reason) Reason {
	if c.reifLit == nil {
		return r
	}
	extra := c.s.literalAsPredicate(*c.reifLit)
	if r.kind == reasonEager {
		return Eager(append(append([]Predicate{}, r.eager...), extra))
	}
	inner := r.lazy
	return LazyReason(func(ctx ReadOnlyContext) []Predicate {
		return append(inner(ctx), extra)
	})
}

func (c *PropagationContext) SetLowerBound(x DomainId, k int64, reason Reason) *Inconsistency {
	out := c.s.TightenLowerBound(x, k, c.augment(reason), c.owner)
	return outcomeToInconsistency(out)
}

func (c *PropagationContext) SetUpperBound(x DomainId, k int64, reason Reason) *Inconsistency {
	out := c.s.TightenUpperBound(x, k, c.augment(reason), c.owner)
	return outcomeToInconsistency(out)
}

func (c *PropagationContext) Remove(x DomainId, v int64, reason Reason) *Inconsistency {
	out := c.s.applyAndProject(NotEqualPredicate(x, v), c.augment(reason), c.owner)
	return outcomeToInconsistency(out)
}

func (c *PropagationContext) AssignLiteral(lit Literal, reason Reason) *Inconsistency {
	ref := c.s.pushReason(c.augment(reason), c.owner)
	out := c.s.enqueueLiteral(lit, nil, ref)
	return outcomeToInconsistency(out)
}

func outcomeToInconsistency(out Outcome) *Inconsistency {
	if !out.Conflict {
		return nil
	}
	if out.IsEmptyDomain {
		return EmptyDomainConflict(out.EmptyDomain)
	}
	return &Inconsistency{}
}

// propagatorQueue is the priority-tiered ready queue: a small number of
// priority tiers, with propagators within the same tier firing in the
// order they were pushed.
type propagatorQueue struct {
	heap   *yagh.IntMap[int64]
	queued []bool
	seq    int64
}

func newPropagatorQueue() *propagatorQueue {
	return &propagatorQueue{heap: yagh.New[int64](0)}
}

func (q *propagatorQueue) grow() {
	q.heap.GrowBy(1)
	q.queued = append(q.queued, false)
}

func (q *propagatorQueue) push(id PropagatorId, tier int) {
	if q.queued[id] {
		return
	}
	q.queued[id] = true
	q.seq++
	q.heap.Put(int(id), int64(tier)*1_000_000_000+q.seq)
}

func (q *propagatorQueue) pop() (PropagatorId, bool) {
	next, ok := q.heap.Pop()
	if !ok {
		return 0, false
	}
	q.queued[next.Elem] = false
	return PropagatorId(next.Elem), true
}

func (q *propagatorQueue) isEmpty() bool {
	for _, queued := range q.queued {
		if queued {
			return false
		}
	}
	return true
}

// Clear drains the queue, e.g. after a conflict where the pending
// propagation step is no longer meaningful.
func (q *propagatorQueue) Clear() {
	for {
		if _, ok := q.heap.Pop(); !ok {
			break
		}
	}
	for i := range q.queued {
		q.queued[i] = false
	}
}

// Post adds a propagator to the solver, assigns it a stable PropagatorId,
// and calls InitialiseAtRoot. label is the proof-facing inference label
// (e.g. "linear", "all_different"); pass "" for propagators never exercised
// under proof logging. A root-level conflict reported by InitialiseAtRoot
// is returned to the caller and also stashed, so that the next propagation
// reports it as a level-0 conflict and the solver concludes UNSAT.
func (s *Solver) Post(p Propagator, tag int, label string) (PropagatorId, *Inconsistency) {
	id := PropagatorId(len(s.propagators))
	s.propagators = append(s.propagators, &propagatorEntry{id: id, impl: p, tag: tag, label: label})
	s.cpQueue.grow()

	ctx := &InitialisationContext{s: s, id: id}
	if conflict := p.InitialiseAtRoot(ctx); conflict != nil {
		s.rootConflict = &conflictInfo{owner: id, conjunction: conflict.Conjunction}
		s.unsat = true
		return id, conflict
	}
	s.cpQueue.push(id, p.Priority())
	return id, nil
}

// PropagatorLabel returns the proof inference label supplied when id was
// posted, for the proof writer to tag inference steps without threading
// the label through every reason.
func (s *Solver) PropagatorLabel(id PropagatorId) string {
	return s.propagators[id].label
}

// PropagatorTag returns the owning constraint tag supplied when id was
// posted.
func (s *Solver) PropagatorTag(id PropagatorId) int {
	return s.propagators[id].tag
}

type conflictInfo struct {
	owner       PropagatorId
	conjunction []Predicate
}

// scheduleCPWatchers wakes every propagator watching a domain event that p
// could plausibly have triggered. Matching is event-kind-conservative
// (e.g. any bound or hole change also wakes Assign watchers) rather than
// delta-precise, trading a few redundant Propagate calls — always safe,
// since Propagate must tolerate being invoked when nothing changed — for a
// much simpler bookkeeping surface (documented in DESIGN.md).
func (s *Solver) scheduleCPWatchers(p Predicate) {
	if p.IsTrivial() {
		return
	}
	x := p.Var
	push := func(ws []propWatch) {
		for _, w := range ws {
			s.cpQueue.push(w.id, s.propagators[w.id].impl.Priority())
		}
	}
	switch p.Kind {
	case GreaterOrEqual:
		push(s.watchLB[x])
	case LessOrEqual:
		push(s.watchUB[x])
	case Equal:
		push(s.watchLB[x])
		push(s.watchUB[x])
		push(s.watchFix[x])
	case NotEqual:
		push(s.watchVal[x])
	}
	if s.IsFixed(x) {
		push(s.watchFix[x])
	}
}

func (s *Solver) scheduleBooleanWatchers(l Literal) {
	if l.IsPositive() {
		for _, w := range s.watchTrue[l.Var()] {
			s.cpQueue.push(w.id, s.propagators[w.id].impl.Priority())
		}
	} else {
		for _, w := range s.watchFalse[l.Var()] {
			s.cpQueue.push(w.id, s.propagators[w.id].impl.Priority())
		}
	}
}

// RunOnePropagator pops the next ready propagator and runs one propagation
// step on it, returning the inconsistency (if any) for the main loop to
// turn into a conflict.
func (s *Solver) RunOnePropagator() *Inconsistency {
	id, ok := s.cpQueue.pop()
	if !ok {
		return nil
	}
	entry := s.propagators[id]
	ctx := &PropagationContext{s: s, owner: id}
	return entry.impl.Propagate(ctx)
}
