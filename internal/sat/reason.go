package sat

// PropagatorId is a stable, dense handle to a posted propagator.
type PropagatorId int32

// noPropagator marks reasons that do not originate from a CP propagator
// (decisions, root-level facts, clause-based reasons).
const noPropagator PropagatorId = -1

// ReasonRef is a handle into the ReasonStore.
type ReasonRef int32

// NoReason marks a trail entry that has no reason: a decision, or a
// root-level fact installed by synchronisation.
const NoReason ReasonRef = -1

// LazyReasonFunc computes a reason conjunction on demand. It receives a
// read-only view of the domains so it can inspect whatever state it needs
// at the time the reason is actually requested.
type LazyReasonFunc func(ctx ReadOnlyContext) []Predicate

// reasonKind distinguishes how a reason's conjunction is obtained.
type reasonKind uint8

const (
	reasonEager reasonKind = iota
	reasonLazy
)

type reasonEntry struct {
	kind   reasonKind
	eager  []Predicate
	lazy   LazyReasonFunc
	cached []Predicate
	owner  PropagatorId
}

// ReasonStore is the append-only, per-decision-level arena of reasons:
// eager reasons are moved in directly, lazy reasons are computed (and
// cached) on first access, and everything above a backtracked-to level is
// dropped in one pass.
type ReasonStore struct {
	entries    []reasonEntry
	levelStart []int // entries[levelStart[l]:] belong to level >= l
}

// NewReasonStore returns an empty store ready to accept level 0 reasons.
func NewReasonStore() *ReasonStore {
	return &ReasonStore{levelStart: []int{0}}
}

// NewDecisionLevel records the current store size as the start of a new
// decision level, so that Synchronise can later cut back to it.
func (rs *ReasonStore) NewDecisionLevel() {
	rs.levelStart = append(rs.levelStart, len(rs.entries))
}

// PushEager stores an eager conjunction and returns its handle.
func (rs *ReasonStore) PushEager(conjunction []Predicate, owner PropagatorId) ReasonRef {
	ref := ReasonRef(len(rs.entries))
	rs.entries = append(rs.entries, reasonEntry{kind: reasonEager, eager: conjunction, owner: owner})
	return ref
}

// PushLazy stores a lazy callback and returns its handle. The callback is
// invoked at most once; its result is cached.
func (rs *ReasonStore) PushLazy(f LazyReasonFunc, owner PropagatorId) ReasonRef {
	ref := ReasonRef(len(rs.entries))
	rs.entries = append(rs.entries, reasonEntry{kind: reasonLazy, lazy: f})
	rs.entries[ref].owner = owner
	return ref
}

// Explain returns the conjunction for ref, computing and caching it if it is
// a lazy reason. ctx is only used (and may be nil) for lazy reasons.
func (rs *ReasonStore) Explain(ref ReasonRef, ctx ReadOnlyContext) []Predicate {
	e := &rs.entries[ref]
	if e.kind == reasonEager {
		return e.eager
	}
	if e.cached == nil {
		e.cached = e.lazy(ctx)
		if e.cached == nil {
			e.cached = []Predicate{} // mark as computed even if empty
		}
	}
	return e.cached
}

// Owner returns the propagator that installed ref, or noPropagator for
// reasons that did not originate from a CP propagator. Used by the proof
// subsystem to label inference steps.
func (rs *ReasonStore) Owner(ref ReasonRef) PropagatorId {
	return rs.entries[ref].owner
}

// Synchronise drops every reason allocated at a decision level above level,
// synchronise(level) drops all reasons at higher levels.
func (rs *ReasonStore) Synchronise(level int) {
	if level+1 >= len(rs.levelStart) {
		return // nothing was recorded above level
	}
	rs.entries = rs.entries[:rs.levelStart[level+1]]
	rs.levelStart = rs.levelStart[:level+1]
}
