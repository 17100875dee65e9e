package sat

import "github.com/pkg/errors"

// This file implements the debug propagator replay harness supplementing
// the representative propagator set: a wrapper that calls a propagator's
// Propagate a second time on the state its first call left and checks that
// the second call changes no domain and finds no new inconsistency,
// catching propagators that stop short of a fixpoint.

type debugCheckedPropagator struct {
	inner Propagator
}

// DebugWrap wraps p so that every Propagate call is followed by a second
// call on the resulting state, panicking if that second call changes a
// domain or reports an inconsistency the first did not. It is meant for test builds, not production search: the
// replay roughly doubles the cost of every propagation step.
func DebugWrap(p Propagator) Propagator {
	return &debugCheckedPropagator{inner: p}
}

func (d *debugCheckedPropagator) Name() string  { return "debug(" + d.inner.Name() + ")" }
func (d *debugCheckedPropagator) Priority() int { return d.inner.Priority() }

func (d *debugCheckedPropagator) InitialiseAtRoot(ctx *InitialisationContext) *Inconsistency {
	return d.inner.InitialiseAtRoot(ctx)
}

func (d *debugCheckedPropagator) Propagate(ctx *PropagationContext) *Inconsistency {
	before := snapshotDomains(ctx.s)
	inc := d.inner.Propagate(ctx)
	after := snapshotDomains(ctx.s)

	// Replaying against the post-propagation state must be a no-op: a
	// propagator that still finds new work here is not running to a proper
	// fixpoint within a single Propagate call.
	again := d.inner.Propagate(ctx)
	settled := snapshotDomains(ctx.s)
	if !domainsEqual(after, settled) {
		panic(errors.Errorf("%s: propagate is not idempotent at a fixpoint", d.inner.Name()))
	}
	if again != nil && inc == nil {
		panic(errors.Errorf("%s: second propagate call found an inconsistency the first missed", d.inner.Name()))
	}
	_ = before
	return inc
}

func (d *debugCheckedPropagator) DetectInconsistency(ctx ReadOnlyContext) ([]Predicate, bool) {
	return d.inner.DetectInconsistency(ctx)
}

func snapshotDomains(s *Solver) []domainState {
	out := make([]domainState, len(s.intDomains))
	copy(out, s.intDomains)
	return out
}

func domainsEqual(a, b []domainState) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].lb != b[i].lb || a[i].ub != b[i].ub || len(a[i].holes) != len(b[i].holes) {
			return false
		}
	}
	return true
}
