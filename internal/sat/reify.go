package sat

// This file implements the reification combinator: wrapping
// any Propagator so that its inferences only fire once a Boolean literal r
// is true, and so that detecting the propagator's own inconsistency instead
// assigns r false rather than failing the whole search.

type reifiedPropagator struct {
	inner Propagator
	r     Literal
}

// Reify wraps p so that it only propagates while r is true, and so that an
// inconsistency it would otherwise raise instead forces r false (half
// reification is obtained by never reading that direction back; full
// reification additionally requires the caller to also post r's negation's
// implied propagator; the modelling layer never calls Reify, so neither
// form is produced from a model.
func Reify(p Propagator, r Literal) Propagator {
	return &reifiedPropagator{inner: p, r: r}
}

func (rp *reifiedPropagator) Name() string   { return "reif(" + rp.inner.Name() + ")" }
func (rp *reifiedPropagator) Priority() int  { return rp.inner.Priority() }

func (rp *reifiedPropagator) InitialiseAtRoot(ctx *InitialisationContext) *Inconsistency {
	// The wrapped propagator's own watches are still needed (it must still
	// wake up to be re-tried once r becomes known), but any root-level
	// conflict it reports is dropped here, not failing the solver: Propagate
	// rediscovers it through DetectInconsistency and forces r false.
	_ = rp.inner.InitialiseAtRoot(ctx)
	return nil
}

func (rp *reifiedPropagator) Propagate(ctx *PropagationContext) *Inconsistency {
	switch ctx.s.litValue(rp.r) {
	case False:
		return nil // constraint may be violated freely
	case Unknown:
		if conjunction, found := rp.inner.DetectInconsistency(ctx); found {
			return ctx.AssignLiteral(rp.r.Opposite(), Eager(conjunction))
		}
		return nil
	}

	inner := &PropagationContext{s: ctx.s, owner: ctx.owner, reifLit: &rp.r}
	if inc := rp.inner.Propagate(inner); inc != nil {
		// The wrapped constraint is inconsistent while forced true: assign r
		// false instead of failing outright, citing the inconsistency's own
		// conjunction (or the empty-domain bounds) as the reason.
		reason := inc.Conjunction
		if inc.EmptyDomain {
			x := inc.Var
			reason = []Predicate{
				GreaterOrEqualPredicate(x, ctx.s.LowerBound(x)),
				LessOrEqualPredicate(x, ctx.s.UpperBound(x)),
			}
		}
		return ctx.AssignLiteral(rp.r.Opposite(), Eager(reason))
	}
	return nil
}

func (rp *reifiedPropagator) DetectInconsistency(ctx ReadOnlyContext) ([]Predicate, bool) {
	return nil, false
}
