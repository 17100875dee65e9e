package propagators

import "github.com/rhartert/lcgo/internal/sat"

// Maximum propagates max(terms) == rhs.
type Maximum struct {
	terms []sat.DomainId
	rhs   sat.DomainId
	tag   int
}

func NewMaximum(terms []sat.DomainId, rhs sat.DomainId, tag int) *Maximum {
	return &Maximum{terms: terms, rhs: rhs, tag: tag}
}

func (p *Maximum) Name() string { return "maximum" }
func (p *Maximum) Priority() int { return 1 }
func (p *Maximum) Tag() int       { return p.tag }
func (p *Maximum) Label() Label   { return LabelMaximum }

func (p *Maximum) InitialiseAtRoot(ctx *sat.InitialisationContext) *sat.Inconsistency {
	for i, x := range p.terms {
		ctx.WatchLowerBound(x, i)
		ctx.WatchUpperBound(x, i)
	}
	ctx.WatchLowerBound(p.rhs, -1)
	ctx.WatchUpperBound(p.rhs, -1)
	return nil
}

func (p *Maximum) Propagate(ctx *sat.PropagationContext) *sat.Inconsistency {
	maxUB, maxLB := ctx.UpperBound(p.terms[0]), ctx.LowerBound(p.terms[0])
	for _, x := range p.terms[1:] {
		if ub := ctx.UpperBound(x); ub > maxUB {
			maxUB = ub
		}
		if lb := ctx.LowerBound(x); lb > maxLB {
			maxLB = lb
		}
	}

	ubJust := func() []sat.Predicate {
		out := make([]sat.Predicate, len(p.terms))
		for i, x := range p.terms {
			out[i] = sat.LessOrEqualPredicate(x, ctx.UpperBound(x))
		}
		return out
	}
	if maxUB < ctx.UpperBound(p.rhs) {
		if inc := ctx.SetUpperBound(p.rhs, maxUB, sat.Eager(ubJust())); inc != nil {
			return inc
		}
	}
	if maxLB > ctx.LowerBound(p.rhs) {
		lbJust := make([]sat.Predicate, len(p.terms))
		for i, x := range p.terms {
			lbJust[i] = sat.GreaterOrEqualPredicate(x, ctx.LowerBound(x))
		}
		if inc := ctx.SetLowerBound(p.rhs, maxLB, sat.Eager(lbJust)); inc != nil {
			return inc
		}
	}

	rUB := ctx.UpperBound(p.rhs)
	for _, x := range p.terms {
		if ub := ctx.UpperBound(x); ub > rUB {
			reason := sat.Eager([]sat.Predicate{sat.LessOrEqualPredicate(p.rhs, rUB)})
			if inc := ctx.SetUpperBound(x, rUB, reason); inc != nil {
				return inc
			}
		}
	}

	// If every term but one cannot reach rhs's lower bound, the surviving
	// term must realise the maximum.
	rLB := ctx.LowerBound(p.rhs)
	survivor := -1
	for i, x := range p.terms {
		if ctx.UpperBound(x) >= rLB {
			if survivor != -1 {
				survivor = -2
				break
			}
			survivor = i
		}
	}
	if survivor >= 0 {
		x := p.terms[survivor]
		if ctx.LowerBound(x) < rLB {
			reason := make([]sat.Predicate, 0, len(p.terms))
			reason = append(reason, sat.GreaterOrEqualPredicate(p.rhs, rLB))
			for i, y := range p.terms {
				if i != survivor {
					reason = append(reason, sat.LessOrEqualPredicate(y, ctx.UpperBound(y)))
				}
			}
			if inc := ctx.SetLowerBound(x, rLB, sat.Eager(reason)); inc != nil {
				return inc
			}
		}
	}
	return nil
}

func (p *Maximum) DetectInconsistency(ctx sat.ReadOnlyContext) ([]sat.Predicate, bool) {
	maxUB := ctx.UpperBound(p.terms[0])
	for _, x := range p.terms[1:] {
		if ub := ctx.UpperBound(x); ub > maxUB {
			maxUB = ub
		}
	}
	if maxUB < ctx.LowerBound(p.rhs) {
		out := make([]sat.Predicate, 0, len(p.terms)+1)
		out = append(out, sat.GreaterOrEqualPredicate(p.rhs, ctx.LowerBound(p.rhs)))
		for _, x := range p.terms {
			out = append(out, sat.LessOrEqualPredicate(x, ctx.UpperBound(x)))
		}
		return out, true
	}
	return nil, false
}
