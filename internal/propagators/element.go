package propagators

import "github.com/rhartert/lcgo/internal/sat"

// Element propagates array[index] == rhs over 0-based array indexing.
type Element struct {
	array []sat.DomainId
	index sat.DomainId
	rhs   sat.DomainId
	tag   int
}

func NewElement(array []sat.DomainId, index, rhs sat.DomainId, tag int) *Element {
	return &Element{array: array, index: index, rhs: rhs, tag: tag}
}

func (p *Element) Name() string { return "element" }
func (p *Element) Priority() int { return 1 }
func (p *Element) Tag() int       { return p.tag }
func (p *Element) Label() Label   { return LabelElement }

func (p *Element) InitialiseAtRoot(ctx *sat.InitialisationContext) *sat.Inconsistency {
	ctx.WatchLowerBound(p.index, -1)
	ctx.WatchUpperBound(p.index, -1)
	ctx.WatchRemoval(p.index, -1)
	ctx.WatchLowerBound(p.rhs, -2)
	ctx.WatchUpperBound(p.rhs, -2)
	for i, x := range p.array {
		ctx.WatchLowerBound(x, i)
		ctx.WatchUpperBound(x, i)
	}
	return nil
}

func overlaps(lb1, ub1, lb2, ub2 int64) bool {
	return lb1 <= ub2 && lb2 <= ub1
}

func (p *Element) Propagate(ctx *sat.PropagationContext) *sat.Inconsistency {
	if ctx.IsFixed(p.index) {
		idx := ctx.LowerBound(p.index)
		if idx < 0 || int(idx) >= len(p.array) {
			return sat.ExplanationConflict([]sat.Predicate{sat.EqualPredicate(p.index, idx)})
		}
		x := p.array[idx]
		idxPred := sat.EqualPredicate(p.index, idx)

		if lb := ctx.LowerBound(x); lb > ctx.LowerBound(p.rhs) {
			if inc := ctx.SetLowerBound(p.rhs, lb, sat.Eager([]sat.Predicate{idxPred, sat.GreaterOrEqualPredicate(x, lb)})); inc != nil {
				return inc
			}
		}
		if ub := ctx.UpperBound(x); ub < ctx.UpperBound(p.rhs) {
			if inc := ctx.SetUpperBound(p.rhs, ub, sat.Eager([]sat.Predicate{idxPred, sat.LessOrEqualPredicate(x, ub)})); inc != nil {
				return inc
			}
		}
		if lb := ctx.LowerBound(p.rhs); lb > ctx.LowerBound(x) {
			if inc := ctx.SetLowerBound(x, lb, sat.Eager([]sat.Predicate{idxPred, sat.GreaterOrEqualPredicate(p.rhs, lb)})); inc != nil {
				return inc
			}
		}
		if ub := ctx.UpperBound(p.rhs); ub < ctx.UpperBound(x) {
			if inc := ctx.SetUpperBound(x, ub, sat.Eager([]sat.Predicate{idxPred, sat.LessOrEqualPredicate(p.rhs, ub)})); inc != nil {
				return inc
			}
		}
		return nil
	}

	rLB, rUB := ctx.LowerBound(p.rhs), ctx.UpperBound(p.rhs)
	for v := ctx.LowerBound(p.index); v <= ctx.UpperBound(p.index); v++ {
		if !ctx.Contains(p.index, v) {
			continue
		}
		if int(v) >= len(p.array) {
			continue
		}
		x := p.array[v]
		if !overlaps(ctx.LowerBound(x), ctx.UpperBound(x), rLB, rUB) {
			reason := sat.Eager([]sat.Predicate{
				sat.GreaterOrEqualPredicate(p.rhs, rLB),
				sat.LessOrEqualPredicate(p.rhs, rUB),
				sat.GreaterOrEqualPredicate(x, ctx.LowerBound(x)),
				sat.LessOrEqualPredicate(x, ctx.UpperBound(x)),
			})
			if inc := ctx.Remove(p.index, v, reason); inc != nil {
				return inc
			}
		}
	}
	return nil
}

func (p *Element) DetectInconsistency(ctx sat.ReadOnlyContext) ([]sat.Predicate, bool) {
	if !ctx.IsFixed(p.index) {
		return nil, false
	}
	idx := ctx.LowerBound(p.index)
	if idx < 0 || int(idx) >= len(p.array) {
		return []sat.Predicate{sat.EqualPredicate(p.index, idx)}, true
	}
	x := p.array[idx]
	if !overlaps(ctx.LowerBound(x), ctx.UpperBound(x), ctx.LowerBound(p.rhs), ctx.UpperBound(p.rhs)) {
		return []sat.Predicate{
			sat.EqualPredicate(p.index, idx),
			sat.GreaterOrEqualPredicate(x, ctx.LowerBound(x)),
			sat.LessOrEqualPredicate(x, ctx.UpperBound(x)),
			sat.GreaterOrEqualPredicate(p.rhs, ctx.LowerBound(p.rhs)),
			sat.LessOrEqualPredicate(p.rhs, ctx.UpperBound(p.rhs)),
		}, true
	}
	return nil, false
}
