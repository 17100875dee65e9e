package propagators

import "github.com/rhartert/lcgo/internal/sat"

// AllDifferent propagates pairwise distinctness of vars. It is a
// forward-checking (not Régin-complete) propagator: whenever a variable
// becomes fixed, its value is removed from every other variable's domain.
// Weaker than bound/arc consistency but sufficient to reimplement from the
// constraint's semantics, matching the propagator's documented contract.
type AllDifferent struct {
	vars []sat.DomainId
	tag  int
}

func NewAllDifferent(vars []sat.DomainId, tag int) *AllDifferent {
	return &AllDifferent{vars: vars, tag: tag}
}

func (p *AllDifferent) Name() string { return "all_different" }
func (p *AllDifferent) Priority() int { return 0 }
func (p *AllDifferent) Tag() int       { return p.tag }
func (p *AllDifferent) Label() Label   { return LabelAllDifferent }

func (p *AllDifferent) InitialiseAtRoot(ctx *sat.InitialisationContext) *sat.Inconsistency {
	for i, x := range p.vars {
		ctx.WatchAssign(x, i)
	}
	return nil
}

func (p *AllDifferent) Propagate(ctx *sat.PropagationContext) *sat.Inconsistency {
	for i, x := range p.vars {
		if !ctx.IsFixed(x) {
			continue
		}
		v := ctx.LowerBound(x)
		reason := sat.Eager([]sat.Predicate{sat.EqualPredicate(x, v)})
		for j, y := range p.vars {
			if j == i {
				continue
			}
			if ctx.IsFixed(y) {
				if ctx.LowerBound(y) == v {
					return sat.ExplanationConflict([]sat.Predicate{
						sat.EqualPredicate(x, v),
						sat.EqualPredicate(y, v),
					})
				}
				continue
			}
			if ctx.Contains(y, v) {
				if inc := ctx.Remove(y, v, reason); inc != nil {
					return inc
				}
			}
		}
	}
	return nil
}

func (p *AllDifferent) DetectInconsistency(ctx sat.ReadOnlyContext) ([]sat.Predicate, bool) {
	seen := map[int64]sat.DomainId{}
	for _, x := range p.vars {
		if !ctx.IsFixed(x) {
			continue
		}
		v := ctx.LowerBound(x)
		if other, ok := seen[v]; ok {
			return []sat.Predicate{sat.EqualPredicate(x, v), sat.EqualPredicate(other, v)}, true
		}
		seen[v] = x
	}
	return nil, false
}
