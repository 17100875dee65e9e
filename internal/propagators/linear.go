package propagators

import "github.com/rhartert/lcgo/internal/sat"

// LinearLessEqual propagates sum(coeffs[i] * vars[i]) <= rhs. It is the
// bound-consistent linear inequality propagator: on every call it tightens
// every variable's bound as far as the current bounds of the others allow,
// and fails once the tightest possible sum already exceeds rhs.
type LinearLessEqual struct {
	coeffs []int64
	vars   []sat.DomainId
	rhs    int64
	tag    int
}

// NewLinearLessEqual builds the propagator for sum(coeffs[i]*vars[i]) <= rhs.
// tag is the owning constraint's proof tag.
func NewLinearLessEqual(coeffs []int64, vars []sat.DomainId, rhs int64, tag int) *LinearLessEqual {
	return &LinearLessEqual{coeffs: coeffs, vars: vars, rhs: rhs, tag: tag}
}

func (p *LinearLessEqual) Name() string { return "linear_le" }
func (p *LinearLessEqual) Priority() int { return 1 }
func (p *LinearLessEqual) Tag() int       { return p.tag }
func (p *LinearLessEqual) Label() Label   { return LabelLinear }

func (p *LinearLessEqual) InitialiseAtRoot(ctx *sat.InitialisationContext) *sat.Inconsistency {
	for i, c := range p.coeffs {
		if c > 0 {
			ctx.WatchLowerBound(p.vars[i], i)
			ctx.WatchUpperBound(p.vars[i], i)
		} else {
			ctx.WatchLowerBound(p.vars[i], i)
			ctx.WatchUpperBound(p.vars[i], i)
		}
	}
	return nil
}

// minContribution returns coeffs[i]*vars[i]'s smallest possible value given
// the current bounds, and the predicate that justifies it.
func (p *LinearLessEqual) minContribution(ctx sat.ReadOnlyContext, i int) (int64, sat.Predicate) {
	c, x := p.coeffs[i], p.vars[i]
	if c > 0 {
		lb := ctx.LowerBound(x)
		return c * lb, sat.GreaterOrEqualPredicate(x, lb)
	}
	ub := ctx.UpperBound(x)
	return c * ub, sat.LessOrEqualPredicate(x, ub)
}

func (p *LinearLessEqual) Propagate(ctx *sat.PropagationContext) *sat.Inconsistency {
	n := len(p.vars)
	mins := make([]int64, n)
	justs := make([]sat.Predicate, n)
	var sumMin int64
	for i := range p.vars {
		m, j := p.minContribution(ctx, i)
		mins[i], justs[i] = m, j
		sumMin += m
	}

	slack := p.rhs - sumMin
	if slack < 0 {
		return sat.ExplanationConflict(append([]sat.Predicate{}, justs...))
	}

	for i, c := range p.coeffs {
		if c == 0 {
			continue
		}
		allowed := slack + mins[i]
		reasonIdx := i
		reason := sat.LazyReason(func(sat.ReadOnlyContext) []sat.Predicate {
			out := make([]sat.Predicate, 0, n-1)
			for k := range justs {
				if k != reasonIdx {
					out = append(out, justs[k])
				}
			}
			return out
		})

		if c > 0 {
			newUB := floorDiv(allowed, c)
			if newUB < ctx.UpperBound(p.vars[i]) {
				if inc := ctx.SetUpperBound(p.vars[i], newUB, reason); inc != nil {
					return inc
				}
			}
		} else {
			newLB := ceilDiv(allowed, c)
			if newLB > ctx.LowerBound(p.vars[i]) {
				if inc := ctx.SetLowerBound(p.vars[i], newLB, reason); inc != nil {
					return inc
				}
			}
		}
	}
	return nil
}

func (p *LinearLessEqual) DetectInconsistency(ctx sat.ReadOnlyContext) ([]sat.Predicate, bool) {
	var sumMin int64
	justs := make([]sat.Predicate, 0, len(p.vars))
	for i := range p.vars {
		m, j := p.minContribution(ctx, i)
		sumMin += m
		justs = append(justs, j)
	}
	if sumMin > p.rhs {
		return justs, true
	}
	return nil, false
}

// LinearNotEqual propagates sum(coeffs[i]*vars[i]) != rhs. It fires only
// once every variable but one is fixed, at which point the last variable's
// forced value (if any) is excluded from its domain.
type LinearNotEqual struct {
	coeffs []int64
	vars   []sat.DomainId
	rhs    int64
	tag    int
}

func NewLinearNotEqual(coeffs []int64, vars []sat.DomainId, rhs int64, tag int) *LinearNotEqual {
	return &LinearNotEqual{coeffs: coeffs, vars: vars, rhs: rhs, tag: tag}
}

func (p *LinearNotEqual) Name() string { return "linear_ne" }
func (p *LinearNotEqual) Priority() int { return 2 }
func (p *LinearNotEqual) Tag() int       { return p.tag }
func (p *LinearNotEqual) Label() Label   { return LabelLinear }

func (p *LinearNotEqual) InitialiseAtRoot(ctx *sat.InitialisationContext) *sat.Inconsistency {
	for i, x := range p.vars {
		ctx.WatchAssign(x, i)
	}
	return nil
}

func (p *LinearNotEqual) Propagate(ctx *sat.PropagationContext) *sat.Inconsistency {
	freeIdx := -1
	var sum int64
	reasons := make([]sat.Predicate, 0, len(p.vars))
	for i, x := range p.vars {
		if ctx.IsFixed(x) {
			v := ctx.LowerBound(x)
			sum += p.coeffs[i] * v
			reasons = append(reasons, sat.EqualPredicate(x, v))
			continue
		}
		if freeIdx != -1 {
			return nil // more than one free variable: nothing to do yet
		}
		freeIdx = i
	}
	if freeIdx == -1 {
		if sum == p.rhs {
			return sat.ExplanationConflict(reasons)
		}
		return nil
	}
	c := p.coeffs[freeIdx]
	remainder := p.rhs - sum
	if remainder%c != 0 {
		return nil // forced value is not an integer: constraint trivially holds
	}
	forced := remainder / c
	return ctx.Remove(p.vars[freeIdx], forced, sat.Eager(reasons))
}

func (p *LinearNotEqual) DetectInconsistency(ctx sat.ReadOnlyContext) ([]sat.Predicate, bool) {
	var sum int64
	reasons := make([]sat.Predicate, 0, len(p.vars))
	for i, x := range p.vars {
		if !ctx.IsFixed(x) {
			return nil, false
		}
		v := ctx.LowerBound(x)
		sum += p.coeffs[i] * v
		reasons = append(reasons, sat.EqualPredicate(x, v))
	}
	if sum == p.rhs {
		return reasons, true
	}
	return nil, false
}
