package propagators

import "github.com/rhartert/lcgo/internal/sat"

// Cumulative propagates a non-preemptive resource constraint via
// time-tabling: every task's mandatory part (the window it is guaranteed
// to run in, if any) contributes to a discrete resource-usage profile, and
// no task may be placed where that profile (plus its own demand) would
// exceed capacity.
type Cumulative struct {
	starts    []sat.DomainId
	durations []int64
	demands   []int64
	capacity  int64
	tag       int
}

func NewCumulative(starts []sat.DomainId, durations, demands []int64, capacity int64, tag int) *Cumulative {
	return &Cumulative{starts: starts, durations: durations, demands: demands, capacity: capacity, tag: tag}
}

func (p *Cumulative) Name() string { return "cumulative" }
func (p *Cumulative) Priority() int { return 2 }
func (p *Cumulative) Tag() int       { return p.tag }
func (p *Cumulative) Label() Label   { return LabelTimeTable }

func (p *Cumulative) InitialiseAtRoot(ctx *sat.InitialisationContext) *sat.Inconsistency {
	for i, x := range p.starts {
		ctx.WatchLowerBound(x, i)
		ctx.WatchUpperBound(x, i)
	}
	return nil
}

// boundsReason is the coarse (but sound) justification for every
// time-table inference: the current bounds of every other task, since the
// profile used to derive the inference is built from exactly those bounds.
func (p *Cumulative) boundsReason(ctx sat.ReadOnlyContext, except int) []sat.Predicate {
	out := make([]sat.Predicate, 0, 2*(len(p.starts)-1))
	for j, x := range p.starts {
		if j == except {
			continue
		}
		out = append(out,
			sat.GreaterOrEqualPredicate(x, ctx.LowerBound(x)),
			sat.LessOrEqualPredicate(x, ctx.UpperBound(x)))
	}
	return out
}

// profile builds the resource-usage profile over [0, horizon) from every
// task's mandatory part, and each task's own mandatory window for later
// exclusion.
func (p *Cumulative) profile(ctx sat.ReadOnlyContext) (usage []int64, mandStart, mandEnd []int64, horizon int64) {
	n := len(p.starts)
	mandStart = make([]int64, n)
	mandEnd = make([]int64, n)
	for i, x := range p.starts {
		if h := ctx.UpperBound(x) + p.durations[i]; h > horizon {
			horizon = h
		}
	}
	usage = make([]int64, horizon)
	for i, x := range p.starts {
		ms, me := ctx.UpperBound(x), ctx.LowerBound(x)+p.durations[i]
		mandStart[i], mandEnd[i] = ms, me
		for t := ms; t < me; t++ {
			usage[t] += p.demands[i]
		}
	}
	return usage, mandStart, mandEnd, horizon
}

func (p *Cumulative) Propagate(ctx *sat.PropagationContext) *sat.Inconsistency {
	usage, mandStart, mandEnd, horizon := p.profile(ctx)
	for _, u := range usage {
		if u > p.capacity {
			return sat.ExplanationConflict(p.boundsReason(ctx, -1))
		}
	}

	for i, x := range p.starts {
		dur, demand := p.durations[i], p.demands[i]
		feasible := func(s int64) bool {
			if s+dur > horizon {
				return dur == 0
			}
			for t := s; t < s+dur; t++ {
				own := int64(0)
				if t >= mandStart[i] && t < mandEnd[i] {
					own = demand
				}
				if usage[t]-own+demand > p.capacity {
					return false
				}
			}
			return true
		}

		lb, ub := ctx.LowerBound(x), ctx.UpperBound(x)
		newLB := lb
		for newLB <= ub && !feasible(newLB) {
			newLB++
		}
		if newLB > ub {
			return sat.ExplanationConflict(p.boundsReason(ctx, i))
		}
		if newLB > lb {
			if inc := ctx.SetLowerBound(x, newLB, sat.Eager(p.boundsReason(ctx, i))); inc != nil {
				return inc
			}
		}

		newUB := ub
		for newUB >= newLB && !feasible(newUB) {
			newUB--
		}
		if newUB < newLB {
			return sat.ExplanationConflict(p.boundsReason(ctx, i))
		}
		if newUB < ub {
			if inc := ctx.SetUpperBound(x, newUB, sat.Eager(p.boundsReason(ctx, i))); inc != nil {
				return inc
			}
		}
	}
	return nil
}

func (p *Cumulative) DetectInconsistency(ctx sat.ReadOnlyContext) ([]sat.Predicate, bool) {
	usage, _, _, _ := p.profile(ctx)
	for _, u := range usage {
		if u > p.capacity {
			return p.boundsReason(ctx, -1), true
		}
	}
	return nil, false
}
