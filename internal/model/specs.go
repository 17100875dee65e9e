package model

import "github.com/rhartert/lcgo/internal/sat"

// ConstraintSpec is the lowered, read-only form of a posted constraint,
// exported so the proof checker (C15) can reconstruct the same
// representative propagator used at solve time and reuse its
// DetectInconsistency as the per-constraint semantic checker spec.md §4.15
// calls for.
type ConstraintSpec struct {
	Kind ConstraintKind
	Tag  int

	Vars   []sat.DomainId // AllDifferent, Circuit
	Coeffs []int64        // LinearEqual, LinearLessEqual, LinearNotEqual
	Rhs    int64

	Array []sat.DomainId // Element
	Index sat.DomainId
	Value sat.DomainId // Element, Maximum

	MaxTerms []sat.DomainId // Maximum

	Starts    []sat.DomainId // Cumulative
	Durations []int64
	Demands   []int64
	Capacity  int64
}

// ConstraintSpecs returns every constraint posted to m, translated through
// vm, in posting (tag) order.
func (m *Model) ConstraintSpecs(vm *VariableMap) []ConstraintSpec {
	out := make([]ConstraintSpec, len(m.constraints))
	for tag, c := range m.constraints {
		spec := ConstraintSpec{Kind: c.kind, Tag: tag, Rhs: c.rhs, Capacity: c.capacity}
		if c.vars != nil {
			spec.Vars = vm.resolve(c.vars)
		}
		if c.terms != nil {
			spec.Coeffs = make([]int64, len(c.terms))
			spec.Vars = make([]sat.DomainId, len(c.terms))
			for i, t := range c.terms {
				spec.Coeffs[i] = t.Coeff
				spec.Vars[i] = vm.byRef[t.Var]
			}
		}
		if c.array != nil {
			spec.Array = vm.resolve(c.array)
			spec.Index = vm.byRef[c.index]
			spec.Value = vm.byRef[c.value]
		}
		if c.maxTerms != nil {
			spec.MaxTerms = vm.resolve(c.maxTerms)
			spec.Value = vm.byRef[c.value]
		}
		if c.starts != nil {
			spec.Starts = vm.resolve(c.starts)
			spec.Durations = c.durations
			spec.Demands = c.demands
		}
		out[tag] = spec
	}
	return out
}
