package proof

import (
	"sort"

	"github.com/mitchellh/hashstructure"

	"github.com/rhartert/lcgo/internal/model"
	"github.com/rhartert/lcgo/internal/sat"
)

// Processor turns a scaffold into a full proof (C14): it trims redundant
// nogoods, then replays the survivors forward to introduce the inference
// steps that justify each one, per spec.md §4.14's two-pass algorithm.
type Processor struct {
	m    *model.Model
	opts model.Options
}

// NewProcessor builds a processor over m, re-lowering m fresh for every
// redundancy trial and every justification replay.
func NewProcessor(m *model.Model, opts model.Options) *Processor {
	return &Processor{m: m, opts: opts}
}

func (p *Processor) freshEngine(present []NogoodStep) (*rpEngine, error) {
	s, _, err := p.m.IntoSolver(p.opts)
	if err != nil {
		return nil, err
	}
	return newRPEngine(s, present), nil
}

// Process runs the trim pass followed by the introduce-inferences pass and
// returns the resulting full proof.
func (p *Processor) Process(sc Scaffold) (FullProof, error) {
	kept, err := p.trim(sc.Nogoods)
	if err != nil {
		return FullProof{}, err
	}
	return p.introduceInferences(kept, sc.Conclusion)
}

// trim walks the scaffold backwards. For nogood c, it checks whether
// asserting the negation of every literal in c derives false using every
// other candidate nogood (those not yet proven redundant) plus the model's
// propagators; if so c is redundant and dropped, else it is kept.
func (p *Processor) trim(nogoods []NogoodStep) ([]NogoodStep, error) {
	kept := make([]bool, len(nogoods))
	for i := range kept {
		kept[i] = true
	}

	// Exact duplicate nogoods (same literal set, any order) are trivially
	// redundant: a structural hash of each lets later duplicates be dropped
	// without spending a full reverse-propagation trial on them.
	seenHash := map[uint64]bool{}
	for i, ng := range nogoods {
		h, err := nogoodHash(ng)
		if err != nil {
			return nil, err
		}
		if seenHash[h] {
			kept[i] = false
			continue
		}
		seenHash[h] = true
	}

	for j := len(nogoods) - 1; j >= 0; j-- {
		if !kept[j] {
			continue
		}
		present := make([]NogoodStep, 0, len(nogoods)-1)
		for i, ng := range nogoods {
			if i != j && kept[i] {
				present = append(present, ng)
			}
		}
		engine, err := p.freshEngine(present)
		if err != nil {
			return nil, err
		}
		conflict, _ := engine.proveByAssumptions(nogoods[j].Lits)
		if conflict {
			kept[j] = false
		}
	}

	out := make([]NogoodStep, 0, len(nogoods))
	for i, ng := range nogoods {
		if kept[i] {
			out = append(out, ng)
		}
	}
	return out, nil
}

// introduceInferences walks the kept nogoods forward. For each, it
// re-derives its justification against the nogoods kept before it,
// emitting one `i` step per propagator/channel edge touched and citing
// both those steps and any earlier kept nogoods directly propagated
// against as hints on the resulting `n` step.
func (p *Processor) introduceInferences(nogoods []NogoodStep, conclusion Conclusion) (FullProof, error) {
	var out FullProof
	nextID := 1
	installed := make([]NogoodStep, 0, len(nogoods))

	for _, ng := range nogoods {
		engine, err := p.freshEngine(installed)
		if err != nil {
			return FullProof{}, err
		}
		_, edges := engine.proveByAssumptions(ng.Lits)

		hints := make([]int, 0, len(edges))
		seen := map[int]bool{}
		for _, ed := range edges {
			if ed.isNogoodEdge {
				if !seen[ed.nogoodID] {
					seen[ed.nogoodID] = true
					hints = append(hints, ed.nogoodID)
				}
				continue
			}
			inf := InferenceStep{
				ID:            nextID,
				Premises:      ed.premises,
				Conclusion:    ed.conclusion,
				HasConclusion: ed.hasConclusion,
				ConstraintTag: ed.constraintTag,
				Label:         ed.label,
			}
			nextID++
			out.Inferences = append(out.Inferences, inf)
			hints = append(hints, inf.ID)
		}

		renamed := NogoodStep{ID: nextID, Lits: ng.Lits, Hints: hints}
		nextID++
		out.Nogoods = append(out.Nogoods, renamed)
		installed = append(installed, renamed)
	}

	out.Conclusion = conclusion
	return out, nil
}

// nogoodHash computes a structural hash of a nogood's literal set,
// independent of literal order, so two scaffold nogoods asserting the same
// clause up to permutation hash equal.
func nogoodHash(ng NogoodStep) (uint64, error) {
	lits := append([]sat.Literal(nil), ng.Lits...)
	sort.Slice(lits, func(i, j int) bool { return lits[i] < lits[j] })
	return hashstructure.Hash(lits, nil)
}
