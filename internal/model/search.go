package model

import "github.com/rhartert/lcgo/internal/sat"

// SearchStrategy selects which undecided variable the default brancher
// offers next; value choice is always indomain-min (branch on
// [x <= lb(x)] first, leaving the complement to CDCL backtracking).
type SearchStrategy uint8

const (
	// InputOrder tries variables in declaration order.
	InputOrder SearchStrategy = iota
	// FirstFail tries the variable with the smallest remaining domain.
	FirstFail
	// AntiFirstFail tries the variable with the largest remaining domain.
	AntiFirstFail
	// Smallest tries the variable with the smallest lower bound.
	Smallest
	// Largest tries the variable with the largest upper bound.
	Largest
)

// brancher is the default sat.Brancher installed by IntoSolver: it
// branches only over the model's declared decision variables, in the
// order SearchStrategy picks, leaving any auxiliary propositional
// variable (reification literals, etc.) to the solver's activity order.
type brancher struct {
	vars     []sat.DomainId
	strategy SearchStrategy
}

func newBrancher(vars []sat.DomainId, strategy SearchStrategy) *brancher {
	return &brancher{vars: vars, strategy: strategy}
}

func (b *brancher) NextDecision(s *sat.Solver) (sat.Predicate, bool) {
	best := -1
	bestScore := int64(0)
	for i, x := range b.vars {
		if s.IsFixed(x) {
			continue
		}
		score := b.score(s, x)
		if best == -1 {
			best, bestScore = i, score
			if b.strategy == InputOrder {
				break
			}
			continue
		}
		if b.better(score, bestScore) {
			best, bestScore = i, score
		}
	}
	if best == -1 {
		return sat.Predicate{}, false
	}
	x := b.vars[best]
	return sat.LessOrEqualPredicate(x, s.LowerBound(x)), true
}

func (b *brancher) score(s *sat.Solver, x sat.DomainId) int64 {
	switch b.strategy {
	case FirstFail, AntiFirstFail:
		return s.UpperBound(x) - s.LowerBound(x)
	case Smallest:
		return s.LowerBound(x)
	case Largest:
		return s.UpperBound(x)
	default: // InputOrder
		return 0
	}
}

// better reports whether candidate score beats the incumbent under the
// configured strategy's direction.
func (b *brancher) better(candidate, incumbent int64) bool {
	switch b.strategy {
	case FirstFail, Smallest:
		return candidate < incumbent
	case AntiFirstFail, Largest:
		return candidate > incumbent
	default: // InputOrder: first match wins, never reached after break
		return false
	}
}

func (b *brancher) OnUnassign(x sat.DomainId) {}

var _ sat.Brancher = (*brancher)(nil)
