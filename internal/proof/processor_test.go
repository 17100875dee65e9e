package proof_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rhartert/lcgo/internal/model"
	"github.com/rhartert/lcgo/internal/proof"
	"github.com/rhartert/lcgo/internal/sat"
)

func TestProcessorDropsExactDuplicateNogoods(t *testing.T) {
	m := model.New()
	x := m.NewIntVar("x", 0, 5)
	y := m.NewIntVar("y", 0, 5)

	s, vm, err := m.IntoSolver(model.DefaultOptions)
	require.NoError(t, err)

	litX := s.LiteralForPredicate(sat.GreaterOrEqualPredicate(vm.DomainId(x), 3))
	litY := s.LiteralForPredicate(sat.GreaterOrEqualPredicate(vm.DomainId(y), 3))

	sc := proof.Scaffold{
		Nogoods: []proof.NogoodStep{
			{ID: 1, Lits: []sat.Literal{litX}},
			{ID: 2, Lits: []sat.Literal{litX}}, // exact duplicate of ID 1
			{ID: 3, Lits: []sat.Literal{litY}},
		},
		Conclusion: proof.Conclusion{Unsat: true},
	}

	full, err := proof.NewProcessor(m, model.DefaultOptions).Process(sc)
	require.NoError(t, err)
	require.Len(t, full.Nogoods, 2)
}

func TestProcessorPreservesConclusion(t *testing.T) {
	m := model.New()
	x := m.NewIntVar("x", 0, 5)
	s, vm, err := m.IntoSolver(model.DefaultOptions)
	require.NoError(t, err)

	lit := s.LiteralForPredicate(sat.GreaterOrEqualPredicate(vm.DomainId(x), 3))
	sc := proof.Scaffold{
		Nogoods:    []proof.NogoodStep{{ID: 1, Lits: []sat.Literal{lit}}},
		Conclusion: proof.Conclusion{Unsat: true},
	}

	full, err := proof.NewProcessor(m, model.DefaultOptions).Process(sc)
	require.NoError(t, err)
	require.True(t, full.Conclusion.Unsat)
}
