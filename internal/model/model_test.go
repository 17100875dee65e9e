package model_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rhartert/lcgo/internal/model"
	"github.com/rhartert/lcgo/internal/sat"
)

func TestFourQueensSatisfiable(t *testing.T) {
	m := model.New()
	n := int64(4)
	qs := m.NewIntVarArray("q", int(n), 0, n-1)

	diag1 := make([]model.VarRef, n)
	diag2 := make([]model.VarRef, n)
	for i := range qs {
		diag1[i] = m.NewAffineView("", qs[i], 1, int64(i))
		diag2[i] = m.NewAffineView("", qs[i], 1, -int64(i))
	}
	m.PostAllDifferent(qs)
	m.PostAllDifferent(diag1)
	m.PostAllDifferent(diag2)

	s, vm, err := m.IntoSolver(model.DefaultOptions)
	require.NoError(t, err)

	status := s.Solve()
	require.Equal(t, sat.StatusSatisfiable, status)

	seen := map[int64]bool{}
	for _, q := range qs {
		x := vm.DomainId(q)
		require.True(t, s.IsFixed(x))
		v := s.LowerBound(x)
		require.False(t, seen[v], "queens share a row value")
		seen[v] = true
	}
}

func TestThreeQueensUnsatisfiable(t *testing.T) {
	m := model.New()
	n := int64(3)
	qs := m.NewIntVarArray("q", int(n), 0, n-1)

	diag1 := make([]model.VarRef, n)
	diag2 := make([]model.VarRef, n)
	for i := range qs {
		diag1[i] = m.NewAffineView("", qs[i], 1, int64(i))
		diag2[i] = m.NewAffineView("", qs[i], 1, -int64(i))
	}
	m.PostAllDifferent(qs)
	m.PostAllDifferent(diag1)
	m.PostAllDifferent(diag2)

	s, _, err := m.IntoSolver(model.DefaultOptions)
	require.NoError(t, err)
	require.Equal(t, sat.StatusInfeasible, s.Solve())
}

func TestLinearInference(t *testing.T) {
	m := model.New()
	x := m.NewIntVar("x", 0, 1)
	y := m.NewIntVar("y", 0, 2)
	z := m.NewIntVar("z", 0, 1)
	m.PostLinearLessEqual([]model.AffineTerm{{Var: x, Coeff: -2}, {Var: y, Coeff: 1}, {Var: z, Coeff: -2}}, 0)

	s, vm, err := m.IntoSolver(model.DefaultOptions)
	require.NoError(t, err)

	xd, yd, zd := vm.DomainId(x), vm.DomainId(y), vm.DomainId(z)
	require.False(t, s.TightenUpperBound(xd, 0, sat.Eager(nil), sat.PropagatorId(-1)).Conflict)
	require.False(t, s.TightenLowerBound(yd, 2, sat.Eager(nil), sat.PropagatorId(-1)).Conflict)

	status := s.Solve()
	require.Equal(t, sat.StatusSatisfiable, status)
	require.GreaterOrEqual(t, s.LowerBound(zd), int64(1))
}
