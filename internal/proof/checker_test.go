package proof_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rhartert/lcgo/internal/model"
	"github.com/rhartert/lcgo/internal/proof"
	"github.com/rhartert/lcgo/internal/sat"
)

func TestCheckNogoodAcceptsImmediatelyContradictoryLiterals(t *testing.T) {
	// x is fixed at 5; asserting the negation of "x <= 10" is "x >= 11",
	// which conflicts with the fixed bound without needing any hints.
	m := model.New()
	x := m.NewIntVar("x", 5, 5)
	s, vm, err := m.IntoSolver(model.DefaultOptions)
	require.NoError(t, err)
	_ = s

	lit := sat.Literal(2)
	pred := sat.LessOrEqualPredicate(vm.DomainId(x), 10)

	checker, err := proof.NewChecker(m, model.DefaultOptions, map[sat.Literal]sat.Predicate{lit: pred})
	require.NoError(t, err)

	err = checker.CheckNogood(proof.NogoodStep{ID: 1, Lits: []sat.Literal{lit}})
	require.NoError(t, err)
}

func TestCheckNogoodRejectsWhenHintsDoNotConflict(t *testing.T) {
	m := model.New()
	x := m.NewIntVar("x", 0, 10)
	s, vm, err := m.IntoSolver(model.DefaultOptions)
	require.NoError(t, err)
	_ = s

	lit := sat.Literal(2)
	pred := sat.LessOrEqualPredicate(vm.DomainId(x), 5)

	checker, err := proof.NewChecker(m, model.DefaultOptions, map[sat.Literal]sat.Predicate{lit: pred})
	require.NoError(t, err)

	err = checker.CheckNogood(proof.NogoodStep{ID: 1, Lits: []sat.Literal{lit}, Hints: []int{99}})
	require.Error(t, err)
}

func TestCheckConclusionRejectsUnsatWithoutEmptyNogood(t *testing.T) {
	m := model.New()
	m.NewIntVar("x", 0, 10)
	checker, err := proof.NewChecker(m, model.DefaultOptions, nil)
	require.NoError(t, err)

	err = checker.CheckConclusion(proof.Conclusion{Unsat: true})
	require.Error(t, err)
}

func TestCheckInferenceTrustsInternalChannelSteps(t *testing.T) {
	m := model.New()
	m.NewIntVar("x", 0, 10)
	checker, err := proof.NewChecker(m, model.DefaultOptions, nil)
	require.NoError(t, err)

	err = checker.CheckInference(proof.InferenceStep{ID: 1, Premises: nil, ConstraintTag: -1})
	require.NoError(t, err)
}
