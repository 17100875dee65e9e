package proof_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rhartert/lcgo/internal/model"
	"github.com/rhartert/lcgo/internal/proof"
	"github.com/rhartert/lcgo/internal/sat"
)

func TestWriterScaffoldAndConclusion(t *testing.T) {
	var out strings.Builder
	w := proof.NewWriter(&out)

	w.OnLearnedNogood([]sat.Literal{2, -4}, 0)
	w.OnLearnedNogood([]sat.Literal{6}, 0)
	require.NoError(t, w.ConcludeUnsat())
	require.NoError(t, w.Err())

	sc, err := proof.ParseScaffold(strings.NewReader(out.String()))
	require.NoError(t, err)
	require.Len(t, sc.Nogoods, 2)
	require.Equal(t, 1, sc.Nogoods[0].ID)
	require.Equal(t, 2, sc.Nogoods[1].ID)
	require.True(t, sc.Conclusion.Unsat)
}

func TestWriterFlushWithoutConclusion(t *testing.T) {
	var out strings.Builder
	w := proof.NewWriter(&out)
	w.OnLearnedNogood([]sat.Literal{2}, 0)
	require.NoError(t, w.Flush())

	sc, err := proof.ParseScaffold(strings.NewReader(out.String()))
	require.NoError(t, err)
	require.Len(t, sc.Nogoods, 1)
	require.False(t, sc.Conclusion.Unsat)
	require.False(t, sc.Conclusion.HasBound)
}

func TestWriteParseLiteralNamesRoundTrip(t *testing.T) {
	m := model.New()
	x := m.NewIntVar("x", 0, 10)
	s, vm, err := m.IntoSolver(model.DefaultOptions)
	require.NoError(t, err)
	// Literals are created lazily; create one so there is something to name.
	s.LiteralForPredicate(sat.GreaterOrEqualPredicate(vm.DomainId(x), 3))

	var buf strings.Builder
	require.NoError(t, proof.WriteLiteralNames(&buf, s, vm.Names))

	defs, err := proof.ParseLiteralNames(strings.NewReader(buf.String()), vm)
	require.NoError(t, err)
	require.NotEmpty(t, defs)

	xd := vm.DomainId(x)
	for _, pred := range defs {
		require.Equal(t, xd, pred.Var)
	}
}
