package proof_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rhartert/lcgo/internal/proof"
	"github.com/rhartert/lcgo/internal/sat"
)

func TestWriteParseNogoodRoundTrip(t *testing.T) {
	ng := proof.NogoodStep{ID: 3, Lits: []sat.Literal{2, -4, 6}, Hints: []int{1, 2}}

	var b strings.Builder
	require.NoError(t, proof.WriteNogood(&b, ng))

	sc, err := proof.ParseFullProof(strings.NewReader(b.String() + "c UNSAT\n"))
	require.NoError(t, err)
	require.Len(t, sc.Nogoods, 1)
	require.Equal(t, ng, sc.Nogoods[0])
	require.True(t, sc.Conclusion.Unsat)
}

func TestWriteParseInferenceRoundTrip(t *testing.T) {
	inf := proof.InferenceStep{
		ID:            1,
		Premises:      []sat.Literal{2, 4},
		Conclusion:    -6,
		HasConclusion: true,
		ConstraintTag: 7,
		Label:         "linear",
	}

	var b strings.Builder
	require.NoError(t, proof.WriteInference(&b, inf))
	b.WriteString("c 9\n")

	full, err := proof.ParseFullProof(strings.NewReader(b.String()))
	require.NoError(t, err)
	require.Len(t, full.Inferences, 1)
	require.Equal(t, inf, full.Inferences[0])
	require.True(t, full.Conclusion.HasBound)
	require.Equal(t, sat.Literal(9), full.Conclusion.Bound)
}

func TestParseScaffoldRejectsInferenceSteps(t *testing.T) {
	_, err := proof.ParseScaffold(strings.NewReader("i 1 2 0 c:1 l:x\n"))
	require.Error(t, err)
}

func TestParseScaffoldIgnoresDeletionSteps(t *testing.T) {
	sc, err := proof.ParseScaffold(strings.NewReader("n 1 2 0\nd 1\nc UNSAT\n"))
	require.NoError(t, err)
	require.Len(t, sc.Nogoods, 1)
}

func TestParseNogoodWithoutHints(t *testing.T) {
	sc, err := proof.ParseScaffold(strings.NewReader("n 5 1 -2 0\n"))
	require.NoError(t, err)
	require.Equal(t, []sat.Literal{1, -2}, sc.Nogoods[0].Lits)
	require.Nil(t, sc.Nogoods[0].Hints)
}

func TestParseRejectsUnrecognisedStepKind(t *testing.T) {
	_, err := proof.ParseScaffold(strings.NewReader("x 1 2 0\n"))
	require.Error(t, err)
}

func TestParseConclusionBound(t *testing.T) {
	sc, err := proof.ParseScaffold(strings.NewReader("c 42\n"))
	require.NoError(t, err)
	require.False(t, sc.Conclusion.Unsat)
	require.True(t, sc.Conclusion.HasBound)
	require.Equal(t, sat.Literal(42), sc.Conclusion.Bound)
}
