package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rhartert/lcgo/internal/dzn"
	"github.com/rhartert/lcgo/internal/model"
)

func parseEnv(t *testing.T, text string) dzn.Env {
	t.Helper()
	env, err := dzn.Parse(strings.NewReader(text))
	require.NoError(t, err)
	return env
}

func TestBuildInstanceQueens(t *testing.T) {
	env := parseEnv(t, "n = 4;\n")
	inst, err := BuildInstance(env)
	require.NoError(t, err)
	require.Len(t, inst.Vars, 4)
	require.Equal(t, []string{"q0", "q1", "q2", "q3"}, inst.VarNames)
	require.Empty(t, inst.Objective)

	s, vm, err := inst.Model.IntoSolver(model.DefaultOptions)
	require.NoError(t, err)
	require.NotNil(t, s)
	require.NotNil(t, vm)
}

func TestBuildInstanceQueensWithForcedUnsat(t *testing.T) {
	env := parseEnv(t, "n = 3;\nextra_equal_pair = [0, 1];\n")
	inst, err := BuildInstance(env)
	require.NoError(t, err)

	s, _, err := inst.Model.IntoSolver(model.DefaultOptions)
	require.NoError(t, err)
	require.NotNil(t, s)
}

func TestBuildInstanceLinear(t *testing.T) {
	env := parseEnv(t, `
coeffs = [1, 1];
rhs = 3;
vars_lb = [0, 0];
vars_ub = [5, 5];
`)
	inst, err := BuildInstance(env)
	require.NoError(t, err)
	require.Len(t, inst.Vars, 2)
	require.Equal(t, []string{"x0", "x1"}, inst.VarNames)
}

func TestBuildInstanceTSP(t *testing.T) {
	env := parseEnv(t, "cost = array2d(0..1, 0..1, [0, 5, 5, 0]);\n")
	inst, err := BuildInstance(env)
	require.NoError(t, err)
	require.Equal(t, "total_cost", inst.Objective)
	require.Len(t, inst.Vars, 2)
}

func TestBuildInstanceRCPSP(t *testing.T) {
	env := parseEnv(t, `
durations = [2, 3];
demands = [1, 1];
capacity = 1;
`)
	inst, err := BuildInstance(env)
	require.NoError(t, err)
	require.Equal(t, "makespan", inst.Objective)
	require.True(t, inst.HasMakespan)
	require.Len(t, inst.Vars, 2)
}

func TestBuildInstanceUnrecognisedShapeErrors(t *testing.T) {
	env := parseEnv(t, "foo = 1;\n")
	_, err := BuildInstance(env)
	require.Error(t, err)
}
