package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rhartert/lcgo/internal/model"
)

func TestParseSeconds(t *testing.T) {
	v, err := parseSeconds("12.5")
	require.NoError(t, err)
	require.InDelta(t, 12.5, v, 1e-9)

	_, err = parseSeconds("not-a-number")
	require.Error(t, err)
}

func TestNormalizeLinearEncoding(t *testing.T) {
	require.Equal(t, "sequential_sums", normalizeLinearEncoding("sequential-sums"))
	require.Equal(t, "totalizer", normalizeLinearEncoding("totalizer"))
}

func TestResolveOptionsAppliesFlagOverrides(t *testing.T) {
	f := &solveFlags{strategy: "first_fail", linearEncoding: "totalizer"}
	opts, err := resolveOptions(f)
	require.NoError(t, err)
	require.Equal(t, model.FirstFail, opts.Strategy)
	require.Equal(t, model.Totalizer, opts.LinearEncoding)
}

func TestResolveOptionsGlobalLinearOverridesEncoding(t *testing.T) {
	f := &solveFlags{linearEncoding: "totalizer", globals: []string{"linear"}}
	opts, err := resolveOptions(f)
	require.NoError(t, err)
	require.Equal(t, model.GlobalPropagator, opts.LinearEncoding)
}
