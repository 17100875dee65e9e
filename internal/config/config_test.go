package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rhartert/lcgo/internal/config"
	"github.com/rhartert/lcgo/internal/model"
	"github.com/rhartert/lcgo/internal/sat"
)

func TestLoadEmptyPathReturnsDefault(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	require.Equal(t, config.Default, cfg)
}

func TestLoadMissingFileErrors(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	require.Error(t, err)
}

func TestLoadOverridesDefaultFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "solver.toml")
	const body = `
search_strategy = "first_fail"
linear_encoding = "totalizer"
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "first_fail", cfg.SearchStrategy)
	require.Equal(t, "totalizer", cfg.LinearEncoding)
	// Untouched fields keep their defaults.
	require.Equal(t, config.Default.ConflictStrategy, cfg.ConflictStrategy)
}

func TestModelOptionsResolvesStrategies(t *testing.T) {
	cfg := config.Default
	cfg.SearchStrategy = "smallest"
	cfg.LinearEncoding = "sequential_sums"
	cfg.ConflictStrategy = "all_decision"
	cfg.MinimisationStrategy = "none"

	opts, err := cfg.ModelOptions()
	require.NoError(t, err)
	require.Equal(t, model.Smallest, opts.Strategy)
	require.Equal(t, model.SequentialSums, opts.LinearEncoding)
	require.Equal(t, sat.AllDecision, opts.SolverOptions.ConflictStrategy)
	require.Equal(t, sat.NoMinimisation, opts.SolverOptions.MinimisationStrategy)
}

func TestModelOptionsRejectsUnknownStrategy(t *testing.T) {
	cfg := config.Default
	cfg.SearchStrategy = "not-a-real-strategy"
	_, err := cfg.ModelOptions()
	require.Error(t, err)
}
