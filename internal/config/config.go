// Package config loads solver tuning from an optional TOML file
// (SPEC_FULL.md §10), generalizing the teacher's Options/DefaultOptions
// pattern to a file-backed configuration CLI flags can still override.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"

	"github.com/rhartert/lcgo/internal/model"
	"github.com/rhartert/lcgo/internal/sat"
)

// Config mirrors sat.Options and model.Options using TOML-friendly scalar
// fields; SolverOptions and ModelOptions translate it into the real option
// structs the solver and modelling layer consume.
type Config struct {
	ClauseDecay          float64 `toml:"clause_decay"`
	VariableDecay        float64 `toml:"variable_decay"`
	PhaseSaving          bool    `toml:"phase_saving"`
	ConflictStrategy     string  `toml:"conflict_strategy"`     // one_uip | all_decision | no_learning
	MinimisationStrategy string  `toml:"minimisation_strategy"` // none | semantic | recursive | semantic_and_recursive
	SearchStrategy       string  `toml:"search_strategy"`       // input_order | first_fail | anti_first_fail | smallest | largest
	LinearEncoding       string  `toml:"linear_encoding"`       // global | totalizer | sequential_sums
}

// Default mirrors sat.DefaultOptions and model.DefaultOptions so that
// loading no file at all reproduces the teacher's built-in defaults.
var Default = Config{
	ClauseDecay:          0.999,
	VariableDecay:        0.95,
	PhaseSaving:          true,
	ConflictStrategy:     "one_uip",
	MinimisationStrategy: "semantic_and_recursive",
	SearchStrategy:       "input_order",
	LinearEncoding:       "global",
}

// Load reads and decodes a TOML config file at path, starting from Default
// so an omitted field keeps its default value. An empty path returns
// Default unchanged.
func Load(path string) (Config, error) {
	cfg := Default
	if path == "" {
		return cfg, nil
	}
	if !pathExists(path) {
		return Config{}, errors.Errorf("config: file %q does not exist", path)
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, errors.Wrapf(err, "config: failed to load %q", path)
	}
	return cfg, nil
}

// SolverOptions translates c into sat.Options, leaving Termination and Log
// for the caller to set.
func (c Config) SolverOptions() (sat.Options, error) {
	cs, err := parseConflictStrategy(c.ConflictStrategy)
	if err != nil {
		return sat.Options{}, err
	}
	ms, err := parseMinimisationStrategy(c.MinimisationStrategy)
	if err != nil {
		return sat.Options{}, err
	}
	return sat.Options{
		ClauseDecay:          c.ClauseDecay,
		VariableDecay:        c.VariableDecay,
		PhaseSaving:          c.PhaseSaving,
		ConflictStrategy:     cs,
		MinimisationStrategy: ms,
	}, nil
}

// ModelOptions translates c into model.Options, wrapping the resolved
// sat.Options from SolverOptions.
func (c Config) ModelOptions() (model.Options, error) {
	so, err := c.SolverOptions()
	if err != nil {
		return model.Options{}, err
	}
	ss, err := parseSearchStrategy(c.SearchStrategy)
	if err != nil {
		return model.Options{}, err
	}
	le, err := parseLinearEncoding(c.LinearEncoding)
	if err != nil {
		return model.Options{}, err
	}
	return model.Options{
		SolverOptions:  so,
		LinearEncoding: le,
		Strategy:       ss,
	}, nil
}

func parseConflictStrategy(s string) (sat.ConflictStrategy, error) {
	switch s {
	case "", "one_uip":
		return sat.OneUIP, nil
	case "all_decision":
		return sat.AllDecision, nil
	case "no_learning":
		return sat.NoLearning, nil
	default:
		return 0, fmt.Errorf("config: unknown conflict_strategy %q", s)
	}
}

func parseMinimisationStrategy(s string) (sat.MinimisationStrategy, error) {
	switch s {
	case "none":
		return sat.NoMinimisation, nil
	case "semantic":
		return sat.Semantic, nil
	case "recursive":
		return sat.Recursive, nil
	case "", "semantic_and_recursive":
		return sat.SemanticAndRecursive, nil
	default:
		return 0, fmt.Errorf("config: unknown minimisation_strategy %q", s)
	}
}

func parseSearchStrategy(s string) (model.SearchStrategy, error) {
	switch s {
	case "", "input_order":
		return model.InputOrder, nil
	case "first_fail":
		return model.FirstFail, nil
	case "anti_first_fail":
		return model.AntiFirstFail, nil
	case "smallest":
		return model.Smallest, nil
	case "largest":
		return model.Largest, nil
	default:
		return 0, fmt.Errorf("config: unknown search_strategy %q", s)
	}
}

func parseLinearEncoding(s string) (model.LinearEncoding, error) {
	switch s {
	case "", "global":
		return model.GlobalPropagator, nil
	case "totalizer":
		return model.Totalizer, nil
	case "sequential_sums":
		return model.SequentialSums, nil
	default:
		return 0, fmt.Errorf("config: unknown linear_encoding %q", s)
	}
}

// pathExists reports whether path can be stat'ed, so that Load can return
// a precise "does not exist" error before attempting to decode the file.
func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
