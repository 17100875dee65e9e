package main

import (
	"fmt"

	"github.com/rhartert/lcgo/internal/dzn"
	"github.com/rhartert/lcgo/internal/model"
)

// Instance bundles the lowered model with the pieces the solve/verify
// commands need to report a solution in terms of the original problem: the
// decision variables to print and an optional objective description.
type Instance struct {
	Model       *model.Model
	Vars        []model.VarRef
	VarNames    []string
	Objective   string
	HasMakespan bool
}

// BuildInstance recognizes one of the data shapes named in spec.md §8 from
// the fields present in env and builds the corresponding Model. The
// recognized shapes cover every end-to-end scenario the spec names:
// n-queens (all_different), a linear-inference toy model, a TSP-style
// circuit+element+linear model, and an RCPSP-style cumulative model.
func BuildInstance(env dzn.Env) (*Instance, error) {
	switch {
	case hasFields(env, "n") && !hasFields(env, "cost") && !hasFields(env, "durations"):
		return buildQueens(env)
	case hasFields(env, "cost"):
		return buildTSP(env)
	case hasFields(env, "durations", "demands", "capacity"):
		return buildRCPSP(env)
	case hasFields(env, "coeffs", "rhs"):
		return buildLinear(env)
	default:
		return nil, fmt.Errorf("lcgo: instance data does not match a known problem shape (expected one of: n; cost; durations+demands+capacity; coeffs+rhs)")
	}
}

func hasFields(env dzn.Env, names ...string) bool {
	for _, n := range names {
		if _, ok := env[n]; !ok {
			return false
		}
	}
	return true
}

// buildQueens builds the n-queens all_different model from spec.md §8
// scenarios 1-2: n is the board size, an optional extra_equal_pair [i, j]
// field (used to force the UNSAT variant of scenario 1) posts q_i == q_j.
func buildQueens(env dzn.Env) (*Instance, error) {
	n, err := env.Int("n")
	if err != nil {
		return nil, err
	}

	m := model.New()
	qs := m.NewIntVarArray("q", int(n), 0, n-1)

	diag1 := make([]model.VarRef, n)
	diag2 := make([]model.VarRef, n)
	for i := range qs {
		diag1[i] = m.NewAffineView(fmt.Sprintf("q%d_plus_%d", i, i), qs[i], 1, int64(i))
		diag2[i] = m.NewAffineView(fmt.Sprintf("q%d_minus_%d", i, i), qs[i], 1, -int64(i))
	}
	m.PostAllDifferent(qs)
	m.PostAllDifferent(diag1)
	m.PostAllDifferent(diag2)

	if pair, ok := env["extra_equal_pair"]; ok && len(pair.Ints) == 2 {
		i, j := pair.Ints[0], pair.Ints[1]
		m.PostLinearEqual([]model.AffineTerm{{Var: qs[i], Coeff: 1}, {Var: qs[j], Coeff: -1}}, 0)
	}

	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("q%d", i)
	}
	return &Instance{Model: m, Vars: qs, VarNames: names}, m.Err()
}

// buildLinear builds the linear-inference toy model from spec.md §8
// scenarios 3-4: coeffs/vars_lb/vars_ub describe one LinearLessEqual
// constraint over freshly declared variables.
func buildLinear(env dzn.Env) (*Instance, error) {
	coeffs, err := env.IntArray("coeffs")
	if err != nil {
		return nil, err
	}
	rhs, err := env.Int("rhs")
	if err != nil {
		return nil, err
	}
	lbs, err := env.IntArray("vars_lb")
	if err != nil {
		return nil, err
	}
	ubs, err := env.IntArray("vars_ub")
	if err != nil {
		return nil, err
	}
	if len(coeffs) != len(lbs) || len(coeffs) != len(ubs) {
		return nil, fmt.Errorf("lcgo: coeffs/vars_lb/vars_ub length mismatch")
	}

	m := model.New()
	vars := make([]model.VarRef, len(coeffs))
	names := make([]string, len(coeffs))
	terms := make([]model.AffineTerm, len(coeffs))
	for i := range coeffs {
		names[i] = fmt.Sprintf("x%d", i)
		vars[i] = m.NewIntVar(names[i], lbs[i], ubs[i])
		terms[i] = model.AffineTerm{Var: vars[i], Coeff: coeffs[i]}
	}
	m.PostLinearLessEqual(terms, rhs)

	return &Instance{Model: m, Vars: vars, VarNames: names}, m.Err()
}

// buildTSP builds the successor-variable circuit model from spec.md §8
// scenario 5: cost is the n*n distance matrix; successors[i] != i is
// enforced by circuit itself.
func buildTSP(env dzn.Env) (*Instance, error) {
	cost, err := env.IntMatrix("cost")
	if err != nil {
		return nil, err
	}
	n := len(cost.Ints) / cost.Cols
	if n != cost.Cols {
		return nil, fmt.Errorf("lcgo: cost must be a square matrix")
	}

	m := model.New()
	succ := m.NewIntVarArray("succ", n, 0, int64(n-1))
	m.PostCircuit(succ)
	m.PostAllDifferent(succ)

	legs := make([]model.VarRef, n)
	var totalMax int64
	for i := 0; i < n; i++ {
		row := cost.Row(i)
		maxCost := row[0]
		for _, c := range row {
			if c > maxCost {
				maxCost = c
			}
		}
		totalMax += maxCost
		leg := m.NewIntVar(fmt.Sprintf("leg%d", i), 0, maxCost)
		array := make([]model.VarRef, n)
		for j, c := range row {
			array[j] = m.NewIntVar(fmt.Sprintf("cost_%d_%d", i, j), c, c)
		}
		m.PostElement(array, succ[i], leg)
		legs[i] = leg
	}

	total := m.NewIntVar("total_cost", 0, totalMax)
	terms := make([]model.AffineTerm, 0, n+1)
	for _, leg := range legs {
		terms = append(terms, model.AffineTerm{Var: leg, Coeff: 1})
	}
	terms = append(terms, model.AffineTerm{Var: total, Coeff: -1})
	m.PostLinearEqual(terms, 0)
	m.Optimise(total, model.Minimise)

	return &Instance{Model: m, Vars: succ, VarNames: namesOf("succ", n), Objective: "total_cost"}, m.Err()
}

// buildRCPSP builds the makespan scheduling model from spec.md §8
// scenario 6: durations/demands/capacity describe one cumulative resource;
// horizon bounds every start time (defaults to the sum of durations).
func buildRCPSP(env dzn.Env) (*Instance, error) {
	durations, err := env.IntArray("durations")
	if err != nil {
		return nil, err
	}
	demands, err := env.IntArray("demands")
	if err != nil {
		return nil, err
	}
	capacity, err := env.Int("capacity")
	if err != nil {
		return nil, err
	}
	if len(durations) != len(demands) {
		return nil, fmt.Errorf("lcgo: durations/demands length mismatch")
	}

	horizon, err := env.Int("horizon")
	if err != nil {
		horizon = 0
		for _, d := range durations {
			horizon += d
		}
	}

	m := model.New()
	starts := make([]model.VarRef, len(durations))
	names := make([]string, len(durations))
	for i, d := range durations {
		names[i] = fmt.Sprintf("start%d", i)
		starts[i] = m.NewIntVar(names[i], 0, horizon-d)
	}
	m.PostCumulative(starts, durations, demands, capacity)

	makespan := m.NewIntVar("makespan", 0, horizon)
	maxTerms := make([]model.VarRef, len(durations))
	for i, d := range durations {
		maxTerms[i] = m.NewAffineView(fmt.Sprintf("finish%d", i), starts[i], 1, d)
	}
	m.PostMaximum(maxTerms, makespan)
	m.Optimise(makespan, model.Minimise)

	return &Instance{Model: m, Vars: starts, VarNames: names, Objective: "makespan", HasMakespan: true}, m.Err()
}

func namesOf(prefix string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("%s%d", prefix, i)
	}
	return out
}
