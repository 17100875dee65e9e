package sat

// This file implements branch-and-bound optimisation: each
// time search finds a feasible solution, the objective's upper bound is
// tightened at the root and search resumes, so every subsequent solution
// strictly improves on the last until the search space is exhausted.

// objectiveState tracks the variable being minimised and the best bound
// found so far. The solver only ever minimises; for a Maximise objective,
// model.IntoSolver minimises a negated variable channelled to it.
type objectiveState struct {
	variable    DomainId
	best        int64
	haveBound   bool
}

// SetObjective installs the variable to minimise. Calling it twice replaces
// the previous objective; it is the caller's responsibility (the modelling
// layer) to avoid doing this for a single IntoSolver call.
func (s *Solver) SetObjective(x DomainId) {
	s.objective = &objectiveState{variable: x}
}

// SolutionSink receives each solution search finds, called while it still
// holds the full satisfying assignment (before the solver backtracks to
// look for an improvement). The callback borrows the solver read-only, per
// the shared-resource policy: it must not mutate it.
type SolutionSink interface {
	OnSolution(s *Solver)
}

// SetSolutionSink installs a callback invoked on every solution found
// during Solve/Minimise; pass nil to disable it.
func (s *Solver) SetSolutionSink(sink SolutionSink) { s.solutionSink = sink }

func (s *Solver) reportSolution() {
	if s.solutionSink != nil {
		s.solutionSink.OnSolution(s)
	}
}

// HasObjective reports whether Minimise-style search is configured.
func (s *Solver) HasObjective() bool { return s.objective != nil }

// ObjectiveDomainId returns the variable being minimised, for the proof
// writer to build the terminal `c <literal>` conclusion step's bound
// literal (spec.md §4.13).
func (s *Solver) ObjectiveDomainId() (DomainId, bool) {
	if s.objective == nil {
		return 0, false
	}
	return s.objective.variable, true
}

// ObjectiveValue returns the objective variable's current fixed value and
// whether it is in fact fixed (only meaningful once a solution is found).
func (s *Solver) ObjectiveValue() (int64, bool) {
	if s.objective == nil {
		return 0, false
	}
	x := s.objective.variable
	if !s.IsFixed(x) {
		return 0, false
	}
	return s.LowerBound(x), true
}

// BestBound returns the best (smallest) objective value found so far.
func (s *Solver) BestBound() (int64, bool) {
	if s.objective == nil || !s.objective.haveBound {
		return 0, false
	}
	return s.objective.best, true
}

// recordSolutionBound is called by the main loop right after a full
// assignment is found: it records the objective's value as
// the new best bound. The caller backtracks to the root and posts the
// strict improvement constraint with postImprovementBound afterwards.
func (s *Solver) recordSolutionBound() {
	if s.objective == nil {
		return
	}
	v, ok := s.ObjectiveValue()
	if !ok {
		return
	}
	s.objective.best = v
	s.objective.haveBound = true
}

// postImprovementBound tightens the objective's upper bound to strictly
// less than the best solution found, at decision level 0. It returns false
// if doing so empties the objective's domain, meaning the current best
// solution is also optimal.
func (s *Solver) postImprovementBound() bool {
	if s.objective == nil || !s.objective.haveBound {
		return true
	}
	out := s.TightenUpperBound(s.objective.variable, s.objective.best-1, Eager(nil), noPropagator)
	return !out.Conflict
}
