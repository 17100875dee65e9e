package sat

import "time"

// This file implements the main solver loop: clausal
// propagation, CP propagator stepping, conflict detection/analysis,
// restarts, clause-database reduction, and the top-level Solve/Minimise
// entry points built on top of them.

// Propagate drains the boolean propagation queue, running the
// two-watched-literal clausal scheme. It returns the falsified clause, or
// a non-nil domain conflict if the clause succeeded but its forced literal
// emptied an integer domain, or (nil, nil) once the queue is empty with no
// conflict.
func (s *Solver) Propagate() (*Clause, *Inconsistency) {
	for s.propQueue.Size() > 0 {
		l := s.propQueue.Pop()

		s.tmpWatchers = s.tmpWatchers[:0]
		s.tmpWatchers = append(s.tmpWatchers, s.watchers[l]...)
		s.watchers[l] = s.watchers[l][:0]

		for i, w := range s.tmpWatchers {
			if s.litValue(w.guard) == True {
				s.watchers[l] = append(s.watchers[l], w)
				continue
			}
			ok, domainConflict := w.clause.Propagate(s, l)
			if ok {
				continue
			}
			s.watchers[l] = append(s.watchers[l], s.tmpWatchers[i+1:]...)
			s.propQueue.Clear()
			if domainConflict != nil {
				return nil, domainConflict
			}
			return s.tmpWatchers[i].clause, nil
		}
	}
	return nil, nil
}

// propagateToFixpoint alternates clausal propagation and CP propagator
// steps until neither has anything left to do or a conflict is found:
// propagators run to a local fixpoint before a decision is made, but a
// propagator may itself be interrupted by a newly falsified clause.
func (s *Solver) propagateToFixpoint() conflictSource {
	for {
		confl, domainConflict := s.Propagate()
		if confl != nil {
			return conflictSource{clause: confl}
		}
		if domainConflict != nil {
			x := domainConflict.Var
			return conflictSource{conjunction: []Predicate{
				GreaterOrEqualPredicate(x, s.LowerBound(x)),
				LessOrEqualPredicate(x, s.UpperBound(x)),
			}}
		}
		if s.rootConflict != nil {
			rc := s.rootConflict
			s.rootConflict = nil
			return conflictSource{conjunction: rc.conjunction}
		}
		inc := s.RunOnePropagator()
		if inc == nil {
			if s.propQueue.Size() == 0 {
				return conflictSource{}
			}
			continue
		}
		if inc.EmptyDomain {
			x := inc.Var
			return conflictSource{conjunction: []Predicate{
				GreaterOrEqualPredicate(x, s.LowerBound(x)),
				LessOrEqualPredicate(x, s.UpperBound(x)),
			}}
		}
		return conflictSource{conjunction: inc.Conjunction}
	}
}

func (src conflictSource) isConflict() bool {
	return src.clause != nil || src.conjunction != nil
}

// Search runs up to nConflicts conflicts (or nLearnts over the learnt
// budget) of search, restarting the caller's Solve loop on Unknown.
func (s *Solver) Search(nConflicts int, nLearnts int) Status {
	if s.unsat {
		return StatusInfeasible
	}

	s.TotalRestarts++
	conflictCount := 0

	for !s.shouldStop() {
		s.TotalIterations++

		src := s.propagateToFixpoint()
		if src.isConflict() {
			conflictCount++
			s.TotalConflicts++

			if s.decisionLevel() == 0 {
				s.unsat = true
				if s.HasObjective() && s.objective.haveBound {
					// No better solution exists: the last one is optimal.
					return StatusOptimal
				}
				return StatusInfeasible
			}

			learnt, backtrackLevel := s.analyze(src)
			learnt = s.minimise(learnt)
			s.BacktrackTo(backtrackLevel)
			s.record(learnt)

			s.DecayClaActivity()
			s.DecayVarActivity()
			continue
		}

		if s.decisionLevel() == 0 {
			s.Simplify()
		}
		if len(s.learnts)-len(s.boolTrail) >= nLearnts {
			s.ReduceDB()
		}

		decision, ok := s.nextDecision()
		if !ok {
			// Every variable the brancher and the order care about is fixed:
			// a complete, propagation-consistent assignment has been found.
			if s.HasObjective() {
				s.recordSolutionBound()
				s.reportSolution()
				s.BacktrackTo(0)
				if !s.postImprovementBound() {
					return StatusOptimal
				}
				continue
			}
			s.reportSolution()
			return StatusSatisfiable
		}

		if conflictCount > nConflicts {
			s.BacktrackTo(0)
			return StatusUnknown
		}

		s.EnqueueDecisionLiteral(decision)
	}

	return StatusUnknown
}

// nextDecision asks the modelling layer's Brancher first (so search
// follows the problem's own variables), falling back to the generic
// activity order for any remaining plain propositional variables (e.g.
// reification literals with no brancher-visible counterpart).
func (s *Solver) nextDecision() (Literal, bool) {
	if s.brancher != nil {
		if p, ok := s.brancher.NextDecision(s); ok {
			return s.literalForPredicate(p), true
		}
	}
	return s.order.NextDecision(s)
}

// SetBrancher installs the modelling layer's default search strategy.
func (s *Solver) SetBrancher(b Brancher) { s.brancher = b }

// SetProofSink installs the proof writer; pass nil to disable proof
// logging.
func (s *Solver) SetProofSink(p ProofSink) { s.proof = p }

// Simplify removes clauses satisfied at the root level.
func (s *Solver) Simplify() bool {
	if s.propQueue.Size() != 0 {
		return true
	}
	if s.unsat {
		return false
	}
	if confl, domainConflict := s.Propagate(); confl != nil || domainConflict != nil {
		s.unsat = true
		return false
	}
	s.simplifyPtr(&s.learnts)
	s.simplifyPtr(&s.constraints)
	return true
}

func (s *Solver) simplifyPtr(clausesPtr *[]*Clause) {
	clauses := *clausesPtr
	j := 0
	for i := range clauses {
		if clauses[i].Simplify(s) {
			clauses[i].Remove(s)
		} else {
			clauses[j] = clauses[i]
			j++
		}
	}
	*clausesPtr = clauses[:j]
}

// Solve runs restart-based search to completion (or until the termination
// condition fires), returning the final status.
func (s *Solver) Solve() Status {
	numConflicts := 100
	numLearnts := len(s.constraints)/3 + 1
	status := StatusUnknown
	s.startTime = time.Now()

	for status == StatusUnknown {
		status = s.Search(numConflicts, numLearnts)
		numConflicts += numConflicts / 10
		numLearnts += numLearnts / 20

		if s.shouldStop() {
			if status == StatusUnknown {
				status = StatusTimeout
			}
			break
		}
	}

	s.BacktrackTo(0)
	return status
}

// Minimise runs branch-and-bound search over the variable set by
// SetObjective, returning StatusOptimal once no further improvement is
// possible and StatusSatisfiable (never reached) is impossible by
// construction: Search only returns once improvement is exhausted or the
// termination condition fires.
func (s *Solver) Minimise(objective DomainId) Status {
	s.SetObjective(objective)
	return s.Solve()
}

// SolveUnderAssumptions behaves like Solve but first enqueues each
// assumption literal as a pseudo-decision; failure identifies the
// offending assumption for core extraction.
func (s *Solver) SolveUnderAssumptions(assumptions []Literal) (Status, error) {
	s.assumptions = assumptions
	s.assumptionPos = 0
	for _, a := range s.assumptions {
		if s.litValue(a) == False {
			return StatusInfeasible, &InfeasibleUnderAssumptionsError{Literal: a}
		}
		if s.litValue(a) == True {
			continue
		}
		if !s.EnqueueDecisionLiteral(a) {
			return StatusInfeasible, &InfeasibleUnderAssumptionsError{Literal: a}
		}
	}
	return s.Solve(), nil
}

// ReduceDB halves the learnt clause database, keeping locked clauses and
// those above the current activity threshold.
func (s *Solver) ReduceDB() {
	s.reduceLearned()
}
