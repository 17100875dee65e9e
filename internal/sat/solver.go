package sat

import (
	"time"

	"github.com/sirupsen/logrus"
)

// watcher represents a clause attached to the watch list of a literal, as in
// the solver's binary/long clause watch scheme.
type watcher struct {
	clause *Clause
	guard  Literal
}

// ConflictStrategy selects one of the resolution-based conflict analysers.
// NoLearning exists as a configuration choice for comparison and debugging,
// not as a guess at what a production solver would default to.
type ConflictStrategy uint8

const (
	OneUIP ConflictStrategy = iota
	AllDecision
	NoLearning
)

// MinimisationStrategy selects the nogood shrinking passes.
type MinimisationStrategy uint8

const (
	NoMinimisation MinimisationStrategy = iota
	Semantic
	Recursive
	SemanticAndRecursive
)

// TerminationCondition is polled once per main-loop iteration. It is not
// polled while a model's constraints are lowered into the solver.
type TerminationCondition interface {
	ShouldStop() bool
}

// Status is the outcome of Solve/Minimise.
type Status uint8

const (
	StatusUnknown Status = iota
	StatusSatisfiable
	StatusInfeasible
	StatusOptimal
	StatusTimeout
)

func (st Status) String() string {
	switch st {
	case StatusSatisfiable:
		return "satisfiable"
	case StatusInfeasible:
		return "infeasible"
	case StatusOptimal:
		return "optimal"
	case StatusTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// Brancher picks the next predicate to branch on when no assumption remains
//. The modelling layer installs a default one over all
// CP variables; propagators never implement this directly.
type Brancher interface {
	// NextDecision returns the predicate to branch on and true, or false if
	// every variable the brancher cares about is fixed.
	NextDecision(s *Solver) (Predicate, bool)
	// OnUnassign is called for every variable that lost its fixed value
	// during backtrack synchronisation.
	OnUnassign(x DomainId)
}

// proofHint carries enough bookkeeping for the proof writer (C13) to emit
// hints in full-proof mode without inspecting the reason store directly.
type proofHint struct {
	constraintTag int
	label         string
}

// ProofSink receives learned nogoods as they are installed so that proof
// logging never needs to replay the search. nil means no proof requested.
type ProofSink interface {
	OnLearnedNogood(literals []Literal, backjumpLevel int)
}

// Solver is the single-threaded dual (CP + SAT) engine: every piece of
// search state lives in one struct, following a monolithic design where
// handles (DomainId, PropagatorId, ReasonRef, *Clause) stand in for owning
// cross references,

type Solver struct {
	// ---- C2 boolean trail ----
	assigns      []LBool
	boolTrail    []Literal
	trailLim     []int
	reasonClause []*Clause
	reasonRef    []ReasonRef
	varLevel     []int

	// ---- C4 clause store + watched propagation ----
	constraints []*Clause
	learnts     []*Clause
	clauseInc   float64
	clauseDecay float64
	watchers    [][]watcher
	propQueue   *Queue[Literal]
	tmpWatchers []watcher

	// ---- C3 predicate <-> literal map ----
	litGE      []map[int64]Literal // per DomainId: threshold -> literal for x>=threshold
	geSorted   [][]int64           // per DomainId: sorted thresholds, kept in sync with litGE
	litEQ      []map[int64]Literal // per DomainId: value -> literal for x==value
	predForVar []Predicate         // per PropositionalVariable: canonical predicate (GE or EQ)
	predKnown  []bool              // per PropositionalVariable: whether predForVar is meaningful

	// ---- C1 integer trail ----
	intDomains []domainState
	intTrail   []intTrailEntry

	// ---- C5 CP propagator framework ----
	propagators  []*propagatorEntry
	cpQueue      *propagatorQueue
	watchLB      map[DomainId][]propWatch
	watchUB      map[DomainId][]propWatch
	watchVal     map[DomainId][]propWatch
	watchFix     map[DomainId][]propWatch
	watchTrue    map[PropositionalVariable][]propWatch
	watchFalse   map[PropositionalVariable][]propWatch
	rootConflict *conflictInfo // a root-level conflict from initialise_at_root

	// ---- C6 reason store ----
	reasons *ReasonStore

	// ---- search configuration ----
	conflictStrategy     ConflictStrategy
	minimisationStrategy MinimisationStrategy

	// ---- branching ----
	order    *VarOrder
	brancher Brancher

	// ---- assumptions ----
	assumptions   []Literal
	assumptionPos int

	// ---- search state ----
	unsat       bool
	seenVar     *ResetSet
	tmpLearnts  []Literal
	termination TerminationCondition

	// ---- proof ----
	proof ProofSink

	// ---- solutions ----
	solutionSink SolutionSink

	// ---- stats ----
	TotalConflicts  int64
	TotalRestarts   int64
	TotalIterations int64
	startTime       time.Time

	log *logrus.Entry

	// objective tracks the branch-and-bound state (C10); nil for plain
	// satisfaction solving.
	objective *objectiveState
}

// Options configures a Solver: clause/variable decay, conflict and
// minimisation strategy, phase saving, and termination.
type Options struct {
	ClauseDecay          float64
	VariableDecay        float64
	ConflictStrategy     ConflictStrategy
	MinimisationStrategy MinimisationStrategy
	PhaseSaving          bool
	Termination          TerminationCondition
	Log                  *logrus.Entry
}

// DefaultOptions picks the usual CDCL defaults: 1-UIP analysis with
// semantic-then-recursive minimisation.
var DefaultOptions = Options{
	ClauseDecay:          0.999,
	VariableDecay:        0.95,
	ConflictStrategy:     OneUIP,
	MinimisationStrategy: SemanticAndRecursive,
	PhaseSaving:          true,
}

// TrueLiteral and FalseLiteral are the solver-wide constants.
// They refer to propositional variable 0, created by NewSolver.
var (
	TrueLiteral  = PositiveLiteral(0)
	FalseLiteral = NegativeLiteral(0)
)

// NewSolver returns a solver with the reserved true_literal/false_literal
// pair fixed at decision level 0.
func NewSolver(opts Options) *Solver {
	if opts.Log == nil {
		opts.Log = logrus.NewEntry(logrus.StandardLogger())
	}
	s := &Solver{
		clauseInc:            1,
		clauseDecay:          opts.ClauseDecay,
		propQueue:            NewQueue[Literal](128),
		reasons:              NewReasonStore(),
		cpQueue:              newPropagatorQueue(),
		watchLB:              map[DomainId][]propWatch{},
		watchUB:              map[DomainId][]propWatch{},
		watchVal:             map[DomainId][]propWatch{},
		watchFix:             map[DomainId][]propWatch{},
		watchTrue:            map[PropositionalVariable][]propWatch{},
		watchFalse:           map[PropositionalVariable][]propWatch{},
		conflictStrategy:     opts.ConflictStrategy,
		minimisationStrategy: opts.MinimisationStrategy,
		seenVar:              &ResetSet{},
		termination:          opts.Termination,
		log:                  opts.Log,
		order:                NewVarOrder(opts.VariableDecay, opts.PhaseSaving),
	}

	s.newBoolVar() // variable 0: reserved for TrueLiteral/FalseLiteral
	s.assigns[TrueLiteral] = True
	s.assigns[FalseLiteral] = False
	s.boolTrail = append(s.boolTrail, TrueLiteral)
	s.varLevel[0] = 0
	s.reasonRef[0] = NoReason

	return s
}

func (s *Solver) newBoolVar() PropositionalVariable {
	v := PropositionalVariable(len(s.assigns) / 2)
	s.assigns = append(s.assigns, Unknown, Unknown)
	s.watchers = append(s.watchers, nil, nil)
	s.reasonClause = append(s.reasonClause, nil)
	s.reasonRef = append(s.reasonRef, NoReason)
	s.varLevel = append(s.varLevel, -1)
	s.predForVar = append(s.predForVar, Predicate{})
	s.predKnown = append(s.predKnown, false)
	s.seenVar.Expand()
	s.order.AddVar(0, true)
	return v
}

func (s *Solver) decisionLevel() int {
	return len(s.trailLim)
}

// DecisionLevel exposes the current decision level to propagators'
// initialisation context and to the proof subsystem.
func (s *Solver) DecisionLevel() int { return s.decisionLevel() }

func (s *Solver) litValue(l Literal) LBool { return s.assigns[l] }

// shouldStop polls the termination condition.
func (s *Solver) shouldStop() bool {
	return s.termination != nil && s.termination.ShouldStop()
}
