package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rhartert/lcgo/internal/config"
	"github.com/rhartert/lcgo/internal/dzn"
	"github.com/rhartert/lcgo/internal/model"
	"github.com/rhartert/lcgo/internal/proof"
	"github.com/rhartert/lcgo/internal/sat"
)

type solveFlags struct {
	globals        []string
	linearEncoding string
	proofPath      string
	strategy       string
	minimisation   string
	resolution     string
	configPath     string
	explain        bool
	reportStats    bool
}

// newSolveCmd implements `solve <instance.dzn> ... <timeout_seconds>`
// (spec.md §6): lowers the instance, runs search, and prints the result.
// -P streams a DRCP scaffold (C13) alongside its .lits companion file;
// processing/verify turn that scaffold into a checkable full proof.
func newSolveCmd() *cobra.Command {
	var f solveFlags
	cmd := &cobra.Command{
		Use:   "solve <instance.dzn> <timeout_seconds>",
		Short: "solve a DZN instance",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSolve(args, &f)
		},
	}

	cmd.Flags().StringArrayVarP(&f.globals, "global", "G", nil, "constraint kinds to force through their global propagator (repeatable)")
	cmd.Flags().StringVar(&f.linearEncoding, "linear-encoding", "", "linear constraint encoding: totalizer | sequential-sums")
	cmd.Flags().StringVarP(&f.proofPath, "proof", "P", "", "write a DRCP proof scaffold to this path")
	cmd.Flags().StringVarP(&f.strategy, "strategy", "S", "", "search strategy: input_order | first_fail | anti_first_fail | smallest | largest")
	cmd.Flags().StringVarP(&f.minimisation, "minimisation", "M", "", "nogood minimisation: none | semantic | recursive | semantic_and_recursive")
	cmd.Flags().StringVarP(&f.resolution, "resolution", "C", "", "conflict analysis: one_uip | all_decision | no_learning")
	cmd.Flags().StringVar(&f.configPath, "config", "", "optional solver.toml tuning file")
	cmd.Flags().BoolVarP(&f.explain, "explain", "E", false, "log every learned nogood and solution at debug level")
	cmd.Flags().BoolVarP(&f.reportStats, "report-stats", "R", false, "print solver statistics after the run")

	return cmd
}

// resolveOptions starts from --config (or built-in defaults) and lets -S/
// -M/-C/--linear-encoding/-G override individual fields, matching the CLI's
// documented precedence: flags win over the config file.
func resolveOptions(f *solveFlags) (model.Options, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return model.Options{}, err
	}
	if f.strategy != "" {
		cfg.SearchStrategy = f.strategy
	}
	if f.minimisation != "" {
		cfg.MinimisationStrategy = f.minimisation
	}
	if f.resolution != "" {
		cfg.ConflictStrategy = f.resolution
	}
	if f.linearEncoding != "" {
		cfg.LinearEncoding = normalizeLinearEncoding(f.linearEncoding)
	}
	for _, g := range f.globals {
		if g == "linear" {
			cfg.LinearEncoding = "global"
		}
	}
	return cfg.ModelOptions()
}

func normalizeLinearEncoding(s string) string {
	if s == "sequential-sums" {
		return "sequential_sums"
	}
	return s
}

// solutionPrinter implements sat.SolutionSink, logging every improving
// solution search reports while it still holds the full assignment.
type solutionPrinter struct {
	inst *Instance
	vm   *model.VariableMap
}

func (p *solutionPrinter) OnSolution(s *sat.Solver) {
	entry := log.NewEntry(log.StandardLogger())
	for i, v := range p.inst.Vars {
		entry = entry.WithField(p.inst.VarNames[i], s.LowerBound(p.vm.DomainId(v)))
	}
	if p.inst.Objective != "" {
		if v, ok := s.BestBound(); ok {
			entry = entry.WithField(p.inst.Objective, v)
		}
	}
	entry.Info("solution found")
}

func runSolve(args []string, f *solveFlags) error {
	instPath, timeoutArg := args[0], args[1]

	env, err := readDZN(instPath)
	if err != nil {
		return err
	}
	inst, err := BuildInstance(env)
	if err != nil {
		return err
	}

	opts, err := resolveOptions(f)
	if err != nil {
		return err
	}
	if f.explain {
		log.SetLevel(log.DebugLevel)
		opts.SolverOptions.Log = log.WithField("component", "solve")
	}

	seconds, err := parseSeconds(timeoutArg)
	if err != nil {
		return err
	}
	opts.SolverOptions.Termination = newDeadlineTermination(seconds)

	s, vm, err := inst.Model.IntoSolver(opts)
	if err != nil {
		return fmt.Errorf("lcgo: failed to lower instance: %w", err)
	}

	var writer *proof.Writer
	var litsFile *os.File
	if f.proofPath != "" {
		out, err := os.Create(f.proofPath)
		if err != nil {
			return err
		}
		defer out.Close()
		writer = proof.NewWriter(out)
		s.SetProofSink(writer)

		litsFile, err = os.Create(f.proofPath + ".lits")
		if err != nil {
			return err
		}
		defer litsFile.Close()
	}

	s.SetSolutionSink(&solutionPrinter{inst: inst, vm: vm})

	status := s.Solve()
	log.Infof("status: %s", status)

	if writer != nil {
		concluded := false
		switch status {
		case sat.StatusInfeasible:
			if err := writer.ConcludeUnsat(); err != nil {
				return err
			}
			concluded = true
		case sat.StatusOptimal:
			if x, ok := s.ObjectiveDomainId(); ok {
				if v, ok := s.BestBound(); ok {
					bound := s.LiteralForPredicate(sat.LessOrEqualPredicate(x, v))
					if err := writer.ConcludeBound(bound); err != nil {
						return err
					}
					concluded = true
				}
			}
		}
		// A plain satisfiable result or a timeout carries no UNSAT/optimal
		// certificate: flush the buffered scaffold nogoods without a
		// conclusion step rather than losing them.
		if !concluded {
			if err := writer.Flush(); err != nil {
				return err
			}
		}
		if err := proof.WriteLiteralNames(litsFile, s, vm.Names); err != nil {
			return err
		}
		if err := writer.Err(); err != nil {
			return err
		}
	}

	if f.reportStats {
		log.Infof("conflicts=%d restarts=%d iterations=%d", s.TotalConflicts, s.TotalRestarts, s.TotalIterations)
	}
	return nil
}

func parseSeconds(s string) (float64, error) {
	var v float64
	if _, err := fmt.Sscanf(s, "%g", &v); err != nil {
		return 0, fmt.Errorf("lcgo: bad timeout_seconds %q: %w", s, err)
	}
	return v, nil
}

func readDZN(path string) (dzn.Env, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return dzn.Parse(f)
}
