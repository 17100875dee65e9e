package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rhartert/lcgo/internal/config"
	"github.com/rhartert/lcgo/internal/proof"
)

type verifyFlags struct {
	configPath string
}

// newVerifyCmd implements `verify <instance.dzn> <proof.drcp>` (spec.md
// §6): replays a full proof through the checker (C15) against the instance
// it was produced from, reading the companion <proof.drcp>.lits file for
// literal-code definitions.
func newVerifyCmd() *cobra.Command {
	var f verifyFlags
	cmd := &cobra.Command{
		Use:   "verify <instance.dzn> <proof.drcp>",
		Short: "verify a full proof against its instance",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(args, &f)
		},
	}
	cmd.Flags().StringVar(&f.configPath, "config", "", "optional solver.toml tuning file (must match the file used to solve)")
	return cmd
}

func runVerify(args []string, f *verifyFlags) error {
	instPath, proofPath := args[0], args[1]

	env, err := readDZN(instPath)
	if err != nil {
		return err
	}
	inst, err := BuildInstance(env)
	if err != nil {
		return err
	}

	cfg, err := config.Load(f.configPath)
	if err != nil {
		return err
	}
	opts, err := cfg.ModelOptions()
	if err != nil {
		return err
	}

	proofFile, err := os.Open(proofPath)
	if err != nil {
		return err
	}
	defer proofFile.Close()
	full, err := proof.ParseFullProof(proofFile)
	if err != nil {
		return fmt.Errorf("lcgo: failed to parse proof: %w", err)
	}

	litsFile, err := os.Open(proofPath + ".lits")
	if err != nil {
		return fmt.Errorf("lcgo: failed to open literal definitions %q: %w", proofPath+".lits", err)
	}
	defer litsFile.Close()

	_, vm, err := inst.Model.IntoSolver(opts)
	if err != nil {
		return fmt.Errorf("lcgo: failed to lower instance: %w", err)
	}
	litDefs, err := proof.ParseLiteralNames(litsFile, vm)
	if err != nil {
		return err
	}

	checker, err := proof.NewChecker(inst.Model, opts, litDefs)
	if err != nil {
		return err
	}
	if err := checker.CheckAll(full); err != nil {
		return fmt.Errorf("proof rejected: %w", err)
	}

	log.Info("proof accepted")
	return nil
}
