package main

import (
	"fmt"
	"os"
	"sort"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rhartert/lcgo/internal/config"
	"github.com/rhartert/lcgo/internal/proof"
)

type processingFlags struct {
	configPath string
}

// newProcessingCmd implements `processing <instance.dzn> <scaffold.drcp>
// <output.drcp>` (spec.md §6): runs the C14 processor's trim and
// introduce-inferences passes over a raw scaffold, producing a full,
// independently checkable proof.
func newProcessingCmd() *cobra.Command {
	var f processingFlags
	cmd := &cobra.Command{
		Use:   "processing <instance.dzn> <scaffold.drcp> <output.drcp>",
		Short: "turn a proof scaffold into a full proof",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProcessing(args, &f)
		},
	}
	cmd.Flags().StringVar(&f.configPath, "config", "", "optional solver.toml tuning file (must match the file used to solve)")
	return cmd
}

func runProcessing(args []string, f *processingFlags) error {
	instPath, scaffoldPath, outPath := args[0], args[1], args[2]

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

	scaffoldFile, err := os.Open(scaffoldPath)
	if err != nil {
		return err
	}
	defer scaffoldFile.Close()
	scaffold, err := proof.ParseScaffold(scaffoldFile)
	if err != nil {
		return fmt.Errorf("lcgo: failed to parse scaffold: %w", err)
	}

	full, err := proof.NewProcessor(inst.Model, opts).Process(scaffold)
	if err != nil {
		return fmt.Errorf("lcgo: processing failed: %w", err)
	}

	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer out.Close()
	if err := writeFullProof(out, full); err != nil {
		return err
	}

	log.Infof("processed %d nogoods into %d inference steps", len(full.Nogoods), len(full.Inferences))
	return nil
}

func writeFullProof(out *os.File, full proof.FullProof) error {
	type step struct {
		id int
		ng *proof.NogoodStep
		in *proof.InferenceStep
	}
	steps := make([]step, 0, len(full.Inferences)+len(full.Nogoods))
	for i := range full.Inferences {
		steps = append(steps, step{id: full.Inferences[i].ID, in: &full.Inferences[i]})
	}
	for i := range full.Nogoods {
		steps = append(steps, step{id: full.Nogoods[i].ID, ng: &full.Nogoods[i]})
	}
	sort.Slice(steps, func(i, j int) bool { return steps[i].id < steps[j].id })
	for _, st := range steps {
		var err error
		switch {
		case st.in != nil:
			err = proof.WriteInference(out, *st.in)
		case st.ng != nil:
			err = proof.WriteNogood(out, *st.ng)
		}
		if err != nil {
			return err
		}
	}
	return proof.WriteConclusion(out, full.Conclusion)
}
