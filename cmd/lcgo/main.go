// Command lcgo is the CLI surface over the solving engine (spec.md §6):
// solve an instance, turn a raw proof scaffold into a full proof, or verify
// a full proof against the instance that produced it.
package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "lcgo",
		Short: "lcgo is a lazy clause generation constraint solver",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if debug, _ := cmd.Flags().GetBool("debug"); debug {
				log.SetLevel(log.DebugLevel)
			}
			return nil
		},
	}
	root.PersistentFlags().Bool("debug", false, "enable debug logging")

	root.AddCommand(newSolveCmd())
	root.AddCommand(newProcessingCmd())
	root.AddCommand(newVerifyCmd())

	if err := root.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
