// Runs command lists recorded solver invocations.
package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/parafoam/internal/journal"
)

var flagRunsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded solver runs",
	Long: `Runs prints the most recent solver invocations from the run journal,
newest first.

Example:
  foamctl runs
  foamctl runs --limit 5`,
	Args: cobra.NoArgs,
	RunE: runRuns,
}

func init() {
	runsCmd.Flags().IntVar(&flagRunsLimit, "limit", 20, "maximum runs to list (0 lists all)")
}

func runRuns(cmd *cobra.Command, args []string) error {
	root, err := resolveRoot()
	if err != nil {
		return fmt.Errorf("resolve root: %w", err)
	}
	journalPath, err := resolveJournal(root)
	if err != nil {
		return fmt.Errorf("resolve journal: %w", err)
	}

	j, err := journal.Open(journalPath)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer j.Close()

	runs, err := j.List(cmd.Context(), flagRunsLimit)
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}

	for _, r := range runs {
		fmt.Printf("%s  %-9s  %-12s  %g -> %g  %s\n",
			r.Began.Local().Format(time.DateTime), r.Status, r.Solver,
			r.Start, r.End, r.Case)
		if r.Error != "" {
			fmt.Printf("%21s%s\n", "", r.Error)
		}
	}
	return nil
}
