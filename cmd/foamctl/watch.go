// Watch command follows a case as the solver writes snapshots.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/parafoam/internal/watch"
	"github.com/mesh-intelligence/parafoam/pkg/foam"
)

var watchCmd = &cobra.Command{
	Use:   "watch <case>",
	Short: "Follow snapshots as a case writes them",
	Long: `Watch prints the snapshot labels already present in a case, then follows
the directory and prints new snapshots as the solver writes them.
Interrupt with Ctrl-C.

Example:
  foamctl watch seg-01`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	dir, err := casePath(args[0])
	if err != nil {
		return err
	}

	w, err := watch.New(dir)
	if err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	labels, err := foam.Times(dir)
	if err != nil {
		return fmt.Errorf("list times: %w", err)
	}
	for _, label := range labels {
		fmt.Println(label)
	}

	if err := w.Start(); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	defer w.Stop()

	ctx := cmd.Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case snap, ok := <-w.Snapshots:
			if !ok {
				return nil
			}
			fmt.Println(snap.Label)
		}
	}
}
