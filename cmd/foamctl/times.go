// Times command lists the snapshots of a case.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/parafoam/pkg/foam"
)

var timesCmd = &cobra.Command{
	Use:   "times <case>",
	Short: "List snapshot times of a case",
	Long: `Times prints the snapshot time labels of a case in ascending numeric
order, one per line. The case may be a path or a name under the root.

Example:
  foamctl times baseCase
  foamctl times ./work/seg-01`,
	Args: cobra.ExactArgs(1),
	RunE: runTimes,
}

func runTimes(cmd *cobra.Command, args []string) error {
	dir, err := casePath(args[0])
	if err != nil {
		return err
	}

	labels, err := foam.Times(dir)
	if err != nil {
		return fmt.Errorf("list times: %w", err)
	}
	for _, label := range labels {
		fmt.Println(label)
	}
	return nil
}
