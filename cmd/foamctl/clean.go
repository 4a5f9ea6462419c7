// Clean command removes derived cases.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/parafoam/pkg/foam"
)

var flagCleanBaseCase string

var cleanCmd = &cobra.Command{
	Use:   "clean <root>",
	Short: "Remove derived cases under a root",
	Long: `Clean deletes every case directory under the given root except the base
case. Deletion is immediate and unrecoverable.

Example:
  foamctl clean ./work
  foamctl clean --base-case damBreak ./work`,
	Args: cobra.ExactArgs(1),
	RunE: runClean,
}

func init() {
	cleanCmd.Flags().StringVar(&flagCleanBaseCase, "base-case", defaultBaseCase, "base case directory name to keep")
}

func runClean(cmd *cobra.Command, args []string) error {
	base := &foam.BaseCase{Root: args[0], Case: flagCleanBaseCase}
	if err := base.Clean(); err != nil {
		return fmt.Errorf("clean %s: %w", args[0], err)
	}
	return nil
}
