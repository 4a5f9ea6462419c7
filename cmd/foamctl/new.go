// New command derives a fresh case from the base case.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var flagNewFields []string

var newCmd = &cobra.Command{
	Use:   "new [name]",
	Short: "Derive a case from the base case",
	Long: `New copies the base case into a fresh case directory under the root and
prints the new vector. With no argument the case gets a random name. If
the directory already exists it is reused as is.

Example:
  foamctl new
  foamctl new seg-01`,
	Args: cobra.MaximumNArgs(1),
	RunE: runNew,
}

func init() {
	newCmd.Flags().StringSliceVar(&flagNewFields, "fields", nil, "field files vector arithmetic operates on, e.g. T,U")
}

func runNew(cmd *cobra.Command, args []string) error {
	base, err := baseCase(flagNewFields)
	if err != nil {
		return err
	}

	name := ""
	if len(args) == 1 {
		name = args[0]
	}
	v, err := base.NewVector(name)
	if err != nil {
		return err
	}

	fmt.Println(v)
	return nil
}
