// Mesh command generates the base case mesh.
package main

import (
	"github.com/spf13/cobra"
)

var meshCmd = &cobra.Command{
	Use:   "mesh",
	Short: "Generate the base case mesh with blockMesh",
	Long: `Mesh runs OpenFOAM's blockMesh utility inside the base case. This is the
one operation that writes into the base case; run it once before
deriving vectors.

Example:
  foamctl mesh
  foamctl --root ./work mesh`,
	Args: cobra.NoArgs,
	RunE: runMesh,
}

func runMesh(cmd *cobra.Command, args []string) error {
	base, err := baseCase(nil)
	if err != nil {
		return err
	}

	inv, closeJournal, err := newInvoker(base.Root)
	if err != nil {
		return err
	}
	defer closeJournal()

	return inv.BlockMesh(cmd.Context(), base)
}
