// Version command for the foamctl CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/parafoam/pkg/foam"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the foamctl version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("foamctl", foam.Version)
	},
}
