// Root command for the foamctl CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/parafoam/pkg/foam"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// Global flag values.
var (
	flagConfig  string
	flagRoot    string
	flagJournal string
	flagVerbose bool
)

// cfg holds the values loaded from the config file. Set by
// PersistentPreRunE so all subcommands can read it.
var cfg *viper.Viper

// logger is shared by subcommands; --verbose switches it from a no-op
// logger to zap's development logger.
var logger *zap.Logger

var rootCmd = &cobra.Command{
	Use:   "foamctl",
	Short: "foamctl manages OpenFOAM case snapshots and solver runs",
	Long: `foamctl treats an OpenFOAM case snapshot as a vector: a case directory
plus the time label of one of its time directories. Vectors are derived
from a base case, advanced by solvers, and listed, watched, and cleaned
up from here.`,
	Version:       foam.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		v, err := loadConfig(flagConfig)
		if err != nil {
			return err
		}
		cfg = v

		logger = zap.NewNop()
		if flagVerbose {
			l, err := zap.NewDevelopment()
			if err != nil {
				return fmt.Errorf("build logger: %w", err)
			}
			logger = l
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default: ./.parafoam.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagRoot, "root", "", "case root directory (default: $PARAFOAM_ROOT or CWD)")
	rootCmd.PersistentFlags().StringVar(&flagJournal, "journal", "", "run journal database (default: <root>/.parafoam/runs.db)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(timesCmd)
	rootCmd.AddCommand(meshCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(cleanCmd)
}
