// Package main provides foamctl, the CLI for managing OpenFOAM case
// snapshots, solver runs, and the run journal.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, cancel := signalContext()
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "foamctl:", err)
		os.Exit(exitUserError)
	}
}

// signalContext returns a context that is canceled on SIGINT or SIGTERM, so
// long-running commands like watch and run shut down cleanly.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()
	return ctx, cancel
}
