// Shared helpers for foamctl commands.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mesh-intelligence/parafoam/internal/journal"
	"github.com/mesh-intelligence/parafoam/internal/paths"
	"github.com/mesh-intelligence/parafoam/pkg/foam"
)

// resolveRoot returns the case root directory following the precedence
// chain: --root flag > config file > PARAFOAM_ROOT env > CWD.
func resolveRoot() (string, error) {
	return paths.ResolveRoot(flagRoot, cfg.GetString(cfgKeyRoot))
}

// resolveJournal returns the run journal path following the precedence
// chain: --journal flag > config file > PARAFOAM_JOURNAL env > default
// under the root.
func resolveJournal(root string) (string, error) {
	return paths.ResolveJournal(flagJournal, cfg.GetString(cfgKeyJournal), root)
}

// baseCase builds the BaseCase at the resolved root. fields names the field
// files vector arithmetic operates on; commands that only run solvers or
// utilities may pass nil.
func baseCase(fields []string) (*foam.BaseCase, error) {
	root, err := resolveRoot()
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}
	return &foam.BaseCase{
		Root:   root,
		Case:   cfg.GetString(cfgKeyBaseCase),
		Fields: fields,
	}, nil
}

// newInvoker wires an Invoker with process execution, logging, and the run
// journal. The caller must invoke the returned closer to release the
// journal database.
func newInvoker(root string) (*foam.Invoker, func() error, error) {
	journalPath, err := resolveJournal(root)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve journal: %w", err)
	}
	j, err := journal.Open(journalPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open journal: %w", err)
	}

	inv := foam.NewInvoker()
	inv.Runner = &foam.ExecRunner{Log: logger}
	inv.Log = logger
	inv.Epsilon = cfg.GetFloat64(cfgKeyEpsilon)
	inv.WriteRetries = cfg.GetInt(cfgKeyWriteRetries)
	inv.Recorder = j
	return inv, j.Close, nil
}

// casePath resolves a case argument: an existing directory is used as
// given, anything else is taken relative to the case root.
func casePath(arg string) (string, error) {
	if info, err := os.Stat(arg); err == nil && info.IsDir() {
		return filepath.Abs(arg)
	}
	root, err := resolveRoot()
	if err != nil {
		return "", fmt.Errorf("resolve root: %w", err)
	}
	return filepath.Join(root, arg), nil
}
