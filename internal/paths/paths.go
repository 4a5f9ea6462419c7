// Package paths resolves the case root and journal locations.
package paths

import (
	"os"
	"path/filepath"
)

// DefaultJournalName is the journal database location relative to the case
// root when nothing overrides it.
const DefaultJournalName = ".parafoam/runs.db"

// Environment variable names for location overrides.
const (
	EnvRoot    = "PARAFOAM_ROOT"
	EnvJournal = "PARAFOAM_JOURNAL"
)

// ResolveRoot returns the case root directory following the precedence
// chain: flag > config value > PARAFOAM_ROOT env > current directory.
//
// The CWD default keeps the common workflow of running inside the campaign
// directory override-free.
func ResolveRoot(flag, configValue string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if configValue != "" {
		return filepath.Abs(configValue)
	}
	if env := os.Getenv(EnvRoot); env != "" {
		return filepath.Abs(env)
	}
	return os.Getwd()
}

// ResolveJournal returns the journal database path following the precedence
// chain: flag > config value > PARAFOAM_JOURNAL env > root/.parafoam/runs.db.
func ResolveJournal(flag, configValue, root string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if configValue != "" {
		return filepath.Abs(configValue)
	}
	if env := os.Getenv(EnvJournal); env != "" {
		return filepath.Abs(env)
	}
	return filepath.Join(root, DefaultJournalName), nil
}
