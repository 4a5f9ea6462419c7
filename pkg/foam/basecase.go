package foam

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	cp "github.com/otiai10/copy"
)

// BaseCase is the template case from which vectors are derived. Root is the
// directory that holds the base case and every derived case; Case is the
// base case's directory name within it. Fields names the solution fields
// arithmetic operates on, e.g. "p" and "U".
//
// The base case itself is treated as read only by everything here except
// BlockMesh, which writes the mesh under constant/.
type BaseCase struct {
	Root   string
	Case   string
	Fields []string
}

// Path returns the base case directory.
func (b *BaseCase) Path() string {
	return filepath.Join(b.Root, b.Case)
}

// NewVector derives a fresh case from the base case and returns its vector
// at time 0. An empty name picks a random one. If the directory already
// exists it is reused as is, so repeated calls with the same name are cheap
// and idempotent.
func (b *BaseCase) NewVector(name string) (Vector, error) {
	if name == "" {
		name = randomCaseName()
	}
	target := filepath.Join(b.Root, name)
	if _, err := os.Stat(target); err != nil {
		if !os.IsNotExist(err) {
			return Vector{}, fmt.Errorf("stat case %s: %w", target, err)
		}
		if err := cp.Copy(b.Path(), target); err != nil {
			return Vector{}, fmt.Errorf("copy base case to %s: %w", target, err)
		}
	}
	return Vector{Base: b, Case: name, Time: "0"}, nil
}

// randomCaseName returns 32 hex characters from a random uuid.
func randomCaseName() string {
	u := uuid.New()
	return hex.EncodeToString(u[:])
}

// VectorPaths lists the derived case directories under Root, excluding the
// base case itself. Order follows the directory listing.
func (b *BaseCase) VectorPaths() ([]string, error) {
	entries, err := os.ReadDir(b.Root)
	if err != nil {
		return nil, fmt.Errorf("scan root %s: %w", b.Root, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() && e.Name() != b.Case {
			paths = append(paths, filepath.Join(b.Root, e.Name()))
		}
	}
	return paths, nil
}

// Clean deletes every derived case directory under Root. The base case is
// kept. Deletion is immediate and unrecoverable.
func (b *BaseCase) Clean() error {
	paths, err := b.VectorPaths()
	if err != nil {
		return err
	}
	for _, p := range paths {
		if err := os.RemoveAll(p); err != nil {
			return fmt.Errorf("remove vector %s: %w", p, err)
		}
	}
	return nil
}
