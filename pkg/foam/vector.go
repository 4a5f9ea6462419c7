package foam

import (
	"fmt"
	"os"
	"path/filepath"

	cp "github.com/otiai10/copy"
)

// Vector identifies one snapshot of a case: the case directory plus the time
// label of the snapshot within it. The zero value is not usable; vectors
// come from a BaseCase or from operations on other vectors.
type Vector struct {
	Base *BaseCase
	Case string
	Time string
}

// Path returns the case directory of the vector.
func (v Vector) Path() string {
	return filepath.Join(v.Base.Root, v.Case)
}

// TimeDir returns the snapshot directory, e.g. <root>/<case>/0.3.
func (v Vector) TimeDir() string {
	return filepath.Join(v.Path(), v.Time)
}

// Fields returns the field names declared by the base case.
func (v Vector) Fields() []string {
	return v.Base.Fields
}

func (v Vector) String() string {
	return v.Case + "@" + v.Time
}

// AllTimes returns one vector per snapshot of this case, in ascending time
// order.
func (v Vector) AllTimes() ([]Vector, error) {
	labels, err := Times(v.Path())
	if err != nil {
		return nil, err
	}
	vs := make([]Vector, len(labels))
	for i, t := range labels {
		vs[i] = Vector{Base: v.Base, Case: v.Case, Time: t}
	}
	return vs, nil
}

// Clone copies this snapshot into a derived case directory and returns the
// clone's vector at the same time label. An empty name picks a random one.
// Any snapshot already present at that label in the target is replaced, so
// the clone starts from exactly this vector's state.
func (v Vector) Clone(name string) (Vector, error) {
	x, err := v.Base.NewVector(name)
	if err != nil {
		return Vector{}, err
	}
	x.Time = v.Time
	if err := os.RemoveAll(x.TimeDir()); err != nil {
		return Vector{}, fmt.Errorf("clear snapshot %s: %w", x.TimeDir(), err)
	}
	if err := cp.Copy(v.TimeDir(), x.TimeDir()); err != nil {
		return Vector{}, fmt.Errorf("copy snapshot %s: %w", v.TimeDir(), err)
	}
	return x, nil
}
