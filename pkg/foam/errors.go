package foam

import "errors"

// Sentinel errors returned by vector and solver operations. Callers match
// them with errors.Is; the wrapped message carries the offending paths.
var (
	// ErrTimeMismatch means a vector's time label disagrees with the
	// requested start time beyond the configured tolerance.
	ErrTimeMismatch = errors.New("vector time does not match start time")

	// ErrNoFields means a base case declares no fields to operate on.
	ErrNoFields = errors.New("base case declares no fields")

	// ErrShapeMismatch means two field arrays differ in length and cannot
	// be combined elementwise.
	ErrShapeMismatch = errors.New("field arrays differ in length")

	// ErrNoInternalField means a field file has no internalField entry
	// with a bulk value array.
	ErrNoInternalField = errors.New("no internalField array")

	// ErrUniformField means the internalField is uniform and carries no
	// per-cell array to operate on.
	ErrUniformField = errors.New("internalField is uniform")

	// ErrNoTimes means a case directory holds no time snapshots.
	ErrNoTimes = errors.New("case has no time directories")
)
