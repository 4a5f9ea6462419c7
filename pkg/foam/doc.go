// Package foam manages OpenFOAM case directories as state vectors for
// time-parallel integration schemes.
//
// A BaseCase is a pristine template holding the mesh, the boundary setup and
// the initial conditions. A Vector names one snapshot of a derived case: the
// case directory plus a time label. Vectors are cheap value types; every
// mutating operation clones the snapshot into a fresh case directory first,
// so concurrent solver runs never share mutable state on disk.
//
// Time labels are kept as the literal directory names the solver wrote.
// OpenFOAM formats time directories with unpadded, solver-dependent float
// notation, so labels round-trip as strings and sort by numeric value.
package foam

// Version is the parafoam release version.
const Version = "0.1.0"
