// End-to-end solver tests driving the foam library with stub solvers on
// PATH, the way a campaign driver would.
package integration

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/parafoam/internal/journal"
	"github.com/mesh-intelligence/parafoam/pkg/foam"
)

// newSolverBase builds a base case in a fresh root and installs the stub
// solvers on PATH.
func newSolverBase(t *testing.T, fields map[string][]float64) *foam.BaseCase {
	t.Helper()
	base := &foam.BaseCase{Root: t.TempDir(), Case: "baseCase"}
	for name := range fields {
		base.Fields = append(base.Fields, name)
	}
	writeBaseCase(t, base.Path(), fields)

	stubDir := t.TempDir()
	installStub(t, stubDir, "stubFoam", stubSolver)
	installStub(t, stubDir, "crashFoam", stubFailingSolver)
	t.Setenv("PATH", stubDir+string(os.PathListSeparator)+os.Getenv("PATH"))
	return base
}

// openJournal opens a run journal in its own temp directory.
func openJournal(t *testing.T) *journal.Journal {
	t.Helper()
	j, err := journal.Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}

func TestSolverRoundTrip(t *testing.T) {
	vals := []float64{300, 301, 302, 303}
	base := newSolverBase(t, map[string][]float64{"T": vals})
	j := openJournal(t)

	x, err := base.NewVector("seg0")
	require.NoError(t, err)

	inv := foam.NewInvoker()
	inv.Recorder = j
	y, err := inv.Solve(context.Background(), x, foam.SolveSpec{
		Solver:  "stubFoam",
		Dt:      0.01,
		Start:   0,
		End:     0.5,
		JobName: "seg1",
	})
	require.NoError(t, err)

	assert.Equal(t, "seg1", y.Case)
	assert.Equal(t, "0.5", y.Time)

	// The run happened in the clone; the input vector is untouched.
	snaps, err := x.AllTimes()
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.Equal(t, "0", snaps[0].Time)

	// Field content survived the window unchanged (the stub only copies).
	got := readFieldValues(t, filepath.Join(y.TimeDir(), "T"))
	assert.Equal(t, vals, got)

	// Solver output was captured next to the case.
	out, err := os.ReadFile(filepath.Join(y.Path(), foam.StdoutLog))
	require.NoError(t, err)
	assert.Contains(t, string(out), "Time = 0.5")

	// The journal has the completed run.
	runs, err := j.List(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, foam.RunCompleted, runs[0].Status)
	assert.Equal(t, "stubFoam", runs[0].Solver)
	assert.Equal(t, "seg1", runs[0].Case)
	assert.Empty(t, runs[0].Error)
}

func TestSolverChainsWindows(t *testing.T) {
	base := newSolverBase(t, map[string][]float64{"T": {1, 2, 3}})

	x, err := base.NewVector("")
	require.NoError(t, err)

	inv := foam.NewInvoker()
	y, err := inv.Solve(context.Background(), x, foam.SolveSpec{
		Solver: "stubFoam", Dt: 0.01, Start: 0, End: 0.5,
	})
	require.NoError(t, err)
	require.Equal(t, "0.5", y.Time)

	z, err := inv.Solve(context.Background(), y, foam.SolveSpec{
		Solver: "stubFoam", Dt: 0.01, Start: 0.5, End: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, "1", z.Time)

	// The second clone carries the history it was cloned at plus the new
	// snapshot.
	snaps, err := z.AllTimes()
	require.NoError(t, err)
	var labels []string
	for _, s := range snaps {
		labels = append(labels, s.Time)
	}
	assert.Contains(t, labels, "0.5")
	assert.Contains(t, labels, "1")
}

func TestSolverFailureRecorded(t *testing.T) {
	base := newSolverBase(t, map[string][]float64{"T": {1, 2}})
	j := openJournal(t)

	x, err := base.NewVector("")
	require.NoError(t, err)

	inv := foam.NewInvoker()
	inv.Recorder = j
	_, err = inv.Solve(context.Background(), x, foam.SolveSpec{
		Solver:  "crashFoam",
		Dt:      0.01,
		Start:   0,
		End:     0.5,
		JobName: "doomed",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "crashFoam")

	// The failure landed in the journal with the solver's complaint
	// available in the captured stderr.
	runs, err := j.List(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, foam.RunFailed, runs[0].Status)
	assert.NotEmpty(t, runs[0].Error)

	errLog, err := os.ReadFile(filepath.Join(base.Root, "doomed", foam.StderrLog))
	require.NoError(t, err)
	assert.Contains(t, string(errLog), "floating point exception")
}

func TestSolveStartMismatchHasNoSideEffects(t *testing.T) {
	base := newSolverBase(t, map[string][]float64{"T": {1, 2}})

	x, err := base.NewVector("seg0")
	require.NoError(t, err)

	before, err := base.VectorPaths()
	require.NoError(t, err)

	inv := foam.NewInvoker()
	_, err = inv.Solve(context.Background(), x, foam.SolveSpec{
		Solver: "stubFoam", Dt: 0.01, Start: 0.25, End: 0.5,
	})
	require.ErrorIs(t, err, foam.ErrTimeMismatch)

	// No clone was created and the controlDict is untouched.
	after, err := base.VectorPaths()
	require.NoError(t, err)
	assert.Equal(t, before, after)

	data, err := os.ReadFile(filepath.Join(x.Path(), "system", "controlDict"))
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "endTime         0.5;"),
		"controlDict should keep its original entries")
}

func TestSolverRunsAreListedNewestFirst(t *testing.T) {
	base := newSolverBase(t, map[string][]float64{"T": {1}})
	j := openJournal(t)

	inv := foam.NewInvoker()
	inv.Recorder = j

	x, err := base.NewVector("")
	require.NoError(t, err)
	for _, end := range []float64{0.1, 0.2} {
		x, err = inv.Solve(context.Background(), x, foam.SolveSpec{
			Solver: "stubFoam", Dt: 0.01, Start: end - 0.1, End: end,
		})
		require.NoError(t, err)
	}

	runs, err := j.List(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, 0.2, runs[0].End)
}

func TestSolverRespectsContextCancellation(t *testing.T) {
	base := newSolverBase(t, map[string][]float64{"T": {1}})

	x, err := base.NewVector("")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	inv := foam.NewInvoker()
	_, err = inv.Solve(ctx, x, foam.SolveSpec{
		Solver: "stubFoam", Dt: 0.01, Start: 0, End: 0.5,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled) ||
		strings.Contains(err.Error(), "context canceled") ||
		strings.Contains(err.Error(), "signal: killed"),
		"expected a cancellation error, got %v", err)
}
