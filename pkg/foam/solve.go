package foam

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/parafoam/internal/foamdict"
)

// Defaults applied by NewInvoker; override the Invoker fields to change them.
const (
	// DefaultEpsilon is the tolerance when matching a vector's time label
	// against a requested start time.
	DefaultEpsilon = 1e-6

	// DefaultWriteRetries bounds the attempts at updating controlDict.
	DefaultWriteRetries = 5

	// DefaultWriteControl makes writeInterval a simulation-time span.
	DefaultWriteControl = "runTime"
)

// Capture file names for solver output within a case directory.
const (
	StdoutLog = "log.stdout"
	StderrLog = "log.stderr"
)

// Run status values passed to the recorder.
const (
	RunCompleted = "completed"
	RunFailed    = "failed"
)

// SolveSpec describes one solver window.
type SolveSpec struct {
	Solver        string  // solver binary, e.g. "icoFoam"
	Dt            float64 // time step, must be positive
	Start         float64 // window start; must match the vector's time
	End           float64 // window end
	WriteInterval float64 // snapshot spacing; 0 means the whole window
	JobName       string  // working case name; empty picks a random one
	WriteControl  string  // controlDict writeControl; empty means runTime
}

// Validate checks that s describes a runnable window.
func (s SolveSpec) Validate() error {
	if s.Solver == "" {
		return errors.New("solver name must not be empty")
	}
	if s.Dt <= 0 {
		return fmt.Errorf("deltaT must be positive, got %g", s.Dt)
	}
	return nil
}

// RunRecord summarizes one solver invocation for the journal.
type RunRecord struct {
	Case     string
	Solver   string
	Status   string
	Start    float64
	End      float64
	Dt       float64
	Began    time.Time
	Duration time.Duration
	LogDir   string
	Error    string
}

// RunRecorder persists run records. Recording is advisory: failures are
// logged by the invoker and never fail the run itself.
type RunRecorder interface {
	RecordRun(ctx context.Context, rec RunRecord) error
}

// Invoker drives OpenFOAM solvers and utilities over vectors. The zero value
// works with built-in defaults; NewInvoker spells those defaults out.
type Invoker struct {
	Runner       Runner
	Log          *zap.Logger
	Epsilon      float64
	WriteRetries int
	Recorder     RunRecorder // optional run journal
}

// NewInvoker returns an invoker with the default runner, tolerance and retry
// budget.
func NewInvoker() *Invoker {
	return &Invoker{
		Runner:       &ExecRunner{},
		Log:          zap.NewNop(),
		Epsilon:      DefaultEpsilon,
		WriteRetries: DefaultWriteRetries,
	}
}

func (inv *Invoker) epsilon() float64 {
	if inv.Epsilon > 0 {
		return inv.Epsilon
	}
	return DefaultEpsilon
}

func (inv *Invoker) retries() int {
	if inv.WriteRetries > 0 {
		return inv.WriteRetries
	}
	return DefaultWriteRetries
}

func (inv *Invoker) runner() Runner {
	if inv.Runner != nil {
		return inv.Runner
	}
	return &ExecRunner{Log: inv.Log}
}

func (inv *Invoker) log() *zap.Logger {
	if inv.Log != nil {
		return inv.Log
	}
	return zap.NewNop()
}

// Solve advances x across the window described by spec and returns the
// resulting vector. The input vector is never touched: the run happens in a
// clone whose controlDict is patched for the window, and the result is the
// clone's newest snapshot. x must already sit at spec.Start, within the
// invoker's tolerance; that is checked before anything lands on disk.
func (inv *Invoker) Solve(ctx context.Context, x Vector, spec SolveSpec) (Vector, error) {
	if err := spec.Validate(); err != nil {
		return Vector{}, err
	}
	t, ok := ParseTime(x.Time)
	if !ok {
		return Vector{}, fmt.Errorf("vector %s: time label %q is not numeric", x, x.Time)
	}
	if math.Abs(t-spec.Start) > inv.epsilon() {
		return Vector{}, fmt.Errorf("vector %s: %w: have %s, want %g",
			x, ErrTimeMismatch, x.Time, spec.Start)
	}

	y, err := x.Clone(spec.JobName)
	if err != nil {
		return Vector{}, err
	}

	interval := spec.WriteInterval
	if interval == 0 {
		interval = spec.End - spec.Start
	}
	control := spec.WriteControl
	if control == "" {
		control = DefaultWriteControl
	}
	err = inv.writeControlDict(filepath.Join(y.Path(), "system", "controlDict"), []foamdict.Set{
		{Keyword: "startFrom", Value: "latestTime"},
		{Keyword: "startTime", Value: foamdict.Float(spec.Start)},
		{Keyword: "endTime", Value: foamdict.Float(spec.End)},
		{Keyword: "deltaT", Value: foamdict.Float(spec.Dt)},
		{Keyword: "writeControl", Value: control},
		{Keyword: "writeInterval", Value: foamdict.Float(interval)},
	})
	if err != nil {
		return Vector{}, err
	}

	began := time.Now()
	runErr := inv.runner().Run(ctx, ProcessSpec{
		Command:    spec.Solver,
		Dir:        y.Path(),
		StdoutPath: filepath.Join(y.Path(), StdoutLog),
		StderrPath: filepath.Join(y.Path(), StderrLog),
	})
	if runErr != nil {
		inv.record(ctx, y, spec, RunFailed, began, runErr)
		return Vector{}, fmt.Errorf("solver %s on %s: %w", spec.Solver, y.Case, runErr)
	}

	label, err := LatestTime(y.Path())
	if err != nil {
		inv.record(ctx, y, spec, RunFailed, began, err)
		return Vector{}, err
	}
	result := Vector{Base: y.Base, Case: y.Case, Time: label}
	inv.record(ctx, y, spec, RunCompleted, began, nil)
	inv.log().Info("solver run finished",
		zap.String("solver", spec.Solver),
		zap.String("case", y.Case),
		zap.String("time", result.Time))
	return result, nil
}

func (inv *Invoker) record(ctx context.Context, y Vector, spec SolveSpec, status string, began time.Time, runErr error) {
	if inv.Recorder == nil {
		return
	}
	rec := RunRecord{
		Case:     y.Case,
		Solver:   spec.Solver,
		Status:   status,
		Start:    spec.Start,
		End:      spec.End,
		Dt:       spec.Dt,
		Began:    began,
		Duration: time.Since(began),
		LogDir:   y.Path(),
	}
	if runErr != nil {
		rec.Error = runErr.Error()
	}
	if err := inv.Recorder.RecordRun(ctx, rec); err != nil {
		inv.log().Warn("recording run failed", zap.Error(err))
	}
}

// writeControlDict patches run-control entries with a bounded retry. Shared
// filesystems occasionally fail these small writes mid-campaign, so each
// failed attempt restores the original content before trying again; only an
// exhausted budget is fatal.
func (inv *Invoker) writeControlDict(path string, sets []foamdict.Set) error {
	backup, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read controlDict: %w", err)
	}
	var lastErr error
	for attempt := 1; attempt <= inv.retries(); attempt++ {
		inv.log().Debug("writing controlDict",
			zap.String("path", path), zap.Int("attempt", attempt))
		lastErr = patchFile(path, sets)
		if lastErr == nil {
			return nil
		}
		inv.log().Warn("controlDict write failed",
			zap.Int("attempt", attempt), zap.Error(lastErr))
		if rerr := os.WriteFile(path, backup, 0o644); rerr != nil {
			inv.log().Warn("restoring controlDict backup failed", zap.Error(rerr))
		}
	}
	return fmt.Errorf("write controlDict after %d attempts: %w", inv.retries(), lastErr)
}

// patchFile applies entry replacements to one dictionary file.
func patchFile(path string, sets []foamdict.Set) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	out, err := foamdict.Patch(path, data, sets)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
