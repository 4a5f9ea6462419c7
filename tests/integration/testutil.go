// Package integration provides end-to-end tests that drive the foamctl
// binary and the foam library against stub OpenFOAM solvers.
package integration

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/mesh-intelligence/parafoam/internal/foamdict"
)

var (
	// foamctlBin is the path to the built foamctl binary.
	foamctlBin string
	// buildErr captures any build error.
	buildErr error
)

// BuildError wraps a build error with output.
type BuildError struct {
	Err    error
	Output string
}

func (e *BuildError) Error() string {
	return e.Err.Error() + ": " + e.Output
}

// FindProjectRoot finds the project root by walking up and looking for go.mod.
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		goModPath := filepath.Join(dir, "go.mod")
		if _, err := os.Stat(goModPath); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", os.ErrNotExist
		}
		dir = parent
	}
}

// SetFoamctlBin sets the path to the foamctl binary (called from TestMain).
func SetFoamctlBin(path string) {
	foamctlBin = path
}

// SetBuildErr sets the build error (called from TestMain).
func SetBuildErr(err error) {
	buildErr = err
}

// TestEnv provides an isolated case root with a base case and a directory
// for stub solver binaries.
type TestEnv struct {
	t       *testing.T
	Root    string // case root holding baseCase and derived cases
	StubDir string // prepended to PATH so stub solvers resolve
}

// NewTestEnv creates an isolated test environment with a minimal base case.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	if buildErr != nil {
		t.Fatalf("failed to build foamctl: %v", buildErr)
	}
	if foamctlBin == "" {
		t.Fatal("foamctl binary not built (foamctlBin is empty)")
	}

	tempDir := t.TempDir()
	root := filepath.Join(tempDir, "root")
	stubDir := filepath.Join(tempDir, "stubs")
	for _, dir := range []string{root, stubDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("failed to create %s: %v", dir, err)
		}
	}

	env := &TestEnv{t: t, Root: root, StubDir: stubDir}
	writeBaseCase(t, filepath.Join(root, "baseCase"), map[string][]float64{
		"T": {300, 301, 302, 303},
	})
	return env
}

// cleanEnv returns os.Environ() with all PARAFOAM_* variables removed and
// the stub directory prepended to PATH.
func (e *TestEnv) cleanEnv() []string {
	var env []string
	for _, kv := range os.Environ() {
		if strings.HasPrefix(kv, "PARAFOAM_") {
			continue
		}
		if strings.HasPrefix(kv, "PATH=") {
			kv = "PATH=" + e.StubDir + string(os.PathListSeparator) + strings.TrimPrefix(kv, "PATH=")
		}
		env = append(env, kv)
	}
	return env
}

// CmdResult holds the result of a foamctl command execution.
type CmdResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// RunFoamctl executes the foamctl CLI with the given arguments, rooted at
// the environment's case root. Returns stdout, stderr, and exit code.
func (e *TestEnv) RunFoamctl(args ...string) CmdResult {
	e.t.Helper()

	allArgs := append([]string{"--root", e.Root}, args...)
	cmd := exec.Command(foamctlBin, allArgs...)
	cmd.Dir = e.Root
	cmd.Env = e.cleanEnv()

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	exitCode := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			e.t.Fatalf("failed to run foamctl: %v", err)
		}
	}

	return CmdResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: exitCode,
	}
}

// MustRunFoamctl executes the foamctl CLI and fails the test on a non-zero
// exit code.
func (e *TestEnv) MustRunFoamctl(args ...string) CmdResult {
	e.t.Helper()
	result := e.RunFoamctl(args...)
	if result.ExitCode != 0 {
		e.t.Fatalf("foamctl %s: exit %d\nstdout: %s\nstderr: %s",
			strings.Join(args, " "), result.ExitCode, result.Stdout, result.Stderr)
	}
	return result
}

// --- case fixtures ---

const baseControlDict = `FoamFile
{
    version     2.0;
    format      ascii;
    class       dictionary;
    location    "system";
    object      controlDict;
}

application     icoFoam;

startFrom       startTime;

startTime       0;

stopAt          endTime;

endTime         0.5;

deltaT          0.005;

writeControl    timeStep;

writeInterval   20;
`

const baseSetFieldsDict = `FoamFile
{
    version     2.0;
    format      ascii;
    class       dictionary;
    object      setFieldsDict;
}

defaultFieldValues
(
    volScalarFieldValue T 273
);

regions
(
);
`

// stubSolver copies the startTime snapshot to the endTime label, the way a
// real solver would leave its final write. It reads both values from the
// patched controlDict.
const stubSolver = `#!/bin/sh
set -e
start=$(awk '$1 == "startTime" { gsub(/;/, ""); print $2 }' system/controlDict)
end=$(awk '$1 == "endTime" { gsub(/;/, ""); print $2 }' system/controlDict)
cp -R "$start" "$end"
echo "Time = $end"
`

// stubFailingSolver exits the way OpenFOAM does on a numerical blow-up.
const stubFailingSolver = `#!/bin/sh
echo "Foam::error: floating point exception" >&2
exit 3
`

// scalarFieldText renders a minimal ascii volScalarField file.
func scalarFieldText(name string, vals []float64) string {
	var b strings.Builder
	b.WriteString("FoamFile\n{\n    version     2.0;\n    format      ascii;\n")
	b.WriteString("    class       volScalarField;\n    object      " + name + ";\n}\n\n")
	b.WriteString("dimensions      [0 0 0 0 0 0 0];\n\n")
	b.WriteString("internalField   nonuniform List<scalar>\n")
	b.WriteString(strconv.Itoa(len(vals)) + "\n(\n")
	for _, v := range vals {
		b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		b.WriteByte('\n')
	}
	b.WriteString(")\n;\n\nboundaryField\n{\n    walls\n    {\n        type            zeroGradient;\n    }\n}\n")
	return b.String()
}

// writeBaseCase builds a case directory with ascii scalar fields at time 0
// and standard system dictionaries.
func writeBaseCase(t *testing.T, dir string, fields map[string][]float64) {
	t.Helper()
	for _, sub := range []string{"0", "system", "constant"} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", sub, err)
		}
	}
	for name, vals := range fields {
		mustWriteFile(t, filepath.Join(dir, "0", name), scalarFieldText(name, vals))
	}
	mustWriteFile(t, filepath.Join(dir, "system", "controlDict"), baseControlDict)
	mustWriteFile(t, filepath.Join(dir, "system", "setFieldsDict"), baseSetFieldsDict)
}

// installStub writes an executable shell script into dir.
func installStub(t *testing.T, dir, name, script string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub %s: %v", name, err)
	}
}

func mustWriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// readFieldValues parses a field file and returns its internalField values.
func readFieldValues(t *testing.T, path string) []float64 {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	f, err := foamdict.Parse(path, data)
	if err != nil {
		t.Fatalf("parse %s: %v", path, err)
	}
	e := f.Entry("internalField")
	if e == nil || e.Array == nil {
		t.Fatalf("%s: no internalField array", path)
	}
	vals, err := f.DecodeValues(e.Array)
	if err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	return vals
}
