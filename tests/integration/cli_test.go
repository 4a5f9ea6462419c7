// CLI integration tests for foamctl. Each scenario drives the built binary
// against an isolated case root.
package integration

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMain builds the foamctl binary once before running tests.
func TestMain(m *testing.M) {
	projectRoot, err := FindProjectRoot()
	if err != nil {
		SetBuildErr(err)
		os.Exit(1)
	}

	tmpDir, err := os.MkdirTemp("", "foamctl-test-*")
	if err != nil {
		SetBuildErr(err)
		os.Exit(1)
	}
	binPath := filepath.Join(tmpDir, "foamctl")
	SetFoamctlBin(binPath)

	cmd := exec.Command("go", "build", "-o", binPath, "./cmd/foamctl")
	cmd.Dir = projectRoot
	if output, err := cmd.CombinedOutput(); err != nil {
		SetBuildErr(&BuildError{Err: err, Output: string(output)})
		os.Exit(1)
	}

	code := m.Run()

	os.RemoveAll(tmpDir)

	os.Exit(code)
}

func TestCLIVersion(t *testing.T) {
	env := NewTestEnv(t)

	result := env.MustRunFoamctl("version")
	assert.True(t, strings.HasPrefix(result.Stdout, "foamctl "),
		"unexpected version output: %q", result.Stdout)
}

func TestCLINewAndTimes(t *testing.T) {
	env := NewTestEnv(t)

	result := env.MustRunFoamctl("new", "seg-01")
	assert.Equal(t, "seg-01@0\n", result.Stdout)

	_, err := os.Stat(filepath.Join(env.Root, "seg-01", "0", "T"))
	require.NoError(t, err, "derived case should carry the time 0 snapshot")

	result = env.MustRunFoamctl("times", "seg-01")
	assert.Equal(t, "0\n", result.Stdout)
}

func TestCLITimesSortsNumerically(t *testing.T) {
	env := NewTestEnv(t)
	env.MustRunFoamctl("new", "seg-01")

	// 0.9 must come before 10 even though it sorts after lexically.
	for _, label := range []string{"10", "0.9", "2"} {
		require.NoError(t, os.MkdirAll(filepath.Join(env.Root, "seg-01", label), 0o755))
	}

	result := env.MustRunFoamctl("times", "seg-01")
	assert.Equal(t, "0\n0.9\n2\n10\n", result.Stdout)
}

func TestCLIRunAdvancesWindow(t *testing.T) {
	env := NewTestEnv(t)
	installStub(t, env.StubDir, "stubFoam", stubSolver)

	manifest := filepath.Join(env.Root, "solve.yaml")
	mustWriteFile(t, manifest, "solver: stubFoam\nfields: [T]\ndt: 0.01\nstart: 0\nend: 0.5\n")

	result := env.MustRunFoamctl("run", "--job", "seg-01", manifest)
	assert.Equal(t, "seg-01@0.5\n", result.Stdout)

	// The run landed in the journal under the root's default location.
	result = env.MustRunFoamctl("runs")
	assert.Contains(t, result.Stdout, "completed")
	assert.Contains(t, result.Stdout, "stubFoam")
	assert.Contains(t, result.Stdout, "seg-01")
}

func TestCLIRunReportsSolverFailure(t *testing.T) {
	env := NewTestEnv(t)
	installStub(t, env.StubDir, "crashFoam", stubFailingSolver)

	manifest := filepath.Join(env.Root, "solve.yaml")
	mustWriteFile(t, manifest, "solver: crashFoam\nfields: [T]\ndt: 0.01\nstart: 0\nend: 0.5\n")

	result := env.RunFoamctl("run", manifest)
	assert.Equal(t, 1, result.ExitCode)
	assert.Contains(t, result.Stderr, "crashFoam")

	result = env.MustRunFoamctl("runs")
	assert.Contains(t, result.Stdout, "failed")
}

func TestCLIRunRejectsBadManifest(t *testing.T) {
	env := NewTestEnv(t)

	manifest := filepath.Join(env.Root, "solve.yaml")
	mustWriteFile(t, manifest, "solver: stubFoam\ndt: 0\nstart: 0\nend: 0.5\n")

	result := env.RunFoamctl("run", manifest)
	assert.Equal(t, 1, result.ExitCode)
	assert.Contains(t, result.Stderr, "dt")

	result = env.RunFoamctl("run", filepath.Join(env.Root, "missing.yaml"))
	assert.Equal(t, 1, result.ExitCode)
}

func TestCLICleanKeepsBaseCase(t *testing.T) {
	env := NewTestEnv(t)
	env.MustRunFoamctl("new", "seg-01")
	env.MustRunFoamctl("new", "seg-02")

	env.MustRunFoamctl("clean", env.Root)

	entries, err := os.ReadDir(env.Root)
	require.NoError(t, err)
	var dirs []string
	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, e.Name())
		}
	}
	assert.Equal(t, []string{"baseCase"}, dirs)
}

func TestCLICleanHonorsBaseCaseFlag(t *testing.T) {
	env := NewTestEnv(t)
	writeBaseCase(t, filepath.Join(env.Root, "damBreak"), map[string][]float64{"T": {1}})
	env.MustRunFoamctl("new", "seg-01")

	env.MustRunFoamctl("clean", "--base-case", "damBreak", env.Root)

	_, err := os.Stat(filepath.Join(env.Root, "damBreak"))
	assert.NoError(t, err, "named base case should survive")
	_, err = os.Stat(filepath.Join(env.Root, "baseCase"))
	assert.True(t, os.IsNotExist(err), "default base case is derived now and should be gone")
}

func TestCLIConfigFileSetsBaseCase(t *testing.T) {
	env := NewTestEnv(t)
	writeBaseCase(t, filepath.Join(env.Root, "damBreak"), map[string][]float64{"T": {1}})
	mustWriteFile(t, filepath.Join(env.Root, ".parafoam.yaml"), "base_case: damBreak\n")

	result := env.MustRunFoamctl("new", "seg-01")
	assert.Equal(t, "seg-01@0\n", result.Stdout)

	// The derived case came from damBreak, whose field T has one value.
	vals := readFieldValues(t, filepath.Join(env.Root, "seg-01", "0", "T"))
	assert.Equal(t, []float64{1}, vals)
}

func TestCLIUnknownCommandFails(t *testing.T) {
	env := NewTestEnv(t)

	result := env.RunFoamctl("frobnicate")
	assert.NotEqual(t, 0, result.ExitCode)
}
