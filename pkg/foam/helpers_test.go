package foam

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"testing"

	"github.com/mesh-intelligence/parafoam/internal/foamdict"
)

const testControlDict = `FoamFile
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

const testSetFieldsDict = `FoamFile
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

// scalarFieldText renders a minimal ascii volScalarField file.
func scalarFieldText(name string, vals []float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, `FoamFile
{
    version     2.0;
    format      ascii;
    class       volScalarField;
    object      %s;
}

dimensions      [0 0 0 0 0 0 0];

internalField   nonuniform List<scalar>
%d
(
`, name, len(vals))
	for _, v := range vals {
		b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		b.WriteByte('\n')
	}
	b.WriteString(`)
;

boundaryField
{
    walls
    {
        type            zeroGradient;
    }
}
`)
	return b.String()
}

func mustMkdirAll(t *testing.T, dir string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
}

func mustWrite(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func mustRead(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return data
}

// writeCase builds a minimal case directory with ascii scalar fields at
// time 0 and a standard system/controlDict.
func writeCase(t *testing.T, dir string, fields map[string][]float64) {
	t.Helper()
	mustMkdirAll(t, filepath.Join(dir, "0"))
	mustMkdirAll(t, filepath.Join(dir, "system"))
	mustMkdirAll(t, filepath.Join(dir, "constant"))
	for name, vals := range fields {
		mustWrite(t, filepath.Join(dir, "0", name), []byte(scalarFieldText(name, vals)))
	}
	mustWrite(t, filepath.Join(dir, "system", "controlDict"), []byte(testControlDict))
}

// newBase builds a base case in a fresh temp root and returns it with the
// field names registered in sorted order.
func newBase(t *testing.T, fields map[string][]float64) *BaseCase {
	t.Helper()
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	base := &BaseCase{Root: t.TempDir(), Case: "baseCase", Fields: names}
	writeCase(t, base.Path(), fields)
	return base
}

// readField parses a field file and returns its internalField values.
func readField(t *testing.T, path string) []float64 {
	t.Helper()
	data := mustRead(t, path)
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

// wantValues fails the test when got differs from want beyond tol.
func wantValues(t *testing.T, got, want []float64, tol float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("value count = %d, want %d", len(got), len(want))
	}
	for i := range want {
		diff := got[i] - want[i]
		if diff < -tol || diff > tol {
			t.Errorf("value[%d] = %g, want %g", i, got[i], want[i])
		}
	}
}
