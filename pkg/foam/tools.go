package foam

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mesh-intelligence/parafoam/internal/foamdict"
)

// BlockMesh generates the base case's mesh with OpenFOAM's blockMesh
// utility. This is the one operation that writes into the base case.
func (inv *Invoker) BlockMesh(ctx context.Context, base *BaseCase) error {
	if err := inv.runner().Run(ctx, ProcessSpec{Command: "blockMesh", Dir: base.Path()}); err != nil {
		return fmt.Errorf("blockMesh on %s: %w", base.Path(), err)
	}
	return nil
}

// SetFields seeds regions of v's fields with OpenFOAM's setFields utility.
// defaultFieldValues and regions are written verbatim into the case's
// system/setFieldsDict before the run, e.g.
//
//	defaultFieldValues: "volScalarFieldValue T 0"
//	regions:            "boxToCell { box (0 0 0) (1 1 1); ... }"
func (inv *Invoker) SetFields(ctx context.Context, v Vector, defaultFieldValues, regions []string) error {
	dictPath := filepath.Join(v.Path(), "system", "setFieldsDict")
	err := patchFile(dictPath, []foamdict.Set{
		{Keyword: "defaultFieldValues", Value: foamdict.Items(defaultFieldValues)},
		{Keyword: "regions", Value: foamdict.Items(regions)},
	})
	if err != nil {
		return fmt.Errorf("update setFieldsDict: %w", err)
	}
	if err := inv.runner().Run(ctx, ProcessSpec{Command: "setFields", Dir: v.Path()}); err != nil {
		return fmt.Errorf("setFields on %s: %w", v.Path(), err)
	}
	return nil
}

// MapFields interpolates the source snapshot onto target's mesh with
// OpenFOAM's mapFields utility and returns the resulting vector at the
// source's time label. consistent says the two cases share boundary setup;
// mapMethod, when not empty, picks the interpolation scheme (mapNearest,
// interpolate, cellPointInterpolate).
func (inv *Invoker) MapFields(ctx context.Context, source Vector, target *BaseCase, consistent bool, mapMethod string) (Vector, error) {
	result, err := target.NewVector("")
	if err != nil {
		return Vector{}, err
	}
	result.Time = source.Time

	srcPath, err := filepath.Abs(source.Path())
	if err != nil {
		return Vector{}, fmt.Errorf("resolve source path: %w", err)
	}
	var args []string
	if consistent {
		args = append(args, "-consistent")
	}
	if mapMethod != "" {
		args = append(args, "-mapMethod", mapMethod)
	}
	args = append(args, "-sourceTime", source.Time, srcPath)

	if err := inv.runner().Run(ctx, ProcessSpec{Command: "mapFields", Args: args, Dir: result.Path()}); err != nil {
		return Vector{}, fmt.Errorf("mapFields onto %s: %w", result.Case, err)
	}

	// mapFields writes its output under "0" regardless of the source time;
	// move it to the real label.
	if result.Time != "0" {
		if err := os.Rename(filepath.Join(result.Path(), "0"), result.TimeDir()); err != nil {
			return Vector{}, fmt.Errorf("rename mapFields output: %w", err)
		}
	}
	return result, nil
}
