package foam

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// ZipWith clones v into a fresh case and combines it elementwise with other,
// field by field: op receives the clone's array as dst and the other
// vector's as src and mutates dst in place. Neither operand is touched. On
// error the partially written clone is abandoned on disk; Clean collects it.
func (v Vector) ZipWith(other Vector, op func(dst, src []float64)) (Vector, error) {
	if len(v.Fields()) == 0 {
		return Vector{}, fmt.Errorf("combine %s with %s: %w", v, other, ErrNoFields)
	}
	out, err := v.Clone("")
	if err != nil {
		return Vector{}, err
	}
	for _, field := range v.Fields() {
		err := out.WithField(field, func(dst *FieldArray) error {
			return other.WithField(field, func(src *FieldArray) error {
				if len(dst.Data) != len(src.Data) {
					return fmt.Errorf("%w: %d vs %d values",
						ErrShapeMismatch, len(dst.Data), len(src.Data))
				}
				op(dst.Data, src.Data)
				return nil
			})
		})
		if err != nil {
			return Vector{}, err
		}
	}
	return out, nil
}

// Apply clones v into a fresh case and maps op over every field's array in
// place. The operand is not touched.
func (v Vector) Apply(op func(dst []float64)) (Vector, error) {
	if len(v.Fields()) == 0 {
		return Vector{}, fmt.Errorf("map over %s: %w", v, ErrNoFields)
	}
	out, err := v.Clone("")
	if err != nil {
		return Vector{}, err
	}
	for _, field := range v.Fields() {
		err := out.WithField(field, func(dst *FieldArray) error {
			op(dst.Data)
			return nil
		})
		if err != nil {
			return Vector{}, err
		}
	}
	return out, nil
}

// Add returns v + other as a new vector on disk.
func (v Vector) Add(other Vector) (Vector, error) {
	return v.ZipWith(other, func(dst, src []float64) { floats.Add(dst, src) })
}

// Sub returns v - other as a new vector on disk.
func (v Vector) Sub(other Vector) (Vector, error) {
	return v.ZipWith(other, func(dst, src []float64) { floats.Sub(dst, src) })
}

// Scale returns s * v as a new vector on disk.
func (v Vector) Scale(s float64) (Vector, error) {
	return v.Apply(func(dst []float64) { floats.Scale(s, dst) })
}
