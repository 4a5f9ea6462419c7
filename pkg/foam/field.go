package foam

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/edsrzf/mmap-go"

	"github.com/mesh-intelligence/parafoam/internal/foamdict"
)

// FieldArray is the mutable view of one field's internalField values, valid
// only inside a WithField scope. Data is flattened: a vector field stores
// three components per cell, one after the other. Callers may overwrite
// elements but must not resize the slice.
type FieldArray struct {
	Name string
	Data []float64

	baseline []float64 // pre-scope copy, for ascii change detection
}

// changed reports whether the scope mutated an ascii-backed array.
func (fa *FieldArray) changed() bool {
	if fa.baseline == nil {
		return false
	}
	if len(fa.baseline) != len(fa.Data) {
		return true
	}
	for i := range fa.Data {
		if fa.Data[i] != fa.baseline[i] {
			return true
		}
	}
	return false
}

// WithField memory-maps the named field file of this snapshot and hands its
// internalField values to fn. Mutations made through the array are written
// back to the file, and the mapping is released, on every exit path out of
// the scope, error or not.
//
// Binary payloads are encoded straight into the mapping and flushed. Ascii
// payloads are re-rendered only when the scope actually changed a value, so
// read-only scopes leave the file byte for byte as the solver wrote it.
func (v Vector) WithField(name string, fn func(*FieldArray) error) (err error) {
	path := filepath.Join(v.TimeDir(), name)
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return fmt.Errorf("open field: %w", err)
	}
	defer f.Close()

	mm, err := mmap.Map(f, mmap.RDWR, 0)
	if err != nil {
		return fmt.Errorf("map field %s: %w", path, err)
	}

	var (
		doc     *foamdict.File
		arr     *foamdict.Array
		fa      *FieldArray
		rewrite []byte
	)
	defer func() {
		if fa != nil {
			if arr.Binary {
				if eerr := doc.EncodeValues(arr, fa.Data); eerr != nil {
					if err == nil {
						err = fmt.Errorf("write field %s: %w", path, eerr)
					}
				} else if ferr := mm.Flush(); ferr != nil && err == nil {
					err = fmt.Errorf("flush field %s: %w", path, ferr)
				}
			} else if fa.changed() {
				payload, ferr := foamdict.FormatValues(arr, fa.Data)
				if ferr != nil {
					if err == nil {
						err = fmt.Errorf("render field %s: %w", path, ferr)
					}
				} else {
					// Built while the mapping is still live; written
					// out below once the file is unmapped.
					rewrite = foamdict.Splice(mm, arr.DataStart, arr.DataEnd, payload)
				}
			}
		}
		if uerr := mm.Unmap(); uerr != nil && err == nil {
			err = fmt.Errorf("unmap field %s: %w", path, uerr)
		}
		if rewrite != nil {
			if werr := rewriteFile(f, rewrite); werr != nil && err == nil {
				err = fmt.Errorf("rewrite field %s: %w", path, werr)
			}
		}
	}()

	doc, err = foamdict.Parse(path, mm)
	if err != nil {
		return fmt.Errorf("parse field: %w", err)
	}
	entry := doc.Entry("internalField")
	if entry == nil {
		return fmt.Errorf("field %s: %w (parsed keywords: %s)",
			path, ErrNoInternalField, strings.Join(doc.Keys(), ", "))
	}
	if entry.Array == nil {
		if len(entry.Words) > 0 && entry.Words[0] == "uniform" {
			return fmt.Errorf("field %s: %w", path, ErrUniformField)
		}
		return fmt.Errorf("field %s: %w (internalField value: %s)",
			path, ErrNoInternalField, strings.Join(entry.Words, " "))
	}
	arr = entry.Array

	vals, err := doc.DecodeValues(arr)
	if err != nil {
		return fmt.Errorf("field %s: %w", path, err)
	}
	fa = &FieldArray{Name: name, Data: vals}
	if !arr.Binary {
		fa.baseline = append([]float64(nil), vals...)
	}

	if ferr := fn(fa); ferr != nil {
		return fmt.Errorf("field %s: %w", name, ferr)
	}
	return nil
}

// rewriteFile replaces the file's content through an already open handle.
func rewriteFile(f *os.File, data []byte) error {
	if _, err := f.WriteAt(data, 0); err != nil {
		return err
	}
	return f.Truncate(int64(len(data)))
}
