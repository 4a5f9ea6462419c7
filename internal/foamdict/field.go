package foamdict

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
)

// DecodeValues extracts an array payload as flattened float64 values. Vector
// and tensor elements are laid out component after component.
func (f *File) DecodeValues(a *Array) ([]float64, error) {
	n, err := a.Len()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.Name, err)
	}
	raw := f.data[a.DataStart:a.DataEnd]
	if a.Binary {
		vals := make([]float64, n)
		for i := range vals {
			vals[i] = math.Float64frombits(binary.LittleEndian.Uint64(raw[8*i:]))
		}
		return vals, nil
	}

	vals := make([]float64, 0, n)
	start := -1
	flush := func(end int) error {
		if start < 0 {
			return nil
		}
		v, err := strconv.ParseFloat(string(raw[start:end]), 64)
		if err != nil {
			return fmt.Errorf("%s: array %s: bad value %q", f.Name, a.Class, raw[start:end])
		}
		vals = append(vals, v)
		start = -1
		return nil
	}
	for i := 0; i < len(raw); i++ {
		switch raw[i] {
		case ' ', '\t', '\n', '\r', '(', ')':
			if err := flush(i); err != nil {
				return nil, err
			}
		default:
			if start < 0 {
				start = i
			}
		}
	}
	if err := flush(len(raw)); err != nil {
		return nil, err
	}
	if len(vals) != n {
		return nil, fmt.Errorf("%s: array %s declares %d values, found %d", f.Name, a.Class, n, len(vals))
	}
	return vals, nil
}

// EncodeValues writes vals back over a binary payload in place. The payload
// span has a fixed byte size, so this never moves surrounding content; when
// the file is memory mapped the write lands directly in the mapping.
func (f *File) EncodeValues(a *Array, vals []float64) error {
	if !a.Binary {
		return fmt.Errorf("%s: array %s is not binary", f.Name, a.Class)
	}
	n, err := a.Len()
	if err != nil {
		return fmt.Errorf("%s: %w", f.Name, err)
	}
	if len(vals) != n {
		return fmt.Errorf("%s: array %s holds %d values, got %d", f.Name, a.Class, n, len(vals))
	}
	raw := f.data[a.DataStart:a.DataEnd]
	for i, v := range vals {
		binary.LittleEndian.PutUint64(raw[8*i:], math.Float64bits(v))
	}
	return nil
}

// FormatValues renders vals as an ascii payload for a, one element per line,
// in the shortest notation that round-trips. The result replaces the span
// between the list parentheses; the element count outside it is unchanged.
func FormatValues(a *Array, vals []float64) ([]byte, error) {
	c, err := a.Comps()
	if err != nil {
		return nil, err
	}
	if len(vals) != a.Count*c {
		return nil, fmt.Errorf("array %s holds %d values, got %d", a.Class, a.Count*c, len(vals))
	}
	var b bytes.Buffer
	b.WriteByte('\n')
	for i := 0; i < a.Count; i++ {
		if c == 1 {
			b.WriteString(strconv.FormatFloat(vals[i], 'g', -1, 64))
		} else {
			b.WriteByte('(')
			for j := 0; j < c; j++ {
				if j > 0 {
					b.WriteByte(' ')
				}
				b.WriteString(strconv.FormatFloat(vals[i*c+j], 'g', -1, 64))
			}
			b.WriteByte(')')
		}
		b.WriteByte('\n')
	}
	return b.Bytes(), nil
}

// Splice returns a copy of data with repl substituted over [start, end).
func Splice(data []byte, start, end int, repl []byte) []byte {
	out := make([]byte, 0, len(data)-(end-start)+len(repl))
	out = append(out, data[:start]...)
	out = append(out, repl...)
	out = append(out, data[end:]...)
	return out
}
