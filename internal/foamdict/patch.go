package foamdict

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Set is one keyword replacement applied by Patch.
type Set struct {
	Keyword string
	Value   string // formatted value without the trailing semicolon
}

// Float renders v the way OpenFOAM dictionaries expect, in the shortest
// notation that round-trips.
func Float(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Items renders list items as a multi-line parenthesized value, the layout
// setFieldsDict and friends use.
func Items(items []string) string {
	var b strings.Builder
	b.WriteString("(\n")
	for _, it := range items {
		b.WriteString("    ")
		b.WriteString(it)
		b.WriteString("\n")
	}
	b.WriteString(")")
	return b.String()
}

// Patch replaces top-level entries in data and appends entries that are not
// present yet. Every byte outside the replaced entries is preserved, comments
// and formatting included.
func Patch(name string, data []byte, sets []Set) ([]byte, error) {
	f, err := Parse(name, data)
	if err != nil {
		return nil, err
	}

	type splice struct {
		start, end int
		text       string
	}
	var splices []splice
	var missing []Set
	for _, s := range sets {
		if e := f.Root.Get(s.Keyword); e != nil {
			splices = append(splices, splice{e.Start, e.End, renderEntry(s)})
		} else {
			missing = append(missing, s)
		}
	}
	sort.Slice(splices, func(i, j int) bool { return splices[i].start < splices[j].start })

	var out bytes.Buffer
	prev := 0
	for _, sp := range splices {
		out.Write(data[prev:sp.start])
		out.WriteString(sp.text)
		prev = sp.end
	}
	out.Write(data[prev:])
	for _, s := range missing {
		out.WriteString("\n")
		out.WriteString(renderEntry(s))
		out.WriteString("\n")
	}
	return out.Bytes(), nil
}

// renderEntry formats "keyword value;" with the column alignment OpenFOAM
// dictionaries conventionally use. Multi-line values start on their own line.
func renderEntry(s Set) string {
	if strings.Contains(s.Value, "\n") {
		return fmt.Sprintf("%s\n%s;", s.Keyword, s.Value)
	}
	return fmt.Sprintf("%-15s %s;", s.Keyword, s.Value)
}
