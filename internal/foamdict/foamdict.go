// Package foamdict parses OpenFOAM dictionary and field files and applies
// targeted edits to them.
//
// The parser covers the subset of the OpenFOAM grammar this project relies
// on: the FoamFile header, ordered keyword entries, nested dictionaries,
// parenthesized lists, dimension brackets, quoted strings, #directives and
// bulk numeric lists in either ascii or binary layout. Instead of building a
// full value tree it records byte offsets, so callers can splice new entry
// values or rewrite a field payload while every other byte of the file stays
// exactly as the solver wrote it.
package foamdict

import (
	"fmt"
	"strconv"
	"strings"
)

// Format values found in the FoamFile header.
const (
	FormatASCII  = "ascii"
	FormatBinary = "binary"
)

// File is a parsed OpenFOAM file.
type File struct {
	Name   string // file name, used in error messages
	Format string // FormatASCII unless the FoamFile header says binary
	Root   *Dict  // top-level entries in file order

	data []byte
}

// Dict is an ordered collection of entries.
type Dict struct {
	Entries []*Entry
}

// Entry is a single "keyword value;" or "keyword { ... }" item.
type Entry struct {
	Keyword string
	Dict    *Dict    // non-nil when the value is a sub-dictionary
	Array   *Array   // non-nil when the value holds a bulk numeric list
	Words   []string // plain value tokens outside lists, e.g. ["uniform", "0"]
	Start   int      // byte offset of the keyword
	End     int      // byte offset just past the entry terminator
}

// Array locates a bulk numeric list such as "nonuniform List<scalar> N (...)".
// DataStart and DataEnd delimit the payload between the parentheses.
type Array struct {
	Class     string // element class: scalar, vector, symmTensor, tensor
	Count     int    // number of elements
	Binary    bool   // payload is raw little-endian doubles, not ascii text
	DataStart int
	DataEnd   int
}

// comps returns the scalar components per element of a list class.
func comps(class string) (int, error) {
	switch class {
	case "scalar", "sphericalTensor":
		return 1, nil
	case "vector":
		return 3, nil
	case "symmTensor":
		return 6, nil
	case "tensor":
		return 9, nil
	}
	return 0, fmt.Errorf("unsupported list class %q", class)
}

// Comps returns the number of scalar components per element.
func (a *Array) Comps() (int, error) { return comps(a.Class) }

// Len returns the flattened value count, elements times components.
func (a *Array) Len() (int, error) {
	c, err := comps(a.Class)
	if err != nil {
		return 0, err
	}
	return a.Count * c, nil
}

// Get returns the first entry with the given keyword, or nil.
func (d *Dict) Get(keyword string) *Entry {
	for _, e := range d.Entries {
		if e.Keyword == keyword {
			return e
		}
	}
	return nil
}

// Keys lists the entry keywords in file order.
func (d *Dict) Keys() []string {
	keys := make([]string, len(d.Entries))
	for i, e := range d.Entries {
		keys[i] = e.Keyword
	}
	return keys
}

// Entry returns the top-level entry with the given keyword, or nil.
func (f *File) Entry(keyword string) *Entry { return f.Root.Get(keyword) }

// Keys lists the top-level keywords in file order.
func (f *File) Keys() []string { return f.Root.Keys() }

// Parse parses an OpenFOAM dictionary or field file. The FoamFile header is
// read first so binary list payloads later in the file are skipped by size
// rather than scanned.
func Parse(name string, data []byte) (*File, error) {
	p := &parser{name: name, data: data}
	f := &File{Name: name, Format: FormatASCII, Root: &Dict{}, data: data}
	for {
		p.skipSpace()
		if p.eof() {
			break
		}
		// Tolerate a stray semicolon after a closing brace.
		if p.data[p.pos] == ';' {
			p.pos++
			continue
		}
		e, err := p.entry()
		if err != nil {
			return nil, err
		}
		f.Root.Entries = append(f.Root.Entries, e)
		if e.Keyword == "FoamFile" && e.Dict != nil {
			if fe := e.Dict.Get("format"); fe != nil && len(fe.Words) > 0 && fe.Words[0] == FormatBinary {
				p.binary = true
				f.Format = FormatBinary
			}
		}
	}
	return f, nil
}

type parser struct {
	name   string
	data   []byte
	pos    int
	binary bool
}

func (p *parser) eof() bool { return p.pos >= len(p.data) }

func (p *parser) errf(format string, args ...any) error {
	return fmt.Errorf("%s: offset %d: %s", p.name, p.pos, fmt.Sprintf(format, args...))
}

// skipSpace consumes whitespace and both comment forms.
func (p *parser) skipSpace() {
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			p.pos++
		case c == '/' && p.pos+1 < len(p.data) && p.data[p.pos+1] == '/':
			for p.pos < len(p.data) && p.data[p.pos] != '\n' {
				p.pos++
			}
		case c == '/' && p.pos+1 < len(p.data) && p.data[p.pos+1] == '*':
			p.pos += 2
			for p.pos+1 < len(p.data) && !(p.data[p.pos] == '*' && p.data[p.pos+1] == '/') {
				p.pos++
			}
			if p.pos+1 < len(p.data) {
				p.pos += 2
			} else {
				p.pos = len(p.data)
			}
		default:
			return
		}
	}
}

// isDelim reports whether c terminates a bare word.
func isDelim(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '{', '}', '(', ')', '[', ']', ';', '"':
		return true
	}
	return false
}

func (p *parser) word() (string, error) {
	start := p.pos
	for p.pos < len(p.data) && !isDelim(p.data[p.pos]) {
		if p.data[p.pos] == '/' && p.pos+1 < len(p.data) &&
			(p.data[p.pos+1] == '/' || p.data[p.pos+1] == '*') {
			break
		}
		p.pos++
	}
	if p.pos == start {
		if p.eof() {
			return "", p.errf("unexpected end of input")
		}
		return "", p.errf("expected word, found %q", p.data[p.pos])
	}
	return string(p.data[start:p.pos]), nil
}

// quoted consumes a double-quoted string and returns it including the quotes,
// so regex keywords and string values stay distinguishable from bare words.
func (p *parser) quoted() (string, error) {
	start := p.pos
	p.pos++
	for p.pos < len(p.data) {
		switch p.data[p.pos] {
		case '\\':
			p.pos += 2
		case '"':
			p.pos++
			return string(p.data[start:p.pos]), nil
		default:
			p.pos++
		}
	}
	return "", p.errf("unterminated string")
}

func (p *parser) entry() (*Entry, error) {
	start := p.pos
	var kw string
	var err error
	if p.data[p.pos] == '"' {
		kw, err = p.quoted()
	} else {
		kw, err = p.word()
	}
	if err != nil {
		return nil, err
	}
	e := &Entry{Keyword: kw, Start: start}

	// Directives such as #include take one argument and no semicolon.
	if strings.HasPrefix(kw, "#") {
		p.skipSpace()
		if !p.eof() && p.data[p.pos] == '"' {
			s, err := p.quoted()
			if err != nil {
				return nil, err
			}
			e.Words = append(e.Words, s)
		} else if !p.eof() && !isDelim(p.data[p.pos]) {
			w, err := p.word()
			if err != nil {
				return nil, err
			}
			e.Words = append(e.Words, w)
		}
		e.End = p.pos
		return e, nil
	}

	p.skipSpace()
	if p.eof() {
		return nil, p.errf("unexpected end of input after keyword %q", kw)
	}
	if p.data[p.pos] == '{' {
		d, err := p.dict()
		if err != nil {
			return nil, err
		}
		e.Dict = d
		e.End = p.pos
		return e, nil
	}
	if err := p.value(e); err != nil {
		return nil, err
	}
	e.End = p.pos
	return e, nil
}

func (p *parser) dict() (*Dict, error) {
	p.pos++
	d := &Dict{}
	for {
		p.skipSpace()
		if p.eof() {
			return nil, p.errf("unterminated dictionary")
		}
		if p.data[p.pos] == '}' {
			p.pos++
			return d, nil
		}
		if p.data[p.pos] == ';' {
			p.pos++
			continue
		}
		e, err := p.entry()
		if err != nil {
			return nil, err
		}
		d.Entries = append(d.Entries, e)
	}
}

// value scans an entry value up to the semicolon that terminates it. Only
// tokens at nesting depth zero are recorded; everything below is consumed for
// position tracking alone. Bulk lists are located here so that binary
// payloads are stepped over by byte count wherever they appear.
func (p *parser) value(e *Entry) error {
	depth := 0
	for {
		p.skipSpace()
		if p.eof() {
			return p.errf("entry %q has no terminating semicolon", e.Keyword)
		}
		switch c := p.data[p.pos]; c {
		case ';':
			p.pos++
			if depth == 0 {
				return nil
			}
		case '(', '[', '{':
			depth++
			p.pos++
		case ')', ']', '}':
			if depth == 0 {
				return p.errf("unbalanced %q in entry %q", c, e.Keyword)
			}
			depth--
			p.pos++
		case '"':
			if _, err := p.quoted(); err != nil {
				return err
			}
		default:
			w, err := p.word()
			if err != nil {
				return err
			}
			if class, ok := listClass(w); ok {
				arr, err := p.bulkList(class)
				if err != nil {
					return err
				}
				if depth == 0 && e.Array == nil {
					e.Array = arr
				}
				continue
			}
			if depth == 0 {
				e.Words = append(e.Words, w)
			}
		}
	}
}

// listClass extracts T from a token of the form "List<T>".
func listClass(w string) (string, bool) {
	if !strings.HasPrefix(w, "List<") || !strings.HasSuffix(w, ">") {
		return "", false
	}
	return w[len("List<") : len(w)-1], true
}

// bulkList consumes "<count> ( ... )" following a List<T> token. In binary
// files the payload is exactly count elements of raw doubles and is skipped
// without scanning; in ascii files the payload runs to the matching paren.
func (p *parser) bulkList(class string) (*Array, error) {
	p.skipSpace()
	w, err := p.word()
	if err != nil {
		return nil, err
	}
	count, err := strconv.Atoi(w)
	if err != nil {
		return nil, p.errf("list %q: bad element count %q", class, w)
	}
	p.skipSpace()
	if p.eof() || p.data[p.pos] != '(' {
		return nil, p.errf("list %q: expected opening paren", class)
	}
	p.pos++
	arr := &Array{Class: class, Count: count, Binary: p.binary, DataStart: p.pos}

	if p.binary {
		c, err := comps(class)
		if err != nil {
			return nil, p.errf("%v", err)
		}
		end := p.pos + count*c*8
		if end > len(p.data) {
			return nil, p.errf("list %q: binary payload of %d bytes exceeds file size", class, count*c*8)
		}
		p.pos = end
		arr.DataEnd = end
		if p.eof() || p.data[p.pos] != ')' {
			return nil, p.errf("list %q: binary payload not closed", class)
		}
		p.pos++
		return arr, nil
	}

	depth := 1
	for {
		if p.eof() {
			return nil, p.errf("list %q: unterminated", class)
		}
		switch p.data[p.pos] {
		case '(':
			depth++
			p.pos++
		case ')':
			depth--
			p.pos++
			if depth == 0 {
				arr.DataEnd = p.pos - 1
				return arr, nil
			}
		default:
			p.pos++
		}
	}
}
