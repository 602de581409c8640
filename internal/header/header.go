// Package header turns a CSV header line into SQL column names.
//
// Fields are split on every comma. Quoted fields are not recognized, so a
// comma inside quotes splits the field in two.
package header

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/encoding"
	"golang.org/x/text/language"
)

// ErrDecode is returned when a raw header line cannot be decoded.
var ErrDecode = errors.New("header decode error")

// lineTerminators are the characters that end the first physical line.
const lineTerminators = "\n\r\v\f\x1c\x1d\x1e\u0085\u2028\u2029"

// Options controls how header fields are normalized.
type Options struct {
	// Header upper-cases names and replaces spaces with underscores.
	Header bool
	// Sanitize replaces characters that are not valid in a bare SQL identifier.
	Sanitize bool
}

// Collision records a field whose normalized name was already taken.
type Collision struct {
	Position int    // zero-based field position
	Raw      string // field as it appeared in the line
	Name     string // normalized name it collapsed into
}

// ColumnSet is an ordered set of column names. The first occurrence of a name wins.
type ColumnSet struct {
	names      []string
	index      map[string]int
	collisions []Collision
	skipped    []int
}

func newColumnSet() *ColumnSet {
	return &ColumnSet{index: make(map[string]int)}
}

// Names returns the column names in first-seen order.
func (s *ColumnSet) Names() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Len returns the number of distinct columns.
func (s *ColumnSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.names)
}

// Contains reports whether name is in the set.
func (s *ColumnSet) Contains(name string) bool {
	if s == nil {
		return false
	}
	_, ok := s.index[name]
	return ok
}

// Collisions returns the fields that were merged into an earlier column.
func (s *ColumnSet) Collisions() []Collision {
	if s == nil {
		return nil
	}
	return s.collisions
}

// Skipped returns the positions of fields that were empty after trimming.
func (s *ColumnSet) Skipped() []int {
	if s == nil {
		return nil
	}
	return s.skipped
}

func (s *ColumnSet) add(position int, raw, name string) {
	if name == "" {
		s.skipped = append(s.skipped, position)
		return
	}
	if _, ok := s.index[name]; ok {
		s.collisions = append(s.collisions, Collision{Position: position, Raw: raw, Name: name})
		return
	}
	s.index[name] = len(s.names)
	s.names = append(s.names, name)
}

// FirstLine returns the text before the first line terminator.
func FirstLine(line string) string {
	if i := strings.IndexAny(line, lineTerminators); i >= 0 {
		return line[:i]
	}
	return line
}

// NormalizeName cleans a single header field.
func NormalizeName(field string, opts Options) string {
	name := strings.TrimFunc(field, func(r rune) bool {
		return r == '"' || unicode.IsSpace(r)
	})
	if opts.Header {
		name = cases.Upper(language.Und).String(strings.ReplaceAll(name, " ", "_"))
	}
	if opts.Sanitize && name != "" {
		name = Sanitize(name, opts.Header)
	}
	return name
}

// SplitLine returns the cleaned fields of the first line of text, duplicates included.
// It returns nil for an empty line.
func SplitLine(line string, header bool) []string {
	line = FirstLine(line)
	if line == "" {
		return nil
	}
	fields := strings.Split(line, ",")
	opts := Options{Header: header}
	for i, f := range fields {
		fields[i] = NormalizeName(f, opts)
	}
	return fields
}

// Normalize returns the distinct column names of a header line.
// It returns nil for an empty line, which is different from an empty set.
func Normalize(line string, header bool) *ColumnSet {
	return NormalizeWith(line, Options{Header: header})
}

// NormalizeWith is Normalize with explicit options.
func NormalizeWith(line string, opts Options) *ColumnSet {
	line = FirstLine(line)
	if line == "" {
		return nil
	}

	set := newColumnSet()
	for i, field := range strings.Split(line, ",") {
		set.add(i, field, NormalizeName(field, opts))
	}
	return set
}

// NormalizeBytes decodes raw with enc and normalizes the result.
// A nil enc means the bytes are UTF-8.
func NormalizeBytes(raw []byte, enc encoding.Encoding, opts Options) (*ColumnSet, error) {
	if enc == nil {
		if !utf8.Valid(raw) {
			return nil, fmt.Errorf("%w: header is not valid UTF-8", ErrDecode)
		}
		return NormalizeWith(string(raw), opts), nil
	}

	decoded, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return NormalizeWith(string(decoded), opts), nil
}
