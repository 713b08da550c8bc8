package source

import (
	"cmp"
	"fmt"
	"slices"
)

// Position is the half-open range [Start, Start+Length) over a file's text.
type Position struct {
	Start  int
	Length int
}

// End returns the exclusive end offset.
func (p Position) End() int {
	return p.Start + p.Length
}

// Contains reports whether o nests inside p. A zero-length o sitting on the
// end of a non-empty p is treated as p's following sibling, not its child.
func (p Position) Contains(o Position) bool {
	if o.Start < p.Start || o.End() > p.End() {
		return false
	}
	return !(o.Length == 0 && p.Length > 0 && o.Start == p.End())
}

func (p Position) String() string {
	return fmt.Sprintf("[%d,%d)", p.Start, p.End())
}

// Entry is one annotation attached to a range.
type Entry struct {
	Position
	Annotation Annotation
}

// NewEntry builds an entry for [start, start+length).
func NewEntry(start, length int, annotation Annotation) Entry {
	return Entry{Position: Position{Start: start, Length: length}, Annotation: annotation}
}

// CompareEntries orders entries by start, then outer before inner, then by
// annotation kind so declarations enclose co-located markup.
func CompareEntries(a, b Entry) int {
	if c := cmp.Compare(a.Start, b.Start); c != 0 {
		return c
	}
	if c := cmp.Compare(b.Length, a.Length); c != 0 {
		return c
	}
	return cmp.Compare(a.Annotation.Kind(), b.Annotation.Kind())
}

// SortEntries returns a sorted copy of entries. Entries that compare equal
// keep their input order.
func SortEntries(entries []Entry) []Entry {
	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, CompareEntries)
	return sorted
}

// File is the annotated source model of one compiled file.
type File struct {
	Text    string
	Entries []Entry
}

// NewFile creates a file model. The entries are used as given; call Validate
// to check their structure.
func NewFile(text string, entries []Entry) *File {
	return &File{Text: text, Entries: entries}
}

// Validate checks the nesting invariant and the declaration outline.
func (f *File) Validate() error {
	if _, err := BuildTree(f.Text, f.Entries); err != nil {
		return err
	}
	_, err := BuildOutline(f.Declarations())
	return err
}

// Declarations returns the BindingDecl annotations in depth-first order.
func (f *File) Declarations() []BindingDecl {
	var decls []BindingDecl
	for _, e := range SortEntries(f.Entries) {
		if d, ok := e.Annotation.(BindingDecl); ok {
			decls = append(decls, d)
		}
	}
	return decls
}

// TopLevelTypes returns the bindings declared without a parent.
func (f *File) TopLevelTypes() []BindingID {
	var out []BindingID
	for _, d := range f.Declarations() {
		if d.Parent == "" {
			out = append(out, d.Binding)
		}
	}
	return out
}
