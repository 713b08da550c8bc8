package source

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// recordSchemaVersion is bumped whenever fileRecord changes shape.
const recordSchemaVersion uint16 = 1

type fileRecord struct {
	Schema  uint16        `msgpack:"v"`
	Text    string        `msgpack:"text"`
	Entries []entryRecord `msgpack:"entries"`
}

type entryRecord struct {
	Start       int            `msgpack:"o"`
	Length      int            `msgpack:"len"`
	Kind        Kind           `msgpack:"k"`
	Binding     BindingID      `msgpack:"b,omitempty"`
	RefGroup    *int           `msgpack:"g,omitempty"`
	Parent      BindingID      `msgpack:"p,omitempty"`
	Description Description    `msgpack:"d,omitempty"`
	Supers      []SuperBinding `msgpack:"s,omitempty"`
	Classes     []string       `msgpack:"c,omitempty"`
	ScopeID     string         `msgpack:"l,omitempty"`
	Line        int            `msgpack:"n,omitempty"`
}

// Encode serializes a file record for storage.
func Encode(f *File) ([]byte, error) {
	rec := fileRecord{
		Schema:  recordSchemaVersion,
		Text:    f.Text,
		Entries: make([]entryRecord, len(f.Entries)),
	}
	for i, e := range f.Entries {
		r := entryRecord{Start: e.Start, Length: e.Length}
		switch a := e.Annotation.(type) {
		case BindingRef:
			r.Kind, r.Binding, r.RefGroup = KindBindingRef, a.Binding, a.RefGroup
		case BindingDecl:
			r.Kind, r.Binding, r.Parent = KindBindingDecl, a.Binding, a.Parent
			r.Description, r.Supers = a.Description, a.SuperBindings
		case Style:
			r.Kind, r.Classes = KindStyle, a.Classes
		case LocalVariableOrLabelRef:
			r.Kind, r.ScopeID = KindLocalVariableOrLabelRef, a.ScopeID
		case SourceLineRef:
			r.Kind, r.Line = KindSourceLineRef, a.Line
		default:
			return nil, fmt.Errorf("entry %d: unsupported annotation %T", i, e.Annotation)
		}
		rec.Entries[i] = r
	}
	return msgpack.Marshal(&rec)
}

// Decode restores a file record written by Encode.
func Decode(data []byte) (*File, error) {
	var rec fileRecord
	if err := msgpack.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode source record: %w", err)
	}
	if rec.Schema != recordSchemaVersion {
		return nil, fmt.Errorf("source record schema %d, want %d", rec.Schema, recordSchemaVersion)
	}

	f := &File{Text: rec.Text, Entries: make([]Entry, len(rec.Entries))}
	for i, r := range rec.Entries {
		var a Annotation
		switch r.Kind {
		case KindBindingRef:
			a = BindingRef{Binding: r.Binding, RefGroup: r.RefGroup}
		case KindBindingDecl:
			a = BindingDecl{Binding: r.Binding, Parent: r.Parent, Description: r.Description, SuperBindings: r.Supers}
		case KindStyle:
			a = Style{Classes: r.Classes}
		case KindLocalVariableOrLabelRef:
			a = LocalVariableOrLabelRef{ScopeID: r.ScopeID}
		case KindSourceLineRef:
			a = SourceLineRef{Line: r.Line}
		default:
			return nil, fmt.Errorf("entry %d: unknown annotation kind %d", i, r.Kind)
		}
		f.Entries[i] = NewEntry(r.Start, r.Length, a)
	}
	return f, nil
}
