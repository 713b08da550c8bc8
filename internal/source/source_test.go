package source

import (
	"reflect"
	"testing"

	"javabrowser/internal/errors"
)

func TestSortEntries(t *testing.T) {
	decl := BindingDecl{Binding: "A"}
	ref := BindingRef{Binding: "A"}
	style := Style{Classes: []string{"keyword"}}
	local := LocalVariableOrLabelRef{ScopeID: "1"}

	in := []Entry{
		NewEntry(4, 2, local),
		NewEntry(0, 2, style),
		NewEntry(0, 10, style),
		NewEntry(0, 2, ref),
		NewEntry(0, 2, decl),
	}
	got := SortEntries(in)

	wantKinds := []Kind{KindStyle, KindBindingDecl, KindBindingRef, KindStyle, KindLocalVariableOrLabelRef}
	for i, e := range got {
		if e.Annotation.Kind() != wantKinds[i] {
			t.Errorf("sorted[%d] = %s, want %s", i, e.Annotation.Kind(), wantKinds[i])
		}
	}
	if got[0].Length != 10 {
		t.Errorf("outer entry should sort first, got %v", got[0].Position)
	}
	if in[0].Start != 4 {
		t.Error("SortEntries must not reorder its input")
	}
}

func TestBuildTree(t *testing.T) {
	text := "class A { int x; }"
	entries := []Entry{
		NewEntry(10, 3, Style{Classes: []string{"keyword"}}),
		NewEntry(0, len(text), BindingDecl{Binding: "A"}),
		NewEntry(14, 1, BindingDecl{Binding: "A#x", Parent: "A"}),
		NewEntry(0, 5, Style{Classes: []string{"keyword"}}),
	}

	roots, err := BuildTree(text, entries)
	if err != nil {
		t.Fatalf("BuildTree: %v", err)
	}
	if len(roots) != 1 {
		t.Fatalf("expected one root, got %d", len(roots))
	}
	if len(roots[0].Children) != 3 {
		t.Fatalf("expected 3 children of the class, got %d", len(roots[0].Children))
	}
	for _, c := range roots[0].Children {
		if len(c.Children) != 0 {
			t.Errorf("unexpected grandchildren under %v", c.Entry.Position)
		}
	}
}

func TestBuildTree_Violations(t *testing.T) {
	style := Style{Classes: []string{"s"}}
	tests := []struct {
		name    string
		text    string
		entries []Entry
	}{
		{"partial overlap", "abcdefghij", []Entry{NewEntry(0, 5, style), NewEntry(3, 5, style)}},
		{"child leaks out of parent", "abcdefghij", []Entry{NewEntry(0, 10, style), NewEntry(2, 3, style), NewEntry(4, 3, style)}},
		{"past end of text", "abc", []Entry{NewEntry(1, 5, style)}},
		{"negative start", "abc", []Entry{NewEntry(-1, 2, style)}},
		{"nil annotation", "abc", []Entry{{Position: Position{Start: 0, Length: 1}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildTree(tt.text, tt.entries)
			if !errors.IsCode(err, errors.StructuralViolation) {
				t.Errorf("expected StructuralViolation, got %v", err)
			}
		})
	}
}

func TestBuildTree_ZeroLength(t *testing.T) {
	style := Style{Classes: []string{"s"}}
	text := "abcdef"
	roots, err := BuildTree(text, []Entry{
		NewEntry(0, 3, style),
		NewEntry(3, 0, style), // at the end of [0,3): sibling
		NewEntry(0, 0, style), // at the start of [0,3): child
		NewEntry(6, 0, style), // end of text
	})
	if err != nil {
		t.Fatalf("BuildTree: %v", err)
	}
	if len(roots) != 3 {
		t.Fatalf("expected 3 roots, got %d", len(roots))
	}
	if len(roots[0].Children) != 1 || roots[0].Children[0].Entry.Length != 0 {
		t.Errorf("zero-length entry at parent start should nest")
	}
}

func TestBuildOutline(t *testing.T) {
	decls := []BindingDecl{
		{Binding: "A"},
		{Binding: "A#x()", Parent: "A"},
		{Binding: "A.B", Parent: "A"},
		{Binding: "A.B#y()", Parent: "A.B"},
		{Binding: "A#z", Parent: "A"},
		{Binding: "C"},
	}

	roots, err := BuildOutline(decls)
	if err != nil {
		t.Fatalf("BuildOutline: %v", err)
	}
	if len(roots) != 2 {
		t.Fatalf("expected 2 top-level declarations, got %d", len(roots))
	}

	var visited []BindingID
	var depths []int
	Walk(roots, func(n *DeclarationNode, depth int) bool {
		visited = append(visited, n.Decl.Binding)
		depths = append(depths, depth)
		return true
	})
	want := []BindingID{"A", "A#x()", "A.B", "A.B#y()", "A#z", "C"}
	if !reflect.DeepEqual(visited, want) {
		t.Errorf("visit order = %v, want %v", visited, want)
	}
	if !reflect.DeepEqual(depths, []int{0, 1, 1, 2, 1, 0}) {
		t.Errorf("depths = %v", depths)
	}
}

func TestBuildOutline_Violations(t *testing.T) {
	tests := []struct {
		name  string
		decls []BindingDecl
	}{
		{"dangling parent", []BindingDecl{{Binding: "A"}, {Binding: "X#y", Parent: "X"}}},
		{"child after sibling subtree closed", []BindingDecl{
			{Binding: "A"}, {Binding: "B"}, {Binding: "A#x", Parent: "A"},
		}},
		{"first declaration has a parent", []BindingDecl{{Binding: "A#x", Parent: "A"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := BuildOutline(tt.decls); !errors.IsCode(err, errors.StructuralViolation) {
				t.Errorf("expected StructuralViolation, got %v", err)
			}
		})
	}
}

func TestFileValidate(t *testing.T) {
	text := "class A { void x(){} }"
	good := NewFile(text, []Entry{
		NewEntry(6, 1, BindingDecl{Binding: "A"}),
		NewEntry(15, 1, BindingDecl{Binding: "A#x()", Parent: "A"}),
	})
	if err := good.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
	if got := good.TopLevelTypes(); !reflect.DeepEqual(got, []BindingID{"A"}) {
		t.Errorf("TopLevelTypes = %v", got)
	}

	bad := NewFile(text, []Entry{
		NewEntry(15, 1, BindingDecl{Binding: "A#x()", Parent: "A"}),
	})
	if err := bad.Validate(); !errors.IsCode(err, errors.StructuralViolation) {
		t.Errorf("expected StructuralViolation for orphan declaration, got %v", err)
	}
}

func TestCodecRoundTrip(t *testing.T) {
	f := NewFile("class A extends B { int x; }", []Entry{
		NewEntry(6, 1, BindingDecl{
			Binding:       "A",
			SuperBindings: []SuperBinding{{Binding: "B", Name: "B"}},
		}),
		NewEntry(16, 1, BindingRef{Binding: "B", RefGroup: RefGroup(3)}),
		NewEntry(0, 5, Style{Classes: []string{"keyword", "bold"}}),
		NewEntry(24, 1, LocalVariableOrLabelRef{ScopeID: "7"}),
		NewEntry(20, 3, BindingDecl{Binding: "A#<clinit>", Parent: "A", Description: DescriptionInitializer}),
		NewEntry(0, 0, SourceLineRef{Line: 4}),
	})

	data, err := Encode(f)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !reflect.DeepEqual(got, f) {
		t.Errorf("round trip mismatch:\n got %#v\nwant %#v", got, f)
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, err := Decode([]byte{0xc1}); err == nil {
		t.Error("expected an error for invalid msgpack")
	}
}
