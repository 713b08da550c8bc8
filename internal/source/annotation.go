// Package source holds the annotated source model: the text of one compiled
// file plus the flat list of annotation entries the producer attached to it.
//
// A File is built once and is read-only afterwards, so any number of renders
// may share it.
package source

import "fmt"

// BindingID is the globally unique key of a declared element. It is stable
// across versions of the same artifact family.
type BindingID string

// Kind identifies an annotation variant. Lower kinds enclose higher kinds
// when two entries cover exactly the same range.
type Kind uint8

const (
	KindBindingDecl Kind = iota
	KindBindingRef
	KindStyle
	KindLocalVariableOrLabelRef
	KindSourceLineRef
)

func (k Kind) String() string {
	switch k {
	case KindBindingDecl:
		return "BindingDecl"
	case KindBindingRef:
		return "BindingRef"
	case KindStyle:
		return "Style"
	case KindLocalVariableOrLabelRef:
		return "LocalVariableOrLabelRef"
	case KindSourceLineRef:
		return "SourceLineRef"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Annotation is one of BindingRef, BindingDecl, Style,
// LocalVariableOrLabelRef or SourceLineRef.
type Annotation interface {
	Kind() Kind
}

// BindingRef is a reference to a declared element. RefGroup, when set, pairs
// references for highlighting.
type BindingRef struct {
	Binding  BindingID
	RefGroup *int
}

func (BindingRef) Kind() Kind { return KindBindingRef }

// Description classifies a declaration.
type Description uint8

const (
	DescriptionOther Description = iota
	DescriptionInitializer
)

// SuperBinding is a supertype or overridden member of a declaration.
type SuperBinding struct {
	Binding BindingID `msgpack:"b"`
	Name    string    `msgpack:"n"`
}

// BindingDecl declares Binding. Parent is the enclosing declaration in the
// same file, empty for top-level declarations.
type BindingDecl struct {
	Binding       BindingID
	Parent        BindingID
	Description   Description
	SuperBindings []SuperBinding
}

func (BindingDecl) Kind() Kind { return KindBindingDecl }

// Style attaches presentation classes.
type Style struct {
	Classes []string
}

func (Style) Kind() Kind { return KindStyle }

// LocalVariableOrLabelRef marks every use of one local variable or label.
type LocalVariableOrLabelRef struct {
	ScopeID string
}

func (LocalVariableOrLabelRef) Kind() Kind { return KindLocalVariableOrLabelRef }

// SourceLineRef is reserved; renderers ignore it.
type SourceLineRef struct {
	Line int
}

func (SourceLineRef) Kind() Kind { return KindSourceLineRef }

// RefGroup returns a pointer suitable for BindingRef.RefGroup.
func RefGroup(n int) *int {
	return &n
}
