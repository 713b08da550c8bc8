// Package render walks an annotated source file and drives an Emitter with
// a balanced sequence of start, text and end events.
package render

import "javabrowser/internal/source"

// Scope is the side of a render. Outside diffs everything is ScopeCurrent.
type Scope uint8

const (
	ScopeCurrent Scope = iota
	ScopeOld
	ScopeNew
)

func (s Scope) String() string {
	switch s {
	case ScopeOld:
		return "old"
	case ScopeNew:
		return "new"
	default:
		return "current"
	}
}

// Emitter receives the traversal of one file. M is the per-node memory:
// ComputeMemory runs exactly once per entry before any start or end call,
// and its result is handed back to both.
type Emitter[M any] interface {
	ComputeMemory(scope Scope, annotation source.Annotation) M
	StartAnnotation(scope Scope, annotation source.Annotation, memory M)
	EndAnnotation(scope Scope, annotation source.Annotation, memory M)

	// Text receives text[start:end] unescaped.
	Text(text string, start, end int)
}

// LineMarker is implemented by emitters that want a gutter anchor at the
// start of every line. line is 0-based.
type LineMarker interface {
	NormalLineMarker(line int)
}

// DiffEmitter is a streaming emitter that can also mark up diff views.
type DiffEmitter[M any] interface {
	Emitter[M]
	LineMarker

	BeginInsertion()
	EndInsertion()
	BeginDeletion()
	EndDeletion()
	BeginHighlight()
	EndHighlight()

	// DiffLineMarker starts a diff row. newLine is nil for a deleted line,
	// oldLine is nil for an inserted one. Both are 0-based.
	DiffLineMarker(newLine, oldLine *int)
}
