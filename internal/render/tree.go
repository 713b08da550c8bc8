package render

import (
	"javabrowser/internal/markup"
	"javabrowser/internal/source"
)

// BuildFunc replaces an annotation and its already-built children with
// the nodes that represent them.
type BuildFunc[M any] func(scope Scope, annotation source.Annotation, memory M, children []markup.Node) []markup.Node

// TreeBuilder is an Emitter that buffers the whole output as a markup tree.
type TreeBuilder[M any] struct {
	compute    func(scope Scope, annotation source.Annotation) M
	build      BuildFunc[M]
	lineMarker func(line int) []markup.Node
	stack      [][]markup.Node
}

// NewTreeBuilder creates a tree builder from a memory function and a build
// function.
func NewTreeBuilder[M any](compute func(Scope, source.Annotation) M, build BuildFunc[M]) *TreeBuilder[M] {
	return &TreeBuilder[M]{
		compute: compute,
		build:   build,
		stack:   make([][]markup.Node, 1),
	}
}

// WithLineMarkers makes the builder emit the nodes returned by fn at every
// line start printed through PrintFile.
func (b *TreeBuilder[M]) WithLineMarkers(fn func(line int) []markup.Node) *TreeBuilder[M] {
	b.lineMarker = fn
	return b
}

func (b *TreeBuilder[M]) ComputeMemory(scope Scope, annotation source.Annotation) M {
	return b.compute(scope, annotation)
}

func (b *TreeBuilder[M]) StartAnnotation(Scope, source.Annotation, M) {
	b.stack = append(b.stack, nil)
}

func (b *TreeBuilder[M]) EndAnnotation(scope Scope, annotation source.Annotation, memory M) {
	children := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]
	b.appendNodes(b.build(scope, annotation, memory, children)...)
}

func (b *TreeBuilder[M]) Text(text string, start, end int) {
	b.appendNodes(markup.Text(text[start:end]))
}

func (b *TreeBuilder[M]) NormalLineMarker(line int) {
	if b.lineMarker != nil {
		b.appendNodes(b.lineMarker(line)...)
	}
}

func (b *TreeBuilder[M]) appendNodes(nodes ...markup.Node) {
	top := len(b.stack) - 1
	b.stack[top] = append(b.stack[top], nodes...)
}

// Nodes returns the finished top-level nodes.
func (b *TreeBuilder[M]) Nodes() []markup.Node {
	return b.stack[0]
}
