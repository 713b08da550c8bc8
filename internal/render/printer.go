package render

import (
	"sort"

	"javabrowser/internal/source"
)

// Printer walks one file against one emitter. Building it validates the
// entries and computes the memory of every node; printing is then free of
// errors and can be repeated over any ranges.
type Printer[M any] struct {
	scope   Scope
	text    string
	emitter Emitter[M]
	roots   []*source.Node
	memory  []M

	lines *lineState
}

// NewPrinter builds the nesting tree of file and checks its declaration
// outline. A malformed entry list or a declaration whose parent is not an
// open ancestor is reported as a StructuralViolation.
func NewPrinter[M any](scope Scope, file *source.File, emitter Emitter[M]) (*Printer[M], error) {
	roots, err := source.BuildTree(file.Text, file.Entries)
	if err != nil {
		return nil, err
	}
	if _, err := source.BuildOutline(file.Declarations()); err != nil {
		return nil, err
	}
	p := &Printer[M]{
		scope:   scope,
		text:    file.Text,
		emitter: emitter,
		roots:   roots,
		memory:  make([]M, len(file.Entries)),
	}
	p.computeMemory(roots)
	return p, nil
}

func (p *Printer[M]) computeMemory(nodes []*source.Node) {
	for _, n := range nodes {
		p.memory[n.Index] = p.emitter.ComputeMemory(p.scope, n.Entry.Annotation)
		p.computeMemory(n.Children)
	}
}

// Scope returns the side this printer renders.
func (p *Printer[M]) Scope() Scope {
	return p.scope
}

// Text returns the file text.
func (p *Printer[M]) Text() string {
	return p.text
}

// PrintRange emits the part of the file inside [from, to). Annotations
// intersecting the range are opened at its start and closed at its end, so
// the output of every call is balanced. A zero-length entry is printed by
// the range that contains its offset; at the end of the text it belongs to
// the range ending there.
func (p *Printer[M]) PrintRange(from, to int) {
	from = max(from, 0)
	to = min(to, len(p.text))
	if from > to {
		return
	}
	p.printNodes(p.roots, from, to, to == len(p.text))
}

// PrintAll emits the whole file.
func (p *Printer[M]) PrintAll() {
	p.PrintRange(0, len(p.text))
}

func (p *Printer[M]) printNodes(nodes []*source.Node, lo, hi int, atEnd bool) {
	pos := lo
	i := sort.Search(len(nodes), func(i int) bool { return nodes[i].Entry.End() >= lo })
	for ; i < len(nodes); i++ {
		n := nodes[i]
		e := n.Entry
		if e.Start > hi {
			break
		}
		if !visible(e.Position, lo, hi, atEnd) {
			continue
		}

		start := max(e.Start, lo)
		end := min(e.End(), hi)
		p.emitText(pos, start)
		p.advance(start)

		memory := p.memory[n.Index]
		p.emitter.StartAnnotation(p.scope, e.Annotation, memory)
		p.printNodes(n.Children, start, end, atEnd || e.Length == 0)
		p.emitter.EndAnnotation(p.scope, e.Annotation, memory)
		pos = max(pos, end)
	}
	p.emitText(pos, hi)
}

func visible(e source.Position, lo, hi int, atEnd bool) bool {
	if e.Length == 0 {
		return lo <= e.Start && (e.Start < hi || atEnd && e.Start == hi)
	}
	return e.Start < hi && e.End() > lo
}

func (p *Printer[M]) emitText(start, end int) {
	if start >= end {
		return
	}
	if p.lines == nil {
		p.emitter.Text(p.text, start, end)
		return
	}
	for start < end {
		p.advance(start)
		next := min(p.lines.nextStart(), end)
		if next <= start {
			next = end
		}
		p.emitter.Text(p.text, start, next)
		start = next
	}
}

// advance emits the line markers of every line starting at or before pos.
func (p *Printer[M]) advance(pos int) {
	if p.lines != nil {
		p.lines.advance(pos)
	}
}

// lineState tracks line starts while a whole file is printed with markers.
type lineState struct {
	marker LineMarker
	starts []int
	next   int
}

func newLineState(text string, marker LineMarker) *lineState {
	ls := &lineState{marker: marker}
	for i := 0; i < len(text); i++ {
		if i == 0 || text[i-1] == '\n' {
			ls.starts = append(ls.starts, i)
		}
	}
	return ls
}

func (ls *lineState) advance(pos int) {
	for ls.next < len(ls.starts) && ls.starts[ls.next] <= pos {
		ls.marker.NormalLineMarker(ls.next)
		ls.next++
	}
}

// nextStart returns the offset of the next line whose marker is pending,
// or a value past any text offset when none is.
func (ls *lineState) nextStart() int {
	if ls.next < len(ls.starts) {
		return ls.starts[ls.next]
	}
	return int(^uint(0) >> 1)
}

// PrintFile emits the whole file. When lineMarkers is set and the emitter
// implements LineMarker, NormalLineMarker is emitted at the start of every
// line, ahead of any annotation opening there.
func PrintFile[M any](p *Printer[M], lineMarkers bool) {
	if marker, ok := p.emitter.(LineMarker); ok && lineMarkers {
		p.lines = newLineState(p.text, marker)
		defer func() { p.lines = nil }()
	}
	p.PrintAll()
}
