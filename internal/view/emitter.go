package view

import (
	"html"
	"io"

	"javabrowser/internal/markup"
	"javabrowser/internal/render"
	"javabrowser/internal/source"
)

// HTMLEmitter streams HTML to a writer. The first write error is kept and
// every later write is skipped; check Err when printing is done.
type HTMLEmitter struct {
	annotator *Annotator
	w         io.Writer
	err       error
}

var _ render.DiffEmitter[Memory] = (*HTMLEmitter)(nil)

// NewHTMLEmitter creates a streaming emitter writing to w.
func NewHTMLEmitter(w io.Writer, annotator *Annotator) *HTMLEmitter {
	return &HTMLEmitter{annotator: annotator, w: w}
}

// Err returns the first write error.
func (e *HTMLEmitter) Err() error {
	return e.err
}

func (e *HTMLEmitter) write(s string) {
	if e.err != nil || s == "" {
		return
	}
	_, e.err = io.WriteString(e.w, s)
}

func (e *HTMLEmitter) writeNodes(nodes []markup.Node) {
	if len(nodes) > 0 {
		e.write(markup.Render(nodes))
	}
}

func (e *HTMLEmitter) ComputeMemory(scope render.Scope, annotation source.Annotation) Memory {
	return e.annotator.ComputeMemory(scope, annotation)
}

func (e *HTMLEmitter) StartAnnotation(scope render.Scope, annotation source.Annotation, memory Memory) {
	before, wrapper := e.annotator.Elements(scope, annotation, memory)
	e.writeNodes(before)
	if wrapper != nil {
		e.write(wrapper.OpenTag())
	}
}

func (e *HTMLEmitter) EndAnnotation(_ render.Scope, annotation source.Annotation, memory Memory) {
	e.write(closeTag(annotation, memory))
}

func (e *HTMLEmitter) Text(text string, start, end int) {
	e.write(html.EscapeString(text[start:end]))
}

func (e *HTMLEmitter) BeginInsertion() { e.write("<span class='insertion'>") }
func (e *HTMLEmitter) EndInsertion()   { e.write("</span>") }
func (e *HTMLEmitter) BeginDeletion()  { e.write("<span class='deletion'>") }
func (e *HTMLEmitter) EndDeletion()    { e.write("</span>") }
func (e *HTMLEmitter) BeginHighlight() { e.write("<span class='highlight'>") }
func (e *HTMLEmitter) EndHighlight()   { e.write("</span>") }

func (e *HTMLEmitter) NormalLineMarker(line int) {
	e.writeNodes([]markup.Node{e.annotator.NormalLineMarker(line)})
}

func (e *HTMLEmitter) DiffLineMarker(newLine, oldLine *int) {
	e.writeNodes(e.annotator.DiffLineMarker(newLine, oldLine))
}
