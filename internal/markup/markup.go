// Package markup is a minimal HTML node tree for the buffered render path.
package markup

import (
	"html"
	"strings"
)

// Node is a piece of HTML.
type Node interface {
	WriteHTML(b *strings.Builder)
}

// Text is character data; it is escaped on output.
type Text string

func (t Text) WriteHTML(b *strings.Builder) {
	b.WriteString(html.EscapeString(string(t)))
}

// Attr is one attribute. Attributes keep insertion order.
type Attr struct {
	Key   string
	Value string
}

// Element is an HTML element.
type Element struct {
	Tag      string
	Attrs    []Attr
	Children []Node
}

// NewElement creates an element with the given attributes as key/value pairs.
func NewElement(tag string, kv ...string) *Element {
	e := &Element{Tag: tag}
	for i := 0; i+1 < len(kv); i += 2 {
		e.SetAttr(kv[i], kv[i+1])
	}
	return e
}

// SetAttr sets or replaces an attribute.
func (e *Element) SetAttr(key, value string) *Element {
	for i := range e.Attrs {
		if e.Attrs[i].Key == key {
			e.Attrs[i].Value = value
			return e
		}
	}
	e.Attrs = append(e.Attrs, Attr{Key: key, Value: value})
	return e
}

// Attr returns an attribute value.
func (e *Element) Attr(key string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// Append adds children.
func (e *Element) Append(children ...Node) *Element {
	e.Children = append(e.Children, children...)
	return e
}

func (e *Element) WriteHTML(b *strings.Builder) {
	e.writeOpen(b)
	if voidElements[e.Tag] {
		return
	}
	for _, c := range e.Children {
		c.WriteHTML(b)
	}
	b.WriteString(e.CloseTag())
}

// OpenTag returns the start tag alone, for writers that stream children.
func (e *Element) OpenTag() string {
	var b strings.Builder
	e.writeOpen(&b)
	return b.String()
}

// CloseTag returns the end tag, empty for void elements.
func (e *Element) CloseTag() string {
	if voidElements[e.Tag] {
		return ""
	}
	return "</" + e.Tag + ">"
}

func (e *Element) writeOpen(b *strings.Builder) {
	b.WriteByte('<')
	b.WriteString(e.Tag)
	for _, a := range e.Attrs {
		b.WriteByte(' ')
		b.WriteString(a.Key)
		b.WriteString("='")
		b.WriteString(html.EscapeString(a.Value))
		b.WriteByte('\'')
	}
	b.WriteByte('>')
}

var voidElements = map[string]bool{"link": true, "meta": true, "br": true}

// Render serializes nodes.
func Render(nodes []Node) string {
	var b strings.Builder
	for _, n := range nodes {
		n.WriteHTML(&b)
	}
	return b.String()
}
