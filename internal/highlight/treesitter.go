//go:build cgo

package highlight

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"

	"javabrowser/internal/source"
)

var nodeClasses = map[string]string{
	"line_comment":                   ClassComment,
	"block_comment":                  ClassComment,
	"string_literal":                 ClassString,
	"character_literal":              ClassString,
	"text_block":                     ClassString,
	"decimal_integer_literal":        ClassNumber,
	"hex_integer_literal":            ClassNumber,
	"octal_integer_literal":          ClassNumber,
	"binary_integer_literal":         ClassNumber,
	"decimal_floating_point_literal": ClassNumber,
	"hex_floating_point_literal":     ClassNumber,
	"true":                           ClassKeyword,
	"false":                          ClassKeyword,
	"null_literal":                   ClassKeyword,
	"integral_type":                  ClassKeyword,
	"floating_point_type":            ClassKeyword,
	"boolean_type":                   ClassKeyword,
	"void_type":                      ClassKeyword,
}

var keywords = map[string]bool{
	"abstract": true, "assert": true, "break": true, "case": true, "catch": true,
	"class": true, "continue": true, "default": true, "do": true, "else": true,
	"enum": true, "exports": true, "extends": true, "final": true, "finally": true,
	"for": true, "if": true, "implements": true, "import": true, "instanceof": true,
	"interface": true, "module": true, "native": true, "new": true, "non-sealed": true,
	"open": true, "opens": true, "package": true, "permits": true, "private": true,
	"protected": true, "provides": true, "public": true, "record": true, "requires": true,
	"return": true, "sealed": true, "static": true, "strictfp": true, "super": true,
	"switch": true, "synchronized": true, "this": true, "throw": true, "throws": true,
	"to": true, "transient": true, "transitive": true, "try": true, "uses": true,
	"var": true, "volatile": true, "when": true, "while": true, "with": true, "yield": true,
}

// Highlighter produces Style entries from a tree-sitter parse.
type Highlighter struct {
	lang *sitter.Language
}

// NewHighlighter creates a Java highlighter.
func NewHighlighter() *Highlighter {
	return &Highlighter{lang: java.GetLanguage()}
}

// Available reports whether highlighting is compiled in.
func Available() bool {
	return true
}

// Styles returns one Style entry per keyword, literal and comment token of
// text. Entries never overlap.
func (h *Highlighter) Styles(ctx context.Context, text string) ([]source.Entry, error) {
	if h == nil || text == "" {
		return nil, nil
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(h.lang)

	src := []byte(text)
	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	defer tree.Close()

	var entries []source.Entry
	var visit func(n *sitter.Node)
	visit = func(n *sitter.Node) {
		if class := classify(n); class != "" {
			start, end := int(n.StartByte()), int(n.EndByte())
			if end > start {
				entries = append(entries, source.NewEntry(start, end-start, source.Style{Classes: []string{class}}))
			}
			return
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			visit(n.Child(i))
		}
	}
	visit(tree.RootNode())
	return entries, nil
}

func classify(n *sitter.Node) string {
	typ := n.Type()
	if class, ok := nodeClasses[typ]; ok {
		return class
	}
	if !n.IsNamed() && keywords[typ] {
		return ClassKeyword
	}
	if typ == "marker_annotation" || typ == "annotation" {
		return ClassAnnotation
	}
	return ""
}
