package ingest

import (
	"context"
	"strconv"
	"strings"

	scippb "github.com/sourcegraph/scip/bindings/go/scip"

	"javabrowser/internal/highlight"
	"javabrowser/internal/logging"
	"javabrowser/internal/source"
)

// Converter turns SCIP documents into annotated source files.
type Converter struct {
	infos       map[string]*scippb.SymbolInformation
	parsed      map[string]*symbol
	highlighter *highlight.Highlighter
	logger      *logging.Logger
}

// NewConverter indexes the symbol information of index, including external
// symbols, for super-binding names.
func NewConverter(index *scippb.Index, highlighter *highlight.Highlighter, logger *logging.Logger) *Converter {
	c := &Converter{
		infos:       make(map[string]*scippb.SymbolInformation),
		parsed:      make(map[string]*symbol),
		highlighter: highlighter,
		logger:      logger,
	}
	for _, info := range index.GetExternalSymbols() {
		c.infos[info.Symbol] = info
	}
	for _, doc := range index.GetDocuments() {
		for _, info := range doc.Symbols {
			c.infos[info.Symbol] = info
		}
	}
	return c
}

// Convert builds the file model of doc over text. Occurrences that cannot be
// placed in the text or that partially overlap an earlier entry are dropped.
func (c *Converter) Convert(ctx context.Context, doc *scippb.Document, text string) (*source.File, error) {
	li := newLineIndex(text, doc.PositionEncoding)
	log := c.logger.With(map[string]interface{}{"document": doc.RelativePath})

	var entries []source.Entry
	declared := make(map[source.BindingID]string)
	hasSyntax := false
	skipped := 0

	for _, occ := range doc.Occurrences {
		start, length, ok := li.span(occ.Range)
		if !ok {
			skipped++
			continue
		}

		if class := styleClass(occ.SyntaxKind); class != "" {
			hasSyntax = true
			entries = append(entries, source.NewEntry(start, length, source.Style{Classes: []string{class}}))
		}

		switch {
		case occ.Symbol == "":
		case isLocalSymbol(occ.Symbol):
			scope := strings.TrimPrefix(occ.Symbol, localPrefix)
			entries = append(entries, source.NewEntry(start, length, source.LocalVariableOrLabelRef{ScopeID: scope}))
		default:
			sym := c.symbol(occ.Symbol)
			if sym == nil {
				continue
			}
			id, ok := bindingFor(sym.descriptors)
			if !ok {
				continue
			}
			if occ.SymbolRoles&int32(scippb.SymbolRole_Definition) != 0 {
				if _, dup := declared[id]; !dup {
					declared[id] = occ.Symbol
				}
				entries = append(entries, source.NewEntry(start, length, source.BindingDecl{Binding: id}))
			} else {
				entries = append(entries, source.NewEntry(start, length, source.BindingRef{Binding: id}))
			}
		}
	}

	if !hasSyntax && highlight.Available() {
		styles, err := c.highlighter.Styles(ctx, text)
		if err != nil {
			log.Warn("Syntax highlighting failed", map[string]interface{}{"error": err.Error()})
		}
		entries = append(entries, styles...)
	}

	entries, dropped := pruneEntries(text, entries)
	if skipped > 0 || dropped > 0 {
		log.Warn("Dropped occurrences", map[string]interface{}{
			"out_of_range": skipped,
			"overlapping":  dropped,
		})
	}
	c.resolveDeclarations(entries, declared)

	file := source.NewFile(text, entries)
	if err := file.Validate(); err != nil {
		return nil, err
	}
	return file, nil
}

func (c *Converter) symbol(s string) *symbol {
	if sym, ok := c.parsed[s]; ok {
		return sym
	}
	sym, err := parseSymbol(s)
	if err != nil {
		c.logger.Debug("Unparseable symbol", map[string]interface{}{"symbol": s, "error": err.Error()})
		sym = nil
	}
	c.parsed[s] = sym
	return sym
}

// resolveDeclarations fills parents, descriptions and super bindings of the
// sorted entries. A declaration's parent is its innermost enclosing
// declaration that is still open in source order, so the outline is always
// well formed. Repeated declarations of one binding become references.
func (c *Converter) resolveDeclarations(sorted []source.Entry, declared map[source.BindingID]string) {
	var open []source.BindingID
	seen := make(map[source.BindingID]bool)
	for i := range sorted {
		e := &sorted[i]
		decl, ok := e.Annotation.(source.BindingDecl)
		if !ok {
			continue
		}
		if seen[decl.Binding] {
			e.Annotation = source.BindingRef{Binding: decl.Binding}
			continue
		}
		seen[decl.Binding] = true

		symbolName := declared[decl.Binding]
		ds := c.symbol(symbolName).descriptors

		candidates := enclosingBindings(ds)
		if info := c.infos[symbolName]; info != nil && info.EnclosingSymbol != "" {
			if enc := c.symbol(info.EnclosingSymbol); enc != nil {
				if id, ok := bindingFor(enc.descriptors); ok {
					candidates = append([]source.BindingID{id}, candidates...)
				}
			}
		}

		depth := -1
		for _, cand := range candidates {
			if d := indexOf(open, cand); d >= 0 {
				depth = d
				break
			}
		}
		open = append(open[:depth+1], decl.Binding)
		if depth >= 0 {
			decl.Parent = open[depth]
		}

		if isInitializer(ds) {
			decl.Description = source.DescriptionInitializer
		}
		decl.SuperBindings = c.superBindings(symbolName)
		e.Annotation = decl
	}
}

func (c *Converter) superBindings(sym string) []source.SuperBinding {
	info := c.infos[sym]
	if info == nil {
		return nil
	}
	var supers []source.SuperBinding
	for _, rel := range info.Relationships {
		if !rel.IsImplementation {
			continue
		}
		target := c.symbol(rel.Symbol)
		if target == nil {
			continue
		}
		id, ok := bindingFor(target.descriptors)
		if !ok {
			continue
		}
		name := displayName(target.descriptors)
		if ti := c.infos[rel.Symbol]; ti != nil && ti.DisplayName != "" {
			name = ti.DisplayName
		}
		supers = append(supers, source.SuperBinding{Binding: id, Name: name})
	}
	return supers
}

func indexOf(ids []source.BindingID, id source.BindingID) int {
	for i := len(ids) - 1; i >= 0; i-- {
		if ids[i] == id {
			return i
		}
	}
	return -1
}

// pruneEntries removes exact duplicates, entries outside the text and entries
// that partially overlap an entry kept before them.
func pruneEntries(text string, entries []source.Entry) ([]source.Entry, int) {
	sorted := source.SortEntries(entries)

	type key struct {
		start, length int
		kind          source.Kind
		value         string
	}
	seen := make(map[key]bool)

	kept := make([]source.Entry, 0, len(sorted))
	var stack []source.Entry
	dropped := 0
	for _, e := range sorted {
		if e.Start < 0 || e.Length < 0 || e.End() > len(text) {
			dropped++
			continue
		}
		k := key{e.Start, e.Length, e.Annotation.Kind(), annotationKey(e.Annotation)}
		if seen[k] {
			continue
		}

		overlaps := false
		for len(stack) > 0 {
			top := stack[len(stack)-1]
			if top.Contains(e.Position) {
				break
			}
			if e.Start < top.End() {
				overlaps = true
				break
			}
			stack = stack[:len(stack)-1]
		}
		if overlaps {
			dropped++
			continue
		}

		seen[k] = true
		kept = append(kept, e)
		stack = append(stack, e)
	}
	return kept, dropped
}

func annotationKey(a source.Annotation) string {
	switch a := a.(type) {
	case source.BindingRef:
		return string(a.Binding)
	case source.BindingDecl:
		return string(a.Binding)
	case source.Style:
		return strings.Join(a.Classes, " ")
	case source.LocalVariableOrLabelRef:
		return a.ScopeID
	case source.SourceLineRef:
		return strconv.Itoa(a.Line)
	}
	return ""
}

func styleClass(kind scippb.SyntaxKind) string {
	switch kind {
	case scippb.SyntaxKind_Keyword, scippb.SyntaxKind_BooleanLiteral, scippb.SyntaxKind_IdentifierBuiltinType, scippb.SyntaxKind_IdentifierNull:
		return highlight.ClassKeyword
	case scippb.SyntaxKind_Comment:
		return highlight.ClassComment
	case scippb.SyntaxKind_StringLiteral, scippb.SyntaxKind_StringLiteralEscape, scippb.SyntaxKind_CharacterLiteral:
		return highlight.ClassString
	case scippb.SyntaxKind_NumericLiteral:
		return highlight.ClassNumber
	case scippb.SyntaxKind_IdentifierType:
		return highlight.ClassType
	case scippb.SyntaxKind_IdentifierAttribute:
		return highlight.ClassAnnotation
	case scippb.SyntaxKind_IdentifierConstant:
		return highlight.ClassConstant
	}
	return ""
}
