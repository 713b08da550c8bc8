// Package view turns annotated source files into the HTML served to
// browsers, either streamed to a writer or buffered as a markup tree.
package view

import (
	"strconv"
	"strings"

	"javabrowser/internal/binding"
	"javabrowser/internal/logging"
	"javabrowser/internal/markup"
	"javabrowser/internal/render"
	"javabrowser/internal/source"
)

// Memory is the per-entry resolution result. Empty strings mark unresolved
// bindings.
type Memory struct {
	URI       string
	SuperURIs []string
}

// Options controls what a rendered page exposes.
type Options struct {
	// HasOverlay adds the show-refs control in front of every declaration.
	HasOverlay bool
	// ReferenceThisURL adds ids to references and line markers so other
	// pages can link into this one.
	ReferenceThisURL bool
	// OwnURI is prepended to self links. Empty when the page is served at
	// the file's own URI.
	OwnURI string
}

// Annotator decides the markup of every annotation. Both output paths use
// it, so they produce the same HTML.
type Annotator struct {
	resolver binding.Resolver
	scopes   map[render.Scope]binding.ScopeInfo
	opts     Options
	logger   *logging.Logger
}

// NewAnnotator creates an annotator. A scope missing from scopes resolves
// nothing.
func NewAnnotator(resolver binding.Resolver, scopes map[render.Scope]binding.ScopeInfo, opts Options, logger *logging.Logger) *Annotator {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &Annotator{resolver: resolver, scopes: scopes, opts: opts, logger: logger}
}

func scopePrefix(scope render.Scope) string {
	if scope == render.ScopeOld {
		return binding.OldPrefix
	}
	return ""
}

// ComputeMemory resolves the link targets an annotation needs.
func (a *Annotator) ComputeMemory(scope render.Scope, annotation source.Annotation) Memory {
	classpath := a.scopes[scope].Classpath
	switch ann := annotation.(type) {
	case source.BindingRef:
		return Memory{URI: a.resolve(classpath, ann.Binding)}
	case source.BindingDecl:
		if len(ann.SuperBindings) == 0 {
			return Memory{}
		}
		uris := make([]string, len(ann.SuperBindings))
		for i, sb := range ann.SuperBindings {
			uris[i] = a.resolve(classpath, sb.Binding)
		}
		return Memory{SuperURIs: uris}
	}
	return Memory{}
}

func (a *Annotator) resolve(classpath binding.Classpath, id source.BindingID) string {
	uris := a.resolver.ResolveBinding(classpath, id)
	if len(uris) == 0 {
		a.logger.Debug("Unresolved binding", map[string]interface{}{
			"binding": string(id),
		})
		return ""
	}
	return uris[0]
}

// Elements returns the nodes placed in front of an annotation and the
// element wrapping its content. wrapper is nil when the content is emitted
// bare, as for unresolved references.
func (a *Annotator) Elements(scope render.Scope, annotation source.Annotation, memory Memory) (before []markup.Node, wrapper *markup.Element) {
	prefix := scopePrefix(scope)
	switch ann := annotation.(type) {
	case source.BindingRef:
		if memory.URI == "" {
			return nil, nil
		}
		link := markup.NewElement("a", "href", memory.URI)
		if ann.RefGroup != nil && a.opts.ReferenceThisURL {
			link.SetAttr("id", prefix+"ref-"+strconv.Itoa(*ann.RefGroup))
		}
		return nil, link

	case source.BindingDecl:
		if a.opts.HasOverlay && ann.Description != source.DescriptionInitializer {
			before = append(before, a.showRefs(scope, ann, memory))
		}
		id := prefix + string(ann.Binding)
		return before, markup.NewElement("a", "id", id, "href", a.opts.OwnURI+binding.BindingHash(id))

	case source.Style:
		return nil, markup.NewElement("span", "class", strings.Join(ann.Classes, " "))

	case source.LocalVariableOrLabelRef:
		return nil, markup.NewElement("span", "class", "local-variable", "data-local-variable", ann.ScopeID)
	}
	return nil, nil
}

func (a *Annotator) showRefs(scope render.Scope, decl source.BindingDecl, memory Memory) *markup.Element {
	superHTML := ""
	if len(decl.SuperBindings) > 0 {
		list := markup.NewElement("ul", "id", "super-types")
		for i, sb := range decl.SuperBindings {
			var name markup.Node = markup.Text(sb.Name)
			if i < len(memory.SuperURIs) && memory.SuperURIs[i] != "" {
				name = markup.NewElement("a", "href", memory.SuperURIs[i]).Append(name)
			}
			list.Append(markup.NewElement("li").Append(name))
		}
		superHTML = markup.Render([]markup.Node{list})
	}
	return markup.NewElement("a",
		"class", "show-refs",
		"href", "javascript:;",
		"onclick", "showReferences(this); return false",
		"data-binding", string(decl.Binding),
		"data-super-html", superHTML,
		"data-artifact-id", a.scopes[scope].ArtifactID,
	)
}

// closeTag returns the end tag matching the wrapper from Elements.
func closeTag(annotation source.Annotation, memory Memory) string {
	switch annotation.(type) {
	case source.BindingRef:
		if memory.URI == "" {
			return ""
		}
		return "</a>"
	case source.BindingDecl:
		return "</a>"
	case source.Style, source.LocalVariableOrLabelRef:
		return "</span>"
	}
	return ""
}

func (a *Annotator) lineMarker(id string, line int, forDiff bool) *markup.Element {
	e := markup.NewElement("a", "href", a.opts.OwnURI+binding.BindingHash(id))
	if a.opts.ReferenceThisURL {
		e.SetAttr("id", id)
	}
	class := "line"
	if forDiff {
		class += " line-diff"
	}
	return e.SetAttr("class", class).SetAttr("data-line", strconv.Itoa(line+1))
}

// NormalLineMarker returns the gutter anchor of a 0-based line.
func (a *Annotator) NormalLineMarker(line int) markup.Node {
	return a.lineMarker(strconv.Itoa(line+1), line, false)
}

// DiffLineMarker returns the two gutter anchors and the change marker of
// one diff row. The old side's anchor id carries the old-scope prefix.
func (a *Annotator) DiffLineMarker(newLine, oldLine *int) []markup.Node {
	empty := func() markup.Node { return markup.NewElement("a", "class", "line line-diff") }

	nodes := make([]markup.Node, 0, 3)
	if oldLine != nil {
		nodes = append(nodes, a.lineMarker(binding.OldPrefix+strconv.Itoa(*oldLine+1), *oldLine, true))
	} else {
		nodes = append(nodes, empty())
	}
	if newLine != nil {
		nodes = append(nodes, a.lineMarker(strconv.Itoa(*newLine+1), *newLine, true))
	} else {
		nodes = append(nodes, empty())
	}

	marker := " "
	switch {
	case newLine == nil:
		marker = "-"
	case oldLine == nil:
		marker = "+"
	}
	return append(nodes, markup.NewElement("span", "class", "diff-marker").Append(markup.Text(marker)))
}

// TreeBuilder returns a buffered emitter producing the same markup as
// HTMLEmitter.
func (a *Annotator) TreeBuilder() *render.TreeBuilder[Memory] {
	build := func(scope render.Scope, annotation source.Annotation, memory Memory, children []markup.Node) []markup.Node {
		before, wrapper := a.Elements(scope, annotation, memory)
		if wrapper == nil {
			return append(before, children...)
		}
		return append(before, wrapper.Append(children...))
	}
	return render.NewTreeBuilder(a.ComputeMemory, build).
		WithLineMarkers(func(line int) []markup.Node {
			return []markup.Node{a.NormalLineMarker(line)}
		})
}
