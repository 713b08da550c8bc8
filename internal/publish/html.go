package publish

import (
	"path"
	"regexp"
	"strings"

	"javabrowser/internal/binding"
	"javabrowser/internal/errors"
	"javabrowser/internal/markup"
	"javabrowser/internal/render"
	"javabrowser/internal/source"
)

const (
	ManifestFile   = "package.json"
	IndexFile      = "index.html"
	ReportFile     = "publish-report.json"
	StylesheetFile = "code.css"
)

var dirSegment = regexp.MustCompile(`[^/]+/`)

// GeneratedName maps a source path to its document path: the .java
// extension is replaced by .html.
func GeneratedName(sourcePath string) string {
	return strings.TrimSuffix(sourcePath, ".java") + ".html"
}

// ToRoot returns the relative prefix leading from a document or package
// directory back to the site root.
func ToRoot(p string) string {
	dir, _ := path.Split(p)
	return dirSegment.ReplaceAllString(dir, "../")
}

// href resolves a reference from the document at fromName. Bindings declared
// in the batch get a relative link; others fall back to the external
// resolver. The result is empty when the binding is unknown.
func (b *Batch) href(fromName string, id source.BindingID, opts Options) string {
	if target, ok := b.bindings[id]; ok {
		return ToRoot(fromName) + GeneratedName(target) + binding.BindingHash(string(id))
	}
	if opts.Resolver != nil {
		if uris := opts.Resolver.ResolveBinding(opts.Classpath, id); len(uris) > 0 {
			return uris[0]
		}
	}
	b.logger.Debug("Unresolved binding", map[string]interface{}{"binding": string(id), "file": fromName})
	return ""
}

// renderDocument builds the complete page of one source file.
func (b *Batch) renderDocument(sourcePath string, file *source.File, opts Options) (string, error) {
	name := GeneratedName(sourcePath)

	compute := func(_ render.Scope, annotation source.Annotation) string {
		if ref, ok := annotation.(source.BindingRef); ok {
			return b.href(name, ref.Binding, opts)
		}
		return ""
	}
	builder := render.NewTreeBuilder(compute, buildNodes)

	p, err := render.NewPrinter[string](render.ScopeCurrent, file, builder)
	if err != nil {
		return "", errors.New(errors.StructuralViolation, sourcePath, err)
	}
	p.PrintAll()

	return document(sourcePath, ToRoot(name), builder.Nodes()), nil
}

// buildNodes is the tree builder step of static pages. memory is the
// resolved href of a reference.
func buildNodes(_ render.Scope, annotation source.Annotation, href string, children []markup.Node) []markup.Node {
	var wrapper *markup.Element
	switch ann := annotation.(type) {
	case source.BindingRef:
		if href == "" {
			return children
		}
		wrapper = markup.NewElement("a", "href", href)
	case source.BindingDecl:
		wrapper = markup.NewElement("a", "id", string(ann.Binding))
	case source.Style:
		wrapper = markup.NewElement("span", "class", strings.Join(ann.Classes, " "))
	case source.LocalVariableOrLabelRef:
		wrapper = markup.NewElement("span", "class", "local-variable", "data-local-variable", ann.ScopeID)
	default:
		return children
	}
	return []markup.Node{wrapper.Append(children...)}
}

func document(title, toRoot string, content []markup.Node) string {
	head := markup.NewElement("head").Append(
		markup.NewElement("meta", "charset", "utf-8"),
		markup.NewElement("title").Append(markup.Text(title)),
		markup.NewElement("link", "rel", "stylesheet", "href", toRoot+"../"+StylesheetFile),
	)
	body := markup.NewElement("body").Append(
		markup.NewElement("code").Append(markup.NewElement("pre").Append(content...)),
	)
	html := markup.NewElement("html").Append(head, body)
	return "<!DOCTYPE html>\n" + markup.Render([]markup.Node{html}) + "\n"
}
