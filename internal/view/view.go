package view

import (
	"io"

	"javabrowser/internal/binding"
	"javabrowser/internal/diff"
	"javabrowser/internal/errors"
	"javabrowser/internal/logging"
	"javabrowser/internal/markup"
	"javabrowser/internal/render"
	"javabrowser/internal/source"
)

// Renderer renders single files and diffs against a shared resolver. It
// holds no per-render state and may be used concurrently.
type Renderer struct {
	resolver binding.Resolver
	logger   *logging.Logger
	diffOpts diff.Options
}

// NewRenderer creates a renderer.
func NewRenderer(resolver binding.Resolver, logger *logging.Logger, diffOpts diff.Options) *Renderer {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &Renderer{resolver: resolver, logger: logger, diffOpts: diffOpts}
}

// RenderFile streams the inner content of the file's <pre> block to w.
// With lineMarkers set every line starts with a line anchor.
func (r *Renderer) RenderFile(w io.Writer, scope binding.ScopeInfo, file *source.File, opts Options, lineMarkers bool) error {
	annotator := NewAnnotator(r.resolver, map[render.Scope]binding.ScopeInfo{render.ScopeCurrent: scope}, opts, r.logger)
	emitter := NewHTMLEmitter(w, annotator)
	p, err := render.NewPrinter[Memory](render.ScopeCurrent, file, emitter)
	if err != nil {
		return err
	}
	render.PrintFile(p, lineMarkers)
	if err := emitter.Err(); err != nil {
		return errors.New(errors.OutputWriteFailed, "failed to write rendered file", err)
	}
	return nil
}

// RenderTree renders the file into a buffered markup tree.
func (r *Renderer) RenderTree(scope binding.ScopeInfo, file *source.File, opts Options, lineMarkers bool) ([]markup.Node, error) {
	annotator := NewAnnotator(r.resolver, map[render.Scope]binding.ScopeInfo{render.ScopeCurrent: scope}, opts, r.logger)
	builder := annotator.TreeBuilder()
	p, err := render.NewPrinter[Memory](render.ScopeCurrent, file, builder)
	if err != nil {
		return nil, err
	}
	render.PrintFile(p, lineMarkers)
	return builder.Nodes(), nil
}

// RenderDiff streams a diff of two versions of one file. A nil side is a
// missing alternative: the other side is shown fully inserted or deleted.
func (r *Renderer) RenderDiff(w io.Writer, oldScope, newScope binding.ScopeInfo, oldFile, newFile *source.File, opts Options) error {
	if oldFile == nil && newFile == nil {
		return errors.New(errors.MissingAlternative, "neither side of the diff exists", nil)
	}
	if oldFile == nil || newFile == nil {
		r.logger.Debug("Rendering diff with missing alternative", map[string]interface{}{
			"oldMissing": oldFile == nil,
			"newMissing": newFile == nil,
		})
	}

	annotator := NewAnnotator(r.resolver, map[render.Scope]binding.ScopeInfo{
		render.ScopeOld: oldScope,
		render.ScopeNew: newScope,
	}, opts, r.logger)
	emitter := NewHTMLEmitter(w, annotator)

	var oldP, newP *render.Printer[Memory]
	var err error
	if oldFile != nil {
		if oldP, err = render.NewPrinter[Memory](render.ScopeOld, oldFile, emitter); err != nil {
			return err
		}
	}
	if newFile != nil {
		if newP, err = render.NewPrinter[Memory](render.ScopeNew, newFile, emitter); err != nil {
			return err
		}
	}

	render.PrintDiff(oldP, newP, diff.Align(oldFile, newFile, r.diffOpts), emitter)
	if err := emitter.Err(); err != nil {
		return errors.New(errors.OutputWriteFailed, "failed to write rendered diff", err)
	}
	return nil
}

// Outline returns the declaration tree of a file.
func Outline(file *source.File) ([]*source.DeclarationNode, error) {
	return source.BuildOutline(file.Declarations())
}
