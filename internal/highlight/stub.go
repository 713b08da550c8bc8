//go:build !cgo

package highlight

import (
	"context"

	"javabrowser/internal/source"
)

// Highlighter produces Style entries from a tree-sitter parse.
// This is a stub implementation when CGO is not available.
type Highlighter struct{}

// NewHighlighter returns nil when CGO is not available.
func NewHighlighter() *Highlighter {
	return nil
}

// Available reports whether highlighting is compiled in.
func Available() bool {
	return false
}

// Styles returns no entries when CGO is not available.
func (h *Highlighter) Styles(ctx context.Context, text string) ([]source.Entry, error) {
	return nil, nil
}
