// Package binding resolves declaration identifiers to hyperlink targets.
//
// Resolver tables are built once per batch or process and are immutable
// afterwards; lookups need no locking.
package binding

import (
	"net/url"
	"slices"
	"strings"

	"javabrowser/internal/source"
)

// OldPrefix is prepended to every anchor rendered for the OLD side of a diff
// so it cannot collide with the NEW side's anchor on the same page.
const OldPrefix = "--- "

// BindingHash maps a binding id to its URL fragment, including the leading
// '#'. Every byte outside the RFC 3986 fragment set is percent-encoded and
// '%' is always encoded, so distinct ids never share a hash.
func BindingHash(id string) string {
	u := url.URL{Fragment: id}
	return "#" + u.EscapedFragment()
}

// Classpath is the ordered set of artifact ids a reference may resolve
// against. Callers place their own artifact first.
type Classpath []string

// Contains reports whether artifactID is on the classpath.
func (c Classpath) Contains(artifactID string) bool {
	return slices.Contains(c, artifactID)
}

// ScopeInfo describes one side of a render.
type ScopeInfo struct {
	ArtifactID string
	Classpath  Classpath
}

// Resolver turns a binding into link targets.
type Resolver interface {
	// ResolveBinding returns the URIs for binding, best first. The result is
	// empty when the binding is not declared in any classpath artifact.
	ResolveBinding(classpath Classpath, binding source.BindingID) []string
}

// Location is where an artifact declares a binding.
type Location struct {
	ArtifactID string
	SourcePath string
}

// URI returns the absolute link to the declaration.
func (l Location) URI(binding source.BindingID) string {
	var b strings.Builder
	b.WriteByte('/')
	b.WriteString(l.ArtifactID)
	b.WriteByte('/')
	b.WriteString(strings.TrimPrefix(l.SourcePath, "/"))
	b.WriteString(BindingHash(string(binding)))
	return b.String()
}
