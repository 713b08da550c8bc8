// Package testutil provides fixture helpers for tests over annotated sources.
package testutil

import (
	"regexp"
	"strings"
	"testing"

	"javabrowser/internal/source"
)

// Annotate builds an entry over the index-th (0-based) occurrence of word in code.
func Annotate(t *testing.T, code string, annotation source.Annotation, word string, index int) source.Entry {
	t.Helper()

	j := -1
	for i := 0; i <= index; i++ {
		next := strings.Index(code[j+1:], word)
		if next == -1 {
			t.Fatalf("occurrence %d of %q not found in %q", index, word, code)
		}
		j += 1 + next
	}
	return source.NewEntry(j, len(word), annotation)
}

// Span builds an entry from the first occurrence of from up to and including
// the first following occurrence of to.
func Span(t *testing.T, code string, annotation source.Annotation, from, to string) source.Entry {
	t.Helper()

	start := strings.Index(code, from)
	if start == -1 {
		t.Fatalf("%q not found in %q", from, code)
	}
	end := strings.Index(code[start:], to)
	if end == -1 {
		t.Fatalf("%q not found after %q in %q", to, from, code)
	}
	return source.NewEntry(start, end+len(to), annotation)
}

// File builds and validates a file model.
func File(t *testing.T, code string, entries ...source.Entry) *source.File {
	t.Helper()

	f := source.NewFile(code, entries)
	if err := f.Validate(); err != nil {
		t.Fatalf("invalid fixture: %v", err)
	}
	return f
}

var tagPattern = regexp.MustCompile(`<[^>]*>`)

var entityReplacer = strings.NewReplacer("&lt;", "<", "&gt;", ">", "&#34;", `"`, "&#39;", "'", "&amp;", "&")

// StripTags removes markup and unescapes the entities html.EscapeString produces.
func StripTags(markup string) string {
	return entityReplacer.Replace(tagPattern.ReplaceAllString(markup, ""))
}
