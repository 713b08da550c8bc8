package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"

	"javabrowser/internal/binding"
	"javabrowser/internal/errors"
	"javabrowser/internal/logging"
	"javabrowser/internal/source"
	"javabrowser/internal/testutil"
)

const (
	classA = "package app;\nclass A {\n  app.sub.B b;\n  String s;\n}\n"
	classB = "package app.sub;\nclass B {}\n"
)

type fakeResolver map[source.BindingID]string

func (f fakeResolver) ResolveBinding(_ binding.Classpath, id source.BindingID) []string {
	if uri, ok := f[id]; ok {
		return []string{uri}
	}
	return nil
}

func fixtureBatch(t *testing.T) *Batch {
	t.Helper()

	a := testutil.File(t, classA,
		testutil.Annotate(t, classA, source.BindingRef{Binding: "app"}, "app", 0),
		testutil.Span(t, classA, source.BindingDecl{Binding: "app.A"}, "class", "}"),
		testutil.Annotate(t, classA, source.Style{Classes: []string{"keyword"}}, "class", 0),
		testutil.Annotate(t, classA, source.BindingRef{Binding: "app.sub.B"}, "B", 0),
		testutil.Annotate(t, classA, source.BindingRef{Binding: "java.lang.String"}, "String", 0),
		testutil.Annotate(t, classA, source.LocalVariableOrLabelRef{ScopeID: "3"}, "s;", 0),
	)
	b := testutil.File(t, classB,
		testutil.Span(t, classB, source.BindingDecl{Binding: "app.sub.B"}, "class", "}"),
	)

	batch := NewBatch(logging.NewDiscardLogger())
	batch.AddFile("app/A.java", a)
	batch.AddFile("app/sub/B.java", b)
	return batch
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	return string(data)
}

func TestGeneratedName(t *testing.T) {
	tests := []struct {
		path, name, toRoot string
	}{
		{"A.java", "A.html", ""},
		{"app/A.java", "app/A.html", "../"},
		{"java/util/Map.java", "java/util/Map.html", "../../"},
		{"module-info", "module-info.html", ""},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			name := GeneratedName(tt.path)
			if name != tt.name {
				t.Errorf("GeneratedName = %q, want %q", name, tt.name)
			}
			if got := ToRoot(name); got != tt.toRoot {
				t.Errorf("ToRoot = %q, want %q", got, tt.toRoot)
			}
		})
	}
}

func TestAncestors(t *testing.T) {
	tests := []struct {
		path string
		want []string
	}{
		{"a/b/C.java", []string{"a/b/", "a/", ""}},
		{"C.java", []string{""}},
		{"", nil},
	}
	for _, tt := range tests {
		if got := ancestors(tt.path); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ancestors(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestPackageName(t *testing.T) {
	for pkg, want := range map[string]string{"": "", "java/": "java", "java/util/": "java.util"} {
		if got := PackageName(pkg); got != want {
			t.Errorf("PackageName(%q) = %q, want %q", pkg, got, want)
		}
	}
}

func TestPublish(t *testing.T) {
	site := t.TempDir()
	out := filepath.Join(site, "java", "17")
	batch := fixtureBatch(t)

	report, err := batch.Publish(context.Background(), Options{
		OutputDir: out,
		Workers:   2,
		Resolver:  fakeResolver{"java.lang.String": "/java/17/java/lang/String.java#java.lang.String"},
		Classpath: binding.Classpath{"java/17"},
	})
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if report.RunID != batch.RunID || report.Files != 2 || report.Written != 2 || report.Packages != 3 {
		t.Errorf("report = %+v", report)
	}

	page := readFile(t, filepath.Join(out, "app", "A.html"))
	for _, want := range []string{
		"<link rel='stylesheet' href='../../code.css'>",
		"<title>app/A.java</title>",
		"<code><pre>package app;\n<a id='app.A'><span class='keyword'>class</span> A {",
		"<a href='../app/sub/B.html#app.sub.B'>B</a>",
		"<a href='/java/17/java/lang/String.java#java.lang.String'>String</a>",
		"<span class='local-variable' data-local-variable='3'>s;</span>",
		"}</a>\n</pre></code>",
	} {
		if !strings.Contains(page, want) {
			t.Errorf("A.html missing %q:\n%s", want, page)
		}
	}
	if !strings.Contains(testutil.StripTags(page), classA) {
		t.Errorf("stripped page does not contain the source text")
	}

	if page := readFile(t, filepath.Join(out, "app", "sub", "B.html")); !strings.Contains(page, "<a id='app.sub.B'>class B {}</a>") {
		t.Errorf("B.html = %s", page)
	}

	manifests := map[string]Manifest{
		"": {"app.A": "app/A.html#app.A", "app.sub.B": "app/sub/B.html#app.sub.B"},
		"app": {"app.A": "A.html#app.A", "app.sub.B": "sub/B.html#app.sub.B"},
		"app/sub": {"app.sub.B": "B.html#app.sub.B"},
	}
	for dir, want := range manifests {
		var got Manifest
		if err := json.Unmarshal([]byte(readFile(t, filepath.Join(out, dir, ManifestFile))), &got); err != nil {
			t.Fatalf("manifest %q: %v", dir, err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("manifest %q = %v, want %v", dir, got, want)
		}
	}

	index := readFile(t, filepath.Join(out, "app", "sub", IndexFile))
	if !strings.Contains(index, "<title>app.sub</title>") || !strings.Contains(index, `href="../../../code.css"`) {
		t.Errorf("index.html = %s", index)
	}
	if strings.Contains(index, "##") {
		t.Errorf("unreplaced placeholder in index.html")
	}

	if _, err := os.Stat(filepath.Join(site, "java", StylesheetFile)); err != nil {
		t.Errorf("stylesheet not written: %v", err)
	}

	var saved Report
	if err := json.Unmarshal([]byte(readFile(t, filepath.Join(out, ReportFile))), &saved); err != nil {
		t.Fatalf("report: %v", err)
	}
	if saved.RunID != batch.RunID || saved.Files != 2 {
		t.Errorf("saved report = %+v", saved)
	}
}

func TestPublishIsIdempotent(t *testing.T) {
	out := filepath.Join(t.TempDir(), "site")
	opts := Options{OutputDir: out, Workers: 1}

	if _, err := fixtureBatch(t).Publish(context.Background(), opts); err != nil {
		t.Fatalf("first Publish: %v", err)
	}
	first := readFile(t, filepath.Join(out, "app", "A.html"))
	if _, err := fixtureBatch(t).Publish(context.Background(), opts); err != nil {
		t.Fatalf("second Publish: %v", err)
	}
	if second := readFile(t, filepath.Join(out, "app", "A.html")); second != first {
		t.Errorf("republished page differs")
	}
	// Without a resolver the external reference stays plain text.
	if strings.Contains(first, "String</a>") {
		t.Errorf("unresolved reference was linked: %s", first)
	}
}

func TestPublishGzip(t *testing.T) {
	out := filepath.Join(t.TempDir(), "site")
	if _, err := fixtureBatch(t).Publish(context.Background(), Options{OutputDir: out, Gzip: true}); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	page := readFile(t, filepath.Join(out, "app", "A.html"))
	zr, err := gzip.NewReader(bytes.NewReader([]byte(readFile(t, filepath.Join(out, "app", "A.html.gz")))))
	if err != nil {
		t.Fatalf("gzip.NewReader: %v", err)
	}
	data, err := io.ReadAll(zr)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(data) != page {
		t.Errorf("compressed sibling differs from the page")
	}
	if _, err := os.Stat(filepath.Join(out, "app", "index.html.gz")); err != nil {
		t.Errorf("index.html.gz missing: %v", err)
	}
}

func TestPublishPartialFailure(t *testing.T) {
	out := filepath.Join(t.TempDir(), "site")
	batch := fixtureBatch(t)

	// Overlapping entries cannot be nested.
	broken := source.NewFile("class C {}", []source.Entry{
		source.NewEntry(0, 7, source.Style{Classes: []string{"keyword"}}),
		source.NewEntry(6, 4, source.BindingDecl{Binding: "C"}),
	})
	batch.AddSourceFile("C.java", broken)

	// A directory in place of the output file makes the write fail.
	if err := os.MkdirAll(filepath.Join(out, "app", "A.html", "x"), 0755); err != nil {
		t.Fatal(err)
	}

	report, err := batch.Publish(context.Background(), Options{OutputDir: out, Workers: 4})
	if !errors.IsCode(err, errors.OutputWriteFailed) {
		t.Fatalf("err = %v, want OutputWriteFailed", err)
	}
	if want := []string{"C.java", "app/A.java"}; !reflect.DeepEqual(report.Failed, want) {
		t.Errorf("Failed = %v, want %v", report.Failed, want)
	}
	if report.Files != 3 || report.Written != 1 {
		t.Errorf("report = %+v", report)
	}
	if _, err := os.Stat(filepath.Join(out, "app", "sub", "B.html")); err != nil {
		t.Errorf("B.html not written: %v", err)
	}
	if _, err := os.Stat(filepath.Join(out, ReportFile)); err != nil {
		t.Errorf("report not written: %v", err)
	}
}

func TestPublishDanglingDeclarationParent(t *testing.T) {
	out := filepath.Join(t.TempDir(), "site")
	batch := fixtureBatch(t)

	code := "class D { void m(){} }"
	broken := source.NewFile(code, []source.Entry{
		testutil.Annotate(t, code, source.BindingDecl{Binding: "D"}, "D", 0),
		testutil.Annotate(t, code, source.BindingDecl{Binding: "D#m()", Parent: "Nope"}, "m", 0),
	})
	batch.AddSourceFile("D.java", broken)

	report, err := batch.Publish(context.Background(), Options{OutputDir: out})
	if !errors.IsCode(err, errors.OutputWriteFailed) {
		t.Fatalf("err = %v, want OutputWriteFailed", err)
	}
	if want := []string{"D.java"}; !reflect.DeepEqual(report.Failed, want) {
		t.Errorf("Failed = %v, want %v", report.Failed, want)
	}
	if report.Files != 3 || report.Written != 2 {
		t.Errorf("report = %+v", report)
	}
	if _, err := os.Stat(filepath.Join(out, "D.html")); !os.IsNotExist(err) {
		t.Errorf("D.html exists after a rejected render: %v", err)
	}
	for _, name := range []string{"app/A.html", "app/sub/B.html"} {
		if _, err := os.Stat(filepath.Join(out, filepath.FromSlash(name))); err != nil {
			t.Errorf("%s not written: %v", name, err)
		}
	}
}

func TestPublishCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := fixtureBatch(t).Publish(ctx, Options{OutputDir: t.TempDir()})
	if err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestRegisterBindingFirstWins(t *testing.T) {
	b := NewBatch(nil)
	b.RegisterBinding("x.Y", "x/Y.java")
	b.RegisterBinding("x.Y", "other/Y.java")
	if got := b.href("z/Z.html", "x.Y", Options{}); got != "../x/Y.html#x.Y" {
		t.Errorf("href = %q", got)
	}
	if got := b.href("z/Z.html", "x.Missing", Options{}); got != "" {
		t.Errorf("unknown binding href = %q", got)
	}
}
