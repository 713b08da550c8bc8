package publish

import (
	_ "embed"
	"encoding/json"
	"path/filepath"
	"sort"
	"strings"

	"javabrowser/internal/binding"
	"javabrowser/internal/source"
)

//go:embed templates/package.html
var packageTemplate string

// Manifest maps every type of a package to its link relative to the
// package directory.
type Manifest map[source.BindingID]string

// ancestors returns the package directories of a source path, innermost
// first: "a/b/C.java" gives "a/b/", "a/" and "".
func ancestors(sourcePath string) []string {
	var out []string
	pkg := sourcePath
	for pkg != "" {
		i := strings.LastIndexByte(pkg[:len(pkg)-1], '/')
		pkg = pkg[:i+1]
		out = append(out, pkg)
	}
	return out
}

// packages groups the registered types by every package directory that
// contains their source file. Types without a registered file are skipped.
func (b *Batch) packages() map[string]Manifest {
	out := make(map[string]Manifest)
	for t := range b.types {
		sourcePath, ok := b.bindings[t]
		if !ok {
			continue
		}
		for _, pkg := range ancestors(sourcePath) {
			m, ok := out[pkg]
			if !ok {
				m = make(Manifest)
				out[pkg] = m
			}
			m[t] = GeneratedName(strings.TrimPrefix(sourcePath, pkg)) + binding.BindingHash(string(t))
		}
	}
	return out
}

// PackageName returns the dotted name of a package directory. The root
// package has the empty name.
func PackageName(pkg string) string {
	return strings.ReplaceAll(strings.TrimSuffix(pkg, "/"), "/", ".")
}

func indexPage(pkg string) string {
	r := strings.NewReplacer(
		"##root##", ToRoot(pkg),
		"##package-name##", PackageName(pkg),
	)
	return r.Replace(packageTemplate)
}

func (b *Batch) writePackage(pkg string, m Manifest, opts Options) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	dir := filepath.Join(opts.OutputDir, filepath.FromSlash(pkg))
	if err := writeOutput(filepath.Join(dir, ManifestFile), data, false); err != nil {
		return err
	}
	return writeOutput(filepath.Join(dir, IndexFile), []byte(indexPage(pkg)), opts.Gzip)
}

func sortedKeys(m map[string]Manifest) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
