package binding

import (
	"javabrowser/internal/source"
)

// Table is an immutable in-memory resolver.
type Table struct {
	locations map[source.BindingID][]Location
}

// TableBuilder accumulates declarations before freezing them into a Table.
type TableBuilder struct {
	locations map[source.BindingID][]Location
}

// NewTableBuilder creates an empty builder.
func NewTableBuilder() *TableBuilder {
	return &TableBuilder{locations: make(map[source.BindingID][]Location)}
}

// Add records that artifactID declares binding in sourcePath. The first
// artifact added for a binding is its declaring artifact. Repeated
// registrations for the same artifact are ignored.
func (b *TableBuilder) Add(binding source.BindingID, artifactID, sourcePath string) {
	for _, l := range b.locations[binding] {
		if l.ArtifactID == artifactID {
			return
		}
	}
	b.locations[binding] = append(b.locations[binding], Location{ArtifactID: artifactID, SourcePath: sourcePath})
}

// AddFile records every declaration of a file.
func (b *TableBuilder) AddFile(artifactID, sourcePath string, file *source.File) {
	for _, d := range file.Declarations() {
		b.Add(d.Binding, artifactID, sourcePath)
	}
}

// Build freezes the builder. The builder must not be used afterwards.
func (b *TableBuilder) Build() *Table {
	t := &Table{locations: b.locations}
	b.locations = nil
	return t
}

// Len returns the number of distinct bindings.
func (t *Table) Len() int {
	return len(t.locations)
}

// Locations returns every declaration site of binding on the classpath in
// resolution order: the declaring artifact first when it is on the
// classpath, then the other classpath entries in classpath order.
func (t *Table) Locations(classpath Classpath, binding source.BindingID) []Location {
	all := t.locations[binding]
	if len(all) == 0 {
		return nil
	}

	var out []Location
	declaring := all[0]
	if classpath.Contains(declaring.ArtifactID) {
		out = append(out, declaring)
	}
	for _, artifactID := range classpath {
		if artifactID == declaring.ArtifactID {
			continue
		}
		for _, l := range all[1:] {
			if l.ArtifactID == artifactID {
				out = append(out, l)
				break
			}
		}
	}
	return out
}

// ResolveBinding implements Resolver.
func (t *Table) ResolveBinding(classpath Classpath, binding source.BindingID) []string {
	locs := t.Locations(classpath, binding)
	if len(locs) == 0 {
		return nil
	}
	uris := make([]string, len(locs))
	for i, l := range locs {
		uris[i] = l.URI(binding)
	}
	return uris
}
