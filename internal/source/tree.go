package source

import (
	"javabrowser/internal/errors"
)

// Node is an entry together with the entries nested directly inside it.
// Index is the entry's position in sorted order, unique within one tree.
type Node struct {
	Entry    Entry
	Index    int
	Children []*Node
}

// BuildTree sorts entries and nests them. Any two entries must be disjoint
// or one must contain the other; every entry must lie inside the text.
// Violations are reported as StructuralViolation, never repaired.
func BuildTree(text string, entries []Entry) ([]*Node, error) {
	sorted := SortEntries(entries)

	var roots []*Node
	var stack []*Node
	for i, e := range sorted {
		if e.Annotation == nil {
			return nil, errors.Newf(errors.StructuralViolation, "entry %s has no annotation", e.Position)
		}
		if e.Start < 0 || e.Length < 0 || e.End() > len(text) {
			return nil, errors.Newf(errors.StructuralViolation,
				"entry %s %s lies outside the text (length %d)", e.Annotation.Kind(), e.Position, len(text))
		}

		for len(stack) > 0 {
			top := stack[len(stack)-1]
			if top.Entry.Contains(e.Position) {
				break
			}
			if e.Start < top.Entry.End() {
				return nil, errors.Newf(errors.StructuralViolation,
					"entry %s %s partially overlaps %s %s",
					e.Annotation.Kind(), e.Position, top.Entry.Annotation.Kind(), top.Entry.Position)
			}
			stack = stack[:len(stack)-1]
		}

		node := &Node{Entry: e, Index: i}
		if len(stack) == 0 {
			roots = append(roots, node)
		} else {
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, node)
		}
		stack = append(stack, node)
	}
	return roots, nil
}

