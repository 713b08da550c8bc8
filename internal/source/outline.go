package source

import (
	"javabrowser/internal/errors"
)

// DeclarationNode is one declaration of the file outline.
type DeclarationNode struct {
	Decl     BindingDecl
	Children []*DeclarationNode
}

// BuildOutline rebuilds the declaration tree from the flat depth-first list.
// Children must directly follow their parent and precede its next sibling.
func BuildOutline(decls []BindingDecl) ([]*DeclarationNode, error) {
	pos := 0
	roots := outlineLevel(decls, &pos, "")
	if pos < len(decls) {
		d := decls[pos]
		return nil, errors.Newf(errors.StructuralViolation,
			"declaration %q names parent %q which is not an open ancestor", d.Binding, d.Parent)
	}
	return roots, nil
}

func outlineLevel(decls []BindingDecl, pos *int, parent BindingID) []*DeclarationNode {
	var nodes []*DeclarationNode
	for *pos < len(decls) && decls[*pos].Parent == parent {
		d := decls[*pos]
		*pos++
		nodes = append(nodes, &DeclarationNode{
			Decl:     d,
			Children: outlineLevel(decls, pos, d.Binding),
		})
	}
	return nodes
}

// Walk visits the outline depth-first. Returning false skips a node's children.
func Walk(nodes []*DeclarationNode, fn func(node *DeclarationNode, depth int) bool) {
	walkOutline(nodes, 0, fn)
}

func walkOutline(nodes []*DeclarationNode, depth int, fn func(*DeclarationNode, int) bool) {
	for _, n := range nodes {
		if fn(n, depth) {
			walkOutline(n.Children, depth+1, fn)
		}
	}
}
