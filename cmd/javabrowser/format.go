package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"javabrowser/internal/source"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatJSON  OutputFormat = "json"
	FormatHuman OutputFormat = "human"
)

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(os.Stdout, string(data))
	return err
}

// OutlineNodeCLI is the JSON form of a declaration outline.
type OutlineNodeCLI struct {
	Binding     string            `json:"binding"`
	Initializer bool              `json:"initializer,omitempty"`
	Supers      []string          `json:"supers,omitempty"`
	Children    []*OutlineNodeCLI `json:"children,omitempty"`
}

func convertOutline(nodes []*source.DeclarationNode) []*OutlineNodeCLI {
	out := make([]*OutlineNodeCLI, 0, len(nodes))
	for _, n := range nodes {
		node := &OutlineNodeCLI{
			Binding:     string(n.Decl.Binding),
			Initializer: n.Decl.Description == source.DescriptionInitializer,
			Children:    convertOutline(n.Children),
		}
		for _, s := range n.Decl.SuperBindings {
			node.Supers = append(node.Supers, string(s.Binding))
		}
		out = append(out, node)
	}
	return out
}

// formatOutlineHuman prints one declaration per line, indented by depth.
func formatOutlineHuman(nodes []*source.DeclarationNode) string {
	var b strings.Builder
	source.Walk(nodes, func(n *source.DeclarationNode, depth int) bool {
		b.WriteString(strings.Repeat("  ", depth))
		b.WriteString(string(n.Decl.Binding))
		if len(n.Decl.SuperBindings) > 0 {
			names := make([]string, 0, len(n.Decl.SuperBindings))
			for _, s := range n.Decl.SuperBindings {
				names = append(names, s.Name)
			}
			b.WriteString(" : ")
			b.WriteString(strings.Join(names, ", "))
		}
		b.WriteByte('\n')
		return true
	})
	return b.String()
}
