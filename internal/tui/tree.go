// Package tui renders parsed Lore documents as styled terminal trees.
package tui

import (
	"fmt"
	"strings"

	"github.com/fleetinglore/lore/internal/parser"
)

// Tree returns a styled tree view of a document, two spaces of indent per
// nesting level.
func Tree(doc *parser.Document, title string) string {
	var out strings.Builder
	out.WriteString(TitleStyle.Render(title))
	out.WriteByte('\n')
	for _, n := range doc.Nodes {
		writeTree(&out, n, 1)
	}
	return out.String()
}

func writeTree(out *strings.Builder, n parser.Node, depth int) {
	pad := strings.Repeat("  ", depth)
	switch node := n.(type) {
	case *parser.Atom:
		fmt.Fprintf(out, "%s%s\n", pad, atomStyle.Render(node.Value))
	case *parser.Link:
		fmt.Fprintf(out, "%s%s %s %s\n", pad,
			keyStyle.Render(node.Key),
			DimStyle.Render("="),
			targetStyle.Render(node.Target))
	case *parser.Domain:
		fmt.Fprintf(out, "%s%s\n", pad, domainStyle.Render("+ "+node.Label))
		for _, child := range node.Children {
			writeTree(out, child, depth+1)
		}
	default:
		// Unreachable for documents produced by the parser.
		fmt.Fprintf(out, "%s%s\n", pad, ErrorStyle.Render(fmt.Sprintf("unknown node %T", n)))
	}
}
