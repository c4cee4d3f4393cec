package render

import (
	"fmt"
	"strings"

	"github.com/fleetinglore/lore/internal/parser"
)

// Text renders a document back to canonical Lore source: two-space indents,
// "key = target" links and "+ label" domain headers. Values that cannot
// stand as bare tokens are bracketed. Parsing the output yields a tree
// structurally equal to the input.
type Text struct{}

func (t *Text) Render(doc *parser.Document) ([]byte, error) {
	var out strings.Builder
	for _, n := range doc.Nodes {
		if err := writeText(&out, n, 0); err != nil {
			return nil, err
		}
	}
	return []byte(out.String()), nil
}

func writeText(out *strings.Builder, n parser.Node, depth int) error {
	pad := strings.Repeat("  ", depth)
	switch node := n.(type) {
	case *parser.Atom:
		fmt.Fprintf(out, "%s%s\n", pad, atomText(node.Value))
	case *parser.Link:
		fmt.Fprintf(out, "%s%s = %s\n", pad, atomText(node.Key), atomText(node.Target))
	case *parser.Domain:
		fmt.Fprintf(out, "%s+ %s\n", pad, atomText(node.Label))
		for _, child := range node.Children {
			if err := writeText(out, child, depth+1); err != nil {
				return err
			}
		}
	default:
		return errUnknownNode(n)
	}
	return nil
}

// atomText writes a value as a bare token when it can be one, bracketed
// otherwise. Bracketed values never contain "]" and bare values never
// contain whitespace, so every parsed value stays representable.
func atomText(value string) string {
	if value == "" || strings.ContainsAny(value, " \t=") || strings.HasPrefix(value, "[") {
		return "[ " + value + " ]"
	}
	return value
}
