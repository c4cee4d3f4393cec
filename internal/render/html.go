package render

import (
	"fmt"
	"html"
	"strings"

	"github.com/fleetinglore/lore/internal/parser"
)

// DefaultStylesheet is the collection stylesheet linked from generated
// pages when no other one is configured.
const DefaultStylesheet = "https://fleetinglore.github.io/collection/collection.css"

// HTML renders a document as a standalone collapsible HTML page: domains
// become <details> sections, links become anchors and atoms become
// paragraphs. All values are escaped.
type HTML struct {
	Title      string
	Stylesheet string
}

func (h *HTML) Render(doc *parser.Document) ([]byte, error) {
	stylesheet := h.Stylesheet
	if stylesheet == "" {
		stylesheet = DefaultStylesheet
	}
	title := html.EscapeString(h.Title)

	var out strings.Builder
	fmt.Fprintf(&out, `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>%s</title>
  <link rel="stylesheet" href="%s">
</head>
<body>
  <details open>
      <summary>%s</summary>
      <div style="margin-left:17px">
`, title, html.EscapeString(stylesheet), title)

	for _, n := range doc.Nodes {
		if err := writeNode(&out, n, 2); err != nil {
			return nil, err
		}
	}

	out.WriteString(`    </div>
  </details>
</body>
</html>`)
	return []byte(out.String()), nil
}

func writeNode(out *strings.Builder, n parser.Node, level int) error {
	pad := strings.Repeat("  ", level)
	switch node := n.(type) {
	case *parser.Atom:
		fmt.Fprintf(out, "%s<p>%s</p>\n", pad, html.EscapeString(node.Value))
	case *parser.Link:
		fmt.Fprintf(out, "%s<a href=\"%s\" target=\"_blank\">%s</a>\n",
			pad, html.EscapeString(node.Target), html.EscapeString(node.Key))
	case *parser.Domain:
		open := ""
		if level == 2 {
			open = " open"
		}
		fmt.Fprintf(out, "%s<details%s>\n", pad, open)
		fmt.Fprintf(out, "%s  <summary>%s</summary>\n", pad, html.EscapeString(node.Label))
		if len(node.Children) > 0 {
			fmt.Fprintf(out, "%s  <div style=\"margin-left:20px\">\n", pad)
			for _, child := range node.Children {
				if err := writeNode(out, child, level+1); err != nil {
					return err
				}
			}
			fmt.Fprintf(out, "%s  </div>\n", pad)
		}
		fmt.Fprintf(out, "%s</details>\n", pad)
	default:
		return errUnknownNode(n)
	}
	return nil
}
