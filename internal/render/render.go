// Package render turns a parsed Lore document into output bytes. Renderers
// consume only the finished tree, never the original source, and the same
// document always renders to identical bytes.
package render

import (
	"fmt"

	"github.com/fleetinglore/lore/internal/parser"
)

// Renderer produces one output format from a document.
type Renderer interface {
	Render(doc *parser.Document) ([]byte, error)
}

// Formats understood by For.
const (
	FormatHTML = "html"
	FormatText = "text"
	FormatJSON = "json"
)

// Extension returns the output file extension for a format.
func Extension(format string) string {
	switch format {
	case FormatText:
		return ".lore"
	case FormatJSON:
		return ".json"
	default:
		return ".html"
	}
}

// For selects a renderer by format name. Title and stylesheet only apply to
// HTML output.
func For(format, title, stylesheet string) (Renderer, error) {
	switch format {
	case FormatHTML:
		return &HTML{Title: title, Stylesheet: stylesheet}, nil
	case FormatText:
		return &Text{}, nil
	case FormatJSON:
		return &JSON{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format %q", format)
	}
}

// errUnknownNode is returned when a walk meets a node variant the renderer
// does not recognize.
func errUnknownNode(n parser.Node) error {
	return fmt.Errorf("unknown node type %T", n)
}
