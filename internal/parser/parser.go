// Package parser turns Lore source text into a Document tree.
//
// Lore is line-oriented and whitespace-sensitive: atoms are bracketed text
// or bare tokens, links pair a key atom with a target atom around "=", and
// domains ("+ label") own every following line indented one step deeper.
// Parsing is a single pass; the first structural error aborts it and no
// document is returned.
package parser

// frame is one open container on the indentation stack: the document root
// or a domain whose children are still being collected.
type frame struct {
	header      int   // indent of the domain header, -1 for the root
	headerLine  int   // line number of the header, 0 for the root
	childIndent int   // indent of this frame's children, -1 until the first
	childLine   int   // line number of the first child
	nodes       *[]Node
}

// Parse builds a Document from source text.
//
// The first line's indent establishes a baseline; all later depth
// comparisons are relative to it. The first nesting under a domain fixes
// the document's indent step, and every subsequent indent must land exactly
// on a level opened by an enclosing domain.
func Parse(src string) (*Document, error) {
	doc := &Document{}
	stack := []*frame{{header: -1, childIndent: -1, nodes: &doc.Nodes}}
	step := 0

	sc := NewScanner(src)
	for sc.Scan() {
		line := sc.Line()
		if line.Kind == Blank {
			continue
		}

		// Close domains whose scope has ended.
		for len(stack) > 1 && stack[len(stack)-1].header >= line.Indent {
			stack = stack[:len(stack)-1]
		}
		top := stack[len(stack)-1]

		switch {
		case top.childIndent < 0:
			// First entry in this container.
			if len(stack) > 1 {
				if step == 0 {
					step = line.Indent - top.header
				} else if line.Indent-top.header != step {
					return nil, newError(ErrIndentation, line.Number, line.Indent+1, rawOf(line),
						"indent %d under domain at indent %d does not match the document's indent step of %d",
						line.Indent, top.header, step)
				}
			}
			top.childIndent = line.Indent
			top.childLine = line.Number
		case line.Indent > top.childIndent:
			// A deeper line with no domain header in between.
			return nil, newError(ErrIndentation, line.Number, line.Indent+1, rawOf(line),
				"indent %d deeper than the enclosing level %d, but the preceding line is not a domain",
				line.Indent, top.childIndent)
		case line.Indent < top.childIndent:
			if len(stack) == 1 {
				// Shallower than the baseline: the opening lines were
				// never inside any domain to begin with.
				return nil, newError(ErrIndentation, top.childLine, top.childIndent+1, "",
					"line %d is indented under no enclosing domain", top.childLine)
			}
			return nil, newError(ErrIndentation, line.Number, line.Indent+1, rawOf(line),
				"indent %d does not match any enclosing level", line.Indent)
		}

		switch line.Kind {
		case AtomLine:
			*top.nodes = append(*top.nodes, &Atom{Value: line.Atom})
		case LinkLine:
			*top.nodes = append(*top.nodes, &Link{Key: line.Key, Target: line.Target})
		case DomainLine:
			dom := &Domain{Label: line.Label}
			*top.nodes = append(*top.nodes, dom)
			stack = append(stack, &frame{
				header:      line.Indent,
				headerLine:  line.Number,
				childIndent: -1,
				nodes:       &dom.Children,
			})
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return doc, nil
}

// rawOf reconstructs enough of the line for an error message.
func rawOf(line Line) string {
	switch line.Kind {
	case LinkLine:
		return line.Key + " = " + line.Target
	case DomainLine:
		return "+ " + line.Label
	default:
		return line.Atom
	}
}
