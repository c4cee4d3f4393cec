package parser

// Document is the root of a parsed Lore tree. Top-level nodes are kept in
// source order; that order is display order.
type Document struct {
	Nodes []Node
}

// Node is a single entry in a Lore tree: an Atom, a Link or a Domain.
// Renderers must reject any other implementation rather than drop it.
type Node interface {
	// Equal reports field-wise structural equality, recursing into
	// domain children.
	Equal(Node) bool
}

// Atom is a single value: either the inner text of a bracketed form or a
// bare token.
type Atom struct {
	Value string
}

// Link pairs a key with a target, typically a labelled URL.
type Link struct {
	Key    string
	Target string
}

// Domain is a named grouping owning an ordered list of child nodes.
// Children may themselves be domains, to arbitrary depth.
type Domain struct {
	Label    string
	Children []Node
}

func (a *Atom) Equal(other Node) bool {
	b, ok := other.(*Atom)
	return ok && a.Value == b.Value
}

func (l *Link) Equal(other Node) bool {
	b, ok := other.(*Link)
	return ok && l.Key == b.Key && l.Target == b.Target
}

func (d *Domain) Equal(other Node) bool {
	b, ok := other.(*Domain)
	if !ok || d.Label != b.Label || len(d.Children) != len(b.Children) {
		return false
	}
	for i, child := range d.Children {
		if !child.Equal(b.Children[i]) {
			return false
		}
	}
	return true
}

// Equal reports whether two documents are structurally identical.
func (d *Document) Equal(other *Document) bool {
	if other == nil || len(d.Nodes) != len(other.Nodes) {
		return false
	}
	for i, n := range d.Nodes {
		if !n.Equal(other.Nodes[i]) {
			return false
		}
	}
	return true
}
