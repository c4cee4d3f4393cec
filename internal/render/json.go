package render

import (
	"encoding/json"

	"github.com/fleetinglore/lore/internal/parser"
)

// JSON renders a document as a tagged JSON tree, one object per node with a
// "type" discriminator. Key order is fixed, so output is byte-stable.
type JSON struct{}

type jsonNode struct {
	Type     string     `json:"type"`
	Value    string     `json:"value,omitempty"`
	Key      string     `json:"key,omitempty"`
	Target   string     `json:"target,omitempty"`
	Label    string     `json:"label,omitempty"`
	Children []jsonNode `json:"children,omitempty"`
}

func (j *JSON) Render(doc *parser.Document) ([]byte, error) {
	nodes, err := jsonNodes(doc.Nodes)
	if err != nil {
		return nil, err
	}
	out, err := json.MarshalIndent(struct {
		Nodes []jsonNode `json:"nodes"`
	}{Nodes: nodes}, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}

func jsonNodes(nodes []parser.Node) ([]jsonNode, error) {
	out := make([]jsonNode, 0, len(nodes))
	for _, n := range nodes {
		switch node := n.(type) {
		case *parser.Atom:
			out = append(out, jsonNode{Type: "atom", Value: node.Value})
		case *parser.Link:
			out = append(out, jsonNode{Type: "link", Key: node.Key, Target: node.Target})
		case *parser.Domain:
			children, err := jsonNodes(node.Children)
			if err != nil {
				return nil, err
			}
			out = append(out, jsonNode{Type: "domain", Label: node.Label, Children: children})
		default:
			return nil, errUnknownNode(n)
		}
	}
	return out, nil
}
