package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/fleetinglore/lore/internal/parser"
)

func sampleDoc(t *testing.T) *parser.Document {
	t.Helper()
	doc, err := parser.Parse(strings.Join([]string{
		"+ group",
		"  a = https://a.com",
		"  b = https://b.com",
		"note",
	}, "\n"))
	require.NoError(t, err)
	return doc
}

func TestHTMLRender(t *testing.T) {
	r := &HTML{Title: "collection"}
	out, err := r.Render(sampleDoc(t))
	require.NoError(t, err)

	page := string(out)
	assert.Contains(t, page, "<!DOCTYPE html>")
	assert.Contains(t, page, "<title>collection</title>")
	assert.Contains(t, page, DefaultStylesheet)
	assert.Contains(t, page, "<summary>group</summary>")
	assert.Contains(t, page, `<a href="https://a.com" target="_blank">a</a>`)
	assert.Contains(t, page, `<a href="https://b.com" target="_blank">b</a>`)
	assert.Contains(t, page, "<p>note</p>")

	// Source order survives rendering.
	assert.Less(t, strings.Index(page, "https://a.com"), strings.Index(page, "https://b.com"))
}

func TestHTMLRenderIsWellFormed(t *testing.T) {
	out, err := (&HTML{Title: "t"}).Render(sampleDoc(t))
	require.NoError(t, err)

	root, err := html.Parse(strings.NewReader(string(out)))
	require.NoError(t, err)

	// Collect anchors out of the parsed DOM, not the raw bytes.
	var anchors []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			for _, attr := range n.Attr {
				if attr.Key == "href" {
					anchors = append(anchors, attr.Val)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	assert.Equal(t, []string{"https://a.com", "https://b.com"}, anchors)
}

func TestHTMLRenderEscapes(t *testing.T) {
	doc := &parser.Document{Nodes: []parser.Node{
		&parser.Atom{Value: `<script>alert("x")</script>`},
		&parser.Link{Key: "a<b", Target: `https://x.example/?q="1"`},
		&parser.Domain{Label: "x & y"},
	}}

	out, err := (&HTML{Title: "<t>"}).Render(doc)
	require.NoError(t, err)

	page := string(out)
	assert.NotContains(t, page, "<script>")
	assert.Contains(t, page, "&lt;script&gt;")
	assert.Contains(t, page, "a&lt;b")
	assert.Contains(t, page, "<summary>x &amp; y</summary>")
	assert.Contains(t, page, "<title>&lt;t&gt;</title>")
}

func TestHTMLRenderNestedDomains(t *testing.T) {
	doc, err := parser.Parse("+ outer\n  + inner\n    leaf")
	require.NoError(t, err)

	out, err := (&HTML{Title: "t"}).Render(doc)
	require.NoError(t, err)

	page := string(out)
	// Only the top-level domain starts open.
	assert.Contains(t, page, "<details open>")
	assert.Contains(t, page, "<details>")
	assert.Less(t, strings.Index(page, "<summary>outer</summary>"), strings.Index(page, "<summary>inner</summary>"))
}

func TestHTMLRenderIsIdempotent(t *testing.T) {
	doc := sampleDoc(t)
	r := &HTML{Title: "t", Stylesheet: "local.css"}

	first, err := r.Render(doc)
	require.NoError(t, err)
	second, err := r.Render(doc)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

type bogusNode struct{}

func (bogusNode) Equal(parser.Node) bool { return false }

func TestHTMLRenderRejectsUnknownNode(t *testing.T) {
	doc := &parser.Document{Nodes: []parser.Node{bogusNode{}}}

	out, err := (&HTML{Title: "t"}).Render(doc)
	assert.Nil(t, out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown node type")
}
