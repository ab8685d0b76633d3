package extract

import (
	"strings"

	"golang.org/x/net/html"
)

// NodeKind discriminates flattened inline node types
type NodeKind int

const (
	NodeText  NodeKind = iota // plain text run
	NodeLabel                 // bold/strong run, candidate ruling-type label
	NodeLink                  // anchor with target
)

// InlineNode is one typed inline run in document order. The normalizer
// flattens the HTML tree into a list of these so the segmenter never
// has to chase sibling or parent pointers.
type InlineNode struct {
	Kind NodeKind
	Text string // visible text of the run
	Href string // link target, NodeLink only
	Raw  string // original markup for this run
}

// Normalize parses a markup fragment permissively and flattens it into
// inline nodes. Unbalanced or partial markup never fails; unknown tags
// fold into their text content.
func Normalize(fragment string) []InlineNode {
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		// html.Parse recovers from almost anything; if it still fails,
		// degrade to a single opaque text run
		return []InlineNode{{Kind: NodeText, Text: fragment, Raw: fragment}}
	}
	return FlattenNode(doc)
}

// FlattenNode walks a parsed subtree in document order and emits one
// InlineNode per text run, bold run, or anchor. Bold runs and anchors
// are treated as atomic: their text content is collapsed into the node.
func FlattenNode(n *html.Node) []InlineNode {
	var nodes []InlineNode

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			nodes = append(nodes, InlineNode{Kind: NodeText, Text: n.Data, Raw: n.Data})
			return
		case html.ElementNode:
			switch n.Data {
			case "strong", "b":
				nodes = append(nodes, InlineNode{Kind: NodeLabel, Text: nodeText(n), Raw: renderNode(n)})
				return
			case "a":
				nodes = append(nodes, InlineNode{Kind: NodeLink, Text: nodeText(n), Href: nodeAttr(n, "href"), Raw: renderNode(n)})
				return
			case "script", "style", "noscript", "iframe":
				return
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(n)
	return nodes
}

// nodeText collects the text content of a subtree.
func nodeText(n *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(n)
	return buf.String()
}

// nodeAttr returns the value of the named attribute, or "".
func nodeAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return strings.TrimSpace(attr.Val)
		}
	}
	return ""
}

// renderNode re-serializes a subtree to markup.
func renderNode(n *html.Node) string {
	var buf strings.Builder
	if err := html.Render(&buf, n); err != nil {
		return nodeText(n)
	}
	return buf.String()
}

// innerMarkup re-serializes the children of a node, i.e. the markup
// inside the element without the element's own tags.
func innerMarkup(n *html.Node) string {
	var buf strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		_ = html.Render(&buf, c)
	}
	return strings.TrimSpace(buf.String())
}

// plainText joins the trimmed text of the given nodes with single
// spaces, skipping whitespace-only runs.
func plainText(nodes []InlineNode) string {
	parts := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if t := strings.TrimSpace(n.Text); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

// rawMarkup concatenates the original markup of the given nodes.
func rawMarkup(nodes []InlineNode) string {
	var buf strings.Builder
	for _, n := range nodes {
		buf.WriteString(n.Raw)
	}
	return strings.TrimSpace(buf.String())
}
