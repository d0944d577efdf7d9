package schema

import (
	"strings"

	"golang.org/x/net/html"
)

// Text returns the documentation content as plain text. WADL allows
// mixed XHTML inside doc elements, so the raw content is parsed as
// HTML and reduced to its text nodes with whitespace collapsed. Markup
// that fails to parse is returned as-is, also collapsed.
func (d Doc) Text() string {
	if strings.TrimSpace(d.Content) == "" {
		return ""
	}

	root, err := html.Parse(strings.NewReader(d.Content))
	if err != nil {
		return collapseSpace(d.Content)
	}

	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	return collapseSpace(sb.String())
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
