package googlebooks

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// stripHTML removes HTML tags from a volume description and returns
// plain text. Handles common HTML entities and collapses whitespace.
func stripHTML(s string) string {
	if s == "" {
		return ""
	}

	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		// If parsing fails, fall back to regex stripping
		return strings.TrimSpace(stripHTMLFallback(s))
	}

	var buf strings.Builder
	extractText(doc, &buf)

	return strings.TrimSpace(collapseWhitespace(buf.String()))
}

// extractText recursively extracts text content from HTML nodes.
func extractText(n *html.Node, buf *strings.Builder) {
	if n.Type == html.TextNode {
		buf.WriteString(n.Data)
	}

	// Add space around block elements so adjacent text doesn't run together
	if n.Type == html.ElementNode {
		switch n.Data {
		case "p", "div", "br", "li", "h1", "h2", "h3", "h4", "h5", "h6":
			buf.WriteString(" ")
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		extractText(c, buf)
	}

	if n.Type == html.ElementNode {
		switch n.Data {
		case "p", "div", "li", "h1", "h2", "h3", "h4", "h5", "h6":
			buf.WriteString(" ")
		}
	}
}

// stripHTMLFallback uses regex when parsing fails.
var htmlTagRegex = regexp.MustCompile(`<[^>]*>`)

func stripHTMLFallback(s string) string {
	s = htmlTagRegex.ReplaceAllString(s, " ")
	s = html.UnescapeString(s)
	return collapseWhitespace(s)
}

// collapseWhitespace replaces multiple whitespace with single space.
var whitespaceRegex = regexp.MustCompile(`\s+`)

func collapseWhitespace(s string) string {
	return whitespaceRegex.ReplaceAllString(s, " ")
}
