// Package xpath finds text in downloaded HTML pages with XPath expressions.
package xpath

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"stock_screener/internal/feature/extraction/usecase"
)

// Query evaluates XPath expressions against HTML documents.
type Query struct{}

var _ usecase.DocumentQuery = Query{}

// NewQuery returns a Query.
func NewQuery() Query {
	return Query{}
}

// FindText returns the text of the first node path selects.
//
// For an element that is the text of its direct text children only, so
// <td><b>12</b></td> is a miss. ok is false when path matches nothing or the
// match is blank. A malformed path is an error.
func (Query) FindText(document []byte, path string) (string, bool, error) {
	doc, err := htmlquery.Parse(bytes.NewReader(document))
	if err != nil {
		return "", false, fmt.Errorf("parse html: %w", err)
	}
	node, err := htmlquery.Query(doc, path)
	if err != nil {
		return "", false, fmt.Errorf("xpath %q: %w", path, err)
	}
	if node == nil {
		return "", false, nil
	}

	text := strings.TrimSpace(nodeText(node))
	if text == "" {
		return "", false, nil
	}
	return text, true, nil
}

func nodeText(n *html.Node) string {
	if n.Type != html.ElementNode {
		return htmlquery.InnerText(n)
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	}
	return b.String()
}
