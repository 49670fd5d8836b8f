package shindan

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// extractTitle reads the title off a shindan page. The title element
// carries it as an attribute rather than text content.
func extractTitle(doc *goquery.Document) (string, error) {
	title, exists := doc.FindMatcher(selTitle).Attr("data-shindan_title")
	if !exists {
		return "", ElementNotFoundError{Name: "shindanTitle"}
	}
	return title, nil
}

// extractDescription flattens the description container in document
// order. Line breaks come through as newlines. A wrapped run contributes
// only its leading text node, markup nested deeper than one level is
// presentation and gets dropped.
func extractDescription(doc *goquery.Document) (string, error) {
	container := doc.FindMatcher(selDescription).First()
	if container.Length() == 0 {
		return "", ElementNotFoundError{Name: "shindanDescriptionDisplay"}
	}

	var out strings.Builder
	for child := container.Nodes[0].FirstChild; child != nil; child = child.NextSibling {
		switch child.Type {
		case html.TextNode:
			out.WriteString(child.Data)
		case html.ElementNode:
			if child.Data == "br" {
				out.WriteString("\n")
				continue
			}
			first := child.FirstChild
			if first != nil && first.Type == html.TextNode {
				out.WriteString(first.Data)
			}
		}
	}
	return out.String(), nil
}
