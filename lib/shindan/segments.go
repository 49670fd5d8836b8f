package shindan

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

const (
	SegmentText  = "text"
	SegmentImage = "image"
)

// Segment is one unit of a shindan result, either a run of text or an
// image reference. Type is always SegmentText or SegmentImage.
type Segment struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
	URL  string `json:"url,omitempty"`
}

func TextSegment(text string) Segment {
	return Segment{Type: SegmentText, Text: text}
}

func ImageSegment(url string) Segment {
	return Segment{Type: SegmentImage, URL: url}
}

// Segments is a shindan result in reading order.
type Segments []Segment

// String flattens the sequence in order, text comes through verbatim and
// images are replaced by their url.
func (s Segments) String() string {
	var out strings.Builder
	for _, seg := range s {
		switch seg.Type {
		case SegmentText:
			out.WriteString(seg.Text)
		case SegmentImage:
			out.WriteString(seg.URL)
		}
	}
	return out.String()
}

// Filter returns the segments of one type, keeping their relative order.
func (s Segments) Filter(segmentType string) Segments {
	var out Segments
	for _, seg := range s {
		if seg.Type == segmentType {
			out = append(out, seg)
		}
	}
	return out
}

// ParseSegments converts a result page into an ordered segment sequence.
// Pages shipping a structured data-blocks payload are decoded directly,
// everything else falls back to walking the rendered markup.
func ParseSegments(responseText string) (Segments, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(responseText))
	if err != nil {
		return nil, err
	}
	return parseSegments(doc)
}

func parseSegments(doc *goquery.Document) (Segments, error) {
	container := doc.FindMatcher(selResult).First()
	if container.Length() == 0 {
		return nil, ElementNotFoundError{Name: "shindanResult"}
	}

	segments, ok := segmentsFromBlocks(container)
	if ok {
		return segments, nil
	}

	var out Segments
	walkSegmentNodes(container.Nodes[0], &out)
	return out, nil
}

// segmentsFromBlocks decodes the data-blocks JSON attribute. A missing
// attribute, an unparseable payload or an empty yield reports !ok so the
// caller falls back to the DOM walk. Blocks of unknown type or missing
// their payload key are dropped, one bad block doesn't void the rest.
func segmentsFromBlocks(container *goquery.Selection) (Segments, bool) {
	attr, exists := container.Attr("data-blocks")
	if !exists {
		return nil, false
	}

	var blocks []map[string]any
	err := json.Unmarshal([]byte(attr), &blocks)
	if err != nil {
		return nil, false
	}

	var out Segments
	for _, block := range blocks {
		kind, _ := block["type"].(string)
		switch kind {
		case "text":
			content, ok := block["content"].(string)
			if !ok {
				continue
			}
			out = append(out, TextSegment(content))
		case "user_input":
			value, ok := block["value"].(string)
			if !ok {
				continue
			}
			out = append(out, TextSegment(value))
		case "image":
			for _, key := range []string{"source", "src", "url", "file"} {
				link, ok := block[key].(string)
				if ok {
					out = append(out, ImageSegment(link))
					break
				}
			}
		}
	}

	if len(out) == 0 {
		return nil, false
	}
	return out, true
}

// walkSegmentNodes emits segments depth-first in document order. br and
// img map to segments, every other element is a transparent wrapper whose
// subtree still gets visited.
func walkSegmentNodes(node *html.Node, out *Segments) {
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		switch child.Type {
		case html.TextNode:
			text := strings.ReplaceAll(child.Data, "&nbsp;", " ")
			if text != "" {
				*out = append(*out, TextSegment(text))
			}
		case html.ElementNode:
			switch child.Data {
			case "br":
				*out = append(*out, TextSegment("\n"))
			case "img":
				src, ok := nodeAttr(child, "data-src")
				if !ok {
					src, ok = nodeAttr(child, "src")
				}
				if ok {
					*out = append(*out, ImageSegment(src))
				}
			default:
				walkSegmentNodes(child, out)
			}
		}
	}
}

func nodeAttr(node *html.Node, key string) (string, bool) {
	for _, attr := range node.Attr {
		if attr.Key == key {
			return attr.Val, true
		}
	}
	return "", false
}
