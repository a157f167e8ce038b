package htmlutil

import (
	"bytes"
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

// Attr is an attribute that may be absent from an element, Present
// distinguishes a missing attribute from an empty one.
type Attr struct {
	Value   string
	Present bool
}

// Anchor is one <a> element lifted out of a page, in document order.
// The data-* attributes are the only structural signal the portal's
// overview pages carry, so they are extracted eagerly.
type Anchor struct {
	Name string
	Href string
	// inner markup of the element, score fragments are matched against this
	Markup string

	Toggle   Attr // data-toggle
	Parallel Attr // data-parallel
	Title    Attr // data-title
	Target   Attr // data-target
}

var innerWhitespace = regexp.MustCompile(`\s\s+`)

func removeNonPrintable(s string) string {
	newStr := strings.Builder{}
	for _, c := range s {
		if unicode.IsPrint(c) {
			newStr.WriteRune(c)
		}
	}
	return newStr.String()
}

func CleanText(s string) string {
	s = removeNonPrintable(s)
	s = strings.Trim(s, " \t\n")
	return innerWhitespace.ReplaceAllString(s, " ")
}

func getAttr(node *html.Node, key string) Attr {
	for _, a := range node.Attr {
		if a.Key == key {
			return Attr{Value: a.Val, Present: true}
		}
	}
	return Attr{}
}

func renderChildren(node *html.Node) string {
	var buffer bytes.Buffer
	child := node.FirstChild
	for child != nil {
		// rendering into a bytes.Buffer cannot fail
		html.Render(&buffer, child)
		child = child.NextSibling
	}
	return buffer.String()
}

// GetAnchors flattens a selection of <a> elements into an indexed list,
// preserving document order.
func GetAnchors(sel *goquery.Selection) []Anchor {
	anchors := make([]Anchor, 0, len(sel.Nodes))
	for _, n := range sel.Nodes {
		anchors = append(anchors, Anchor{
			Name:     CleanText(GetText(n)),
			Href:     getAttr(n, "href").Value,
			Markup:   renderChildren(n),
			Toggle:   getAttr(n, "data-toggle"),
			Parallel: getAttr(n, "data-parallel"),
			Title:    getAttr(n, "data-title"),
			Target:   getAttr(n, "data-target"),
		})
	}
	return anchors
}
