// Package richtext round-trips the source text of rendered form fields.
//
// The portal stores evaluation text as rendered HTML, so a later scrape
// would only see the rendering. To stay lossless the original source is
// smuggled along inside an HTML comment delimited by marker strings
// unique enough to never collide with page content.
package richtext

import (
	"strings"

	"github.com/jdupak/FEL-PSBrute/lib/markdown"
	"github.com/jdupak/FEL-PSBrute/lib/scrapers/brute/core"

	"github.com/PuerkitoBio/goquery"
)

// Field identifies one round-trippable form field.
type Field struct {
	// Tag is embedded in the markers.
	Tag string
	// Control is the name of the <textarea> holding the field when no
	// markers are present.
	Control string
}

var (
	Evaluation = Field{Tag: "EVALUATION", Control: "evaluation"}
	Note       = Field{Tag: "NOTE", Control: "note"}
)

// fixed disambiguation suffix, keeps the markers from ever matching
// ordinary page content
const markerSuffix = "9f2c51a8e3"

func startMarker(tag string) string {
	return "<!--@psbrute:" + tag + ":begin:" + markerSuffix + "@"
}

func endMarker(tag string) string {
	return "@psbrute:" + tag + ":end:" + markerSuffix + "@-->"
}

// Encode wraps source into the marker comment followed by its markdown
// rendering, which is what the portal will actually display.
func Encode(source string, field Field) (string, error) {
	rendered, err := markdown.Render(source)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(startMarker(field.Tag))
	b.WriteString(source)
	b.WriteString(endMarker(field.Tag))
	b.WriteString("\n<div class=\"psbrute-rendered\">\n")
	b.WriteString(rendered)
	b.WriteString("</div>")
	return b.String(), nil
}

// Decode recovers the field's text from a scraped page. When both
// markers are present the text between them is the source of a previous
// Encode and raw is false. Otherwise the literal content of the named
// textarea is returned with raw set, meaning the field was never written
// by this tool.
func Decode(pageHtml string, field Field) (raw bool, text string, err error) {
	start := startMarker(field.Tag)
	end := endMarker(field.Tag)

	startIdx := strings.Index(pageHtml, start)
	if startIdx >= 0 {
		rest := pageHtml[startIdx+len(start):]
		endIdx := strings.Index(rest, end)
		if endIdx >= 0 {
			return false, rest[:endIdx], nil
		}
		// an unterminated start marker opens an html comment that would
		// swallow the rest of the page, including the fallback textarea,
		// so drop it before parsing
		pageHtml = pageHtml[:startIdx] + rest
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHtml))
	if err != nil {
		return false, "", err
	}
	control := doc.Find("textarea[name=" + field.Control + "]")
	if len(control.Nodes) == 0 {
		return false, "", core.FormatError{Missing: "textarea " + field.Control}
	}
	return true, control.Text(), nil
}
