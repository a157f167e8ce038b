package htmlutil

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func TestGetAnchors(t *testing.T) {
	page := `<html><body>
	<a href="/one" data-toggle="tab" data-parallel="p1">  First   link </a>
	<a href="/two" data-title="">Second</a>
	<a>plain</a>
	</body></html>`

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	require.NoError(t, err)

	anchors := GetAnchors(doc.Find("a"))
	require.Len(t, anchors, 3)

	require.Equal(t, "First link", anchors[0].Name)
	require.Equal(t, "/one", anchors[0].Href)
	require.True(t, anchors[0].Toggle.Present)
	require.Equal(t, "tab", anchors[0].Toggle.Value)
	require.Equal(t, "p1", anchors[0].Parallel.Value)
	require.False(t, anchors[0].Title.Present)

	// empty attribute is still present
	require.True(t, anchors[1].Title.Present)
	require.Equal(t, "", anchors[1].Title.Value)

	require.False(t, anchors[2].Toggle.Present)
	require.Equal(t, "", anchors[2].Href)
}

func TestGetAnchorsMarkup(t *testing.T) {
	page := `<a href="/cell"><span class="penalty">-2</span> text</a>`
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	require.NoError(t, err)

	anchors := GetAnchors(doc.Find("a"))
	require.Len(t, anchors, 1)
	require.Contains(t, anchors[0].Markup, `<span class="penalty">-2</span>`)
}
