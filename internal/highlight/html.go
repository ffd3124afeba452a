package highlight

import (
	"bytes"
	"fmt"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Class names shared with the page stylesheet
const (
	ClassSourceView      = "source-view"
	ClassSourceHighlight = "source-highlight"
)

// HTML renders the view as a <pre> block with marked spans.
// Text is escaped by the HTML renderer.
func (v *View) HTML() (string, error) {
	pre := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Pre,
		Data:     "pre",
		Attr: []html.Attribute{
			{Key: "class", Val: ClassSourceView},
			{Key: "data-scroll-top", Val: fmt.Sprint(v.ScrollTop)},
		},
	}

	for _, seg := range v.Segments {
		text := &html.Node{Type: html.TextNode, Data: seg.Text}
		if !seg.Highlighted {
			pre.AppendChild(text)
			continue
		}
		span := &html.Node{
			Type:     html.ElementNode,
			DataAtom: atom.Span,
			Data:     "span",
			Attr:     []html.Attribute{{Key: "class", Val: ClassSourceHighlight}},
		}
		span.AppendChild(text)
		pre.AppendChild(span)
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, pre); err != nil {
		return "", fmt.Errorf("render html: %w", err)
	}
	return buf.String(), nil
}
