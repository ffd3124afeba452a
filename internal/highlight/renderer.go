// Package highlight turns a resolved span into a declarative view of the
// source document with every occurrence of the matched text marked.
package highlight

import (
	"regexp"

	"github.com/ppiankov/extractlens/internal/model"
)

// Segment is a run of document text, marked or not
type Segment struct {
	Text        string `json:"text"`
	Highlighted bool   `json:"highlighted"`
}

// View is the rendered state of one highlight
type View struct {
	Document  string             `json:"-"`
	Span      model.ResolvedSpan `json:"span"`
	Segments  []Segment          `json:"segments"`
	Matches   int                `json:"matches"`    // Number of marked occurrences
	ScrollTop int                `json:"scroll_top"` // Pixel offset bringing Span.Start into view
}

// Viewport approximates the text panel geometry
type Viewport struct {
	Width      int
	Height     int
	LineHeight int
	CharWidth  int
}

// ViewportFromConfig builds a viewport from configuration
func ViewportFromConfig(cfg model.ViewConfig) Viewport {
	return Viewport{
		Width:      cfg.Width,
		Height:     cfg.Height,
		LineHeight: cfg.LineHeight,
		CharWidth:  cfg.CharWidth,
	}
}

// ScrollOffset estimates the scroll position that centres the given
// code point offset, assuming fixed-width glyphs and fixed line height.
func (v Viewport) ScrollOffset(offset int) int {
	if offset < 0 {
		return 0
	}

	charWidth := v.CharWidth
	if charWidth <= 0 {
		charWidth = 8
	}
	charsPerLine := v.Width / charWidth
	if charsPerLine <= 0 {
		charsPerLine = 1
	}

	line := offset / charsPerLine
	scroll := line*v.LineHeight - v.Height/2
	if scroll < 0 {
		return 0
	}
	return scroll
}

// Renderer owns the currently shown highlight
type Renderer struct {
	viewport Viewport
	active   *View
}

// NewRenderer creates a renderer for the given viewport
func NewRenderer(viewport Viewport) *Renderer {
	return &Renderer{viewport: viewport}
}

// Show replaces any active highlight with span marked in document.
// An unresolved span leaves nothing shown and returns nil.
func (r *Renderer) Show(document string, span model.ResolvedSpan) *View {
	r.Clear()

	if !span.Found() {
		return nil
	}

	segments, matches := Mark(document, span.MatchedText)
	r.active = &View{
		Document:  document,
		Span:      span,
		Segments:  segments,
		Matches:   matches,
		ScrollTop: r.viewport.ScrollOffset(span.Start),
	}
	return r.active
}

// Clear hides the active highlight. Calling it with nothing shown is a no-op.
func (r *Renderer) Clear() {
	r.active = nil
}

// Active returns the shown view, or nil
func (r *Renderer) Active() *View {
	return r.active
}

// Mark splits document into segments, marking every case-insensitive
// occurrence of text. Metacharacters in text are matched literally.
func Mark(document, text string) ([]Segment, int) {
	if text == "" {
		return []Segment{{Text: document}}, 0
	}

	pattern := regexp.MustCompile("(?i)" + regexp.QuoteMeta(text))
	locs := pattern.FindAllStringIndex(document, -1)

	segments := make([]Segment, 0, 2*len(locs)+1)
	last := 0
	for _, loc := range locs {
		if loc[0] > last {
			segments = append(segments, Segment{Text: document[last:loc[0]]})
		}
		segments = append(segments, Segment{Text: document[loc[0]:loc[1]], Highlighted: true})
		last = loc[1]
	}
	if last < len(document) {
		segments = append(segments, Segment{Text: document[last:]})
	}

	return segments, len(locs)
}
