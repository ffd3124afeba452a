package highlight

import (
	"reflect"
	"strings"
	"testing"

	"github.com/ppiankov/extractlens/internal/model"
)

func defaultViewport() Viewport {
	return ViewportFromConfig(model.DefaultConfig().View)
}

func TestMark_AllOccurrences(t *testing.T) {
	segments, matches := Mark("Rash then rash and RASH", "rash")

	if matches != 3 {
		t.Fatalf("Expected 3 matches, got %d", matches)
	}
	want := []Segment{
		{Text: "Rash", Highlighted: true},
		{Text: " then "},
		{Text: "rash", Highlighted: true},
		{Text: " and "},
		{Text: "RASH", Highlighted: true},
	}
	if !reflect.DeepEqual(segments, want) {
		t.Errorf("Mark segments = %+v, want %+v", segments, want)
	}
}

func TestMark_EscapesMetacharacters(t *testing.T) {
	doc := "Take 3.5mg (max) daily; 3x5mg max is wrong"
	segments, matches := Mark(doc, "3.5mg (max)")

	if matches != 1 {
		t.Fatalf("Expected exactly 1 literal match, got %d", matches)
	}
	if !segments[1].Highlighted || segments[1].Text != "3.5mg (max)" {
		t.Errorf("Expected literal mark, got %+v", segments[1])
	}

	var joined strings.Builder
	for _, s := range segments {
		joined.WriteString(s.Text)
	}
	if joined.String() != doc {
		t.Errorf("Segments do not reassemble document: %q", joined.String())
	}
}

func TestMark_EmptyText(t *testing.T) {
	segments, matches := Mark("document", "")
	if matches != 0 || len(segments) != 1 || segments[0].Highlighted {
		t.Errorf("Expected single unmarked segment, got %+v (%d)", segments, matches)
	}
}

func TestViewport_ScrollOffset(t *testing.T) {
	vp := defaultViewport()

	tests := []struct {
		offset int
		want   int
	}{
		{-1, 0},
		{0, 0},
		{13, 0},
		{900, 0},   // line 9: 198 - 200 clamps to 0
		{1050, 20}, // line 10: 220 - 200
		{5000, 900},
	}
	for _, tt := range tests {
		if got := vp.ScrollOffset(tt.offset); got != tt.want {
			t.Errorf("ScrollOffset(%d) = %d, want %d", tt.offset, got, tt.want)
		}
	}

	narrow := Viewport{Width: 4, Height: 0, LineHeight: 10, CharWidth: 8}
	if got := narrow.ScrollOffset(3); got != 30 {
		t.Errorf("Expected one char per line for narrow viewport, got %d", got)
	}
}

func TestRenderer_ShowClearShowIsIdempotent(t *testing.T) {
	r := NewRenderer(defaultViewport())
	doc := "Patient took 10mg twice daily."
	span := model.ResolvedSpan{MatchedText: "10mg twice daily", Start: 13, Strategy: model.StrategyExact}

	first := r.Show(doc, span)
	if first == nil {
		t.Fatal("Expected a view")
	}
	r.Clear()
	if r.Active() != nil {
		t.Fatal("Expected nothing active after Clear")
	}
	second := r.Show(doc, span)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Show/Clear/Show differs:\n%+v\n%+v", first, second)
	}
}

func TestRenderer_ClearIsIdempotent(t *testing.T) {
	r := NewRenderer(defaultViewport())
	r.Clear()
	r.Clear()
	if r.Active() != nil {
		t.Error("Expected nothing active")
	}
}

func TestRenderer_UnresolvedSpanClears(t *testing.T) {
	r := NewRenderer(defaultViewport())
	r.Show("some rash", model.ResolvedSpan{MatchedText: "rash", Start: 5, Strategy: model.StrategyExact})

	if v := r.Show("some rash", model.NoSpan()); v != nil {
		t.Errorf("Expected nil view for unresolved span, got %+v", v)
	}
	if r.Active() != nil {
		t.Error("Expected previous highlight to be cleared")
	}
}

func TestRenderer_ShowReplacesActive(t *testing.T) {
	r := NewRenderer(defaultViewport())
	doc := "rash and itching"
	r.Show(doc, model.ResolvedSpan{MatchedText: "rash", Start: 0, Strategy: model.StrategyExact})
	v := r.Show(doc, model.ResolvedSpan{MatchedText: "itching", Start: 9, Strategy: model.StrategyExact})

	if r.Active() != v {
		t.Fatal("Expected the latest view to be active")
	}
	for _, seg := range v.Segments {
		if seg.Highlighted && seg.Text != "itching" {
			t.Errorf("Stale mark left behind: %q", seg.Text)
		}
	}
}

func TestView_HTML(t *testing.T) {
	r := NewRenderer(defaultViewport())
	v := r.Show("a<b> rash", model.ResolvedSpan{MatchedText: "rash", Start: 5, Strategy: model.StrategyExact})

	got, err := v.HTML()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	want := `<pre class="source-view" data-scroll-top="0">a&lt;b&gt; <span class="source-highlight">rash</span></pre>`
	if got != want {
		t.Errorf("HTML =\n%s\nwant\n%s", got, want)
	}
}

func TestView_TerminalPlain(t *testing.T) {
	r := NewRenderer(defaultViewport())
	doc := "Severe rash after rash"
	v := r.Show(doc, model.ResolvedSpan{MatchedText: "rash", Start: 7, Strategy: model.StrategyExact})

	if got := v.Terminal(PlainStyles()); got != doc {
		t.Errorf("Plain terminal output = %q, want %q", got, doc)
	}
}
