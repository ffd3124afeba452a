package highlight

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ppiankov/extractlens/internal/catalog"
	"github.com/ppiankov/extractlens/internal/model"
)

// Attribute is one key/value pair attached to an entity
type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// SourceMapping describes where an entity came from
type SourceMapping struct {
	Entity     string      `json:"entity"`
	Category   string      `json:"category"`
	Label      string      `json:"label"`
	SourceText string      `json:"source_text,omitempty"`
	Strategy   string      `json:"strategy"`
	Attributes []Attribute `json:"attributes,omitempty"`
}

// NewSourceMapping builds the mapping panel for record and its resolved span.
// Attributes are sorted by key so output is stable.
func NewSourceMapping(record model.ExtractionRecord, span model.ResolvedSpan) SourceMapping {
	category := record.CategoryOrDefault()

	m := SourceMapping{
		Entity:   record.Text,
		Category: category,
		Label:    catalog.FormatLabel(category),
		Strategy: string(span.Strategy),
	}
	if span.Found() {
		m.SourceText = span.MatchedText
	}

	keys := make([]string, 0, len(record.Attributes))
	for k := range record.Attributes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		m.Attributes = append(m.Attributes, Attribute{Key: k, Value: record.Attributes[k]})
	}

	return m
}

// Terminal renders the mapping panel
func (m SourceMapping) Terminal(styles *Styles) string {
	if styles == nil {
		styles = NewStyles(nil)
	}

	var b strings.Builder
	b.WriteString(styles.Heading.Render(m.Label))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s %s\n", styles.Label.Render("Entity:"), m.Entity)

	if m.SourceText != "" {
		fmt.Fprintf(&b, "%s %s %s\n",
			styles.Label.Render("Source:"),
			styles.Mark.Render(m.SourceText),
			styles.Muted.Render("("+m.Strategy+")"))
	} else {
		fmt.Fprintf(&b, "%s %s\n", styles.Label.Render("Source:"), styles.Warning.Render("not found in document"))
	}

	if len(m.Attributes) > 0 {
		b.WriteString(styles.Label.Render("Attributes:"))
		b.WriteString("\n")
		for _, a := range m.Attributes {
			fmt.Fprintf(&b, "  %s: %s\n", a.Key, a.Value)
		}
	}

	return b.String()
}
