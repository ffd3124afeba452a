package model

import "strings"

// DefaultCategory is used for records the service returned without a class
const DefaultCategory = "unknown"

// ExtractionRecord is one entity returned by the extraction service
type ExtractionRecord struct {
	Text       string            `json:"extraction_text"`           // The extracted fragment
	Category   string            `json:"extraction_class"`          // Classification label (e.g., "adverse_event")
	Attributes map[string]string `json:"attributes,omitempty"`      // Optional key/value metadata
	SourceSpan *SourceSpan       `json:"char_interval,omitempty"`   // Offset hint from the extractor, may be absent or invalid
}

// SourceSpan is a character range in the source document.
// Offsets count Unicode code points, not bytes.
type SourceSpan struct {
	Start int `json:"start_pos"`
	End   int `json:"end_pos"`
}

// Valid reports whether the span is structurally usable
func (s *SourceSpan) Valid() bool {
	return s != nil && s.Start >= 0 && s.End > s.Start
}

// HasText reports whether the record carries a non-blank fragment
func (r ExtractionRecord) HasText() bool {
	return strings.TrimSpace(r.Text) != ""
}

// CategoryOrDefault returns the category, falling back to DefaultCategory
func (r ExtractionRecord) CategoryOrDefault() string {
	if r.Category == "" {
		return DefaultCategory
	}
	return r.Category
}

// Strategy names the tier that produced a ResolvedSpan
type Strategy string

const (
	StrategySourceSpan Strategy = "source-span" // Extractor offsets were structurally valid
	StrategyExact      Strategy = "exact"       // Case-insensitive verbatim match
	StrategyPhrase     Strategy = "phrase"      // Longest matching sentence fragment
	StrategyOverlap    Strategy = "overlap"     // Word-overlap window
	StrategyNone       Strategy = "none"        // Nothing matched
)

// ResolvedSpan is the located position of a record inside the document
type ResolvedSpan struct {
	MatchedText string   `json:"matched_text"`
	Start       int      `json:"start"` // Code point offset, -1 when unresolved
	Strategy    Strategy `json:"strategy"`
}

// NoSpan is the result of a failed resolution
func NoSpan() ResolvedSpan {
	return ResolvedSpan{Start: -1, Strategy: StrategyNone}
}

// Found reports whether any tier matched
func (s ResolvedSpan) Found() bool {
	return s.Strategy != StrategyNone && s.Start >= 0 && s.MatchedText != ""
}
