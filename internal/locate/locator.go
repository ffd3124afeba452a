// Package locate finds where an extracted fragment sits in its source document.
//
// Resolution runs four tiers in order and stops at the first hit:
// the extractor's own offsets, a case-insensitive verbatim match, the longest
// matching sentence fragment, and finally a word-overlap window.
package locate

import (
	"sort"
	"strings"

	"github.com/ppiankov/extractlens/internal/model"
)

// Options tunes the fallback tiers
type Options struct {
	MinPhraseLen     int     // Phrases shorter than this (after trimming) are ignored
	MinTokenLen      int     // Search tokens must be longer than this
	MaxWindow        int     // Largest overlap window in tokens
	MinWindow        int     // Smallest overlap window in tokens
	OverlapThreshold float64 // Ratio a window must strictly exceed
}

// DefaultOptions returns the standard tier settings
func DefaultOptions() Options {
	return Options{
		MinPhraseLen:     11,
		MinTokenLen:      2,
		MaxWindow:        10,
		MinWindow:        3,
		OverlapThreshold: 0.6,
	}
}

// OptionsFromConfig maps configured thresholds; unset fields keep their defaults
func OptionsFromConfig(cfg model.LocateConfig) Options {
	opts := DefaultOptions()
	if cfg.MinPhraseLength > 0 {
		opts.MinPhraseLen = cfg.MinPhraseLength
	}
	if cfg.MinTokenLength > 0 {
		opts.MinTokenLen = cfg.MinTokenLength
	}
	if cfg.MaxWindow > 0 {
		opts.MaxWindow = cfg.MaxWindow
	}
	if cfg.MinWindow > 0 {
		opts.MinWindow = cfg.MinWindow
	}
	if cfg.OverlapThreshold > 0 {
		opts.OverlapThreshold = cfg.OverlapThreshold
	}
	return opts
}

// Locator resolves extraction records to document spans.
// It holds no mutable state and is safe for concurrent use.
type Locator struct {
	opts Options
}

// NewLocator creates a locator with default options
func NewLocator() *Locator {
	return &Locator{opts: DefaultOptions()}
}

// NewLocatorWithOptions creates a locator with custom options
func NewLocatorWithOptions(opts Options) *Locator {
	return &Locator{opts: opts}
}

// Resolve returns the best-matching span of record in document
func (l *Locator) Resolve(document string, record model.ExtractionRecord) model.ResolvedSpan {
	doc := []rune(document)

	if span, ok := l.fromSourceSpan(doc, record.SourceSpan); ok {
		return span
	}

	folded := Fold(document)

	if span, ok := l.exact(doc, folded, record.Text); ok {
		return span
	}

	if span, ok := l.phrase(doc, folded, record.Text); ok {
		return span
	}

	if span, ok := l.overlap(document, record.Text); ok {
		return span
	}

	return model.NoSpan()
}

// fromSourceSpan trusts structurally valid extractor offsets
func (l *Locator) fromSourceSpan(doc []rune, hint *model.SourceSpan) (model.ResolvedSpan, bool) {
	if !hint.Valid() || hint.Start >= len(doc) {
		return model.ResolvedSpan{}, false
	}

	end := hint.End
	if end > len(doc) {
		end = len(doc)
	}

	text := string(doc[hint.Start:end])
	if text == "" {
		return model.ResolvedSpan{}, false
	}

	return model.ResolvedSpan{
		MatchedText: text,
		Start:       hint.Start,
		Strategy:    model.StrategySourceSpan,
	}, true
}

// exact finds the trimmed record text, ignoring case
func (l *Locator) exact(doc, folded []rune, text string) (model.ResolvedSpan, bool) {
	needle := strings.TrimSpace(text)
	if needle == "" {
		return model.ResolvedSpan{}, false
	}
	return find(doc, folded, needle, model.StrategyExact)
}

// phrase tries each sentence fragment of the record, longest first
func (l *Locator) phrase(doc, folded []rune, text string) (model.ResolvedSpan, bool) {
	var phrases []string
	for _, p := range SplitPhrases(text) {
		p = strings.TrimSpace(p)
		if runeLen(p) >= l.opts.MinPhraseLen {
			phrases = append(phrases, p)
		}
	}

	sort.SliceStable(phrases, func(i, j int) bool {
		return runeLen(phrases[i]) > runeLen(phrases[j])
	})

	for _, p := range phrases {
		if span, ok := find(doc, folded, p, model.StrategyPhrase); ok {
			return span, true
		}
	}
	return model.ResolvedSpan{}, false
}

// overlap slides token windows over the document and keeps the first window
// whose word-overlap ratio beats every earlier one and the threshold.
// Iteration order (start ascending, length descending) decides ties.
func (l *Locator) overlap(document string, text string) (model.ResolvedSpan, bool) {
	var search []string
	for _, tok := range Tokenize(FoldString(text)) {
		if runeLen(tok) > l.opts.MinTokenLen {
			search = append(search, tok)
		}
	}
	if len(search) == 0 {
		return model.ResolvedSpan{}, false
	}

	docTokens := Tokenize(document)
	foldedTokens := make([]string, len(docTokens))
	for i, tok := range docTokens {
		foldedTokens[i] = FoldString(tok)
	}

	maxWindow := len(search)
	if maxWindow > l.opts.MaxWindow {
		maxWindow = l.opts.MaxWindow
	}

	bestRatio := l.opts.OverlapThreshold
	bestStart, bestLen := -1, 0

	for start := range foldedTokens {
		for size := maxWindow; size >= l.opts.MinWindow; size-- {
			if start+size > len(foldedTokens) {
				continue
			}
			ratio := float64(countOverlap(search, foldedTokens[start:start+size])) / float64(len(search))
			if ratio > bestRatio {
				bestRatio = ratio
				bestStart, bestLen = start, size
			}
		}
	}

	if bestStart < 0 {
		return model.ResolvedSpan{}, false
	}

	joined := strings.Join(docTokens[bestStart:bestStart+bestLen], " ")
	idx := strings.Index(document, joined)
	if idx < 0 {
		return model.ResolvedSpan{}, false
	}

	return model.ResolvedSpan{
		MatchedText: joined,
		Start:       RuneOffset(document, idx),
		Strategy:    model.StrategyOverlap,
	}, true
}

// countOverlap counts search tokens that equal, contain, or are contained by a window token
func countOverlap(search, window []string) int {
	count := 0
	for _, s := range search {
		for _, w := range window {
			if strings.Contains(w, s) || strings.Contains(s, w) {
				count++
				break
			}
		}
	}
	return count
}

// find locates needle case-insensitively and returns the document's own text at that position
func find(doc, folded []rune, needle string, strategy model.Strategy) (model.ResolvedSpan, bool) {
	n := Fold(needle)
	idx := IndexFold(folded, n)
	if idx < 0 {
		return model.ResolvedSpan{}, false
	}
	return model.ResolvedSpan{
		MatchedText: string(doc[idx : idx+len(n)]),
		Start:       idx,
		Strategy:    strategy,
	}, true
}
