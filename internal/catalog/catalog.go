// Package catalog holds the extraction records of the current document,
// grouped by category in the order the service returned them.
package catalog

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ppiankov/extractlens/internal/model"
)

// Group is one category with the positions of its records
type Group struct {
	Category string `json:"category"`
	Label    string `json:"label"`
	Indices  []int  `json:"indices"` // Positions in Records(), insertion order
}

// Catalog stores the records of one extraction result.
// It is rebuilt wholesale by Load; there is no incremental update.
type Catalog struct {
	records []model.ExtractionRecord
	groups  []Group
	byCat   map[string]int // category -> position in groups
}

// New creates an empty catalog
func New() *Catalog {
	return &Catalog{byCat: make(map[string]int)}
}

// Load replaces the catalog contents.
// Records with blank text are dropped and empty categories become "unknown".
func (c *Catalog) Load(records []model.ExtractionRecord) {
	c.records = make([]model.ExtractionRecord, 0, len(records))
	c.groups = nil
	c.byCat = make(map[string]int)

	for _, rec := range records {
		if !rec.HasText() {
			continue
		}
		rec.Category = rec.CategoryOrDefault()
		c.records = append(c.records, rec)
	}

	for i, rec := range c.records {
		pos, ok := c.byCat[rec.Category]
		if !ok {
			pos = len(c.groups)
			c.byCat[rec.Category] = pos
			c.groups = append(c.groups, Group{
				Category: rec.Category,
				Label:    FormatLabel(rec.Category),
			})
		}
		c.groups[pos].Indices = append(c.groups[pos].Indices, i)
	}
}

// Records returns the loaded records in service order
func (c *Catalog) Records() []model.ExtractionRecord {
	return c.records
}

// Len returns the number of loaded records
func (c *Catalog) Len() int {
	return len(c.records)
}

// Groups returns categories in first-seen order
func (c *Catalog) Groups() []Group {
	return c.groups
}

// Resolve maps a UI selection back to its record.
// index is the 0-based position among records sharing category.
func (c *Catalog) Resolve(category string, index int) (model.ExtractionRecord, bool) {
	if category == "" {
		category = model.DefaultCategory
	}
	pos, ok := c.byCat[category]
	if !ok {
		return model.ExtractionRecord{}, false
	}
	indices := c.groups[pos].Indices
	if index < 0 || index >= len(indices) {
		return model.ExtractionRecord{}, false
	}
	return c.records[indices[index]], true
}

// FormatLabel turns a snake_case category into a display label ("adverse_event" -> "Adverse Event")
func FormatLabel(category string) string {
	words := strings.Split(category, "_")
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		if size == 0 {
			continue
		}
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}
