package profile

import (
	"strings"
	"unicode"
)

// FieldExtractor extracts one semantic category of profile data from a
// raw message. Implementations are pure and never fail; a message with
// nothing to extract reports ok=false.
type FieldExtractor interface {
	// Category is the profile field name this extractor populates.
	Category() string

	// Extract returns the extracted value and whether anything matched.
	Extract(message string) (Value, bool)
}

// Extractor runs every category extractor against a message and collects
// the matches into a Partial. Categories are independent: one message can
// populate several. The message is matched raw, not lowercased, so names
// and other values keep their original casing.
type Extractor struct {
	categories []FieldExtractor
}

// NewExtractor creates an extractor with the default category set.
func NewExtractor() *Extractor {
	return &Extractor{categories: defaultCategories()}
}

// NewExtractorWith creates an extractor from a custom category set,
// letting callers swap a heuristic category for a model-backed one.
func NewExtractorWith(categories ...FieldExtractor) *Extractor {
	return &Extractor{categories: categories}
}

// Extract applies every category to the message. A category with no match
// is omitted entirely; worst case the result is an empty Partial.
func (e *Extractor) Extract(message string) Partial {
	out := make(Partial)
	if strings.TrimSpace(message) == "" {
		return out
	}
	for _, c := range e.categories {
		if val, ok := c.Extract(message); ok && !val.IsEmpty() {
			out[c.Category()] = val
		}
	}
	return out
}

// trimValue strips surrounding whitespace and punctuation from an
// extracted capture.
func trimValue(s string) string {
	return strings.TrimFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r)
	})
}

// splitListValue splits an enumeration capture ("打球、游泳和畫畫") into
// its items.
func splitListValue(s string) []string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		switch r {
		case '、', '，', ',', '和', '跟', ';', '；':
			return true
		}
		return false
	})

	items := make([]string, 0, len(parts))
	for _, p := range parts {
		// "and" survives FieldsFunc since it is a word, not a rune.
		for _, q := range strings.Split(p, " and ") {
			if trimmed := trimValue(q); trimmed != "" {
				items = append(items, trimmed)
			}
		}
	}
	return items
}
