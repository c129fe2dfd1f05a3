package knowledge

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Signal weights for the additive relevance score. Independent signals
// stack: an entry matched on several fronts outranks one that merely
// echoes a single keyword.
const (
	weightTitleContainment   = 5.0
	weightContentContainment = 3.0
	weightAIKeywordTitle     = 6.0
	weightAIKeywordContent   = 5.0
	weightAIKeywordOverlap   = 7.0
	weightEntryKeyword       = 4.0
	weightTokenTitle         = 1.0
	weightTokenContent       = 0.5
)

// Scorer ranks knowledge entries against a user message.
//
// Scoring is deterministic: no randomness, no clock reads. All text
// comparisons are lowercase substring containment.
type Scorer struct{}

// NewScorer creates a Scorer.
func NewScorer() *Scorer {
	return &Scorer{}
}

// Score computes a relevance score for every entry. The result preserves
// the input order; entries with a missing title or content score 0.
// aiKeywords may be empty.
func (s *Scorer) Score(message string, entries []Entry, aiKeywords []string) []ScoredEntry {
	if len(entries) == 0 {
		return []ScoredEntry{}
	}

	msg := strings.ToLower(message)
	tokens := tokenize(msg)

	keywords := make([]string, 0, len(aiKeywords))
	for _, kw := range aiKeywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			keywords = append(keywords, kw)
		}
	}

	scored := make([]ScoredEntry, len(entries))
	for i, entry := range entries {
		scored[i] = ScoredEntry{
			Entry: entry,
			Score: s.scoreEntry(msg, tokens, keywords, entry),
		}
	}
	return scored
}

// scoreEntry sums all signal contributions for one entry.
func (s *Scorer) scoreEntry(msg string, tokens []string, aiKeywords []string, entry Entry) float64 {
	if entry.Title == "" || entry.Content == "" {
		return 0
	}

	title := strings.ToLower(entry.Title)
	content := strings.ToLower(entry.Content)

	var score float64

	// Direct containment between message and entry text.
	if msg != "" && (strings.Contains(title, msg) || strings.Contains(msg, title)) {
		score += weightTitleContainment
	}
	if msg != "" && strings.Contains(content, msg) {
		score += weightContentContainment
	}

	// AI-derived keywords are the strongest signal.
	for _, kw := range aiKeywords {
		if strings.Contains(title, kw) {
			score += weightAIKeywordTitle
		}
		if strings.Contains(content, kw) {
			score += weightAIKeywordContent
		}
		for _, ek := range entry.Keywords {
			ek = strings.ToLower(ek)
			if ek == "" {
				continue
			}
			if strings.Contains(ek, kw) || strings.Contains(kw, ek) {
				score += weightAIKeywordOverlap
				break
			}
		}
	}

	// Entry's own keyword tags found in the message.
	for _, ek := range entry.Keywords {
		ek = strings.ToLower(ek)
		if ek != "" && strings.Contains(msg, ek) {
			score += weightEntryKeyword
		}
	}

	// Curated domain vocabulary found in the message, weighted double
	// when the entry's title carries the term.
	for _, dt := range domainTerms {
		if !strings.Contains(msg, dt.term) {
			continue
		}
		if strings.Contains(title, dt.term) {
			score += dt.weight * 2
		} else if strings.Contains(content, dt.term) {
			score += dt.weight
		}
	}

	// Partial word overlap between message tokens and entry text.
	for _, tok := range tokens {
		if strings.Contains(title, tok) {
			score += weightTokenTitle
		}
		if strings.Contains(content, tok) {
			score += weightTokenContent
		}
	}

	return score
}

// tokenize splits a lowercased message into tokens longer than two runes.
// Splitting is on whitespace and punctuation; CJK phrases without spaces
// stay as a single token, which is fine for substring matching.
func tokenize(msg string) []string {
	fields := strings.FieldsFunc(msg, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r)
	})

	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if utf8.RuneCountInString(f) > 2 {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// FlattenKeywords coerces the raw keyword payload from an upstream LLM
// parser into a flat string slice. Nested arrays are flattened one level
// at a time; non-string leaves are dropped silently.
func FlattenKeywords(raw []any) []string {
	var out []string
	for _, item := range raw {
		switch v := item.(type) {
		case string:
			if trimmed := strings.TrimSpace(v); trimmed != "" {
				out = append(out, trimmed)
			}
		case []any:
			out = append(out, FlattenKeywords(v)...)
		case []string:
			for _, s := range v {
				if trimmed := strings.TrimSpace(s); trimmed != "" {
					out = append(out, trimmed)
				}
			}
		}
	}
	return out
}
