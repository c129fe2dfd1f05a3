package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

const keywordPrompt = `從下面的使用者訊息中萃取最多 %d 個搜尋關鍵詞，用來查詢知識庫。
只回覆一個 JSON 字串陣列，例如 ["學費","繳費期限"]，不要任何其他文字。

訊息：%s`

// DefaultMaxKeywords bounds how many keywords one message yields.
const DefaultMaxKeywords = 5

// ChatKeywordExtractor asks the chat model for keywords and parses the
// reply defensively: a model returning nested arrays, numbers, prose, or
// fenced code blocks still yields a flat string slice, never a parse
// error.
type ChatKeywordExtractor struct {
	chatter     Chatter
	maxKeywords int
}

// NewChatKeywordExtractor creates an extractor backed by the given chatter.
func NewChatKeywordExtractor(chatter Chatter) (*ChatKeywordExtractor, error) {
	if chatter == nil {
		return nil, fmt.Errorf("chatter cannot be nil")
	}
	return &ChatKeywordExtractor{chatter: chatter, maxKeywords: DefaultMaxKeywords}, nil
}

// Keywords extracts keywords for one message. The only errors returned
// are transport-level; malformed model output degrades to whatever could
// be salvaged, possibly nothing.
func (e *ChatKeywordExtractor) Keywords(ctx context.Context, message string) ([]string, error) {
	prompt := fmt.Sprintf(keywordPrompt, e.maxKeywords, message)
	reply, err := e.chatter.Chat(ctx, []Message{{Role: "user", Content: prompt}})
	if err != nil {
		return nil, fmt.Errorf("keyword extraction call: %w", err)
	}

	keywords := ParseKeywordList(reply)
	if len(keywords) > e.maxKeywords {
		keywords = keywords[:e.maxKeywords]
	}
	return keywords, nil
}

// ParseKeywordList coerces arbitrary model output into a keyword slice.
//
// Tries, in order: a JSON array (flattening nested arrays and dropping
// non-string elements), a JSON array inside a fenced code block, and
// finally comma/newline-separated plain text.
func ParseKeywordList(text string) []string {
	text = strings.TrimSpace(stripCodeFence(text))
	if text == "" {
		return nil
	}

	if strings.HasPrefix(text, "[") {
		var raw []any
		if err := json.Unmarshal([]byte(text), &raw); err == nil {
			return flattenStrings(raw)
		}
	}

	// Plain text fallback: split on commas and newlines.
	parts := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == '，' || r == '、' || r == '\n'
	})
	var out []string
	for _, p := range parts {
		p = strings.Trim(strings.TrimSpace(p), `"'`)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// flattenStrings keeps string leaves from a possibly nested JSON array.
func flattenStrings(raw []any) []string {
	var out []string
	for _, item := range raw {
		switch v := item.(type) {
		case string:
			if trimmed := strings.TrimSpace(v); trimmed != "" {
				out = append(out, trimmed)
			}
		case []any:
			out = append(out, flattenStrings(v)...)
		}
	}
	return out
}

// stripCodeFence removes a surrounding markdown code fence if present.
func stripCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return text
	}
	trimmed = strings.TrimPrefix(trimmed, "```")
	if idx := strings.Index(trimmed, "\n"); idx >= 0 {
		// Drop the language tag line.
		if !strings.Contains(trimmed[:idx], "[") {
			trimmed = trimmed[idx+1:]
		}
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}

// NoopKeywordExtractor returns no keywords. Used when no LLM provider is
// configured; scoring then runs on the message and entry signals alone.
type NoopKeywordExtractor struct{}

// Keywords returns nil.
func (NoopKeywordExtractor) Keywords(ctx context.Context, message string) ([]string, error) {
	return nil, nil
}

// Ensure interfaces are implemented.
var (
	_ KeywordExtractor = (*ChatKeywordExtractor)(nil)
	_ KeywordExtractor = NoopKeywordExtractor{}
)
