package profile

import (
	"regexp"
	"strconv"
)

// Category field names shared with the confidence calculator.
const (
	CategoryBasic       = "basic"
	CategoryContact     = "contact"
	CategoryEducation   = "education"
	CategoryCareer      = "career"
	CategoryInterests   = "interests"
	CategoryPersonality = "personality"
	CategoryLifestyle   = "lifestyle"
)

// rule pairs a compiled pattern with a builder turning its submatches into
// a Value. Within a category the first matching rule wins for this call.
type rule struct {
	re    *regexp.Regexp
	build func(matches []string) (Value, bool)
}

// categoryExtractor is the regex-driven FieldExtractor implementation.
type categoryExtractor struct {
	name  string
	rules []rule
}

// Category returns the profile field name.
func (c *categoryExtractor) Category() string { return c.name }

// Extract tries each rule in order and stops at the first match.
func (c *categoryExtractor) Extract(message string) (Value, bool) {
	for _, r := range c.rules {
		m := r.re.FindStringSubmatch(message)
		if m == nil {
			continue
		}
		if val, ok := r.build(m); ok {
			return val, true
		}
	}
	return Value{}, false
}

// subRecord builds a one-field record from a trimmed capture.
func subRecord(field string) func([]string) (Value, bool) {
	return func(m []string) (Value, bool) {
		v := trimValue(m[1])
		if v == "" {
			return Value{}, false
		}
		return Record(map[string]Value{field: String(v)}), true
	}
}

// numberRecord builds a one-field numeric record, silently dropping
// captures that fail to parse.
func numberRecord(field string) func([]string) (Value, bool) {
	return func(m []string) (Value, bool) {
		n, err := strconv.Atoi(trimValue(m[1]))
		if err != nil || n == 0 {
			return Value{}, false
		}
		return Record(map[string]Value{field: Number(float64(n))}), true
	}
}

// listValue builds a list from an enumeration capture.
func listValue(m []string) (Value, bool) {
	items := splitListValue(m[1])
	if len(items) == 0 {
		return Value{}, false
	}
	return List(items...), true
}

var _ FieldExtractor = (*categoryExtractor)(nil)

// defaultCategories returns the built-in category extractors. Rule order
// inside a category matters: more specific patterns come first.
func defaultCategories() []FieldExtractor {
	return []FieldExtractor{
		&categoryExtractor{
			name: CategoryBasic,
			rules: []rule{
				{
					re:    regexp.MustCompile(`(?:我叫|我的名字是|名字叫|[Mm]y name is)\s*([\p{Han}A-Za-z·]{1,20}?)(?:[，,。！!？?\s]|$)`),
					build: subRecord("name"),
				},
				{
					re:    regexp.MustCompile(`(?:我今年|今年)\s*(\d{1,3})\s*歲`),
					build: numberRecord("age"),
				},
				{
					re:    regexp.MustCompile(`[Ii](?:'m| am)\s*(\d{1,3})\s*years?\s*old`),
					build: numberRecord("age"),
				},
				{
					re:    regexp.MustCompile(`我是(男生|女生|男性|女性)`),
					build: subRecord("gender"),
				},
			},
		},
		&categoryExtractor{
			name: CategoryContact,
			rules: []rule{
				{
					re:    regexp.MustCompile(`(?:電話|手機|聯絡方式)(?:是|：|:)?\s*(\+?\d{7,15})`),
					build: subRecord("phone"),
				},
				{
					re:    regexp.MustCompile(`(09\d{8})`),
					build: subRecord("phone"),
				},
				{
					re:    regexp.MustCompile(`([A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,})`),
					build: subRecord("email"),
				},
				{
					re:    regexp.MustCompile(`(?:LINE|[Ll]ine)\s*(?:ID|id)?(?:是|：|:)\s*([A-Za-z0-9._\-]{3,30})`),
					build: subRecord("line"),
				},
			},
		},
		&categoryExtractor{
			name: CategoryEducation,
			rules: []rule{
				{
					re:    regexp.MustCompile(`(?:我讀|我念|就讀|畢業於)\s*([\p{Han}A-Za-z]{1,20}?(?:大學|學院|高中|高職|國中|國小))`),
					build: subRecord("school"),
				},
				{
					re:    regexp.MustCompile(`(?:主修|科系是|我學的是)\s*([\p{Han}A-Za-z]{2,20})`),
					build: subRecord("major"),
				},
				{
					re:    regexp.MustCompile(`(?:我是)?([一二三四五六]|\d)年級`),
					build: subRecord("grade"),
				},
			},
		},
		&categoryExtractor{
			name: CategoryCareer,
			rules: []rule{
				{
					re:    regexp.MustCompile(`我在\s*([\p{Han}A-Za-z0-9]{2,20}?)\s*(?:上班|工作)`),
					build: subRecord("company"),
				},
				{
					re:    regexp.MustCompile(`我是一?[名個位]\s*([\p{Han}A-Za-z]{2,15})`),
					build: subRecord("job"),
				},
				{
					re:    regexp.MustCompile(`[Ii] work (?:at|for)\s+([A-Za-z0-9 .\-]{2,40})`),
					build: subRecord("company"),
				},
			},
		},
		&categoryExtractor{
			name: CategoryInterests,
			rules: []rule{
				{
					re:    regexp.MustCompile(`(?:我的興趣是|興趣是|我喜歡|我愛|愛好是)\s*([^。！!？?\n]{1,60})`),
					build: listValue,
				},
				{
					re:    regexp.MustCompile(`[Ii] (?:like|love|enjoy)\s+([^.!?\n]{1,60})`),
					build: listValue,
				},
			},
		},
		&categoryExtractor{
			name: CategoryPersonality,
			rules: []rule{
				{
					re:    regexp.MustCompile(`我是個?\s*([^。，,！!？?\n]{1,20}?)的人`),
					build: listValue,
				},
				{
					re:    regexp.MustCompile(`(?:我的)?個性(?:是|比較)?\s*([^。，,！!？?\n]{1,20})`),
					build: listValue,
				},
			},
		},
		&categoryExtractor{
			name: CategoryLifestyle,
			rules: []rule{
				{
					re:    regexp.MustCompile(`我每天\s*([^。！!？?\n]{1,40})`),
					build: subRecord("daily"),
				},
				{
					re:    regexp.MustCompile(`我(?:通常|習慣)\s*([^。！!？?\n]{1,40})`),
					build: subRecord("habit"),
				},
			},
		},
	}
}
