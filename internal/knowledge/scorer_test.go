package knowledge

import (
	"testing"
)

func TestScorerScore(t *testing.T) {
	tests := []struct {
		name       string
		message    string
		entries    []Entry
		aiKeywords []string
		wantCount  int
		// wantPositive/wantZero index into entries.
		wantPositive []int
		wantZero     []int
	}{
		{
			name:      "empty entries",
			message:   "學費多少",
			entries:   []Entry{},
			wantCount: 0,
		},
		{
			name:    "domain term in title scores positive",
			message: "學費多少",
			entries: []Entry{
				{ID: "fees", Title: "學費資訊", Content: "本學期學費與繳費期限說明", Keywords: []string{"費用"}},
				{ID: "clubs", Title: "社團活動", Content: "熱舞社每週三練習", Keywords: []string{}},
			},
			wantCount:    2,
			wantPositive: []int{0},
			wantZero:     []int{1},
		},
		{
			name:    "entry keyword found in message",
			message: "請問費用怎麼算",
			entries: []Entry{
				{ID: "fees", Title: "收費說明", Content: "詳細收費辦法", Keywords: []string{"費用"}},
			},
			wantCount:    1,
			wantPositive: []int{0},
		},
		{
			name:    "ai keywords boost title and content",
			message: "那個什麼時候開始",
			entries: []Entry{
				{ID: "a", Title: "招生時程", Content: "招生自九月開始", Keywords: []string{"招生"}},
			},
			aiKeywords:   []string{"招生"},
			wantCount:    1,
			wantPositive: []int{0},
		},
		{
			name:    "missing title scores zero",
			message: "學費多少",
			entries: []Entry{
				{ID: "broken", Title: "", Content: "學費相關內容", Keywords: []string{"學費"}},
			},
			wantCount: 1,
			wantZero:  []int{0},
		},
		{
			name:    "missing content scores zero",
			message: "學費多少",
			entries: []Entry{
				{ID: "broken", Title: "學費資訊", Content: "", Keywords: []string{"學費"}},
			},
			wantCount: 1,
			wantZero:  []int{0},
		},
		{
			name:    "case insensitive english matching",
			message: "How do I APPLY for the scholarship",
			entries: []Entry{
				{ID: "sch", Title: "Scholarship Application", Content: "How to apply for a scholarship", Keywords: []string{"apply"}},
			},
			wantCount:    1,
			wantPositive: []int{0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scorer := NewScorer()
			scored := scorer.Score(tt.message, tt.entries, tt.aiKeywords)

			if len(scored) != tt.wantCount {
				t.Fatalf("Score() got %d results, want %d", len(scored), tt.wantCount)
			}
			for _, idx := range tt.wantPositive {
				if scored[idx].Score <= 0 {
					t.Errorf("entry %q score = %v, want > 0", scored[idx].Entry.ID, scored[idx].Score)
				}
			}
			for _, idx := range tt.wantZero {
				if scored[idx].Score != 0 {
					t.Errorf("entry %q score = %v, want 0", scored[idx].Entry.ID, scored[idx].Score)
				}
			}
		})
	}
}

func TestScorerDeterministic(t *testing.T) {
	entries := []Entry{
		{ID: "a", Title: "學費資訊", Content: "學費與繳費說明", Keywords: []string{"費用", "學費"}},
		{ID: "b", Title: "社團活動", Content: "社團介紹與報名", Keywords: []string{"社團"}},
	}
	scorer := NewScorer()

	first := scorer.Score("學費跟社團報名", entries, []string{"學費", "報名"})
	for i := 0; i < 10; i++ {
		again := scorer.Score("學費跟社團報名", entries, []string{"學費", "報名"})
		for j := range first {
			if first[j].Score != again[j].Score {
				t.Fatalf("run %d: entry %q score %v != %v", i, first[j].Entry.ID, again[j].Score, first[j].Score)
			}
		}
	}
}

func TestScorerSignalsStack(t *testing.T) {
	// An entry matched on several fronts must outrank one matched on a
	// single keyword, even when both are positive.
	entries := []Entry{
		{ID: "narrow", Title: "繳費方式", Content: "轉帳或臨櫃繳費", Keywords: []string{}},
		{ID: "broad", Title: "學費資訊", Content: "學費金額與繳費期限", Keywords: []string{"學費", "繳費"}},
	}
	scored := NewScorer().Score("學費多少，怎麼繳費", entries, []string{"學費"})

	if scored[1].Score <= scored[0].Score {
		t.Errorf("broad entry score %v, want > narrow entry score %v", scored[1].Score, scored[0].Score)
	}
}

func TestFlattenKeywords(t *testing.T) {
	tests := []struct {
		name string
		raw  []any
		want []string
	}{
		{
			name: "flat strings",
			raw:  []any{"學費", "繳費"},
			want: []string{"學費", "繳費"},
		},
		{
			name: "nested arrays and garbage",
			raw:  []any{"學費", []any{"繳費", 42, []any{"期限"}}, 3.14, nil, map[string]any{"x": "y"}},
			want: []string{"學費", "繳費", "期限"},
		},
		{
			name: "blank strings dropped",
			raw:  []any{"  ", "", "ok"},
			want: []string{"ok"},
		},
		{
			name: "nil input",
			raw:  nil,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FlattenKeywords(tt.raw)
			if len(got) != len(tt.want) {
				t.Fatalf("FlattenKeywords() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("FlattenKeywords()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}
