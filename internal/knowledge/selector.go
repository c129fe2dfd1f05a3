package knowledge

import "sort"

// MaxSelected bounds how many entries are injected into the prompt.
// Keeping the context small controls prompt cost and latency downstream.
const MaxSelected = 3

// Select applies the threshold-and-cap policy to scored entries.
//
// Entries with score <= 0 are dropped. The rest are sorted descending by
// score with a stable sort, so equal scores keep their original relative
// order. Zero relevant entries is a normal outcome and returns an empty
// slice; there is no fallback to "all entries".
func Select(scored []ScoredEntry) []Entry {
	relevant := make([]ScoredEntry, 0, len(scored))
	for _, se := range scored {
		if se.Score > 0 {
			relevant = append(relevant, se)
		}
	}
	if len(relevant) == 0 {
		return []Entry{}
	}

	sort.SliceStable(relevant, func(i, j int) bool {
		return relevant[i].Score > relevant[j].Score
	})

	limit := len(relevant)
	if limit > MaxSelected {
		limit = MaxSelected
	}

	out := make([]Entry, limit)
	for i := 0; i < limit; i++ {
		out[i] = relevant[i].Entry
	}
	return out
}
