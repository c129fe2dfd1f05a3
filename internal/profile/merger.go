package profile

import "time"

// Merger combines extracted fragments into an existing profile.
//
// Merge is pure: the existing profile is deep-copied first and never
// mutated. Repeating the same merge changes nothing but the bookkeeping
// fields (LastUpdated, TotalInteractions).
type Merger struct {
	// Clock supplies the LastUpdated timestamp. Defaults to time.Now.
	Clock func() time.Time
}

// NewMerger creates a merger using the wall clock.
func NewMerger() *Merger {
	return &Merger{Clock: time.Now}
}

// Merge combines incoming fields into a copy of existing.
//
// The combination rule is selected by the kind of the incoming value:
//   - list: set-union append, first-seen order, string equality
//   - record: one-level shallow merge, incoming sub-fields overwrite
//   - scalar (string/number): unconditional overwrite
//
// Fields absent from incoming are left untouched; absence means "no new
// information". Metadata is recomputed: CreatedAt preserved (set on first
// merge), LastUpdated from the clock, TotalInteractions incremented, and
// Confidence recomputed from the merged result.
func (m *Merger) Merge(existing Profile, incoming Partial) Profile {
	out := existing.Clone()
	if out.Fields == nil {
		out.Fields = make(map[string]Value)
	}

	for name, inc := range incoming {
		if name == metadataKey {
			continue
		}
		out.Fields[name] = combine(out.Fields[name], inc)
	}

	now := time.Now()
	if m.Clock != nil {
		now = m.Clock()
	}
	if out.Meta.CreatedAt.IsZero() {
		out.Meta.CreatedAt = now
	}
	out.Meta.LastUpdated = now
	out.Meta.TotalInteractions++
	out.Meta.Confidence = Confidence(out)

	return out
}

// combine applies the kind-dispatched rule for one field. The switch is
// exhaustive over Kind.
func combine(existing, incoming Value) Value {
	switch incoming.Kind() {
	case KindList:
		if existing.Kind() != KindList {
			// Field missing or previously a scalar: start from empty.
			existing = List()
		}
		merged := existing.Items()
		seen := make(map[string]struct{}, len(merged))
		for _, it := range merged {
			seen[it] = struct{}{}
		}
		for _, it := range incoming.Items() {
			if _, ok := seen[it]; ok {
				continue
			}
			seen[it] = struct{}{}
			merged = append(merged, it)
		}
		return List(merged...)

	case KindRecord:
		if existing.Kind() != KindRecord {
			return incoming.clone()
		}
		merged := existing.Fields()
		for k, v := range incoming.Fields() {
			merged[k] = v.clone()
		}
		return Record(merged)

	case KindString, KindNumber:
		return incoming

	default:
		return incoming
	}
}
