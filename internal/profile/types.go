// Package profile builds and maintains per-user profiles inferred from
// free-text chat messages.
//
// A profile is a sparse, dynamically-keyed record: field names are not a
// fixed schema. Values are an explicit tagged union so the merge logic can
// dispatch on kind exhaustively instead of relying on runtime reflection.
package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Common errors for profile operations.
var (
	ErrNotFound        = errors.New("profile not found")
	ErrVersionConflict = errors.New("profile version conflict")
	ErrEmptyUserID     = errors.New("user ID cannot be empty")
)

// Kind identifies which variant a Value holds.
type Kind int

const (
	// KindString holds a single string scalar.
	KindString Kind = iota

	// KindNumber holds a numeric scalar.
	KindNumber

	// KindList holds an ordered set of unique strings.
	KindList

	// KindRecord holds a one-level nested record.
	KindRecord
)

// Value is the tagged union stored under each profile field.
type Value struct {
	kind   Kind
	str    string
	num    float64
	list   []string
	record map[string]Value
}

// String creates a string Value.
func String(s string) Value {
	return Value{kind: KindString, str: s}
}

// Number creates a numeric Value.
func Number(n float64) Value {
	return Value{kind: KindNumber, num: n}
}

// List creates a list Value, dropping duplicates while preserving
// first-seen order.
func List(items ...string) Value {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		if _, ok := seen[it]; ok {
			continue
		}
		seen[it] = struct{}{}
		out = append(out, it)
	}
	return Value{kind: KindList, list: out}
}

// Record creates a nested record Value from a copy of fields.
func Record(fields map[string]Value) Value {
	copied := make(map[string]Value, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	return Value{kind: KindRecord, record: copied}
}

// Kind returns the variant tag.
func (v Value) Kind() Kind { return v.kind }

// Str returns the string payload. Zero value for other kinds.
func (v Value) Str() string { return v.str }

// Num returns the numeric payload. Zero value for other kinds.
func (v Value) Num() float64 { return v.num }

// Items returns a copy of the list payload.
func (v Value) Items() []string {
	out := make([]string, len(v.list))
	copy(out, v.list)
	return out
}

// Fields returns a copy of the record payload.
func (v Value) Fields() map[string]Value {
	out := make(map[string]Value, len(v.record))
	for k, val := range v.record {
		out[k] = val
	}
	return out
}

// Field returns one record sub-field.
func (v Value) Field(name string) (Value, bool) {
	val, ok := v.record[name]
	return val, ok
}

// IsEmpty reports whether the value carries no information: empty string,
// zero number, empty list, or empty record.
func (v Value) IsEmpty() bool {
	switch v.kind {
	case KindString:
		return v.str == ""
	case KindNumber:
		return v.num == 0
	case KindList:
		return len(v.list) == 0
	case KindRecord:
		return len(v.record) == 0
	default:
		return true
	}
}

// Equal reports deep equality of two values.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.str == other.str
	case KindNumber:
		return v.num == other.num
	case KindList:
		if len(v.list) != len(other.list) {
			return false
		}
		for i := range v.list {
			if v.list[i] != other.list[i] {
				return false
			}
		}
		return true
	case KindRecord:
		if len(v.record) != len(other.record) {
			return false
		}
		for k, val := range v.record {
			o, ok := other.record[k]
			if !ok || !val.Equal(o) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// clone returns a deep copy.
func (v Value) clone() Value {
	switch v.kind {
	case KindList:
		list := make([]string, len(v.list))
		copy(list, v.list)
		return Value{kind: KindList, list: list}
	case KindRecord:
		record := make(map[string]Value, len(v.record))
		for k, val := range v.record {
			record[k] = val.clone()
		}
		return Value{kind: KindRecord, record: record}
	default:
		return v
	}
}

// MarshalJSON encodes the value as its natural JSON shape: string, number,
// string array, or object.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.str)
	case KindNumber:
		return json.Marshal(v.num)
	case KindList:
		if v.list == nil {
			return json.Marshal([]string{})
		}
		return json.Marshal(v.list)
	case KindRecord:
		if v.record == nil {
			return json.Marshal(map[string]Value{})
		}
		return json.Marshal(v.record)
	default:
		return nil, fmt.Errorf("unknown value kind %d", v.kind)
	}
}

// UnmarshalJSON decodes a value by sniffing its JSON shape.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	decoded, err := fromAny(raw)
	if err != nil {
		return err
	}
	*v = decoded
	return nil
}

// fromAny converts a decoded JSON value into the tagged union.
func fromAny(raw any) (Value, error) {
	switch t := raw.(type) {
	case string:
		return String(t), nil
	case float64:
		return Number(t), nil
	case []any:
		items := make([]string, 0, len(t))
		for _, it := range t {
			s, ok := it.(string)
			if !ok {
				return Value{}, fmt.Errorf("list element is not a string: %T", it)
			}
			items = append(items, s)
		}
		return List(items...), nil
	case map[string]any:
		record := make(map[string]Value, len(t))
		for k, rv := range t {
			val, err := fromAny(rv)
			if err != nil {
				return Value{}, fmt.Errorf("record field %q: %w", k, err)
			}
			record[k] = val
		}
		return Value{kind: KindRecord, record: record}, nil
	default:
		return Value{}, fmt.Errorf("unsupported profile value type %T", raw)
	}
}

// Metadata is the reserved bookkeeping block of a profile.
type Metadata struct {
	// Confidence summarizes how much information has been captured, 0-10.
	// Always recomputed from the current profile, never carried stale.
	Confidence float64 `json:"confidence"`

	// LastUpdated is when the profile last changed.
	LastUpdated time.Time `json:"last_updated"`

	// TotalInteractions counts merges applied to this profile.
	TotalInteractions int `json:"total_interactions"`

	// Source names what produced the last update.
	Source string `json:"source,omitempty"`

	// CreatedAt is when the profile was first created. Preserved across merges.
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// Partial is a fragment of profile fields extracted from one message.
// A category absent from the map means "no new information", never
// "clear existing information".
type Partial map[string]Value

// Profile is a user's accumulated profile. Fields grow monotonically
// across merges; the merge algorithm never deletes a field.
type Profile struct {
	Fields map[string]Value
	Meta   Metadata
}

// Empty returns a fresh profile with zero interactions.
func Empty() Profile {
	return Profile{Fields: make(map[string]Value)}
}

// metadataKey is the reserved field name in the JSON document form.
const metadataKey = "metadata"

// MarshalJSON flattens fields to the top level with metadata under the
// reserved "metadata" key, matching the persisted document shape.
func (p Profile) MarshalJSON() ([]byte, error) {
	doc := make(map[string]json.RawMessage, len(p.Fields)+1)
	for name, val := range p.Fields {
		if name == metadataKey {
			continue
		}
		b, err := json.Marshal(val)
		if err != nil {
			return nil, fmt.Errorf("marshaling field %q: %w", name, err)
		}
		doc[name] = b
	}
	meta, err := json.Marshal(p.Meta)
	if err != nil {
		return nil, fmt.Errorf("marshaling metadata: %w", err)
	}
	doc[metadataKey] = meta
	return json.Marshal(doc)
}

// UnmarshalJSON reverses MarshalJSON.
func (p *Profile) UnmarshalJSON(data []byte) error {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}

	out := Empty()
	for name, raw := range doc {
		if name == metadataKey {
			if err := json.Unmarshal(raw, &out.Meta); err != nil {
				return fmt.Errorf("unmarshaling metadata: %w", err)
			}
			continue
		}
		var val Value
		if err := json.Unmarshal(raw, &val); err != nil {
			return fmt.Errorf("unmarshaling field %q: %w", name, err)
		}
		out.Fields[name] = val
	}
	*p = out
	return nil
}

// Clone returns a deep copy of the profile.
func (p Profile) Clone() Profile {
	fields := make(map[string]Value, len(p.Fields))
	for k, v := range p.Fields {
		fields[k] = v.clone()
	}
	return Profile{Fields: fields, Meta: p.Meta}
}
