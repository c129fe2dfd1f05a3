package profile

// MaxConfidence is the upper bound of the confidence scale.
const MaxConfidence = 10.0

// High-value bonus: one point each for the presence of a non-empty
// name, interests list, education, and phone-or-email signal. Each bonus
// applies once no matter how many qualifying fields exist.
const highValueBonus = 1.0

// Confidence summarizes how much profile information has been captured
// as a score in [0, 10].
//
// Every non-empty top-level field (metadata excluded) contributes one
// point; the high-value bonuses stack on top; the result is clamped at
// MaxConfidence. Adding a non-empty field never decreases the score.
func Confidence(p Profile) float64 {
	score := 0.0
	for name, val := range p.Fields {
		if name == metadataKey || val.IsEmpty() {
			continue
		}
		score += 1.0
	}

	if hasSubField(p, CategoryBasic, "name") {
		score += highValueBonus
	}
	if hasInterestsList(p) {
		score += highValueBonus
	}
	if hasNonEmptyField(p, CategoryEducation) {
		score += highValueBonus
	}
	if hasSubField(p, CategoryContact, "phone") || hasSubField(p, CategoryContact, "email") {
		score += highValueBonus
	}

	if score > MaxConfidence {
		return MaxConfidence
	}
	return score
}

// hasSubField reports whether the field is present as a top-level scalar
// or as a non-empty sub-field of the named category record.
func hasSubField(p Profile, category, field string) bool {
	if v, ok := p.Fields[field]; ok && !v.IsEmpty() {
		return true
	}
	cat, ok := p.Fields[category]
	if !ok || cat.Kind() != KindRecord {
		return false
	}
	sub, ok := cat.Field(field)
	return ok && !sub.IsEmpty()
}

// hasInterestsList reports whether an interests-equivalent array field
// carries at least one item.
func hasInterestsList(p Profile) bool {
	for _, name := range []string{CategoryInterests, "hobbies"} {
		if v, ok := p.Fields[name]; ok && v.Kind() == KindList && !v.IsEmpty() {
			return true
		}
	}
	return false
}

// hasNonEmptyField reports whether the named top-level field is present
// and non-empty, whatever its kind.
func hasNonEmptyField(p Profile, name string) bool {
	v, ok := p.Fields[name]
	return ok && !v.IsEmpty()
}
