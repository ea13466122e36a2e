package schema

import "regexp"

// FieldKind classifies how a field is displayed and edited.
type FieldKind string

const (
	KindText     FieldKind = "text"
	KindSelect   FieldKind = "select"
	KindToggle   FieldKind = "toggle"
	KindTextarea FieldKind = "textarea"
	KindDatetime FieldKind = "datetime"
)

// FieldRule is the inferred display/edit metadata for one field.
type FieldRule struct {
	Kind     FieldKind `json:"kind"`
	Options  []string  `json:"options,omitempty"`
	ReadOnly bool      `json:"readOnly,omitempty"`
}

var (
	timestampRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}Z$`)
	uuidShapeRe = regexp.MustCompile(`^[a-f0-9\-]{36}$`)
)

const (
	selectMaxOptions  = 10
	selectMaxValueLen = 20
	textareaThreshold = 100
)

// InferFieldRules derives one rule per field from a representative
// sample. fields is the collection's field list (the first record's
// keys, in wire order); the distinct string values for each field are
// collected across the whole sample in first-seen order, so the derived
// select options are stable for a given sample.
//
// An empty sample yields no rules; callers treat unruled fields as
// plain text.
func InferFieldRules(fields []string, items []Record) map[string]FieldRule {
	if len(items) == 0 {
		return map[string]FieldRule{}
	}

	valueSets := make(map[string][]string, len(fields))
	seen := make(map[string]map[string]bool, len(fields))
	for _, item := range items {
		for _, field := range fields {
			s, ok := item[field].(string)
			if !ok {
				continue
			}
			if seen[field] == nil {
				seen[field] = make(map[string]bool)
			}
			if !seen[field][s] {
				seen[field][s] = true
				valueSets[field] = append(valueSets[field], s)
			}
		}
	}

	rules := make(map[string]FieldRule, len(fields))
	for _, field := range fields {
		rules[field] = inferRule(field, items[0][field], valueSets[field])
	}
	return rules
}

func inferRule(field string, sample Value, values []string) FieldRule {
	switch v := sample.(type) {
	case bool:
		return FieldRule{Kind: KindToggle}
	case string:
		switch {
		case timestampRe.MatchString(v):
			return FieldRule{Kind: KindDatetime, ReadOnly: true}
		case field == "id" || uuidShapeRe.MatchString(v):
			return FieldRule{Kind: KindText, ReadOnly: true}
		case len(values) <= selectMaxOptions && allShorterThan(values, selectMaxValueLen):
			return FieldRule{Kind: KindSelect, Options: values}
		case len(v) > textareaThreshold:
			return FieldRule{Kind: KindTextarea}
		default:
			return FieldRule{Kind: KindText}
		}
	default:
		return FieldRule{Kind: KindText}
	}
}

func allShorterThan(values []string, max int) bool {
	for _, v := range values {
		if len(v) >= max {
			return false
		}
	}
	return true
}
