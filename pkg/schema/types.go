package schema

// Value is one field value as it lives in memory: string, bool or nil.
// Numbers and nested structures coming off the wire are coerced to their
// literal string form during normalization.
type Value = interface{}

// Record is one canonical entity instance: camelCase field name -> value.
// The distinguished "id" field is server-assigned and absent on drafts.
type Record map[string]Value

// Collection is the normalized result of one endpoint fetch.
// Fields preserves the wire key order of the first record so that rule
// inference and form layout stay deterministic.
type Collection struct {
	Title  string   `json:"title"`
	Intro  string   `json:"intro"`
	Fields []string `json:"fields"`
	Items  []Record `json:"items"`
}

// ID returns the record's id, or "" for an unsaved draft.
func (r Record) ID() string {
	if v, ok := r["id"].(string); ok {
		return v
	}
	return ""
}

// StringValue renders a field for display/editing. Booleans become
// "true"/"false", nil becomes "".
func (r Record) StringValue(field string) string {
	switch v := r[field].(type) {
	case string:
		return v
	case bool:
		if v {
			return "true"
		}
		return "false"
	case nil:
		return ""
	default:
		return ""
	}
}
