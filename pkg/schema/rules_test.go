package schema

import (
	"reflect"
	"testing"
)

func TestInferFieldRules(t *testing.T) {
	items := []Record{
		{
			"id":      "0db31082-03f1-4e23-9191-eea73a4d2b09",
			"name":    "dns-server",
			"kind":    "ip-address",
			"active":  true,
			"notes":   "Primary resolver handed out to every lease in the default pool, including the guest network segment and lab",
			"created": "2024-03-01T09:30:00Z",
		},
		{
			"id":      "3f8a2c41-77be-4b6e-8a10-5a2f9cc01784",
			"name":    "ntp-server",
			"kind":    "ip-address",
			"active":  false,
			"notes":   "short",
			"created": "2024-03-02T10:00:00Z",
		},
		{
			"id":      "b6f1d8f2-9c3a-45e7-bb1d-0f2ad77e6518",
			"name":    "domain-name",
			"kind":    "string",
			"active":  true,
			"notes":   "short",
			"created": "2024-03-03T11:15:00Z",
		},
	}
	fields := []string{"id", "name", "kind", "active", "notes", "created"}

	rules := InferFieldRules(fields, items)

	tests := []struct {
		field        string
		wantKind     FieldKind
		wantReadOnly bool
		wantOptions  []string
	}{
		{field: "id", wantKind: KindText, wantReadOnly: true},
		{field: "name", wantKind: KindSelect, wantOptions: []string{"dns-server", "ntp-server", "domain-name"}},
		{field: "kind", wantKind: KindSelect, wantOptions: []string{"ip-address", "string"}},
		{field: "active", wantKind: KindToggle},
		{field: "notes", wantKind: KindTextarea},
		{field: "created", wantKind: KindDatetime, wantReadOnly: true},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			rule, ok := rules[tt.field]
			if !ok {
				t.Fatalf("no rule inferred for %q", tt.field)
			}
			if rule.Kind != tt.wantKind {
				t.Errorf("kind = %q, want %q", rule.Kind, tt.wantKind)
			}
			if rule.ReadOnly != tt.wantReadOnly {
				t.Errorf("readOnly = %v, want %v", rule.ReadOnly, tt.wantReadOnly)
			}
			if tt.wantOptions != nil && !reflect.DeepEqual(rule.Options, tt.wantOptions) {
				t.Errorf("options = %v, want %v", rule.Options, tt.wantOptions)
			}
		})
	}
}

func TestInferFieldRulesTimestampBeatsIDShape(t *testing.T) {
	// A 36-char timestamp-like value must classify as datetime, not as an
	// id-shaped read-only text field.
	items := []Record{{"updated": "2024-01-15T08:00:00Z"}}
	rules := InferFieldRules([]string{"updated"}, items)

	rule := rules["updated"]
	if rule.Kind != KindDatetime {
		t.Fatalf("kind = %q, want %q", rule.Kind, KindDatetime)
	}
	if !rule.ReadOnly {
		t.Fatal("datetime fields must be read-only")
	}
}

func TestInferFieldRulesSelectThresholds(t *testing.T) {
	manyValues := make([]Record, 0, 12)
	for _, v := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l"} {
		manyValues = append(manyValues, Record{"status": v})
	}

	tests := []struct {
		name     string
		field    string
		items    []Record
		wantKind FieldKind
	}{
		{
			name:     "more than ten distinct values stays text",
			field:    "status",
			items:    manyValues,
			wantKind: KindText,
		},
		{
			name:  "long value disqualifies select",
			field: "status",
			items: []Record{
				{"status": "enabled"},
				{"status": "a value stretching well past the twenty character cap"},
			},
			wantKind: KindText,
		},
		{
			name:     "repeated values collapse to one option",
			field:    "status",
			items:    []Record{{"status": "on"}, {"status": "on"}, {"status": "off"}},
			wantKind: KindSelect,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules := InferFieldRules([]string{tt.field}, tt.items)
			if got := rules[tt.field].Kind; got != tt.wantKind {
				t.Errorf("kind = %q, want %q", got, tt.wantKind)
			}
		})
	}
}

func TestInferFieldRulesEmptySample(t *testing.T) {
	rules := InferFieldRules([]string{"name"}, nil)
	if len(rules) != 0 {
		t.Fatalf("expected no rules for empty sample, got %d", len(rules))
	}
}
