package workspace

import "dhcp-admin-be/pkg/schema"

// FormField is one labeled control in the edit form, typed per the
// endpoint's inferred field rules.
type FormField struct {
	Name     string           `json:"name"`
	Label    string           `json:"label"`
	Kind     schema.FieldKind `json:"kind"`
	Options  []string         `json:"options,omitempty"`
	Value    string           `json:"value"`
	Required bool             `json:"required"`
	ReadOnly bool             `json:"readOnly"`
}

// buildForm creates exactly one control per collection field. The id
// field is read-only no matter what the rules say.
//
// The required heuristic is inherited from the source UI on purpose: a
// free-text field is required only when its populated value was
// non-empty, so brand-new blank records do not force every field to be
// filled, while existing values become mandatory once set. Selects are
// always required (the blank "Select..." option is not a valid choice).
func buildForm(fields []string, rec schema.Record, rules map[string]schema.FieldRule) []FormField {
	form := make([]FormField, 0, len(fields))
	for _, name := range fields {
		rule, ok := rules[name]
		if !ok {
			rule = schema.FieldRule{Kind: schema.KindText}
		}
		form = append(form, newFormField(name, rec.StringValue(name), rule))
	}
	return form
}

func newFormField(name, value string, rule schema.FieldRule) FormField {
	readOnly := rule.ReadOnly || name == "id"
	field := FormField{
		Name:     name,
		Label:    schema.Label(name),
		Kind:     rule.Kind,
		Options:  rule.Options,
		Value:    value,
		ReadOnly: readOnly,
	}
	switch rule.Kind {
	case schema.KindSelect:
		field.Required = true
	case schema.KindText, schema.KindTextarea:
		field.Required = value != "" && !readOnly
	}
	return field
}
