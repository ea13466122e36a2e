package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// DuplicateIDError reports records sharing an id within one collection.
// The ambiguous list must not be rendered; the offending ids are named.
type DuplicateIDError struct {
	Endpoint string
	IDs      []string
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("duplicate record ids in %q: %s", e.Endpoint, strings.Join(e.IDs, ", "))
}

// NormalizeCollection maps the heterogeneous wire shapes of a collection
// fetch into one canonical Collection. Accepted shapes:
//
//   - bare array of records
//   - single-element array wrapping {title, intro, items: [...]}
//   - bare wrapped object
//
// Keys of any casing (camel, snake, kebab) are canonicalized to
// camelCase. Missing title/intro default to "". Unrecognized scalar
// payloads normalize to an empty collection rather than failing.
func NormalizeCollection(raw []byte) (*Collection, error) {
	var arr []json.RawMessage
	if err := json.Unmarshal(raw, &arr); err == nil {
		if len(arr) == 0 {
			return &Collection{Items: []Record{}}, nil
		}
		if len(arr) == 1 && isObject(arr[0]) {
			if col, ok, err := normalizeWrapped(arr[0]); err != nil {
				return nil, err
			} else if ok {
				return col, nil
			}
		}
		return normalizeBareArray(arr)
	}

	if isObject(raw) {
		if col, ok, err := normalizeWrapped(raw); err != nil {
			return nil, err
		} else if ok {
			return col, nil
		}
		// A single record with no nested items array: one-row collection.
		rec, fields, err := NormalizeRecord(raw)
		if err != nil {
			return nil, err
		}
		return &Collection{Fields: fields, Items: []Record{rec}}, nil
	}

	return &Collection{Items: []Record{}}, nil
}

// NormalizeRecord canonicalizes a single wire object into a Record,
// preserving the wire order of its keys.
func NormalizeRecord(raw json.RawMessage) (Record, []string, error) {
	keys, values, err := decodeOrderedObject(raw)
	if err != nil {
		return nil, nil, err
	}
	rec := make(Record, len(keys))
	fields := make([]string, 0, len(keys))
	for _, k := range keys {
		canon := ToCamel(k)
		if _, seen := rec[canon]; seen {
			continue
		}
		fields = append(fields, canon)
		rec[canon] = coerceValue(values[k])
	}
	return rec, fields, nil
}

// ManifestEntry is one selectable endpoint from the navigation
// manifest, in wire order. Group names the optional one-level section
// the endpoint sits under.
type ManifestEntry struct {
	Key   string
	Title string
	Group string
}

// NormalizeManifest decodes the navigation manifest's canonical shape:
// a JSON object keyed by endpoint name whose values carry {title},
// with one optional level of named grouping around the endpoints, and
// an optional single-element array wrapper. Returns ok=false when the
// payload is not object-shaped so callers can fall back to the
// record-array form.
func NormalizeManifest(raw []byte) ([]ManifestEntry, bool) {
	body := bytes.TrimSpace(raw)
	if isArray(body) {
		var arr []json.RawMessage
		if err := json.Unmarshal(body, &arr); err != nil || len(arr) != 1 || !isObject(arr[0]) {
			return nil, false
		}
		body = bytes.TrimSpace(arr[0])
	}
	if !isObject(body) {
		return nil, false
	}

	keys, values, err := decodeOrderedObject(body)
	if err != nil {
		return nil, false
	}

	entries := make([]ManifestEntry, 0, len(keys))
	for _, key := range keys {
		if !isObject(values[key]) {
			return nil, false
		}
		if title, ok := objectTitle(values[key]); ok {
			entries = append(entries, ManifestEntry{Key: key, Title: title})
			continue
		}
		groupKeys, groupValues, err := decodeOrderedObject(values[key])
		if err != nil {
			return nil, false
		}
		for _, gk := range groupKeys {
			title, _ := objectTitle(groupValues[gk])
			entries = append(entries, ManifestEntry{Key: gk, Title: title, Group: key})
		}
	}
	return entries, true
}

func objectTitle(raw json.RawMessage) (string, bool) {
	if !isObject(raw) {
		return "", false
	}
	var obj struct {
		Title *string `json:"title"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil || obj.Title == nil {
		return "", false
	}
	return *obj.Title, true
}

// FindDuplicateIDs returns the ids shared by two or more records, in
// first-offense order. Id-less records are ignored.
func FindDuplicateIDs(items []Record) []string {
	seen := make(map[string]bool)
	reported := make(map[string]bool)
	var dups []string
	for _, item := range items {
		id := item.ID()
		if id == "" {
			continue
		}
		if seen[id] && !reported[id] {
			dups = append(dups, id)
			reported[id] = true
		}
		seen[id] = true
	}
	return dups
}

func normalizeBareArray(arr []json.RawMessage) (*Collection, error) {
	col := &Collection{Items: make([]Record, 0, len(arr))}
	for i, el := range arr {
		if !isObject(el) {
			continue
		}
		rec, fields, err := NormalizeRecord(el)
		if err != nil {
			return nil, err
		}
		if i == 0 {
			col.Fields = fields
		}
		col.Items = append(col.Items, rec)
	}
	return col, nil
}

// normalizeWrapped handles the {title, intro, items: [...]} shape. The
// items live under the first array-valued key in wire order, whatever
// it is called. Returns ok=false when the object has no nested array.
func normalizeWrapped(raw json.RawMessage) (*Collection, bool, error) {
	keys, values, err := decodeOrderedObject(raw)
	if err != nil {
		return nil, false, err
	}

	itemsKey := ""
	for _, k := range keys {
		if isArray(values[k]) {
			itemsKey = k
			break
		}
	}
	if itemsKey == "" {
		return nil, false, nil
	}

	col := &Collection{
		Title: metaString(values, "title", "h1"),
		Intro: metaString(values, "intro", "description"),
	}

	var items []json.RawMessage
	if err := json.Unmarshal(values[itemsKey], &items); err != nil {
		return nil, false, err
	}
	col.Items = make([]Record, 0, len(items))
	for i, el := range items {
		if !isObject(el) {
			continue
		}
		rec, fields, err := NormalizeRecord(el)
		if err != nil {
			return nil, false, err
		}
		if i == 0 {
			col.Fields = fields
		}
		col.Items = append(col.Items, rec)
	}
	return col, true, nil
}

func metaString(values map[string]json.RawMessage, names ...string) string {
	for _, n := range names {
		if raw, ok := values[n]; ok {
			var s string
			if err := json.Unmarshal(raw, &s); err == nil {
				return s
			}
		}
	}
	return ""
}

// decodeOrderedObject walks the object token stream so the wire order of
// keys survives Go's unordered maps.
func decodeOrderedObject(raw json.RawMessage) ([]string, map[string]json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, nil, fmt.Errorf("expected JSON object, got %v", tok)
	}

	var keys []string
	values := make(map[string]json.RawMessage)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key := tok.(string)
		var val json.RawMessage
		if err := dec.Decode(&val); err != nil {
			return nil, nil, err
		}
		if _, seen := values[key]; !seen {
			keys = append(keys, key)
		}
		values[key] = val
	}
	return keys, values, nil
}

func coerceValue(raw json.RawMessage) Value {
	var v interface{}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return string(raw)
	}
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return t
	case nil:
		return nil
	case json.Number:
		return t.String()
	default:
		// Nested structures flatten to their literal JSON text.
		return string(bytes.TrimSpace(raw))
	}
}

func isObject(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) > 0 && t[0] == '{'
}

func isArray(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) > 0 && t[0] == '['
}
