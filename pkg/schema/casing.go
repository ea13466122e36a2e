package schema

import "strings"

// ToCamel converts kebab-case or snake_case keys to the canonical
// camelCase form. Keys already in camelCase pass through unchanged, so
// normalization is idempotent.
func ToCamel(s string) string {
	if !strings.ContainsAny(s, "-_") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	upper := false
	for _, c := range s {
		if c == '-' || c == '_' {
			upper = true
			continue
		}
		if upper {
			b.WriteString(strings.ToUpper(string(c)))
			upper = false
		} else {
			b.WriteRune(c)
		}
	}
	return b.String()
}

// ToKebab converts a camelCase field name to kebab-case.
func ToKebab(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 4)
	for i, c := range s {
		if c >= 'A' && c <= 'Z' {
			if i > 0 {
				b.WriteByte('-')
			}
			b.WriteString(strings.ToLower(string(c)))
		} else if c == '_' {
			b.WriteByte('-')
		} else {
			b.WriteRune(c)
		}
	}
	return b.String()
}

// Label derives the human-readable form label for a field name: the
// technical "item" prefix is stripped, separators become spaces and
// each word is title-cased. "itemName" -> "Name", "ipStart" -> "Ip Start".
func Label(field string) string {
	kebab := strings.TrimPrefix(ToKebab(field), "item-")
	words := strings.Split(kebab, "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
