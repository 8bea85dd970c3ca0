// Package textnorm canonicalizes free-text names typed by the user.
package textnorm

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Normalize trims leading and trailing whitespace and collapses every run of
// whitespace characters to a single space. Casing is preserved.
func Normalize(raw string) string {
	return strings.Join(strings.Fields(raw), " ")
}

// ComparisonKey returns the case-insensitive key used for all name equality
// checks (dedup and search matching).
func ComparisonKey(name string) string {
	normalized := Normalize(name)
	if normalized == "" {
		return ""
	}
	return cases.Lower(language.Und).String(normalized)
}

// Equal reports whether two names are the same under ComparisonKey.
func Equal(a, b string) bool {
	return ComparisonKey(a) == ComparisonKey(b)
}

// DeriveID builds a stable identifier from a name: the lower-cased normalized
// name with every run of characters outside [a-z0-9] replaced by a single '-'
// and leading/trailing '-' stripped. Names without any ASCII alphanumerics
// fall back to the lower-cased normalized name itself.
//
// Distinct names may share an id ("Milk!" and "Milk?" both become "milk").
func DeriveID(name string) string {
	key := ComparisonKey(name)
	if key == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(key))
	pendingSep := false
	for _, r := range key {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingSep = false
			b.WriteRune(r)
			continue
		}
		pendingSep = true
	}

	if b.Len() == 0 {
		return key
	}
	return b.String()
}
