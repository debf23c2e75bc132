package models

import "strings"

// Identify returns the registry key of an offer: the normalized store tag and
// the normalized title joined by a hyphen. It is stable across restarts since
// the key is persisted.
func Identify(offer Offer) string {
	return NormalizeTitle(offer.Store) + "-" + NormalizeTitle(offer.Title)
}

// NormalizeTitle lower-cases s and collapses every run of characters outside
// [a-z0-9] into a single hyphen, trimming hyphens at both ends.
// "Foo: Bar!" becomes "foo-bar".
func NormalizeTitle(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	pending := false
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pending && b.Len() > 0 {
				b.WriteByte('-')
			}
			pending = false
			b.WriteRune(r)
			continue
		}
		pending = true
	}
	return b.String()
}
