package db

import (
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var unaccentTransformer = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// Unaccent strips combining diacritical marks from a string, so that
// "São Tomé" matches "sao tome". Registered as the unaccent() SQL
// function on every database connection.
func Unaccent(s string) string {
	out, _, err := transform.String(unaccentTransformer, s)
	if err != nil {
		// Fall back to the original value rather than failing the query
		return s
	}
	return out
}
