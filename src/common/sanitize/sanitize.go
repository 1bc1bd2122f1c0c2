// Package sanitize provides input sanitization for user-supplied text.
// Free-form fields are stored HTML-escaped and unescaped again when
// rendered back out through the API.
package sanitize

import (
	"html"
	"strings"
)

// Input trims and HTML-escapes a user-supplied string for storage.
func Input(s string) string {
	return html.EscapeString(strings.TrimSpace(s))
}

// Output reverses Input for values leaving the API.
func Output(s string) string {
	return html.UnescapeString(s)
}

// InputSlice sanitizes every element of a string slice.
func InputSlice(values []string) []string {
	if values == nil {
		return nil
	}
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = Input(v)
	}
	return out
}

// OutputSlice desanitizes every element of a string slice.
func OutputSlice(values []string) []string {
	if values == nil {
		return nil
	}
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = Output(v)
	}
	return out
}
