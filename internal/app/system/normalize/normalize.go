// Package normalize trims and canonicalizes user-supplied values before
// they are validated or stored.
package normalize

import "strings"

// Email trims and lowercases an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims surrounding whitespace and preserves case.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Role trims and lowercases a role name.
func Role(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Status trims and lowercases an account status.
func Status(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// PlaceholderEmail derives the sign-in-less address given to institutions
// an admin creates directly: spaces removed, lowercased, at mail.com.
func PlaceholderEmail(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), "")) + "@mail.com"
}
