package security

import (
	"strings"
	"unicode"
)

// NormalizeEmail lowercases and trims an email address so uniqueness checks
// cannot be bypassed with case or whitespace variants.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeFirstName capitalizes the first letter and lowercases the rest.
func NormalizeFirstName(firstName string) string {
	return capitalize(firstName)
}

// NormalizeLastName uppercases the whole last name.
func NormalizeLastName(lastName string) string {
	return strings.ToUpper(lastName)
}

// NormalizeCompanyName capitalizes the first letter and lowercases the rest.
func NormalizeCompanyName(name string) string {
	return capitalize(name)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(strings.ToLower(s))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
