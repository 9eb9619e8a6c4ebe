package security

import "unicode"

// Password policy bounds.
const (
	MinPasswordLength = 8
	MaxPasswordLength = 100
)

// passwordDenyList rejects a handful of common passwords that would
// otherwise satisfy the character-class rules.
var passwordDenyList = []string{"Passw0rd", "Password123"}

// IsPasswordValid reports whether a plaintext password satisfies the
// registration policy: length 8-100, at least one uppercase letter, one
// lowercase letter and one digit, no whitespace, and not on the deny list.
func IsPasswordValid(password string) bool {
	length := len([]rune(password))
	if length < MinPasswordLength || length > MaxPasswordLength {
		return false
	}

	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsSpace(r):
			return false
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit {
		return false
	}

	for _, denied := range passwordDenyList {
		if password == denied {
			return false
		}
	}
	return true
}
