package session

import (
	"regexp"
	"strings"
)

// phonePattern accepts an optional leading "+" followed by 9 to 15 digits.
// Internal spaces or dashes are rejected; only surrounding whitespace is trimmed.
var phonePattern = regexp.MustCompile(`^\+?\d{9,15}$`)

// ValidatePhone trims the input and reports whether it is an acceptable phone
// number, returning the cleaned value on success.
func ValidatePhone(input string) (string, bool) {
	cleaned := strings.TrimSpace(input)
	if !phonePattern.MatchString(cleaned) {
		return "", false
	}

	return cleaned, true
}

// NormalizeContactPhone prepares a number received via a Telegram contact
// share. Contact numbers bypass validation entirely; only the leading "+" is
// ensured.
func NormalizeContactPhone(number string) string {
	if strings.HasPrefix(number, "+") {
		return number
	}

	return "+" + number
}
