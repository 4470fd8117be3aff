package validation

import (
	"regexp"
	"unicode"
)

var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9]{5,20}$`)

func ValidUsername(username string) bool {
	return usernameRe.MatchString(username)
}

// ValidPassword requires minLength characters with at least one
// uppercase letter and one digit.
func ValidPassword(password string, minLength int) bool {
	if len(password) < minLength {
		return false
	}
	var hasUpper, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	return hasUpper && hasDigit
}
