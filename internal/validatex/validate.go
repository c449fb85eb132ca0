// Package validatex implements the local input checks performed before
// any registration or login call goes out: email format, personal-name
// character set, password strength, and age bounds derived from a birth
// date. All checks are pure functions over their inputs.
package validatex

import (
	"regexp"
	"time"
	"unicode"
	"unicode/utf8"
)

const (
	// Registration is limited to this age range, inclusive.
	MinAge = 13
	MaxAge = 65

	// BirthDateLayout is the wire format for birth dates.
	BirthDateLayout = "2006-01-02"

	minPasswordLen = 8
)

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// IsValidEmail reports whether s looks like a deliverable email address.
// The check is intentionally loose; the backend remains the authority.
func IsValidEmail(s string) bool {
	return emailRe.MatchString(s)
}

// IsValidName reports whether s consists of letters only. Accented and
// other non-ASCII letters are accepted; spaces are allowed between parts
// of compound names. Empty and blank strings are rejected.
func IsValidName(s string) bool {
	hasLetter := false
	for _, r := range s {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case r == ' ':
		default:
			return false
		}
	}
	return hasLetter
}

// IsValidPassword reports whether s meets the strength policy: at least
// eight characters with at least one upper-case letter, one lower-case
// letter, and one digit.
func IsValidPassword(s string) bool {
	// Length is counted in characters, not bytes, so accented letters
	// contribute one each.
	if utf8.RuneCountInString(s) < minPasswordLen {
		return false
	}
	var upper, lower, digit bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return upper && lower && digit
}

// IsValidAge reports whether the birth date (in BirthDateLayout) puts the
// person inside the [MinAge, MaxAge] range today. A malformed date is
// reported as invalid rather than as an error: the caller treats both the
// same way.
func IsValidAge(birthDate string) bool {
	return isValidAgeAt(birthDate, time.Now())
}

func isValidAgeAt(birthDate string, now time.Time) bool {
	born, err := time.Parse(BirthDateLayout, birthDate)
	if err != nil {
		return false
	}
	age := ageAt(born, now)
	return age >= MinAge && age <= MaxAge
}

// ageAt computes full years elapsed between born and now, accounting for
// whether the birthday has occurred yet this year.
func ageAt(born, now time.Time) int {
	age := now.Year() - born.Year()
	if now.Month() < born.Month() ||
		(now.Month() == born.Month() && now.Day() < born.Day()) {
		age--
	}
	return age
}
