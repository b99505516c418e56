package services

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	minUsernameLength = 3
	maxUsernameLength = 100
	maxNameLength     = 100

	minPasswordLength = 8
	maxPasswordLength = 128

	minFullNameLength = 2
	maxFullNameLength = 100
	minSubjectLength  = 5
	maxSubjectLength  = 100
	minMessageLength  = 10
	maxMessageLength  = 5000

	minTitleLength     = 3
	maxTitleLength     = 255
	minSlugLength      = 3
	maxSlugLength      = 255
	minNarrativeLength = 10
	minResultsLength   = 5

	minQueryLength = 2

	maxAccountEmailLength = 254
	maxContactEmailLength = 100
	maxPhoneLength        = 100
	maxReferenceLength    = 500
	maxCategoryLength     = 100

	DefaultPageSize = 10
	MaxPageSize     = 100
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

func length(s string) int {
	return utf8.RuneCountInString(s)
}

// ValidateEmail checks the local@domain.tld shape
func ValidateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return invalid("email", "Invalid email address")
	}
	return nil
}

// ValidatePassword checks length and character classes of a plaintext password
func ValidatePassword(password string) error {
	n := length(password)
	if n < minPasswordLength {
		return invalid("password", "Password must be at least %d characters", minPasswordLength)
	}
	if n > maxPasswordLength {
		return invalid("password", "Password must not exceed %d characters", maxPasswordLength)
	}

	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !upper {
		return invalid("password", "Password must contain at least one uppercase letter")
	}
	if !lower {
		return invalid("password", "Password must contain at least one lowercase letter")
	}
	if !digit {
		return invalid("password", "Password must contain at least one digit")
	}
	return nil
}

func validateUsername(username string) error {
	n := length(strings.TrimSpace(username))
	if n < minUsernameLength {
		return invalid("username", "Username must be at least %d characters", minUsernameLength)
	}
	if n > maxUsernameLength {
		return invalid("username", "Username must not exceed %d characters", maxUsernameLength)
	}
	return nil
}

func validateOptionalName(field, label, value string) error {
	return validateLength(field, label, value, 0, maxNameLength)
}

// validateLength checks the trimmed value against both bounds. A max of 0
// means unbounded.
func validateLength(field, label, value string, min, max int) error {
	n := length(strings.TrimSpace(value))
	if n < min {
		return invalid(field, "%s must be at least %d characters", label, min)
	}
	if max > 0 && n > max {
		return invalid(field, "%s must not exceed %d characters", label, max)
	}
	return nil
}

// validateMaxLength checks an optional value against its column width
func validateMaxLength(field, label string, value *string, max int) error {
	if value != nil && length(*value) > max {
		return invalid(field, "%s must not exceed %d characters", label, max)
	}
	return nil
}

// ValidateSearchQuery returns the trimmed query or a validation error when it
// is shorter than two characters
func ValidateSearchQuery(query string) (string, error) {
	q := strings.TrimSpace(query)
	if length(q) < minQueryLength {
		return "", invalid("query", "Search query must be at least %d characters", minQueryLength)
	}
	return q, nil
}

// ValidatePagination rejects page numbers below one and page sizes outside [1, 100]
func ValidatePagination(page, pageSize int) error {
	if page < 1 {
		return invalid("page", "Page number must be >= 1")
	}
	if pageSize < 1 || pageSize > MaxPageSize {
		return invalid("page_size", "Page size must be between 1 and %d", MaxPageSize)
	}
	return nil
}
