package services

import "strings"

// SanitizeText trims s and drops control characters other than newline,
// carriage return and tab
func SanitizeText(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != '\n' && r != '\r' && r != '\t' {
			return -1
		}
		return r
	}, s)
}

// SanitizeEmail trims and lowercases an address
func SanitizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SanitizePhone keeps digits, spaces and the characters + - ( )
func SanitizePhone(phone string) string {
	kept := strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9', r == '+', r == '-', r == '(', r == ')', r == ' ':
			return r
		}
		return -1
	}, phone)
	return strings.TrimSpace(kept)
}

func sanitizeOptional(s *string, fn func(string) string) *string {
	if s == nil || *s == "" {
		return nil
	}
	v := fn(*s)
	if v == "" {
		return nil
	}
	return &v
}
