package security

import (
	"html"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

var (
	htmlPolicy = bluemonday.StrictPolicy()
	phoneRegex = regexp.MustCompile(`^[0-9]{7,15}$`)
	emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// Field length limits for free text
const (
	MaxShortText = 200
	MaxBioText   = 2000
)

// SanitizeString removes potentially dangerous characters and caps the
// length at maxRunes
func SanitizeString(input string, maxRunes int) string {
	// Trim whitespace
	input = strings.TrimSpace(input)

	// Remove null bytes
	input = strings.ReplaceAll(input, "\x00", "")

	// Limit length without splitting a multi-byte character
	if maxRunes > 0 && utf8.RuneCountInString(input) > maxRunes {
		input = string([]rune(input)[:maxRunes])
	}

	return input
}

// SanitizeHTML removes all HTML tags. The result is plain text; entities
// escaped by the policy are decoded again.
func SanitizeHTML(input string) string {
	return html.UnescapeString(htmlPolicy.Sanitize(input))
}

// SanitizeText strips markup and then applies SanitizeString
func SanitizeText(input string, maxRunes int) string {
	return SanitizeString(SanitizeHTML(input), maxRunes)
}

// ValidatePhoneNumber checks if phone number is valid
func ValidatePhoneNumber(phone string) bool {
	// Remove common separators
	phone = strings.ReplaceAll(phone, "-", "")
	phone = strings.ReplaceAll(phone, " ", "")
	phone = strings.ReplaceAll(phone, "+", "")
	phone = strings.ReplaceAll(phone, "(", "")
	phone = strings.ReplaceAll(phone, ")", "")

	return phoneRegex.MatchString(phone)
}

// ValidateEmail performs a shallow shape check on an email address
func ValidateEmail(email string) bool {
	return emailRegex.MatchString(strings.TrimSpace(email))
}
