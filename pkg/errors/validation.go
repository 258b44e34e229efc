package errors

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxTextLength bounds every free-text content field (headline, CTA, ...).
const MaxTextLength = 500

// ValidateText validates a required content field such as a headline.
//
// The validation rules are intentionally conservative:
//   - No empty or whitespace-only values
//   - No control characters other than newline and tab
//   - Maximum length of MaxTextLength runes
func ValidateText(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return New(ErrCodeInvalidInput, "%s cannot be empty", field)
	}
	return ValidateOptionalText(field, value)
}

// ValidateOptionalText applies the ValidateText rules to a field that may be empty.
func ValidateOptionalText(field, value string) error {
	if value == "" {
		return nil
	}
	if !utf8.ValidString(value) {
		return New(ErrCodeInvalidInput, "%s is not valid UTF-8", field)
	}
	if n := utf8.RuneCountInString(value); n > MaxTextLength {
		return New(ErrCodeInvalidInput, "%s too long (%d runes, max %d)", field, n, MaxTextLength)
	}
	for _, r := range value {
		if r != '\n' && r != '\t' && unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "%s contains invalid control characters", field)
		}
	}
	return nil
}

// ValidateHexColor validates a CSS hex color in #RGB or #RRGGBB form.
// The leading '#' is optional.
func ValidateHexColor(field, value string) error {
	s := strings.TrimPrefix(value, "#")
	if len(s) != 3 && len(s) != 6 {
		return New(ErrCodeInvalidColor, "%s: %q is not a hex color", field, value)
	}
	for _, r := range s {
		if !isHexDigit(r) {
			return New(ErrCodeInvalidColor, "%s: %q is not a hex color", field, value)
		}
	}
	return nil
}

// ValidateOptionalHexColor is ValidateHexColor for fields that may be empty.
func ValidateOptionalHexColor(field, value string) error {
	if value == "" {
		return nil
	}
	return ValidateHexColor(field, value)
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}

func isHexDigit(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}
