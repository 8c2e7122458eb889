package errors

import (
	"strings"
	"unicode"
)

// maxStopNameLength bounds stop names accepted from users.
const maxStopNameLength = 256

// ValidateStopName validates a stop name supplied by a user before it is
// looked up in the catalog.
//
// The rules are conservative:
//   - No empty or whitespace-only names
//   - No control characters or null bytes
//   - Maximum length of 256 bytes
//
// Whether the stop exists is decided by the catalog, not here.
func ValidateStopName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidStop, "stop name cannot be empty")
	}

	if len(name) > maxStopNameLength {
		return New(ErrCodeInvalidStop, "stop name too long (max %d characters)", maxStopNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidStop, "stop name contains invalid control characters")
		}
	}

	return nil
}

// ValidateFormat checks that format is one of allowed.
func ValidateFormat(format string, allowed ...string) error {
	for _, a := range allowed {
		if format == a {
			return nil
		}
	}
	return New(ErrCodeInvalidFormat, "unsupported format %q (available: %s)", format, strings.Join(allowed, ", "))
}
