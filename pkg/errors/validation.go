package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// familyIDRegex matches identifiers accepted by the family stores and the
// HTTP API: letters, digits, dash, underscore and dot, starting with a letter
// or digit.
var familyIDRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateFamilyID validates a stored family identifier for safety.
//
// The validation rules are intentionally conservative:
//   - No empty IDs
//   - No control characters
//   - No path traversal sequences (..)
//   - Maximum length of 128 characters
func ValidateFamilyID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidFamilyID, "family ID cannot be empty")
	}

	if len(id) > 128 {
		return New(ErrCodeInvalidFamilyID, "family ID too long (max 128 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidFamilyID, "family ID contains invalid control characters")
		}
	}

	if strings.Contains(id, "..") {
		return New(ErrCodeInvalidFamilyID, "family ID contains invalid characters: %q", "..")
	}

	if !familyIDRegex.MatchString(id) {
		return New(ErrCodeInvalidFamilyID, "invalid family ID: %q", id)
	}

	return nil
}
