package errors

import (
	"strings"
	"unicode"
)

// MaxUserIDLength is the longest accepted user ID.
const MaxUserIDLength = 256

// ValidateUserID checks an externally supplied user ID. Empty IDs are allowed
// only when allowEmpty is set, which callers use for "generate one for me".
//
// The rules are intentionally conservative:
//   - at most MaxUserIDLength bytes
//   - no control characters or null bytes
//   - no leading or trailing whitespace
//   - no slashes, so IDs stay usable as URL path segments
func ValidateUserID(id string, allowEmpty bool) error {
	if id == "" {
		if allowEmpty {
			return nil
		}
		return New(ErrCodeInvalidInput, "user ID cannot be empty")
	}

	if len(id) > MaxUserIDLength {
		return New(ErrCodeInvalidInput, "user ID too long (max %d characters)", MaxUserIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "user ID contains invalid control characters")
		}
	}

	if strings.TrimSpace(id) != id {
		return New(ErrCodeInvalidInput, "user ID has leading or trailing whitespace")
	}

	if strings.ContainsAny(id, "/\\") {
		return New(ErrCodeInvalidInput, "user ID cannot contain slashes: %q", id)
	}

	return nil
}
