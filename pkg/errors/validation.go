package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// identifierRegex matches identifiers that are safe to emit as CSS class
// names: a letter or underscore followed by letters, digits, hyphens and
// underscores.
var identifierRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_-]*$`)

// ValidateIdentifier validates a sprite identifier for safety and correctness.
// Identifiers become CSS class selectors and file basenames, so the rules are
// intentionally conservative:
//   - No empty identifiers
//   - No control characters
//   - Maximum length of 256 characters
//   - Must match [A-Za-z_][A-Za-z0-9_-]*
func ValidateIdentifier(id string) error {
	if id == "" {
		return New(ErrCodeInvalidIdentifier, "identifier cannot be empty")
	}

	if len(id) > 256 {
		return New(ErrCodeInvalidIdentifier, "identifier too long (max 256 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidIdentifier, "identifier contains invalid control characters")
		}
	}

	if !identifierRegex.MatchString(id) {
		return New(ErrCodeInvalidIdentifier, "identifier is not a valid CSS class name: %q", id)
	}

	return nil
}

// ValidatePath validates a sprite or output directory path for safety.
// It prevents path traversal and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	// Check for null bytes and control characters
	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	// Check for path traversal
	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	return nil
}

// ValidateMaxWidth validates the atlas row width.
// The width must be positive; an upper bound keeps the atlas buffer within
// reason for a stylesheet sprite.
func ValidateMaxWidth(width int) error {
	if width <= 0 {
		return New(ErrCodeInvalidConfig, "max width must be positive, got %d", width)
	}

	const maxAtlasWidth = 1 << 14
	if width > maxAtlasWidth {
		return New(ErrCodeInvalidConfig, "max width too large (max %d, got %d)", maxAtlasWidth, width)
	}

	return nil
}
