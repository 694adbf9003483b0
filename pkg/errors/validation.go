package errors

import (
	"strings"
	"unicode"
)

// ValidateModulePath validates a build module path such as ":app" or
// ":feature:login".
//
// Rules:
//   - Must start with ':'
//   - No empty segments (":app::core", "app:")
//   - No whitespace or control characters
//   - Maximum length of 256 characters
//
// The root project path ":" is valid.
func ValidateModulePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "module path cannot be empty")
	}
	if len(path) > 256 {
		return New(ErrCodeInvalidPath, "module path too long (max 256 characters)")
	}
	if !strings.HasPrefix(path, ":") {
		return New(ErrCodeInvalidPath, "module path %q must start with ':'", path)
	}
	for _, r := range path {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidPath, "module path %q contains invalid characters", path)
		}
	}
	if path == ":" {
		return nil
	}
	for _, seg := range strings.Split(path[1:], ":") {
		if seg == "" {
			return New(ErrCodeInvalidPath, "module path %q has an empty segment", path)
		}
	}
	return nil
}

// ValidatePath validates a file path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}
	return nil
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
