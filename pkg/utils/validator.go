package utils

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	uniqueIDPattern = regexp.MustCompile(`^IE-001-[A-Z][0-9]{5}$`)
	controlChars    = regexp.MustCompile(`[\x00-\x1f\x7f]`)
	unsafeFileChars = regexp.MustCompile(`[/\\:*?"<>|]`)
)

// ValidateUniqueID checks that an identifier has the IE-001-<letter><5 digits> shape
func ValidateUniqueID(id string) error {
	if !uniqueIDPattern.MatchString(id) {
		return fmt.Errorf("invalid unique ID format: %q", id)
	}
	return nil
}

// SanitizeString removes control characters and trims surrounding whitespace
func SanitizeString(s string) string {
	return strings.TrimSpace(controlChars.ReplaceAllString(s, ""))
}

// SafeFileStem turns a recipient name into a file name stem.
// Spaces become underscores; path separators and characters rejected by
// common filesystems are dropped so the stem can never leave its directory.
func SafeFileStem(name string) string {
	stem := SanitizeString(name)
	stem = strings.ReplaceAll(stem, "..", "")
	stem = unsafeFileChars.ReplaceAllString(stem, "")
	return strings.ReplaceAll(stem, " ", "_")
}
