package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// NormalizeTagName trims and lower-cases name and checks its length.
func NormalizeTagName(name string) (string, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return "", fmt.Errorf("%w: tag name must not be empty", ErrValidation)
	}
	if utf8.RuneCountInString(n) > MaxTagNameLength {
		return "", fmt.Errorf("%w: tag %q is longer than %d characters", ErrValidation, n, MaxTagNameLength)
	}
	return n, nil
}

// NormalizeTags normalizes every name, drops duplicates keeping first
// occurrence, and enforces MaxTagsPerImage on the result.
func NormalizeTags(names []string) ([]string, error) {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, raw := range names {
		n, err := NormalizeTagName(raw)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	if len(out) > MaxTagsPerImage {
		return nil, fmt.Errorf("%w: at most %d tags per image", ErrValidation, MaxTagsPerImage)
	}
	return out, nil
}

// ValidateText checks a free-text field against a rune limit.
func ValidateText(field, value string, max int) error {
	if utf8.RuneCountInString(value) > max {
		return fmt.Errorf("%w: %s is longer than %d characters", ErrValidation, field, max)
	}
	return nil
}
