package errors

import (
	"math"
	"regexp"
	"strings"
	"unicode"
)

// ValidateName validates a domain or task name that ends up as a directory
// component of the dataset layout.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - No path separators or traversal sequences
//   - Maximum length of 128 characters
func ValidateName(kind, name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "%s cannot be empty", kind)
	}

	if len(name) > 128 {
		return New(ErrCodeInvalidInput, "%s too long (max 128 characters)", kind)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "%s contains invalid control characters", kind)
		}
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"/",    // Path separator
		"\x00", // Null byte
		"\\",   // Backslash (Windows path)
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidInput, "%s contains invalid characters: %q", kind, pattern)
		}
	}

	if !nameRegex.MatchString(name) {
		return New(ErrCodeInvalidInput, "invalid %s: %q", kind, name)
	}

	return nil
}

// nameRegex matches names made of letters, digits, dash, underscore and dot.
var nameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateSizeBounds checks 0 < min < max with both values finite.
func ValidateSizeBounds(minSize, maxSize float64) error {
	if !finite(minSize) || !finite(maxSize) {
		return New(ErrCodeInvalidConfig, "ball sizes must be finite (min=%v, max=%v)", minSize, maxSize)
	}
	if minSize <= 0 {
		return New(ErrCodeInvalidConfig, "min ball size must be > 0, got %v", minSize)
	}
	if minSize >= maxSize {
		return New(ErrCodeInvalidConfig, "min ball size (%v) must be smaller than max ball size (%v)", minSize, maxSize)
	}
	return nil
}

// ValidateGrowthFactor checks that g is finite and strictly greater than 1.
func ValidateGrowthFactor(g float64) error {
	if !finite(g) || g <= 1 {
		return New(ErrCodeInvalidConfig, "growth factor must be > 1, got %v", g)
	}
	return nil
}

// ValidateTargetRange checks 1 <= min <= max.
func ValidateTargetRange(minTargets, maxTargets int) error {
	if minTargets < 1 {
		return New(ErrCodeInvalidConfig, "min targets must be >= 1, got %d", minTargets)
	}
	if maxTargets < minTargets {
		return New(ErrCodeInvalidConfig, "max targets (%d) must be >= min targets (%d)", maxTargets, minTargets)
	}
	return nil
}

// ValidateCanvas checks that both canvas dimensions are positive.
func ValidateCanvas(width, height int) error {
	if width <= 0 || height <= 0 {
		return New(ErrCodeInvalidConfig, "image size must be positive, got %dx%d", width, height)
	}
	return nil
}

// ValidateVideo checks fps and duration for the frame budget.
func ValidateVideo(fps int, maxDuration float64) error {
	if fps <= 0 {
		return New(ErrCodeInvalidConfig, "video fps must be > 0, got %d", fps)
	}
	if !finite(maxDuration) || maxDuration <= 0 {
		return New(ErrCodeInvalidConfig, "max video duration must be > 0, got %v", maxDuration)
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
