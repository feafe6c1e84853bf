package errors

import (
	"path/filepath"
	"regexp"
	"unicode"
)

// ValidateSubPath validates the value of a `sub` descriptor entry.
// A sub entry names a child directory relative to the collection that
// declares it. A leading slash is allowed and still resolves below the
// collection ("/x" joins as dir/x).
//
// Validation rules:
//   - Path cannot be empty
//   - No null bytes or control characters
//   - No volume names (C:\x, \\host\share)
func ValidateSubPath(dir, sub string) error {
	if sub == "" {
		return Structure(dir, "empty sub reference")
	}

	for _, r := range sub {
		if unicode.IsControl(r) {
			return Structure(dir, "sub reference %q contains invalid characters", sub)
		}
	}

	if filepath.VolumeName(sub) != "" {
		return Structure(dir, "sub reference %q must be relative", sub)
	}

	return nil
}

// statNameRegex matches valid statistic file names (plain basenames).
var statNameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateStatName validates a statistic category name. Categories are
// file names inside a test case directory, so path separators are rejected.
func ValidateStatName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "statistic name cannot be empty")
	}
	if !statNameRegex.MatchString(name) {
		return New(ErrCodeInvalidInput, "invalid statistic name: %q", name)
	}
	return nil
}
