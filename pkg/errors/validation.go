package errors

import (
	"regexp"
	"slices"
	"strings"
	"unicode"
)

// Limits shared by the resolver and the CLI flags.
const (
	MaxPackageNameLength = 256
	MaxVersionLength     = 128
	MaxDepth             = 16
)

// packageNameRegex matches the characters pacman accepts in package names.
var packageNameRegex = regexp.MustCompile(`^[a-zA-Z0-9@_+][a-zA-Z0-9@._+-]*$`)

// ValidatePackageName validates a package name used as a graph root.
//
// The rules follow the package database naming constraints:
//   - No empty names
//   - Maximum length of 256 characters
//   - No control characters or path separators
//   - Must not start with a hyphen or dot
func ValidatePackageName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPackage, "package name cannot be empty")
	}

	if len(name) > MaxPackageNameLength {
		return New(ErrCodeInvalidPackage, "package name too long (max %d characters)", MaxPackageNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPackage, "package name contains invalid control characters")
		}
	}

	if strings.ContainsAny(name, `/\`) {
		return New(ErrCodeInvalidPackage, "package name cannot contain path separators")
	}

	if !packageNameRegex.MatchString(name) {
		return New(ErrCodeInvalidPackage, "invalid package name: %q", name)
	}

	return nil
}

// ValidateVersion validates a package version string read from a database.
func ValidateVersion(version string) error {
	if version == "" {
		return New(ErrCodeInvalidInput, "version cannot be empty")
	}
	if len(version) > MaxVersionLength {
		return New(ErrCodeInvalidInput, "version string too long (max %d)", MaxVersionLength)
	}
	if strings.Contains(version, "..") || strings.ContainsAny(version, `/\`) {
		return New(ErrCodeInvalidInput, "version contains invalid path characters")
	}
	for _, r := range version {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "version contains invalid control characters")
		}
	}
	return nil
}

// ValidateDepth validates a resolution depth.
func ValidateDepth(depth int) error {
	if depth < 1 || depth > MaxDepth {
		return New(ErrCodeInvalidDepth, "depth must be between 1 and %d, got %d", MaxDepth, depth)
	}
	return nil
}

// ValidateFormat checks that format is one of allowed (case-sensitive).
func ValidateFormat(format string, allowed []string) error {
	if slices.Contains(allowed, format) {
		return nil
	}
	return New(ErrCodeInvalidFormat, "unsupported format %q (want one of %s)", format, strings.Join(allowed, ", "))
}
