package errors

import (
	"strings"
	"testing"
)

func TestValidatePackageName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "pacman", false},
		{"valid with dash", "lib32-glibc", false},
		{"valid with plus", "gtk+", false},
		{"valid with dot", "python3.12", false},
		{"valid with at", "libsigc++@2", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 300), true},
		{"leading dash", "-foo", true},
		{"leading dot", ".foo", true},
		{"slash", "core/pacman", true},
		{"backslash", `foo\bar`, true},
		{"null byte", "foo\x00bar", true},
		{"newline", "foo\nbar", true},
		{"space", "foo bar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePackageName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePackageName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPackage) {
				t.Errorf("ValidatePackageName(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidPackage)
			}
		})
	}
}

func TestValidateVersion(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "6.1.0-1", false},
		{"epoch", "1:2.40-2", false},
		{"empty", "", true},
		{"too long", strings.Repeat("1", 200), true},
		{"traversal", "1..2", true},
		{"slash", "1/2", true},
		{"control", "1\x01", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateVersion(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateVersion(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateDepth(t *testing.T) {
	tests := []struct {
		depth   int
		wantErr bool
	}{
		{0, true},
		{1, false},
		{3, false},
		{MaxDepth, false},
		{MaxDepth + 1, true},
		{-2, true},
	}

	for _, tt := range tests {
		err := ValidateDepth(tt.depth)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateDepth(%d) error = %v, wantErr %v", tt.depth, err, tt.wantErr)
		}
		if err != nil && !Is(err, ErrCodeInvalidDepth) {
			t.Errorf("ValidateDepth(%d) code = %v, want %v", tt.depth, GetCode(err), ErrCodeInvalidDepth)
		}
	}
}

func TestValidateFormat(t *testing.T) {
	allowed := []string{"svg", "png", "dot"}

	if err := ValidateFormat("svg", allowed); err != nil {
		t.Errorf("ValidateFormat(svg) = %v, want nil", err)
	}

	err := ValidateFormat("pdf", allowed)
	if err == nil {
		t.Fatal("ValidateFormat(pdf) = nil, want error")
	}
	if !Is(err, ErrCodeInvalidFormat) {
		t.Errorf("code = %v, want %v", GetCode(err), ErrCodeInvalidFormat)
	}
	if !strings.Contains(err.Error(), "svg, png, dot") {
		t.Errorf("error %q should list allowed formats", err.Error())
	}
}
