package errors

import (
	"strings"
	"testing"
)

func TestValidateIdentifier(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"simple", "helmet", false},
		{"with digits", "ring02", false},
		{"with hyphen", "divine-artifact", false},
		{"with underscore", "x3_relic", false},
		{"empty", "", true},
		{"leading digit", "3ring", true},
		{"leading hyphen", "-ring", true},
		{"space", "gold ring", true},
		{"dot", "ring.png", true},
		{"control char", "ring\x01", true},
		{"too long", strings.Repeat("a", 257), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateIdentifier(tt.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateIdentifier(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidIdentifier) {
				t.Errorf("error code = %q, want %q", GetCode(err), ErrCodeInvalidIdentifier)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"relative", "output/graphics", false},
		{"absolute", "/tmp/sprites", false},
		{"empty", "", true},
		{"traversal", "../secrets", true},
		{"null byte", "sprites\x00", true},
		{"too long", strings.Repeat("a", 501), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
		})
	}
}

func TestValidateMaxWidth(t *testing.T) {
	if err := ValidateMaxWidth(768); err != nil {
		t.Errorf("ValidateMaxWidth(768) = %v", err)
	}
	if err := ValidateMaxWidth(0); err == nil {
		t.Error("ValidateMaxWidth(0) should fail")
	}
	if err := ValidateMaxWidth(-10); err == nil {
		t.Error("ValidateMaxWidth(-10) should fail")
	}
	if err := ValidateMaxWidth(1 << 20); err == nil {
		t.Error("ValidateMaxWidth(1<<20) should fail")
	}
}
