package security

import (
	"testing"
	"unicode/utf8"
)

func TestSanitizeText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		max   int
		want  string
	}{
		{"Plain text", "  Software engineer  ", MaxShortText, "Software engineer"},
		{"Strips tags", "<b>Night owl</b><script>alert(1)</script>", MaxShortText, "Night owl"},
		{"Truncates by rune", "ñandúñandú", 4, "ñand"},
		{"Keeps apostrophe", "I'm tidy", MaxShortText, "I'm tidy"},
		{"Keeps ampersand", "R&D engineer", MaxShortText, "R&D engineer"},
		{"Keeps bare less-than", "budget < 900", MaxShortText, "budget < 900"},
		{"Tags stripped, text kept", "<i>tidy</i> & quiet", MaxShortText, "tidy & quiet"},
		{"Truncation counts characters not entities", "a&b&c", 3, "a&b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeText(tt.input, tt.max)
			if got != tt.want {
				t.Errorf("SanitizeText(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if !utf8.ValidString(got) {
				t.Errorf("SanitizeText(%q) produced invalid UTF-8", tt.input)
			}
		})
	}
}

func TestSanitizeString(t *testing.T) {
	if got := SanitizeString(" quiet\x00 tenant ", MaxShortText); got != "quiet tenant" {
		t.Errorf("SanitizeString() = %q, want %q", got, "quiet tenant")
	}
	if got := SanitizeString("abcdef", 0); got != "abcdef" {
		t.Errorf("SanitizeString() with no limit = %q", got)
	}
}

func TestValidatePhoneNumber(t *testing.T) {
	tests := []struct {
		phone string
		want  bool
	}{
		{"+1 (555) 123-4567", true},
		{"5551234", true},
		{"12345", false},
		{"call me", false},
	}

	for _, tt := range tests {
		if got := ValidatePhoneNumber(tt.phone); got != tt.want {
			t.Errorf("ValidatePhoneNumber(%q) = %v, want %v", tt.phone, got, tt.want)
		}
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"ana@example.com", true},
		{" ana@example.com ", true},
		{"ana@example", false},
		{"ana.example.com", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := ValidateEmail(tt.email); got != tt.want {
			t.Errorf("ValidateEmail(%q) = %v, want %v", tt.email, got, tt.want)
		}
	}
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == "correct horse battery" {
		t.Fatal("HashPassword() returned the plain password")
	}
	if !CheckPassword(hash, "correct horse battery") {
		t.Error("CheckPassword() = false for the right password")
	}
	if CheckPassword(hash, "wrong password") {
		t.Error("CheckPassword() = true for a wrong password")
	}
}
