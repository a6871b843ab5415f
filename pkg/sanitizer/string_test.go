package sanitizer

import "testing"

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain", "Deluxe King", "Deluxe King"},
		{"leading and trailing space", "  Sea View Suite  ", "Sea View Suite"},
		{"internal runs collapsed", "Twin   Room\t2", "Twin Room 2"},
		{"empty", "", ""},
		{"only whitespace", "   \t\n ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeName(tt.input); got != tt.expected {
				t.Errorf("NormalizeName(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSanitizeFreeText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxLen   int
		expected string
	}{
		{"plain request", "late check-in please", 100, "late check-in please"},
		{"collapses newlines", "crib\n\nfor the baby", 100, "crib for the baby"},
		{"strips control runes", "quiet\x00 floor\x07", 100, "quiet floor"},
		{"caps length", "abcdefghij", 4, "abcd"},
		{"cap lands on a rune boundary", "naïve request", 3, "na"},
		{"zero max means uncapped", "abcdefghij", 0, "abcdefghij"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeFreeText(tt.input, tt.maxLen); got != tt.expected {
				t.Errorf("SanitizeFreeText(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.expected)
			}
		})
	}
}

func TestSanitizePhone(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"+1 (212) 555-0100", "+12125550100"},
		{" +44 20 7946 0958 ", "+442079460958"},
		{"+972501234567", "+972501234567"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := SanitizePhone(tt.input); got != tt.expected {
			t.Errorf("SanitizePhone(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}
