package sanitizer

import "testing"

func TestSanitizeTitle(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"trims whitespace", "  Floral setup  ", "Floral setup"},
		{"collapses spaces", "Stage   lighting    plan", "Stage lighting plan"},
		{"strips control chars", "Menu\x00 tasting\x1F", "Menu tasting"},
		{"empty input", "", ""},
		{"only whitespace", "   \t ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeTitle(tt.input); got != tt.expected {
				t.Errorf("SanitizeTitle(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSanitizeFreeText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"preserves single paragraph break", "line one\n\nline two", "line one\n\nline two"},
		{"collapses excess newlines", "a\n\n\n\n\nb", "a\n\nb"},
		{"strips control chars", "hello\x08 world", "hello world"},
		{"trims edges", "\n\n body \n\n", "body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeFreeText(tt.input); got != tt.expected {
				t.Errorf("SanitizeFreeText(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
