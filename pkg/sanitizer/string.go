package sanitizer

import (
	"regexp"
	"strings"
)

var (
	reControlChars = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F\x7F]`)
	reMultiSpace   = regexp.MustCompile(`[ \t]+`)
	reMultiNewline = regexp.MustCompile(`\n{3,}`)
)

func trim(s string) string {
	return strings.TrimSpace(s)
}

func stripControlChars(s string) string {
	return reControlChars.ReplaceAllString(s, "")
}

func collapseSpaces(s string) string {
	return reMultiSpace.ReplaceAllString(s, " ")
}

// SanitizeTitle cleans single-line user text: listing notes headers,
// deliverable titles, budget ranges.
func SanitizeTitle(input string) string {
	p := Pipeline{
		stripControlChars,
		collapseSpaces,
		trim,
	}
	return p.Apply(input)
}

// SanitizeFreeText cleans multi-line text (requirements, notes, message
// bodies) while preserving paragraph breaks.
func SanitizeFreeText(input string) string {
	p := Pipeline{
		stripControlChars,
		func(s string) string { return reMultiNewline.ReplaceAllString(s, "\n\n") },
		trim,
	}
	return p.Apply(input)
}
