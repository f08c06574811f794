package postprocessors

import (
	"strings"
	"unicode"
)

// ControlCharFilter replaces control characters other than newline and tab
// with spaces, so they separate words. PDF extractors commonly leave form
// feeds and NULs behind.
type ControlCharFilter struct{}

// Name returns the filter name.
func (ControlCharFilter) Name() string { return "strip_control" }

// Apply returns text without control characters.
func (ControlCharFilter) Apply(text string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			return ' '
		}
		return r
	}, text)
}

// DehyphenateFilter joins words broken across lines with a trailing hyphen.
type DehyphenateFilter struct{}

// Name returns the filter name.
func (DehyphenateFilter) Name() string { return "dehyphenate" }

// Apply rejoins "exam-\nple" as "example".
func (DehyphenateFilter) Apply(text string) string {
	if !strings.Contains(text, "-\n") {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		if runes[i] == '-' && i+1 < len(runes) && runes[i+1] == '\n' &&
			i > 0 && unicode.IsLetter(runes[i-1]) &&
			i+2 < len(runes) && unicode.IsLower(runes[i+2]) {
			i++
			continue
		}
		b.WriteRune(runes[i])
	}
	return b.String()
}
