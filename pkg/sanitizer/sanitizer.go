package sanitizer

import (
	"strings"
	"unicode/utf8"
)

// Strategy is a single normalization step; a Pipeline applies them in order.
type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

func trim(s string) string {
	return strings.TrimSpace(s)
}

// SanitizeFreeText normalizes guest-entered free text (special requests):
// whitespace collapsed, control characters stripped, length capped.
// Whitespace collapses before control runes are stripped so newlines
// become spaces instead of vanishing.
func SanitizeFreeText(input string, maxLen int) string {
	p := Pipeline{
		trim,
		collapseWhitespace,
		stripControlRunes,
	}
	out := p.Apply(input)
	if maxLen > 0 && len(out) > maxLen {
		cut := maxLen
		for cut > 0 && !utf8.RuneStart(out[cut]) {
			cut--
		}
		out = out[:cut]
	}
	return out
}

// SanitizePhone strips spaces, dashes and parentheses so numbers like
// "+1 (212) 555-0100" pass E.164 validation downstream.
func SanitizePhone(input string) string {
	p := Pipeline{
		trim,
		func(s string) string {
			return strings.Map(func(r rune) rune {
				switch r {
				case ' ', '-', '(', ')', '.':
					return -1
				}
				return r
			}, s)
		},
	}
	return p.Apply(input)
}
