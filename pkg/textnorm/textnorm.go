// Package textnorm canonicalizes proposal titles for comparison and derives
// forum-style slugs from them.
package textnorm

import (
	"html"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// prefixPatterns are stripped from the start of a title, in this order. Each
// pattern is applied once; a pattern that does not match is a no-op.
// Separators include Unicode spaces so a decoded &nbsp; counts as whitespace.
var prefixPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^\[?(Non-?Constitutional|Constitutional|RFC|AIP|Draft|DRAFT|NON-CONSTITUTIONAL|FINAL)\]?[\s\p{Z}]*:?[\s\p{Z}]*`),
	regexp.MustCompile(`(?i)^Proposal[\s\p{Z}]*:?[\s\p{Z}]*`),
	regexp.MustCompile(`(?i)^#[\s\p{Z}]*`),
	regexp.MustCompile(`(?i)^\[?UPDATED\]?[\s\p{Z}]*`),
	regexp.MustCompile(`(?i)^\[?Updated\]?[\s\p{Z}]*`),
}

// Unescape decodes HTML entities.
func Unescape(s string) string {
	return html.UnescapeString(s)
}

// Normalize returns the comparison form of a title: entities decoded, leading
// boilerplate markers removed, whitespace collapsed, lowercased.
func Normalize(title string) string {
	if title == "" {
		return ""
	}
	t := Unescape(title)
	for _, p := range prefixPatterns {
		if loc := p.FindStringIndex(t); loc != nil {
			t = t[loc[1]:]
		}
	}
	return lower(strings.Join(strings.Fields(t), " "))
}

// Slugify converts a title to the slug a forum would derive from it.
func Slugify(title string) string {
	if title == "" {
		return ""
	}
	t := lower(Unescape(title))

	var b strings.Builder
	b.Grow(len(t))
	sep := false
	for _, r := range t {
		switch {
		case unicode.IsSpace(r) || r == '-':
			sep = true
		case unicode.IsLetter(r) || unicode.IsNumber(r) || r == '_':
			if sep && b.Len() > 0 {
				b.WriteByte('-')
			}
			sep = false
			b.WriteRune(r)
		}
	}
	return b.String()
}

// lower uses a fresh Caser per call; Casers are not safe for concurrent use.
func lower(s string) string {
	return cases.Lower(language.Und).String(s)
}
