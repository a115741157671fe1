package textutil

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)
var annotationRegex = regexp.MustCompile(`\([^)]*\)`)

// StripBreaks turns line breaks and tabs into single spaces and collapses
// runs of whitespace, non-breaking spaces are folded into regular spaces first.
func StripBreaks(text string) string {
	text = norm.NFKC.String(text)
	text = whitespaceRegex.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// GetName strips parenthesized annotations like "(REP)" from a portal name cell.
func GetName(text string) string {
	return strings.TrimSpace(annotationRegex.ReplaceAllString(text, ""))
}

// GetParty returns the party spelled out from a "(DEM)" or "(REP)" annotation, or
// an empty string when the cell carries neither.
func GetParty(text string) string {
	switch {
	case strings.Contains(text, "(DEM)"):
		return "Democrat"
	case strings.Contains(text, "(REP)"):
		return "Republican"
	}
	return ""
}

const portalDateLayout = "01/02/2006"

// ToISODate converts an MM/DD/YYYY date to YYYY-MM-DD, unparsable input yields "".
func ToISODate(text string) string {
	t, err := time.Parse(portalDateLayout, strings.TrimSpace(text))
	if err != nil {
		return ""
	}
	return t.Format(time.DateOnly)
}

// Truncate cuts `text` to at most `n` characters without splitting a rune.
func Truncate(text string, n int) string {
	if utf8.RuneCountInString(text) <= n {
		return text
	}
	return string([]rune(text)[:n])
}
