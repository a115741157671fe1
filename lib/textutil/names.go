package textutil

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var suffixRegex = regexp.MustCompile(`(?i)(\s*,\s*|\s+)(jr\.?|sr\.?|ii|iii|iv|v)$`)

// fixpoint applies `step` until the output stops changing, every step only
// removes text so this always terminates.
func fixpoint(s string, step func(string) string) string {
	for {
		next := step(s)
		if next == s {
			return next
		}
		s = next
	}
}

func normalizeNameStep(name string) string {
	name = norm.NFKC.String(name)
	name = annotationRegex.ReplaceAllString(name, "")
	name = suffixRegex.ReplaceAllString(name, "")
	name = strings.Join(strings.Fields(name), " ")
	return strings.Trim(name, ", ")
}

// NormalizeName canonicalizes a person's name for use as an index key.
//
// It removes parenthesized party annotations and trailing Jr./Sr./II-V suffixes,
// collapses whitespace and trims surrounding whitespace and commas. Case is
// preserved, callers that want case-insensitive keys lower-case themselves.
// NormalizeName(NormalizeName(s)) == NormalizeName(s) for every s.
func NormalizeName(name string) string {
	return fixpoint(name, normalizeNameStep)
}

// ParseNameComponents splits a name into (first, last, middle).
//
// "Last, First Middle" splits on the first comma, otherwise the first token is
// the first name, the final token the last name and anything in between the
// middle name. A single token is a last name. Compound surnames like
// "Von Trapp" written first-name-first are split as first="Von" last="Trapp",
// this is a known limitation of the heuristic.
func ParseNameComponents(name string) (first, last, middle string) {
	name = NormalizeName(name)

	if before, after, found := strings.Cut(name, ","); found {
		firstMiddle := strings.Fields(after)
		if len(firstMiddle) >= 1 {
			return firstMiddle[0], strings.TrimSpace(before), strings.Join(firstMiddle[1:], " ")
		}
	}

	parts := strings.Fields(name)
	switch {
	case len(parts) >= 2:
		return parts[0], parts[len(parts)-1], strings.Join(parts[1:len(parts)-1], " ")
	case len(parts) == 1:
		return "", parts[0], ""
	}
	return "", "", ""
}

// BuildFullName renders name parts as "Last, First Middle".
func BuildFullName(first, last, middle string) string {
	last = strings.TrimSpace(last)
	given := strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(middle))
	if given == "" {
		return last
	}
	if last == "" {
		return given
	}
	return last + ", " + given
}
