package textutil

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var designatorRegex = regexp.MustCompile(`(?i)\s+(pc|pac|inc|llc|corp|corporation|committee)\s*$`)

// SearchInputLimit is how many characters the portal's committee search form accepts.
const SearchInputLimit = 50

// NormalizeCommitteeName canonicalizes a committee name for use as an index key by
// removing a trailing organizational designator (PC, PAC, INC, ...) and collapsing
// whitespace. With `lowercase` the key is also lower-cased.
func NormalizeCommitteeName(name string, lowercase bool) string {
	return fixpoint(name, func(s string) string {
		s = norm.NFKC.String(s)
		s = designatorRegex.ReplaceAllString(s, "")
		s = strings.Join(strings.Fields(s), " ")
		if lowercase {
			s = strings.ToLower(s)
		}
		return s
	})
}

// SearchVariants returns the lower-cased search keys for a committee name as the
// portal sees it: truncated to SearchInputLimit. When the last word is three
// characters or shorter it was likely cut mid-word, so a variant without it is
// appended.
func SearchVariants(name string) []string {
	normalized := NormalizeCommitteeName(Truncate(name, SearchInputLimit), true)
	if normalized == "" {
		return nil
	}
	variants := []string{normalized}

	words := strings.Fields(normalized)
	if len(words) > 1 && len([]rune(words[len(words)-1])) <= 3 {
		variant := strings.Join(words[:len(words)-1], " ")
		if variant != "" {
			variants = append(variants, variant)
		}
	}
	return variants
}
