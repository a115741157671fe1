package match

import (
	"slices"
	"strings"

	"sunscrape/internal/roster"

	"github.com/antzucaro/matchr"
)

type Suggestion struct {
	Entity      roster.Entity
	Correlation float64
}

// Closest returns the position of the name in `names` most similar to
// `query` by Jaro-Winkler, ignoring case. It reports false when no name
// reaches `cutoff`, the first name wins ties.
func Closest(query string, names []string, cutoff float64) (int, float64, bool) {
	query = strings.ToLower(query)

	best := -1
	var mostSimilarity float64
	for i, name := range names {
		similarity := matchr.JaroWinkler(query, strings.ToLower(name), false)
		if similarity > mostSimilarity {
			mostSimilarity = similarity
			best = i
		}
	}
	if best < 0 || mostSimilarity < cutoff {
		return -1, mostSimilarity, false
	}
	return best, mostSimilarity, true
}

// Suggest ranks the entities of `index` by similarity to `query`, keeping at
// most `limit` with a correlation of at least `cutoff`.
func Suggest(index *roster.Index, query string, cutoff float64, limit int) []Suggestion {
	query = strings.ToLower(query)
	if query == "" || limit <= 0 {
		return nil
	}

	var result []Suggestion
	for _, e := range index.Entities() {
		similarity := matchr.JaroWinkler(query, strings.ToLower(e.Name()), false)
		if similarity < cutoff {
			continue
		}
		result = append(result, Suggestion{
			Entity:      e,
			Correlation: similarity,
		})
	}

	slices.SortStableFunc(result, func(a, b Suggestion) int {
		switch {
		case a.Correlation > b.Correlation:
			return -1
		case a.Correlation < b.Correlation:
			return 1
		}
		return 0
	})
	if len(result) > limit {
		result = result[:limit]
	}
	return result
}
