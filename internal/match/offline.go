package match

import (
	"context"
	"slices"

	"sunscrape/internal/components/assert"
	"sunscrape/internal/components/telemetry"
	"sunscrape/internal/roster"
	"sunscrape/lib/textutil"
)

const (
	report_candidate_find = "candidate.find"
	report_committee_find = "committee.find"
)

func sortByConfidence(results []Result) {
	slices.SortStableFunc(results, func(a, b Result) int {
		switch {
		case a.Confidence > b.Confidence:
			return -1
		case a.Confidence < b.Confidence:
			return 1
		}
		return 0
	})
}

// Candidates looks names up in a candidate roster.
type Candidates struct {
	index *roster.Index
	cache *Cache
	tel   telemetry.API
}

func NewCandidates(index *roster.Index, cache *Cache, tel telemetry.API) *Candidates {
	assert.NotNil(index)
	assert.NotNil(cache)
	return &Candidates{
		index: index,
		cache: cache,
		tel:   telemetry.NewScopedAPI("match", tel),
	}
}

func (c *Candidates) Index() *roster.Index {
	return c.index
}

// Find returns the candidates matching `name`, highest confidence first.
//
// Accounts under the exact normalized name match with confidence 1.0, then
// accounts under the parsed (first, last) pair with 0.95. An account is
// returned at most once and only if it passes the party filter. An empty name
// matches nothing.
func (c *Candidates) Find(name, party string, opts ...Option) []Result {
	o := applyOptions(opts)

	normalized := textutil.NormalizeName(name)
	if normalized == "" {
		return nil
	}
	if o.useCache {
		cached, ok := c.cache.Get(normalized, party, false)
		if ok {
			return cached
		}
	}

	var results []Result
	seen := map[string]struct{}{}
	emit := func(accounts []string, method Method, confidence float64) {
		for _, account := range accounts {
			if _, dup := seen[account]; dup {
				continue
			}
			e, ok := c.index.Get(account)
			if !ok || !PartyMatches(e, party) {
				continue
			}
			seen[account] = struct{}{}
			results = append(results, newResult(e, method, confidence))
		}
	}

	emit(c.index.ByName(normalized), MethodExact, ConfidenceExact)

	first, last, _ := textutil.ParseNameComponents(name)
	if first != "" && last != "" {
		key := roster.ComponentKey{
			First: textutil.NormalizeName(first),
			Last:  textutil.NormalizeName(last),
		}
		emit(c.index.ByComponents(key), MethodComponent, ConfidenceComponent)
	}

	sortByConfidence(results)
	c.tel.ReportDebug(report_candidate_find, normalized, party, len(results))

	if o.useCache {
		c.cache.Set(normalized, party, false, results)
	}
	return results
}

// Committees looks names up in a committee roster, optionally falling back to
// a live search when the roster has no match.
type Committees struct {
	index  *roster.Index
	cache  *Cache
	online *Online
	tel    telemetry.API
}

// NewCommittees creates a committee lookup, `online` may be nil in which case
// the fallback is never attempted.
func NewCommittees(index *roster.Index, cache *Cache, online *Online, tel telemetry.API) *Committees {
	assert.NotNil(index)
	assert.NotNil(cache)
	return &Committees{
		index:  index,
		cache:  cache,
		online: online,
		tel:    telemetry.NewScopedAPI("match", tel),
	}
}

func (c *Committees) Index() *roster.Index {
	return c.index
}

// Find returns the committees registered under `name` (case-insensitive,
// designators like PAC ignored). When none are and the fallback is enabled the
// portal's committee search is consulted, its match is added to the roster.
//
// Failures of the live search are returned as errors, a committee that cannot
// be found anywhere is an empty result.
func (c *Committees) Find(ctx context.Context, name string, opts ...Option) ([]Result, error) {
	o := applyOptions(opts)
	fallback := o.fallback && c.online != nil

	normalized := textutil.NormalizeCommitteeName(name, true)
	if normalized == "" {
		return nil, nil
	}
	if o.useCache {
		cached, ok := c.cache.Get(normalized, "", fallback)
		if ok {
			return cached, nil
		}
	}

	var results []Result
	for _, account := range c.index.ByName(normalized) {
		e, ok := c.index.Get(account)
		if !ok {
			continue
		}
		results = append(results, newResult(e, MethodExact, ConfidenceExact))
	}

	if len(results) == 0 && fallback {
		c.tel.ReportDebug(report_committee_find, "not in roster, searching online", name, c.index.Len())
		found, err := c.online.Search(ctx, name)
		if err != nil {
			return nil, err
		}
		if found != nil {
			results = append(results, *found)
		}
	}

	if o.useCache {
		c.cache.Set(normalized, "", fallback, results)
	}
	return results, nil
}
