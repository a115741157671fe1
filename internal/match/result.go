package match

import (
	"strings"

	"sunscrape/internal/roster"
)

type Method string

const (
	MethodExact          Method = "exact"
	MethodComponent      Method = "component"
	MethodOnlineFallback Method = "online_fallback"
)

const (
	ConfidenceExact          = 1.0
	ConfidenceComponent      = 0.95
	ConfidenceOnlineFallback = 0.9
)

// Result is one entity matched by a lookup. Results are never modified after
// they are returned, cached results are shared between calls.
type Result struct {
	Entity     roster.Entity
	Account    string
	Method     Method
	Confidence float64
	EntityType roster.EntityType
}

func newResult(e roster.Entity, method Method, confidence float64) Result {
	return Result{
		Entity:     e,
		Account:    e.Account,
		Method:     method,
		Confidence: confidence,
		EntityType: e.Type,
	}
}

var partyCodes = map[string]string{
	"democrat":   "DEM",
	"dem":        "DEM",
	"republican": "REP",
	"rep":        "REP",
}

// PartyMatches reports whether `e` belongs to `party`. An empty party matches
// everything. Otherwise the names match when either contains the other
// (case-insensitive), or when `party` is a known name or abbreviation of the
// entity's party code.
func PartyMatches(e roster.Entity, party string) bool {
	if party == "" {
		return true
	}

	query := strings.ToLower(strings.TrimSpace(party))
	entityParty := strings.ToLower(e.Get(roster.FieldParty))
	if strings.Contains(entityParty, query) || strings.Contains(query, entityParty) {
		return true
	}

	code, ok := partyCodes[query]
	return ok && strings.EqualFold(code, e.Get(roster.FieldPartyCode))
}
