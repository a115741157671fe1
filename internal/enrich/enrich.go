package enrich

import (
	"context"
	"fmt"

	"sunscrape/internal/components/assert"
	"sunscrape/internal/components/telemetry"
	"sunscrape/internal/match"
	"sunscrape/internal/roster"
	"sunscrape/internal/transactions"
)

const (
	report_enrich_progress = "enrich.progress"
	report_enrich_lookup   = "enrich.lookup"
)

// Fields every enriched record carries, nil when nothing matched or the
// matched entity has no such field.
const (
	FieldEntityType       = "entity_type"
	FieldEntityAccount    = "entity_account"
	FieldEntityName       = "entity_name"
	FieldEntityNameFirst  = "entity_name_first"
	FieldEntityNameLast   = "entity_name_last"
	FieldEntityNameMiddle = "entity_name_middle"
	FieldEntityElectionID = "entity_election_id"
	FieldEntityOffice     = "entity_office"
	FieldEntityStatus     = "entity_status"
	FieldEntityParty      = "entity_party"
	FieldEntityEmail      = "entity_email"
	FieldEntityPhone      = "entity_phone"
	FieldEntityTypeDetail = "entity_type_detail"
)

// EntityFields lists the enrichment fields in output order.
var EntityFields = []string{
	FieldEntityType,
	FieldEntityAccount,
	FieldEntityName,
	FieldEntityNameFirst,
	FieldEntityNameLast,
	FieldEntityNameMiddle,
	FieldEntityElectionID,
	FieldEntityOffice,
	FieldEntityStatus,
	FieldEntityParty,
	FieldEntityEmail,
	FieldEntityPhone,
	FieldEntityTypeDetail,
}

// CandidateFinder is satisfied by *match.Candidates.
type CandidateFinder interface {
	Find(name, party string, opts ...match.Option) []match.Result
}

// CommitteeFinder is satisfied by *match.Committees.
type CommitteeFinder interface {
	Find(ctx context.Context, name string, opts ...match.Option) ([]match.Result, error)
}

type Engine struct {
	candidates CandidateFinder
	// committees is optional.
	committees CommitteeFinder
	tel        telemetry.API
}

// NewEngine creates an engine matching names against `candidates` first and
// then `committees`, pass a nil `committees` to match candidates only.
func NewEngine(candidates CandidateFinder, committees CommitteeFinder, tel telemetry.API) *Engine {
	assert.NotNil(candidates)
	assert.NotNil(tel)
	return &Engine{candidates: candidates, committees: committees, tel: tel}
}

func nullFields() map[string]any {
	fields := make(map[string]any, len(EntityFields))
	for _, f := range EntityFields {
		fields[f] = nil
	}
	return fields
}

func candidateFields(e roster.Entity) map[string]any {
	fields := nullFields()
	fields[FieldEntityType] = string(roster.Candidate)
	fields[FieldEntityAccount] = e.Account
	fields[FieldEntityName] = e.Name()
	fields[FieldEntityNameFirst] = e.Get(roster.FieldFirst)
	fields[FieldEntityNameLast] = e.Get(roster.FieldLast)
	fields[FieldEntityNameMiddle] = e.Get(roster.FieldMiddle)
	fields[FieldEntityElectionID] = e.Get(roster.FieldElectionID)
	fields[FieldEntityOffice] = e.Get(roster.FieldOffice)
	fields[FieldEntityStatus] = e.Get(roster.FieldStatus)
	fields[FieldEntityParty] = e.Get(roster.FieldParty)
	fields[FieldEntityEmail] = e.Get(roster.FieldEmail)
	fields[FieldEntityPhone] = e.Get(roster.FieldPhone)
	fields[FieldEntityTypeDetail] = string(roster.Candidate)
	return fields
}

func committeeFields(e roster.Entity) map[string]any {
	fields := nullFields()
	fields[FieldEntityType] = string(roster.Committee)
	fields[FieldEntityAccount] = e.Account
	fields[FieldEntityName] = e.Name()
	fields[FieldEntityStatus] = e.Get(roster.FieldStatus)
	fields[FieldEntityTypeDetail] = e.Get(roster.FieldType)
	return fields
}

// Fields projects a matched entity onto the enrichment fields.
func Fields(e roster.Entity) map[string]any {
	if e.Type == roster.Committee {
		return committeeFields(e)
	}
	return candidateFields(e)
}

type groupKey struct {
	name  string
	party string
}

func stringField(tx transactions.Record, field string) string {
	if field == "" {
		return ""
	}
	s, _ := tx[field].(string)
	return s
}

// lookup resolves one distinct (name, party) pair, the best candidate wins and
// committees are only consulted when no candidate matches.
func (e *Engine) lookup(ctx context.Context, name, party string) (map[string]any, error) {
	if name == "" {
		return nullFields(), nil
	}

	results := e.candidates.Find(name, party)
	if len(results) > 0 {
		return Fields(results[0].Entity), nil
	}
	if e.committees == nil {
		return nullFields(), nil
	}

	results, err := e.committees.Find(ctx, name)
	if err != nil {
		return nil, err
	}
	if len(results) > 0 {
		return Fields(results[0].Entity), nil
	}
	e.tel.ReportDebug(report_enrich_lookup, "no match for", name, party)
	return nullFields(), nil
}

// Enrich returns a copy of `txs` where every record also carries the
// EntityFields of the candidate or committee named in `nameField`. The input
// records are not modified. Each distinct (name, party) pair is looked up once.
func (e *Engine) Enrich(ctx context.Context, txs []transactions.Record, nameField, partyField string) ([]transactions.Record, error) {
	var order []groupKey
	groups := map[groupKey][]int{}
	for i, tx := range txs {
		key := groupKey{name: stringField(tx, nameField), party: stringField(tx, partyField)}
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], i)
	}

	out := make([]transactions.Record, len(txs))
	step := max(1, len(order)/10)
	for n, key := range order {
		err := ctx.Err()
		if err != nil {
			return nil, err
		}

		fields, err := e.lookup(ctx, key.name, key.party)
		if err != nil {
			e.tel.ReportBroken(report_enrich_lookup, err, key.name)
			return nil, fmt.Errorf("enrich %q: %w", key.name, err)
		}

		for _, i := range groups[key] {
			record := make(transactions.Record, len(txs[i])+len(fields))
			for k, v := range txs[i] {
				record[k] = v
			}
			for k, v := range fields {
				record[k] = v
			}
			out[i] = record
		}

		if (n+1)%step == 0 || n+1 == len(order) {
			e.tel.ReportCount(report_enrich_progress, int64(n+1))
		}
	}
	return out, nil
}
