package match

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"sunscrape/internal/components/assert"
	"sunscrape/internal/components/telemetry"
	"sunscrape/internal/portal"
	"sunscrape/internal/roster"
	"sunscrape/lib/textutil"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	report_committee_search_online = "committee.search-online"
)

var tracer = otel.Tracer("sunscrape/match")

// Searcher is the live committee search of the portal.
type Searcher interface {
	SearchCommittees(ctx context.Context, name string) ([]portal.CommitteeRow, error)
	CommitteeDetail(ctx context.Context, account string) (map[roster.Field]string, error)
}

// Online resolves committees missing from the roster through the portal's
// name search and adds what it finds to the roster.
type Online struct {
	searcher Searcher
	index    *roster.Index
	tel      telemetry.API
}

func NewOnline(searcher Searcher, index *roster.Index, tel telemetry.API) *Online {
	assert.NotNil(searcher)
	assert.NotNil(index)
	return &Online{
		searcher: searcher,
		index:    index,
		tel:      telemetry.NewScopedAPI("match", tel),
	}
}

func runeLen(s string) float64 {
	return float64(utf8.RuneCountInString(s))
}

// BestSearchMatch picks the search result that best matches `query`.
//
// The search form only sees the first 50 characters of a name, so the query
// is compared through its search variants. Results are scanned in three
// passes: the first result equal to the normalized query or a variant wins
// outright; otherwise the result that starts with a variant scores
// len(variant)/len(result); only when no result starts with a variant does
// containment score len(variant)/max(len(result), len(variant)). The first
// result wins ties. It reports false when nothing scores above zero.
func BestSearchMatch(query string, rows []portal.CommitteeRow) (portal.CommitteeRow, float64, bool) {
	full := textutil.NormalizeCommitteeName(query, true)
	variants := textutil.SearchVariants(query)
	if full == "" || len(variants) == 0 {
		return portal.CommitteeRow{}, 0, false
	}

	normalized := make([]string, len(rows))
	for i, row := range rows {
		normalized[i] = textutil.NormalizeCommitteeName(row.Name, true)
	}

	for i, found := range normalized {
		if found == "" {
			continue
		}
		if found == full {
			return rows[i], ConfidenceExact, true
		}
		for _, variant := range variants {
			if found == variant {
				return rows[i], ConfidenceExact, true
			}
		}
	}

	best := -1
	bestScore := 0.0
	for i, found := range normalized {
		if found == "" {
			continue
		}
		for _, variant := range variants {
			if !strings.HasPrefix(found, variant) {
				continue
			}
			score := runeLen(variant) / runeLen(found)
			if score > bestScore {
				best = i
				bestScore = score
			}
		}
	}
	if best >= 0 {
		return rows[best], bestScore, true
	}

	for i, found := range normalized {
		if found == "" {
			continue
		}
		for _, variant := range variants {
			if !strings.Contains(found, variant) {
				continue
			}
			score := runeLen(variant) / max(runeLen(found), runeLen(variant))
			if score > bestScore {
				best = i
				bestScore = score
			}
		}
	}
	if best >= 0 {
		return rows[best], bestScore, true
	}
	return portal.CommitteeRow{}, 0, false
}

// Search looks `name` up on the portal. A result page that cannot be parsed or
// has no acceptable row is reported as not found (nil, nil), transport
// failures are returned.
func (o *Online) Search(ctx context.Context, name string) (*Result, error) {
	ctx, span := tracer.Start(ctx, "Online.Search", trace.WithAttributes(
		attribute.String("committee.query", name),
	))
	defer span.End()

	rows, err := o.searcher.SearchCommittees(ctx, textutil.Truncate(name, textutil.SearchInputLimit))
	var formatErr *roster.FormatError
	if errors.As(err, &formatErr) {
		o.tel.ReportDebug(report_committee_search_online, "unparsable search results", name, err)
		return nil, nil
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "committee search failed")
		o.tel.ReportWarning(report_committee_search_online, err, name)
		return nil, fmt.Errorf("search committee %q: %w", name, err)
	}

	row, score, ok := BestSearchMatch(name, rows)
	if !ok {
		o.tel.ReportDebug(report_committee_search_online, "no acceptable result", name, len(rows))
		return nil, nil
	}
	span.SetAttributes(
		attribute.String("committee.account", row.Account),
		attribute.Float64("committee.score", score),
	)

	detail, err := o.searcher.CommitteeDetail(ctx, row.Account)
	if errors.As(err, &formatErr) {
		o.tel.ReportWarning(report_committee_search_online, err, name, row.Account)
		return nil, nil
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "committee detail failed")
		o.tel.ReportWarning(report_committee_search_online, err, name, row.Account)
		return nil, fmt.Errorf("committee %q detail (account %s): %w", name, row.Account, err)
	}

	foundName := row.Name
	if foundName == "" {
		foundName = name
	}
	fields := make(map[roster.Field]string, len(detail)+1)
	raw := make(map[string]string, len(detail)+1)
	for field, value := range detail {
		fields[field] = value
		raw[string(field)] = value
	}
	fields[roster.FieldName] = foundName
	raw[string(roster.FieldName)] = foundName

	entity := roster.NewEntity(roster.Committee, row.Account, fields, raw)
	existing, exists := o.index.Get(row.Account)
	if exists {
		entity = existing
	} else {
		err = o.index.Add(entity)
		if err != nil {
			return nil, err
		}
		o.tel.ReportDebug(report_committee_search_online, "added to roster", foundName, row.Account)
	}

	result := newResult(entity, MethodOnlineFallback, ConfidenceOnlineFallback)
	return &result, nil
}
