package transactions

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"sunscrape/internal/components/telemetry"
	"sunscrape/internal/portal"
	"sunscrape/internal/roster"
	"sunscrape/lib/textutil"
)

const (
	report_transactions_fetch = "transactions.fetch"
)

// Record is one flat transaction row, field name to value. Values are
// strings, float64 amounts, or nil for fields that do not apply.
type Record map[string]any

type Kind string

const (
	Contributions Kind = "contributions"
	Expenditures  Kind = "expenditures"
	Transfers     Kind = "transfers"
	// Other is only offered by the per-committee reports.
	Other Kind = "other"
)

func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case Contributions, Expenditures, Transfers, Other:
		return k, nil
	}
	return "", fmt.Errorf("unknown transaction kind %q, expected one of: contributions, expenditures, other, transfers", s)
}

// Query narrows a statewide transaction search. Any name or date filter
// searches every election unless ElectionID is set.
type Query struct {
	CandidateFirst string
	CandidateLast  string
	// CommitteeName may be a partial name.
	CommitteeName string
	// FromDate and ToDate are MM/DD/YYYY.
	FromDate   string
	ToDate     string
	ElectionID string
	AllTime    bool
}

func (q Query) apply(params url.Values) {
	if q.CandidateFirst != "" {
		params.Set("CanFName", q.CandidateFirst)
		params.Set("election", "All")
	}
	if q.CandidateLast != "" {
		params.Set("CanLName", q.CandidateLast)
		params.Set("election", "All")
	}
	if q.CommitteeName != "" {
		params.Set("ComName", q.CommitteeName)
		params.Set("ComNameSrch", "1")
		params.Set("namesearch", "1")
		params.Set("office", "All")
		params.Set("election", "All")
	}
	if q.FromDate != "" {
		params.Set("cdatefrom", q.FromDate)
		params.Set("election", "All")
	}
	if q.ToDate != "" {
		params.Set("cdateto", q.ToDate)
		params.Set("election", "All")
	}
	if q.AllTime {
		params.Set("election", "All")
	}
	if q.ElectionID != "" {
		params.Set("election", q.ElectionID)
	}
}

type mapper func(row roster.Row) (Record, error)

type search struct {
	path string
	// page is the search form, it lists the elections.
	page       string
	nameField  string
	partyField string
	required   []string
	params     func() url.Values
	mapRow     mapper
}

func baseParams(sort1 string) url.Values {
	return url.Values{
		"election":        {"All"},
		"search_on":       {"1"},
		"CanFName":        {""},
		"CanLName":        {""},
		"CanNameSrch":     {"2"},
		"office":          {"All"},
		"cdistrict":       {""},
		"cgroup":          {""},
		"party":           {"All"},
		"ComName":         {""},
		"ComNameSrch":     {"2"},
		"committee":       {"All"},
		"cfname":          {""},
		"clname":          {""},
		"namesearch":      {"2"},
		"ccity":           {""},
		"czipcode":        {""},
		"cdollar_minimum": {""},
		"cdollar_maximum": {""},
		"rowlimit":        {""},
		"csort1":          {sort1},
		"csort2":          {"CAN"},
		"queryformat":     {"2"},
	}
}

var searches = map[Kind]search{
	Contributions: {
		path:       "/cgi-bin/contrib.exe",
		page:       "/campaign-finance/contributions/",
		nameField:  "recipient",
		partyField: "recipient_party",
		required:   []string{"Candidate/Committee", "Date", "Amount"},
		params: func() url.Values {
			params := baseParams("NAM")
			params.Set("cstate", "")
			params.Set("coccupation", "")
			return params
		},
		mapRow: func(row roster.Row) (Record, error) {
			amount, err := parseAmount(row["Amount"])
			if err != nil {
				return nil, err
			}
			return Record{
				"recipient":              textutil.GetName(row["Candidate/Committee"]),
				"recipient_party":        textutil.GetParty(row["Candidate/Committee"]),
				"date":                   textutil.ToISODate(row["Date"]),
				"amount":                 amount,
				"type":                   strings.TrimSpace(row["Typ"]),
				"contributor_name":       strings.TrimSpace(row["Contributor Name"]),
				"contributor_address":    strings.TrimSpace(row["Address"]),
				"contributor_address2":   strings.TrimSpace(row["City State Zip"]),
				"contributor_occupation": strings.TrimSpace(row["Occupation"]),
				"inkind_description":     strings.TrimSpace(row["Inkind Desc"]),
			}, nil
		},
	},
	Expenditures: {
		path:       "/cgi-bin/expend.exe",
		page:       "/campaign-finance/expenditures/",
		nameField:  "spender",
		partyField: "spender_party",
		required:   []string{"Candidate/Committee", "Date", "Amount"},
		params: func() url.Values {
			params := baseParams("DAT")
			params.Set("ccstate", "")
			params.Set("cpurpose", "")
			params.Set("cdatefrom", "")
			params.Set("cdateto", "")
			return params
		},
		mapRow: func(row roster.Row) (Record, error) {
			amount, err := parseAmount(row["Amount"])
			if err != nil {
				return nil, err
			}
			return Record{
				"spender":            textutil.GetName(row["Candidate/Committee"]),
				"spender_party":      textutil.GetParty(row["Candidate/Committee"]),
				"date":               textutil.ToISODate(row["Date"]),
				"amount":             amount,
				"recipient":          strings.TrimSpace(row["Payee Name"]),
				"recipient_address":  strings.TrimSpace(row["Address"]),
				"recipient_address2": strings.TrimSpace(row["City State Zip"]),
				"purpose":            strings.TrimSpace(row["Purpose"]),
				"type":               strings.TrimSpace(row["Type"]),
			}, nil
		},
	},
	Transfers: {
		path:       "/cgi-bin/FundXfers.exe",
		page:       "/campaign-finance/transfers/",
		nameField:  "transfer_from",
		partyField: "transfer_from_party",
		required:   []string{"Candidate/Committee", "Date", "Amount"},
		params: func() url.Values {
			params := baseParams("DAT")
			params.Set("ccstate", "")
			params.Set("cpurpose", "")
			params.Set("cdatefrom", "")
			params.Set("cdateto", "")
			return params
		},
		mapRow: func(row roster.Row) (Record, error) {
			amount, err := parseAmount(row["Amount"])
			if err != nil {
				return nil, err
			}
			return Record{
				"transfer_from":          textutil.GetName(row["Candidate/Committee"]),
				"transfer_from_party":    textutil.GetParty(row["Candidate/Committee"]),
				"date":                   textutil.ToISODate(row["Date"]),
				"amount":                 amount,
				"transfer_to":            strings.TrimSpace(row["Funds Transferred To"]),
				"transfer_from_address":  strings.TrimSpace(row["Address"]),
				"transfer_from_address2": strings.TrimSpace(row["City State Zip"]),
				"account_type":           strings.TrimSpace(row["Nature Of Account"]),
				"transfer_type":          strings.TrimSpace(row["Type"]),
			}, nil
		},
	},
}

// NameFields returns the fields of a `kind` record holding the name and party
// of the candidate or committee that filed it.
func NameFields(kind Kind) (name, party string, ok bool) {
	s, ok := searches[kind]
	return s.nameField, s.partyField, ok
}

func parseAmount(text string) (float64, error) {
	cleaned := strings.NewReplacer("$", "", ",", "").Replace(strings.TrimSpace(text))
	if cleaned == "" {
		return 0, nil
	}
	amount, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", text)
	}
	return amount, nil
}

// Portal is the part of the portal client transaction searches use.
type Portal interface {
	Query(ctx context.Context, path string, params url.Values) (roster.Source, error)
}

func readRecords(src roster.Source, required []string, mapRow mapper) ([]Record, error) {
	headers := map[string]struct{}{}
	for _, h := range src.Headers() {
		headers[h] = struct{}{}
	}
	if len(headers) > 0 {
		for _, column := range required {
			if _, ok := headers[column]; !ok {
				return nil, &roster.FormatError{Source: src.Name(), Reason: fmt.Sprintf("missing column %q", column)}
			}
		}
	}

	var records []Record
	for i := 1; ; i++ {
		row, err := src.Next()
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return records, err
		}
		record, err := mapRow(row)
		if err != nil {
			return records, &roster.FormatError{Source: src.Name(), Reason: fmt.Sprintf("row %d: %s", i, err.Error())}
		}
		records = append(records, record)
	}
}

// Fetch runs the statewide search for `kind` and returns its rows as records.
func Fetch(ctx context.Context, p Portal, kind Kind, q Query, tel telemetry.API) ([]Record, error) {
	s, ok := searches[kind]
	if !ok {
		return nil, fmt.Errorf("no statewide search for %s", kind)
	}

	params := s.params()
	q.apply(params)
	src, err := p.Query(ctx, s.path, params)
	if err != nil {
		tel.ReportBroken(report_transactions_fetch, err, kind)
		return nil, fmt.Errorf("fetch %s: %w", kind, err)
	}

	records, err := readRecords(src, s.required, s.mapRow)
	if err != nil {
		tel.ReportBroken(report_transactions_fetch, err, kind)
		return nil, fmt.Errorf("fetch %s: %w", kind, err)
	}
	tel.ReportCount(report_transactions_fetch, int64(len(records)))
	return records, nil
}

// ElectionLister lists the elections of a search page.
type ElectionLister interface {
	TransactionElections(ctx context.Context, page string) ([]portal.Election, error)
}

// Elections lists the elections the statewide `kind` search is offered for.
func Elections(ctx context.Context, p ElectionLister, kind Kind) ([]portal.Election, error) {
	s, ok := searches[kind]
	if !ok {
		return nil, fmt.Errorf("no statewide search for %s", kind)
	}
	return p.TransactionElections(ctx, s.page)
}

var nonWordRegex = regexp.MustCompile(`[^a-z0-9]+`)

// fieldName turns a report column like "Rpt Yr" into "rpt_yr".
func fieldName(column string) string {
	return strings.Trim(nonWordRegex.ReplaceAllString(strings.ToLower(column), "_"), "_")
}

// genericRecord keeps every column of `row` under its snake_cased name, with
// dates converted to ISO and amounts parsed.
func genericRecord(row roster.Row) (Record, error) {
	record := make(Record, len(row))
	for column, value := range row {
		key := fieldName(column)
		if key == "" {
			continue
		}
		switch key {
		case "date":
			record[key] = textutil.ToISODate(value)
		case "amount":
			amount, err := parseAmount(value)
			if err != nil {
				return nil, err
			}
			record[key] = amount
		default:
			record[key] = strings.TrimSpace(value)
		}
	}
	return record, nil
}
