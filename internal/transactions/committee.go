package transactions

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"sunscrape/internal/components/telemetry"
	"sunscrape/internal/match"
	"sunscrape/internal/portal"
	"sunscrape/internal/roster"
	"sunscrape/lib/textutil"
)

const (
	report_transactions_committee = "transactions.committee"
)

const committeeReportPath = "/cgi-bin/TreFin.exe"

// CommitteeCutoff is the minimum similarity between the requested name and a
// search result for the result to be taken as the committee.
const CommitteeCutoff = 0.6

var queryFor = map[Kind]int{
	Contributions: 1,
	Expenditures:  2,
	Other:         3,
	Transfers:     4,
}

var committeeMappers = map[Kind]mapper{
	Contributions: func(row roster.Row) (Record, error) {
		amount, err := parseAmount(row["Amount"])
		if err != nil {
			return nil, err
		}
		return Record{
			"report_year":            strings.TrimSpace(row["Rpt Yr"]),
			"report_type":            strings.TrimSpace(row["Rpt Type"]),
			"date":                   textutil.ToISODate(row["Date"]),
			"amount":                 amount,
			"contributor_name":       strings.TrimSpace(row["Contributor Name"]),
			"contributor_address":    strings.TrimSpace(row["Address"]),
			"contributor_address2":   strings.TrimSpace(row["City State Zip"]),
			"contributor_occupation": strings.TrimSpace(row["Occupation"]),
			"item_type":              strings.TrimSpace(row["Typ"]),
			"inkind_description":     strings.TrimSpace(row["InKind Desc"]),
		}, nil
	},
	Expenditures: func(row roster.Row) (Record, error) {
		amount, err := parseAmount(row["Amount"])
		if err != nil {
			return nil, err
		}
		return Record{
			"report_year":      strings.TrimSpace(row["Rpt Yr"]),
			"report_type":      strings.TrimSpace(row["Rpt Type"]),
			"date":             textutil.ToISODate(row["Date"]),
			"amount":           amount,
			"paid_to_name":     strings.TrimSpace(row["Expense Paid To"]),
			"paid_to_address":  strings.TrimSpace(row["Address"]),
			"paid_to_address2": strings.TrimSpace(row["City State Zip"]),
			"purpose":          strings.TrimSpace(row["Purpose"]),
			"item_type":        strings.TrimSpace(row["Typ Reimb"]),
		}, nil
	},
	Other:     genericRecord,
	Transfers: genericRecord,
}

// CommitteeReport is the filing history of one committee.
type CommitteeReport struct {
	Account string
	Name    string
	Kind    Kind
	Detail  map[roster.Field]string
	Records []Record
}

// CommitteePortal is the part of the portal client committee reports use.
type CommitteePortal interface {
	Portal
	SearchCommittees(ctx context.Context, name string) ([]portal.CommitteeRow, error)
	CommitteeDetail(ctx context.Context, account string) (map[roster.Field]string, error)
}

// CommitteeTransactions finds the committee closest to `name` and downloads
// its `kind` transactions. It returns nil when no committee is close enough.
func CommitteeTransactions(ctx context.Context, p CommitteePortal, name string, kind Kind, tel telemetry.API) (*CommitteeReport, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("committee name is required")
	}
	mapRow, ok := committeeMappers[kind]
	if !ok {
		return nil, fmt.Errorf("unknown transaction kind %q, expected one of: contributions, expenditures, other, transfers", kind)
	}

	rows, err := p.SearchCommittees(ctx, name)
	var formatErr *roster.FormatError
	if errors.As(err, &formatErr) {
		tel.ReportWarning(report_transactions_committee, err, name)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("search committee %q: %w", name, err)
	}
	names := make([]string, len(rows))
	for i, row := range rows {
		names[i] = row.Name
	}
	best, score, ok := match.Closest(name, names, CommitteeCutoff)
	if !ok {
		tel.ReportDebug(report_transactions_committee, "no committee close to", name)
		return nil, nil
	}
	row := rows[best]
	tel.ReportDebug(report_transactions_committee, "matched", name, "to", row.Name, "score", score)

	detail, err := p.CommitteeDetail(ctx, row.Account)
	if err != nil {
		return nil, fmt.Errorf("committee %s details: %w", row.Account, err)
	}

	params := url.Values{
		"account":     {row.Account},
		"comname":     {name},
		"CanCom":      {"Comm"},
		"seqnum":      {"0"},
		"queryfor":    {strconv.Itoa(queryFor[kind])},
		"queryorder":  {"DAT"},
		"queryoutput": {"2"},
		"query":       {"Submit Query Now"},
	}
	src, err := p.Query(ctx, committeeReportPath, params)
	if err != nil {
		return nil, fmt.Errorf("committee %s %s: %w", row.Account, kind, err)
	}
	records, err := readRecords(src, []string{"Date", "Amount"}, mapRow)
	if err != nil {
		return nil, fmt.Errorf("committee %s %s: %w", row.Account, kind, err)
	}
	tel.ReportCount(report_transactions_committee, int64(len(records)))

	return &CommitteeReport{
		Account: row.Account,
		Name:    row.Name,
		Kind:    kind,
		Detail:  detail,
		Records: records,
	}, nil
}
