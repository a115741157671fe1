package portal

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"sunscrape/internal/roster"
	"sunscrape/lib/htmlutil"
	"sunscrape/lib/textutil"
)

const (
	report_client_search_committees = "client.search-committees"
	report_client_committee_detail  = "client.committee-detail"
)

const (
	committeeSearchPath = "/committees/ComLkupByName.asp"
	committeeDetailPath = "/committees/ComDetail.asp"
)

// CommitteeRow is one row of the committee name search.
type CommitteeRow struct {
	Name    string
	Account string
}

// SearchCommittees runs the portal's committee name search, the form only
// accepts the first 50 characters of `name`. A result page without the
// results table is a FormatError, a results table without rows is not.
func (c *Client) SearchCommittees(ctx context.Context, name string) ([]CommitteeRow, error) {
	c.tel.ReportDebug(report_client_search_committees, name)

	doc, err := c.document(ctx, request{
		method: http.MethodPost,
		path:   committeeSearchPath,
		form: map[string]string{
			"searchtype":    "1",
			"comName":       textutil.Truncate(name, textutil.SearchInputLimit),
			"LkupTypeName":  "L",
			"NameSearchBtn": "Search by Name",
		},
		referer: "/committees/",
	})
	if err != nil {
		return nil, err
	}

	tables := doc.Find("table")
	if tables.Length() < 3 {
		return nil, &roster.FormatError{
			Source: committeeSearchPath,
			Reason: fmt.Sprintf("expected at least 3 tables, got %d", tables.Length()),
		}
	}

	var result []CommitteeRow
	rows := htmlutil.Rows(tables.Eq(2))
	for i, cells := range rows {
		if i == 0 || len(cells) == 0 {
			continue
		}
		anchors := htmlutil.GetAnchors(ctx, cells[0].Find("a").First())
		if len(anchors) == 0 {
			continue
		}
		_, account, found := strings.Cut(anchors[0].Href, "=")
		if !found {
			continue
		}
		account, _, _ = strings.Cut(account, "&")
		result = append(result, CommitteeRow{
			Name:    anchors[0].Name,
			Account: strings.TrimSpace(account),
		})
	}
	return result, nil
}

var detailRows = []roster.Field{
	2:  roster.FieldType,
	3:  roster.FieldStatus,
	4:  roster.FieldAddress,
	5:  roster.FieldPhone,
	6:  roster.FieldChair,
	7:  roster.FieldTreasurer,
	8:  roster.FieldRegisteredAgent,
	9:  roster.FieldPurpose,
	10: roster.FieldAffiliates,
}

// CommitteeDetail scrapes the committee's detail page. The page is a fixed
// layout: the first table, with the values in the second cell of rows 2
// through 10. Anything shorter is a FormatError.
func (c *Client) CommitteeDetail(ctx context.Context, account string) (map[roster.Field]string, error) {
	c.tel.ReportDebug(report_client_committee_detail, account)

	doc, err := c.document(ctx, request{
		method:  http.MethodGet,
		path:    committeeDetailPath,
		query:   url.Values{"account": {account}},
		referer: committeeSearchPath,
	})
	if err != nil {
		return nil, err
	}

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, &roster.FormatError{Source: committeeDetailPath, Reason: "no details table"}
	}
	rows := htmlutil.Rows(table)
	if len(rows) < len(detailRows) {
		return nil, &roster.FormatError{
			Source: committeeDetailPath,
			Reason: fmt.Sprintf("expected at least %d rows, got %d", len(detailRows), len(rows)),
		}
	}

	detail := make(map[roster.Field]string, len(detailRows))
	for i, field := range detailRows {
		if field == "" {
			continue
		}
		if len(rows[i]) < 2 {
			return nil, &roster.FormatError{
				Source: committeeDetailPath,
				Reason: fmt.Sprintf("row %d (%s) has %d cells", i, field, len(rows[i])),
			}
		}
		detail[field] = htmlutil.CellText(rows[i][1])
	}
	return detail, nil
}
