package portal

import (
	"context"
	"net/http"
	"strings"

	"sunscrape/internal/roster"

	"github.com/PuerkitoBio/goquery"
)

const (
	report_client_elections = "client.elections"
)

const candidateListPath = "/candidates/downloadcanlist.asp"

type Election struct {
	ID   string
	Name string
}

func parseOptions(sel *goquery.Selection, skipFirst bool) []Election {
	var elections []Election
	sel.Find("option").Each(func(i int, option *goquery.Selection) {
		if skipFirst && i == 0 {
			return
		}
		id := strings.TrimSpace(option.AttrOr("value", ""))
		name := strings.TrimSpace(option.Text())
		if id == "" || name == "" {
			return
		}
		elections = append(elections, Election{ID: id, Name: name})
	})
	return elections
}

// Elections lists the elections candidate rosters can be downloaded for,
// most recent first as the portal orders them.
func (c *Client) Elections(ctx context.Context) ([]Election, error) {
	doc, err := c.document(ctx, request{
		method: http.MethodGet,
		path:   candidateListPath,
	})
	if err != nil {
		return nil, err
	}

	sel := doc.Find(`select[name="elecID"]`)
	if sel.Length() == 0 {
		return nil, &roster.FormatError{Source: candidateListPath, Reason: "no election dropdown"}
	}
	elections := parseOptions(sel.First(), false)
	c.tel.ReportCount(report_client_elections, int64(len(elections)))
	return elections, nil
}

// TransactionElections lists the elections offered on a campaign finance
// search page (`page` is its path, like "/campaign-finance/contributions/").
// The first option is the "All" placeholder and is left out.
func (c *Client) TransactionElections(ctx context.Context, page string) ([]Election, error) {
	doc, err := c.document(ctx, request{
		method: http.MethodGet,
		path:   page,
	})
	if err != nil {
		return nil, err
	}

	sel := doc.Find(`select[name="election"]`)
	if sel.Length() == 0 {
		return nil, &roster.FormatError{Source: page, Reason: "no election dropdown"}
	}
	return parseOptions(sel.First(), true), nil
}
