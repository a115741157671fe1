package portal

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"sunscrape/internal/roster"
	"sunscrape/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

const (
	report_client_download = "client.download"
)

const (
	candidateExtractPath = "/candidates/extractCanList.asp"
	committeeExtractPath = "/committees/extractComList.asp"
	committeeListPath    = "/committees/downloadcomlist.asp"
)

const (
	StateCandidates = "State Candidates"
	LocalCandidates = "Local Candidates"
)

type CandidateQuery struct {
	// ElectionID as listed by Elections, empty picks the first listed election.
	ElectionID string
	// Office and Status filter the roster, empty or "ALL" keeps everything.
	Office string
	Status string
	// CandidateType is StateCandidates, LocalCandidates or a raw portal code.
	CandidateType string
}

func allOr(value string) string {
	if value == "" || strings.EqualFold(value, "all") {
		return "All"
	}
	return value
}

func candidateTypeCode(kind string) string {
	switch kind {
	case "", StateCandidates:
		return "STA"
	case LocalCandidates:
		return "LOC"
	}
	return kind
}

// checkExtract rejects extract responses that came back as an HTML page, the
// portal answers with one when the query selects nothing.
func checkExtract(source, text string) error {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "<") && !strings.Contains(strings.ToLower(trimmed[:min(len(trimmed), 512)]), "<html") {
		return nil
	}

	reason := "server returned HTML instead of data, nothing matched the selected criteria"
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err == nil {
		msg := htmlutil.CellText(doc.Find("div.error, p.error").First())
		if msg != "" {
			reason = fmt.Sprintf("server returned error: %s", msg)
		}
	}
	return &roster.FormatError{Source: source, Reason: reason}
}

// DownloadCandidates downloads the tab-delimited candidate roster of one
// election.
func (c *Client) DownloadCandidates(ctx context.Context, q CandidateQuery) (roster.Source, error) {
	electionId := q.ElectionID
	if electionId == "" {
		elections, err := c.Elections(ctx)
		if err != nil {
			return nil, err
		}
		if len(elections) == 0 {
			return nil, &roster.FormatError{Source: candidateListPath, Reason: "no elections available"}
		}
		electionId = elections[0].ID
		c.tel.ReportDebug(report_client_download, "no election specified, using", elections[0].Name)
	}

	body, err := c.do(ctx, request{
		method:  http.MethodPost,
		path:    candidateExtractPath,
		timeout: c.opts.DownloadTimeout,
		form: map[string]string{
			"FormSubmit": "Download Candidate List",
			"elecID":     electionId,
			"office":     allOr(q.Office),
			"status":     allOr(q.Status),
			"cantype":    candidateTypeCode(q.CandidateType),
		},
		referer: candidateListPath,
	})
	if err != nil {
		return nil, fmt.Errorf("download candidates for %s: %w", electionId, err)
	}

	name := fmt.Sprintf("candidates %s", electionId)
	text := decode(body)
	err = checkExtract(name, text)
	if err != nil {
		return nil, err
	}
	return roster.NewTabSource(name, strings.NewReader(text))
}

// DownloadCommittees downloads the tab-delimited roster of active committees.
func (c *Client) DownloadCommittees(ctx context.Context) (roster.Source, error) {
	body, err := c.do(ctx, request{
		method:  http.MethodPost,
		path:    committeeExtractPath,
		timeout: c.opts.DownloadTimeout,
		form: map[string]string{
			"FormSubmit": "Download Committee List",
		},
		referer: committeeListPath,
	})
	if err != nil {
		return nil, fmt.Errorf("download committees: %w", err)
	}

	const name = "committees"
	text := decode(body)
	err = checkExtract(name, text)
	if err != nil {
		return nil, err
	}
	return roster.NewTabSource(name, strings.NewReader(text))
}

// Query runs one of the tab-delimited campaign finance reports under
// /cgi-bin. An empty response has no rows.
func (c *Client) Query(ctx context.Context, path string, params url.Values) (roster.Source, error) {
	body, err := c.do(ctx, request{
		method:  http.MethodGet,
		path:    path,
		timeout: c.opts.DownloadTimeout,
		query:   params,
	})
	if err != nil {
		return nil, err
	}

	text := decode(body)
	if strings.TrimSpace(text) == "" {
		return roster.NewMemorySource(path, nil), nil
	}
	err = checkExtract(path, text)
	if err != nil {
		return nil, err
	}
	return roster.NewTabSource(path, strings.NewReader(text))
}
