package enrich

import (
	"context"
	"errors"
	"fmt"

	"sunscrape/internal/components/telemetry"
	"sunscrape/internal/portal"
	"sunscrape/internal/roster"
)

const (
	report_enrich_load = "enrich.load"
)

// CandidateDownloader is satisfied by *portal.Client.
type CandidateDownloader interface {
	Elections(ctx context.Context) ([]portal.Election, error)
	DownloadCandidates(ctx context.Context, q portal.CandidateQuery) (roster.Source, error)
}

// CommitteeDownloader is satisfied by *portal.Client.
type CommitteeDownloader interface {
	DownloadCommittees(ctx context.Context) (roster.Source, error)
}

// ErrNoCandidates is returned when no election contributed a single candidate.
var ErrNoCandidates = errors.New("no candidates loaded")

// LoadCandidates downloads the candidate roster of each election in
// `elections` into `index`, every listed election when it is empty. An
// election that fails to download or parse is skipped, the load only fails
// when nothing was loaded at all.
func LoadCandidates(ctx context.Context, d CandidateDownloader, index *roster.Index, q portal.CandidateQuery, elections []string, tel telemetry.API) (int, error) {
	if len(elections) == 0 {
		listed, err := d.Elections(ctx)
		if err != nil {
			return 0, fmt.Errorf("list elections: %w", err)
		}
		for _, e := range listed {
			elections = append(elections, e.ID)
		}
	}

	var errs []error
	total := 0
	for _, id := range elections {
		err := ctx.Err()
		if err != nil {
			return total, err
		}

		electionQuery := q
		electionQuery.ElectionID = id
		src, err := d.DownloadCandidates(ctx, electionQuery)
		if err != nil {
			tel.ReportWarning(report_enrich_load, err, id)
			errs = append(errs, fmt.Errorf("election %s: %w", id, err))
			continue
		}
		n, err := index.Load(src)
		if err != nil {
			tel.ReportWarning(report_enrich_load, err, id)
			errs = append(errs, fmt.Errorf("election %s: %w", id, err))
			continue
		}
		total += n
	}

	tel.ReportCount(report_enrich_load, int64(total))
	if total == 0 {
		return 0, errors.Join(append(errs, ErrNoCandidates)...)
	}
	return total, nil
}

// LoadCommittees downloads the committee roster into `index`.
func LoadCommittees(ctx context.Context, d CommitteeDownloader, index *roster.Index, tel telemetry.API) (int, error) {
	src, err := d.DownloadCommittees(ctx)
	if err != nil {
		return 0, err
	}
	n, err := index.Load(src)
	if err != nil {
		return 0, err
	}
	tel.ReportCount(report_enrich_load, int64(n))
	return n, nil
}
