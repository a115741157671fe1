package commands

import (
	"context"

	"sunscrape/internal/components/telemetry"
	"sunscrape/internal/enrich"
	"sunscrape/internal/match"
	"sunscrape/internal/roster"
)

const (
	report_load_candidates = "commands.load-candidates"
	report_load_committees = "commands.load-committees"
)

type matchers struct {
	candidates *match.Candidates
	// committees is nil unless committee matching was asked for.
	committees *match.Committees
}

func (m matchers) engine(tel telemetry.API) *enrich.Engine {
	if m.committees == nil {
		return enrich.NewEngine(m.candidates, nil, tel)
	}
	return enrich.NewEngine(m.candidates, m.committees, tel)
}

// loadMatchers downloads the candidate rosters of `elections` (the configured
// ones when empty) and, with `committees`, the committee roster.
func loadMatchers(ctx context.Context, e *env, elections []string, committees bool) (matchers, error) {
	if len(elections) == 0 {
		elections = e.cfg.Roster.Elections
	}

	candidateIndex := roster.NewIndex(roster.Candidate, e.tel)
	n, err := enrich.LoadCandidates(ctx, e.client, candidateIndex, e.cfg.Roster.query(), elections, e.tel)
	if err != nil {
		return matchers{}, err
	}
	e.tel.ReportCount(report_load_candidates, int64(n))

	m := matchers{candidates: match.NewCandidates(candidateIndex, match.NewCache(e.cfg.Match.cacheTTL()), e.tel)}
	if !committees {
		return m, nil
	}

	committeeIndex := roster.NewIndex(roster.Committee, e.tel)
	n, err = enrich.LoadCommittees(ctx, e.client, committeeIndex, e.tel)
	if err != nil {
		// the online fallback still resolves committees one by one
		e.tel.ReportWarning(report_load_committees, err)
	} else {
		e.tel.ReportCount(report_load_committees, int64(n))
	}

	var online *match.Online
	if !e.cfg.Match.DisableOnlineFallback {
		online = match.NewOnline(e.client, committeeIndex, e.tel)
	}
	m.committees = match.NewCommittees(committeeIndex, match.NewCache(e.cfg.Match.cacheTTL()), online, e.tel)
	return m, nil
}
