package commands

import (
	"bytes"
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"sunscrape/internal/components/telemetry"
	"sunscrape/internal/enrich"
	"sunscrape/internal/portal"
	"sunscrape/internal/transactions"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/require"
)

func TestColumns(t *testing.T) {
	records := []transactions.Record{
		{"date": "2024-01-15", "amount": 10.0},
		{"recipient": "DeSantis, Ron", enrich.FieldEntityAccount: "12345"},
	}
	cols := columns(records)
	require.Equal(t, append([]string{"amount", "date", "recipient"}, enrich.EntityFields...), cols)

	require.Equal(t, []string{"amount"}, columns([]transactions.Record{{"amount": 1.0}}))
	require.Empty(t, columns(nil))
}

func TestWriteTSV(t *testing.T) {
	var buf bytes.Buffer
	err := writeTSV(&buf, []transactions.Record{
		{"amount": 1000.0, "recipient": "DeSantis, Ron", "type": nil},
		{"amount": 2.5, "recipient": "Friends\tof Ron", "type": "CHE"},
	})
	require.NoError(t, err)
	require.Equal(t,
		"amount\trecipient\ttype\n"+
			"1000.00\tDeSantis, Ron\t\n"+
			"2.50\t\"Friends\tof Ron\"\tCHE\n",
		buf.String())
}

func TestFormatValue(t *testing.T) {
	require.Equal(t, "", formatValue(nil))
	require.Equal(t, "x", formatValue("x"))
	require.Equal(t, "0.10", formatValue(0.1))
	require.Equal(t, "3", formatValue(3))
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.json5")

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	require.Equal(t, defaultConfig(), cfg)

	err = os.WriteFile(path, []byte(`{
		// narrower roster
		roster: { elections: ["20241105-GEN"], candidate_type: "Local Candidates" },
		match: { cache_ttl_seconds: 60 },
		portal: { requests_per_second: 0.5 },
	}`), 0o644)
	require.NoError(t, err)

	cfg, err = loadConfig(path)
	require.NoError(t, err)
	require.Equal(t, []string{"20241105-GEN"}, cfg.Roster.Elections)
	require.Equal(t, portal.LocalCandidates, cfg.Roster.query().CandidateType)
	require.Equal(t, "All", cfg.Roster.query().Office)
	require.Equal(t, time.Minute, cfg.Match.cacheTTL())
	require.False(t, cfg.Match.DisableOnlineFallback)

	opts := cfg.Portal.options()
	require.Equal(t, portal.DefaultBaseURL, opts.BaseURL)
	require.Equal(t, 0.5, opts.RequestsPerSecond)
	require.Equal(t, 30*time.Second, opts.Timeout)
	require.Equal(t, time.Minute, opts.DownloadTimeout)
}

func TestLoadMatchers(t *testing.T) {
	const baseUrl = "https://portal.test"

	cfg := defaultConfig()
	cfg.Portal.BaseURL = baseUrl
	cfg.Portal.RequestsPerSecond = 100
	cfg.Roster.Elections = []string{"20241105-GEN"}

	tel := &telemetry.MemoryAPI{}
	client, err := portal.NewClient(cfg.Portal.options(), tel)
	require.NoError(t, err)
	httpmock.ActivateNonDefault(client.Resty().GetClient())
	t.Cleanup(httpmock.DeactivateAndReset)

	httpmock.RegisterResponder(http.MethodPost, baseUrl+"/candidates/extractCanList.asp",
		httpmock.NewStringResponder(http.StatusOK, "AcctNum\tNameLast\tNameFirst\n1\tDeSantis\tRon\n2\tCrist\tCharlie\n"))
	httpmock.RegisterResponder(http.MethodPost, baseUrl+"/committees/extractComList.asp",
		httpmock.NewStringResponder(http.StatusInternalServerError, "down"))

	e := &env{cfg: cfg, tel: tel, client: client}

	m, err := loadMatchers(context.Background(), e, nil, false)
	require.NoError(t, err)
	require.Nil(t, m.committees)
	require.Equal(t, 2, m.candidates.Index().Len())
	counts := tel.Find(telemetry.KindCount, report_load_candidates)
	require.Len(t, counts, 1)
	require.Equal(t, int64(2), counts[0].Count)

	m, err = loadMatchers(context.Background(), e, nil, true)
	require.NoError(t, err)
	require.NotNil(t, m.committees)
	require.Zero(t, m.committees.Index().Len())
	require.Len(t, tel.Find(telemetry.KindWarning, report_load_committees), 1)
	require.Empty(t, tel.Find(telemetry.KindCount, report_load_committees))

	httpmock.RegisterResponder(http.MethodPost, baseUrl+"/candidates/extractCanList.asp",
		httpmock.NewStringResponder(http.StatusOK, "AcctNum\tNameLast\tNameFirst\n"))
	_, err = loadMatchers(context.Background(), e, nil, false)
	require.ErrorIs(t, err, enrich.ErrNoCandidates)
}
