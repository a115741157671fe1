package commands

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"sunscrape/internal/portal"
	"sunscrape/lib/configutil"
)

const defaultConfigName = "sunscrape.json5"

type PortalConfig struct {
	BaseURL                string  `json:"base_url"`
	TimeoutSeconds         int     `json:"timeout_seconds"`
	DownloadTimeoutSeconds int     `json:"download_timeout_seconds"`
	RequestsPerSecond      float64 `json:"requests_per_second"`
	UserAgent              string  `json:"user_agent"`
}

type RosterConfig struct {
	// CandidateType is "State Candidates" or "Local Candidates".
	CandidateType string `json:"candidate_type"`
	Office        string `json:"office"`
	Status        string `json:"status"`
	// Elections to load candidates from, empty loads every listed election.
	Elections []string `json:"elections"`
}

type MatchConfig struct {
	DisableOnlineFallback bool `json:"disable_online_fallback"`
	// CacheTTLSeconds of 0 keeps lookups for the whole run.
	CacheTTLSeconds int `json:"cache_ttl_seconds"`
}

type Config struct {
	Portal PortalConfig `json:"portal"`
	Roster RosterConfig `json:"roster"`
	Match  MatchConfig  `json:"match"`
}

func defaultConfig() Config {
	opts := portal.DefaultOptions()
	return Config{
		Portal: PortalConfig{
			BaseURL:                opts.BaseURL,
			TimeoutSeconds:         int(opts.Timeout / time.Second),
			DownloadTimeoutSeconds: int(opts.DownloadTimeout / time.Second),
			RequestsPerSecond:      opts.RequestsPerSecond,
			UserAgent:              opts.UserAgent,
		},
		Roster: RosterConfig{
			CandidateType: portal.StateCandidates,
			Office:        "All",
			Status:        "All",
		},
	}
}

func (c PortalConfig) options() portal.Options {
	return portal.Options{
		BaseURL:           c.BaseURL,
		Timeout:           time.Duration(c.TimeoutSeconds) * time.Second,
		DownloadTimeout:   time.Duration(c.DownloadTimeoutSeconds) * time.Second,
		RequestsPerSecond: c.RequestsPerSecond,
		UserAgent:         c.UserAgent,
	}
}

func (c RosterConfig) query() portal.CandidateQuery {
	return portal.CandidateQuery{
		Office:        c.Office,
		Status:        c.Status,
		CandidateType: c.CandidateType,
	}
}

func (c MatchConfig) cacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// loadConfig reads `path`, or searches the working directory and its parents
// for sunscrape.json5 when `path` is the bare default name. A missing file
// leaves the defaults in place.
func loadConfig(path string) (Config, error) {
	var (
		cfg Config
		err error
	)
	if path == defaultConfigName {
		cfg, err = configutil.ReadRecursively(defaultConfigName, defaultConfig())
	} else {
		cfg, err = configutil.ReadConfig(filepath.Clean(path), defaultConfig())
	}
	if errors.Is(err, os.ErrNotExist) {
		return defaultConfig(), nil
	}
	return cfg, err
}
