package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Defaults for settings not supplied through the environment.
const (
	DefaultResultsDir     = "scraper_results"
	DefaultMaxDepth       = 2
	DefaultMaxPagesPerSite = 100
	DefaultRequestTimeout = 15 * time.Second
	DefaultCrawlDelay     = time.Second
	DefaultLockTTL        = 30 * time.Minute
	DefaultLockFile       = ".trust-events.lock"
)

// Config carries every setting the pipeline needs. It is built once (from
// the environment plus flags) and passed into constructors explicitly, so
// no component reads the environment on its own.
type Config struct {
	// Scraper
	ResultsDir      string
	TrustsFile      string // optional YAML override of the builtin registry
	MaxDepth        int
	MaxPagesPerSite int
	RequestTimeout  time.Duration
	CrawlDelay      time.Duration

	// Sheet publisher
	CredentialsJSON []byte // service-account key, from GOOGLE_CREDENTIALS
	SheetID         string // from GOOGLE_SHEET_ID

	// Commit stage
	RepoDir  string
	GitToken string // optional, for HTTPS push auth
	Push     bool

	// Runner
	LockFile string
	LockTTL  time.Duration
}

// FromEnv builds a Config from environment variables, applying defaults for
// anything unset. Secrets (GOOGLE_CREDENTIALS, GOOGLE_SHEET_ID, GIT_TOKEN)
// are read here and nowhere else.
func FromEnv() (*Config, error) {
	cfg := &Config{
		ResultsDir:      envOr("RESULTS_DIR", DefaultResultsDir),
		TrustsFile:      os.Getenv("TRUSTS_FILE"),
		MaxDepth:        DefaultMaxDepth,
		MaxPagesPerSite: DefaultMaxPagesPerSite,
		RequestTimeout:  DefaultRequestTimeout,
		CrawlDelay:      DefaultCrawlDelay,
		CredentialsJSON: []byte(os.Getenv("GOOGLE_CREDENTIALS")),
		SheetID:         os.Getenv("GOOGLE_SHEET_ID"),
		RepoDir:         envOr("REPO_DIR", "."),
		GitToken:        os.Getenv("GIT_TOKEN"),
		Push:            true,
		LockFile:        envOr("LOCK_FILE", DefaultLockFile),
		LockTTL:         DefaultLockTTL,
	}

	if v := os.Getenv("SCRAPE_MAX_DEPTH"); v != "" {
		depth, err := strconv.Atoi(v)
		if err != nil || depth < 1 {
			return nil, fmt.Errorf("invalid SCRAPE_MAX_DEPTH %q", v)
		}
		cfg.MaxDepth = depth
	}

	if v := os.Getenv("SCRAPE_DELAY"); v != "" {
		delay, err := time.ParseDuration(v)
		if err != nil || delay < 0 {
			return nil, fmt.Errorf("invalid SCRAPE_DELAY %q", v)
		}
		cfg.CrawlDelay = delay
	}

	if v := os.Getenv("GIT_PUSH"); v != "" {
		push, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid GIT_PUSH %q", v)
		}
		cfg.Push = push
	}

	return cfg, nil
}

// RequirePublisher verifies the settings the sheet publisher cannot run
// without. Called only by commands that actually publish, so scrape-only
// runs do not need credentials.
func (c *Config) RequirePublisher() error {
	if len(c.CredentialsJSON) == 0 {
		return fmt.Errorf("GOOGLE_CREDENTIALS is not set")
	}
	if c.SheetID == "" {
		return fmt.Errorf("GOOGLE_SHEET_ID is not set")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
