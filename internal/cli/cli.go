package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/groundworkusa/trust-events/internal/calendar"
	"github.com/groundworkusa/trust-events/internal/config"
	"github.com/groundworkusa/trust-events/internal/event"
	"github.com/groundworkusa/trust-events/internal/gitrepo"
	"github.com/groundworkusa/trust-events/internal/logger"
	"github.com/groundworkusa/trust-events/internal/scraper"
	"github.com/groundworkusa/trust-events/internal/storage"
	"github.com/groundworkusa/trust-events/internal/trust"
)

const (
	ExitSuccess   = 0
	ExitError     = 1
	ExitNewEvents = 2
)

var (
	flagResultsDir string
	flagTrustsFile string
	flagFormat     string
	flagSort       string
	flagICS        string
	flagVerbose    bool
	flagDryRun     bool
	flagNoPush     bool
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trust-events",
		Short: "Scrape Groundwork Trust event listings",
		Long: `Crawls every Groundwork Trust website for event listings, snapshots the
results, publishes them to a Google Sheet, and commits changed results.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if flagVerbose {
				logger.SetDefault(logger.New(logger.LevelDebug, os.Stderr))
			}
		},
	}

	// Persistent flags shared by all subcommands
	cmd.PersistentFlags().StringVar(&flagResultsDir, "results-dir", "", "Results directory (default scraper_results)")
	cmd.PersistentFlags().StringVar(&flagTrustsFile, "trusts-file", "", "YAML file overriding the builtin trust list")
	cmd.PersistentFlags().StringVar(&flagFormat, "format", "text", "Output format: text or json")
	cmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose output")

	cmd.AddCommand(newScrapeCmd())
	cmd.AddCommand(newPublishCmd())
	cmd.AddCommand(newCommitCmd())
	cmd.AddCommand(newRunCmd())

	return cmd
}

func newScrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Crawl all trust sites and write a snapshot",
		RunE:  runScrape,
	}
	cmd.Flags().StringVar(&flagSort, "sort", "date", "Sort order: date, trust, or title")
	cmd.Flags().StringVar(&flagICS, "ics", "", "Also write an iCalendar feed to this path")
	return cmd
}

func newPublishCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish the latest snapshot to the Google Sheet",
		RunE:  runPublish,
	}
	cmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Print rows instead of writing to the sheet")
	return cmd
}

func newCommitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "commit",
		Short: "Commit the results directory if it changed",
		RunE:  runCommit,
	}
	cmd.Flags().BoolVar(&flagNoPush, "no-push", false, "Commit locally without pushing")
	return cmd
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the full pipeline: scrape, publish, commit",
		RunE:  runPipeline,
	}
	cmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Print rows instead of writing to the sheet")
	cmd.Flags().BoolVar(&flagNoPush, "no-push", false, "Commit locally without pushing")
	return cmd
}

// loadConfig builds the pipeline configuration from the environment and
// applies flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return nil, err
	}
	if flagResultsDir != "" {
		cfg.ResultsDir = flagResultsDir
	}
	if flagTrustsFile != "" {
		cfg.TrustsFile = flagTrustsFile
	}
	if flagNoPush {
		cfg.Push = false
	}
	return cfg, nil
}

// loadRegistry selects the trust registry: a YAML file when configured,
// otherwise the builtin network.
func loadRegistry(cfg *config.Config) (*trust.Registry, error) {
	if cfg.TrustsFile != "" {
		return trust.LoadFile(cfg.TrustsFile)
	}
	return trust.Builtin(), nil
}

func outputFormat() (OutputFormat, error) {
	format := OutputFormat(strings.ToLower(flagFormat))
	if format != FormatText && format != FormatJSON {
		return "", fmt.Errorf("invalid format: %s (must be 'text' or 'json')", flagFormat)
	}
	return format, nil
}

// runScrape crawls every trust site, writes a snapshot, and reports the
// events found (with new events relative to the previous snapshot).
func runScrape(cmd *cobra.Command, args []string) error {
	format, err := outputFormat()
	if err != nil {
		return err
	}
	order := SortOrder(strings.ToLower(flagSort))
	if order != SortByDate && order != SortByTrust && order != SortByTitle {
		return fmt.Errorf("invalid sort order: %s (must be 'date', 'trust', or 'title')", flagSort)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	registry, err := loadRegistry(cfg)
	if err != nil {
		return err
	}
	store, err := storage.New(cfg.ResultsDir)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}

	previous, err := store.LoadLatest()
	if err != nil {
		return fmt.Errorf("loading previous snapshot: %w", err)
	}

	sc := scraper.New(registry, scraper.Options{
		Timeout:  cfg.RequestTimeout,
		MaxDepth: cfg.MaxDepth,
		MaxPages: cfg.MaxPagesPerSite,
		Delay:    cfg.CrawlDelay,
	})

	events, err := sc.Scrape(cmd.Context())
	if err != nil {
		return fmt.Errorf("scraping: %w", err)
	}

	now := time.Now()
	snap := event.NewSnapshot(events, now.Format("2006-01-02 15:04:05"))
	path, err := store.WriteSnapshot(snap, now)
	if err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}

	if flagICS != "" {
		if err := os.WriteFile(flagICS, []byte(calendar.GenerateICS(snap, now)), 0644); err != nil {
			return fmt.Errorf("writing calendar feed: %w", err)
		}
	}

	newEvents := event.Diff(previous, snap)
	shown := make([]*event.Event, len(snap.Events))
	copy(shown, snap.Events)
	sortEvents(shown, order)

	result := &OutputResult{
		CheckedAt:     now.UTC(),
		Events:        shown,
		EventCount:    len(shown),
		NewEvents:     newEvents,
		NewEventCount: len(newEvents),
		SnapshotPath:  path,
	}
	if err := WriteOutput(os.Stdout, result, format, flagVerbose); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	if len(newEvents) > 0 {
		os.Exit(ExitNewEvents)
	}
	return nil
}

// runPublish pushes the latest snapshot to the configured Google Sheet.
func runPublish(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := storage.New(cfg.ResultsDir)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}

	snap, err := store.LoadLatest()
	if err != nil {
		return fmt.Errorf("loading snapshot: %w", err)
	}
	if snap == nil {
		return fmt.Errorf("no snapshot in %s; run 'trust-events scrape' first", cfg.ResultsDir)
	}

	pub, err := buildPublisher(cmd, cfg)
	if err != nil {
		return err
	}
	if err := pub.Publish(cmd.Context(), snap); err != nil {
		return fmt.Errorf("publishing: %w", err)
	}

	if !flagDryRun {
		fmt.Fprintf(cmd.OutOrStdout(), "Published %d events to sheet.\n", len(snap.Events))
	}
	return nil
}

// runCommit records the results directory into version control.
func runCommit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	committer := gitrepo.New(cfg.RepoDir, cfg.ResultsDir, cfg.GitToken, cfg.Push)
	hash, err := committer.CommitResults(cmd.Context(), time.Now().Format("2006-01-02"))
	if errors.Is(err, gitrepo.ErrNoChanges) {
		fmt.Fprintln(cmd.OutOrStdout(), "No changes to commit.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("committing results: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Committed %s\n", hash)
	return nil
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
