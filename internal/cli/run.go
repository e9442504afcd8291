package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/groundworkusa/trust-events/internal/config"
	"github.com/groundworkusa/trust-events/internal/gitrepo"
	"github.com/groundworkusa/trust-events/internal/publisher"
	"github.com/groundworkusa/trust-events/internal/runner"
	"github.com/groundworkusa/trust-events/internal/scraper"
	"github.com/groundworkusa/trust-events/internal/storage"
)

// buildPublisher returns the sheet publisher, or a dry-run printer when
// --dry-run is set. Credentials are only required for the real publisher.
func buildPublisher(cmd *cobra.Command, cfg *config.Config) (publisher.Publisher, error) {
	if flagDryRun {
		return publisher.NewDryRun(cmd.OutOrStdout()), nil
	}
	if err := cfg.RequirePublisher(); err != nil {
		return nil, err
	}
	pub, err := publisher.NewSheets(cmd.Context(), cfg.CredentialsJSON, cfg.SheetID)
	if err != nil {
		return nil, fmt.Errorf("initializing sheet publisher: %w", err)
	}
	return pub, nil
}

// runPipeline executes the full scrape, publish, commit sequence under the
// run lock.
func runPipeline(cmd *cobra.Command, args []string) error {
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
	pub, err := buildPublisher(cmd, cfg)
	if err != nil {
		return err
	}

	sc := scraper.New(registry, scraper.Options{
		Timeout:  cfg.RequestTimeout,
		MaxDepth: cfg.MaxDepth,
		MaxPages: cfg.MaxPagesPerSite,
		Delay:    cfg.CrawlDelay,
	})
	committer := gitrepo.New(cfg.RepoDir, cfg.ResultsDir, cfg.GitToken, cfg.Push)

	r, err := runner.New(runner.Options{
		Scraper:   sc,
		Store:     store,
		Publisher: pub,
		Committer: committer,
		LockFile:  cfg.LockFile,
		LockTTL:   cfg.LockTTL,
	})
	if err != nil {
		return err
	}

	result, err := r.Run(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run %s complete: %d events, %d new.\n",
		result.RunID, result.EventCount, result.NewEvents)
	if result.Committed {
		fmt.Fprintf(out, "Committed %s\n", result.CommitHash)
	} else if !result.Changed {
		fmt.Fprintln(out, "No changes since last run.")
	}

	if result.NewEvents > 0 {
		os.Exit(ExitNewEvents)
	}
	return nil
}
