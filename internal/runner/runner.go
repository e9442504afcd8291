package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/groundworkusa/trust-events/internal/event"
	"github.com/groundworkusa/trust-events/internal/gitrepo"
	"github.com/groundworkusa/trust-events/internal/logger"
	"github.com/groundworkusa/trust-events/internal/publisher"
	"github.com/groundworkusa/trust-events/internal/storage"
)

// Scraper produces the current set of events across all trust sites.
type Scraper interface {
	Scrape(ctx context.Context) ([]*event.Event, error)
}

// Committer records the results directory into version control. It returns
// gitrepo.ErrNoChanges when the working tree is already clean.
type Committer interface {
	CommitResults(ctx context.Context, runDate string) (string, error)
}

// Options configures a Runner. Publisher and Committer may be nil, in which
// case the corresponding stage is skipped.
type Options struct {
	Scraper   Scraper
	Store     *storage.Store
	Publisher publisher.Publisher
	Committer Committer
	LockFile  string
	LockTTL   time.Duration
	Now       func() time.Time
}

// Result summarizes a completed run.
type Result struct {
	RunID        string
	SnapshotPath string
	EventCount   int
	NewEvents    int
	Changed      bool
	Published    bool
	Committed    bool
	CommitHash   string
}

// Runner drives the full pipeline: scrape, store, publish, commit.
type Runner struct {
	opts Options
}

// New returns a Runner. Scraper and Store are required.
func New(opts Options) (*Runner, error) {
	if opts.Scraper == nil {
		return nil, fmt.Errorf("runner: scraper is required")
	}
	if opts.Store == nil {
		return nil, fmt.Errorf("runner: store is required")
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Runner{opts: opts}, nil
}

// Run executes one pipeline pass. Later stages never execute when an earlier
// stage fails, so a broken scrape cannot publish and a failed publish cannot
// commit. When the scraped data matches the previous snapshot the new files
// are discarded and the commit stage is skipped.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	runID := uuid.NewString()
	log := logger.Fields{"run_id": runID}

	if r.opts.LockFile != "" {
		lock, err := AcquireLock(r.opts.LockFile, r.opts.LockTTL, runID)
		if err != nil {
			return nil, err
		}
		defer func() {
			if err := lock.Release(); err != nil {
				logger.Error("Failed to release run lock", log, err)
			}
		}()
	}

	previous, err := r.opts.Store.LoadLatest()
	if err != nil {
		logger.Warn("Could not load previous snapshot, treating run as first",
			logger.Fields{"run_id": runID, "error": err.Error()})
		previous = nil
	}

	logger.Info("Starting scrape", log)
	events, err := r.opts.Scraper.Scrape(ctx)
	if err != nil {
		return nil, fmt.Errorf("scrape stage: %w", err)
	}

	now := r.opts.Now()
	snap := event.NewSnapshot(events, now.Format("2006-01-02 15:04:05"))
	path, err := r.opts.Store.WriteSnapshot(snap, now)
	if err != nil {
		return nil, fmt.Errorf("store stage: %w", err)
	}

	result := &Result{
		RunID:        runID,
		SnapshotPath: path,
		EventCount:   len(snap.Events),
		NewEvents:    len(event.Diff(previous, snap)),
		Changed:      !snap.Equal(previous),
	}

	if r.opts.Publisher != nil {
		if err := r.opts.Publisher.Publish(ctx, snap); err != nil {
			return nil, fmt.Errorf("publish stage: %w", err)
		}
		result.Published = true
	}

	if !result.Changed {
		logger.Info("Snapshot unchanged, discarding and skipping commit",
			logger.Fields{"run_id": runID, "events": result.EventCount})
		if err := r.opts.Store.RemoveSnapshot(path); err != nil {
			logger.Warn("Could not discard unchanged snapshot",
				logger.Fields{"run_id": runID, "error": err.Error()})
		}
		result.SnapshotPath = ""
		return result, nil
	}

	if r.opts.Committer != nil {
		hash, err := r.opts.Committer.CommitResults(ctx, now.Format("2006-01-02"))
		switch {
		case errors.Is(err, gitrepo.ErrNoChanges):
			logger.Info("Working tree already clean, nothing to commit", log)
		case err != nil:
			return nil, fmt.Errorf("commit stage: %w", err)
		default:
			result.Committed = true
			result.CommitHash = hash
		}
	}

	logger.Info("Run complete", logger.Fields{
		"run_id":     runID,
		"events":     result.EventCount,
		"new_events": result.NewEvents,
		"committed":  result.Committed,
	})
	return result, nil
}
