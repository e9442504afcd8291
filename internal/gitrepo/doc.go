// Package gitrepo implements the commit stage of the pipeline.
//
// After a successful scrape and publish, the committer stages exactly the
// results directory, records a commit stamped with the run date, and pushes.
// A clean results directory yields ErrNoChanges, which the runner treats as
// a successful no-op.
package gitrepo
