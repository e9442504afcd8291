// Package cli implements the trust-events command line interface: scrape,
// publish, commit, and the combined run pipeline. Environment variables and
// flags are resolved here and passed into components as explicit config.
package cli
