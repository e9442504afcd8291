// Package event provides types and functions for managing Groundwork Trust events.
//
// The event package handles event representation, identification, and change
// detection through snapshot comparison. Each event is assigned a deterministic
// SHA1-based ID generated from its title, date, and source page, enabling
// reliable deduplication within a run and change detection across runs.
package event
