// Package publisher synchronizes event snapshots to Google Sheets.
//
// The Sheets publisher authenticates with a service-account key, clears
// every data row below the header, and rewrites the sheet from the
// snapshot, so re-publishing the same snapshot leaves the sheet in the
// same state. A dry-run publisher prints the would-be rows instead.
package publisher
