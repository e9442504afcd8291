// Package storage persists event snapshots in the results directory.
//
// Each scraper run produces a pair of timestamped files,
// events_findings_YYYYMMDD_HHMMSS.json and .csv. The JSON file is the
// canonical snapshot consumed by the publisher and the change check; the
// CSV twin mirrors the published spreadsheet's column layout for anyone
// browsing the repository directly.
package storage
