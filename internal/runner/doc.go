// Package runner orchestrates a full pipeline pass: scraping every trust
// site, writing a timestamped snapshot, publishing to the spreadsheet, and
// committing the results directory when the data changed. A file-based lease
// lock prevents overlapping runs.
package runner
