// Package scraper crawls Groundwork Trust websites and extracts event listings.
//
// Each trust site is crawled breadth-first from its homepage up to a fixed
// depth, following only same-site links and skipping obvious non-content
// URLs. Pages that look like event pages (by URL pattern, title, or heading
// keywords) get a full extraction pass using three strategies: containers
// with event-flavored class/id attributes, schema.org JSON-LD structured
// data, and a heading-plus-content structural fallback. Dates, times, and
// locations are normalized out of free text with layout attempts and
// targeted regular expressions.
package scraper
