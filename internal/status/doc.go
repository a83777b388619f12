// Package status stores scraper run summaries. Scrapers report the
// outcome of each run over the HTTP API, and the status page renders the
// latest run per jurisdiction so contributors can see which states need
// attention. Only run metadata is stored here, never scraped legislative
// data.
package status
