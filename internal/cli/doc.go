// Package cli implements the command-line interface for kremlin-meetings.
//
// The root command loads the configuration (embedded defaults, optional YAML
// file, .env and environment overrides, then flags), opens the log file, and
// runs the scrape pipeline: listing pages are fetched and parsed until the
// range boundary, an empty page, the page limit or a fetch failure, and the
// collected meetings are written to the output file. A report with a table
// of the meetings (text) or the run summary (JSON) goes to stdout.
//
// Exit status is 0 whenever the output file was written, including runs that
// stopped early on a fetch error, and 1 when configuration, logging or
// writing fails.
package cli
