// Package datasource reads the static CSV snapshots the dashboard is built
// from. A Source opens a named resource (over HTTP or from a directory) and a
// Fetcher parses it into a Document with tracing, metrics and logging.
//
// Fetches are never cached. Two calls for the same resource read it twice.
package datasource
