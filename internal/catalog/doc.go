// Package catalog persists spectrum summaries in SQLite so scans can be
// queried without re-parsing every file.
//
// Each scan run is recorded with a UUID; each spectrum file has one row
// keyed by path holding its checksum, status, and the statistics derived
// from its table, plus one row per fitted species. Species are stored
// case-folded for lookup.
package catalog
