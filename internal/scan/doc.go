// Package scan indexes a spectrum directory into the catalog.
//
// A scan discovers matching files, hashes them, re-parses only the files
// whose contents changed since the catalog last saw them (or every file
// when forced), and records one catalog row per file. Files that fail to
// parse are recorded as invalid or failed rather than aborting the scan.
package scan
