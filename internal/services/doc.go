// Package services defines shared utilities consumed by the runlog and
// spectrum pipelines and the CLI.
//
// Key responsibilities:
//   - Context helpers that stamp run identifiers, pipeline stages, and file
//     paths for logging.
//   - Structured error markers plus the Wrap helper that translate failures
//     into consistent catalog statuses (invalid vs failed).
//
// Use these helpers when wiring new pipeline logic so operational behaviour
// (error classification, observability) stays uniform across commands.
package services
