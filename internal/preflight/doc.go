// Package preflight provides readiness checks for the filesystem paths that
// gggkit reads and writes.
//
// These checks run in two contexts:
//   - The runlog rewrite calls CheckFileReadable and CheckOutputWritable before
//     parsing, so permission problems surface before any work is done.
//   - The CLI "gggkit config validate" command calls RunAll to report the
//     health of every configured directory.
//
// Unset paths are skipped.
package preflight
