// Package runlog reads GGG runlogs and rewrites selected columns of every
// record while leaving all other characters of the file untouched.
//
// A runlog carries its own Fortran record format on line 3 ("format=...")
// and its column names on line 4; records start on line 5. Parse builds the
// format and a HeaderIndex once, Apply substitutes named values in every
// record, and Rewrite runs the whole read, apply, and atomic write pass for
// one file. SyntheticPolicy derives the override set used to turn a
// measured runlog into a synthetic one.
package runlog
