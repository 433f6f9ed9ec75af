// Package spectrum parses GFIT spectrum (.spt) files into a column table and
// derives the fit residual series and its RMS.
//
// A spectrum file has a three-line preamble (identifier, scalar parameters,
// column names) followed by whitespace-separated numeric rows. ParseMany
// and ParseEach parse many files concurrently; each file's parse shares no
// state with any other.
package spectrum
