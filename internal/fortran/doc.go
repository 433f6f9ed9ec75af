// Package fortran compiles Fortran edit-descriptor format strings and reads
// and writes fixed-width records with them.
//
// A format such as "(a1,a57,1x,2i4,f8.4,3(1x,f5.4))" is parsed once into a
// Format: an expanded, ordered list of single-occurrence slots (I integer,
// F fixed-point float, A text, X skip). Format.Decode turns one text line
// into a Record of typed Values, one per non-skip slot, and Format.Encode
// turns a Record back into exactly one line.
//
// Decoded values keep the text they were read from. Encoding a value that was
// never replaced re-emits that text, so Encode(Decode(line)) == line holds
// for every line that decodes, regardless of how the producing program chose
// to pad or round. Only values set through Record.Set are formatted, using the
// Fortran output conventions (right-justified numbers and text, leading zero
// dropped from floats when the width demands it). A value that cannot fit its
// slot is a FieldOverflowError; Fortran's row of asterisks is never written.
package fortran
