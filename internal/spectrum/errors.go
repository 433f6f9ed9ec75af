package spectrum

import "fmt"

// MissingColumnError reports a required column absent from the header.
type MissingColumnError struct {
	Name string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("missing column %q", e.Name)
}

// RowWidthError reports a data row whose token count differs from the header.
type RowWidthError struct {
	Line int
	Want int
	Got  int
}

func (e *RowWidthError) Error() string {
	return fmt.Sprintf("line %d: row has %d values, header has %d columns", e.Line, e.Got, e.Want)
}

// NumericParseError reports a token that is not a floating-point literal.
type NumericParseError struct {
	Line   int
	Column string
	Token  string
}

func (e *NumericParseError) Error() string {
	return fmt.Sprintf("line %d: column %s: %q is not a number", e.Line, e.Column, e.Token)
}

// PreambleError reports a malformed identifier, parameter, or header line.
type PreambleError struct {
	Line   int
	Reason string
}

func (e *PreambleError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}
