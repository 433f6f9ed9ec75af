package runlog

import "fmt"

// DirectiveError reports a missing or malformed format directive.
type DirectiveError struct {
	Line   int
	Text   string
	Reason string
	Err    error
}

func (e *DirectiveError) Error() string {
	msg := fmt.Sprintf("line %d: format directive: %s", e.Line, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DirectiveError) Unwrap() error { return e.Err }

// HeaderError reports a header line that cannot be aligned with the format.
type HeaderError struct {
	Line   int
	Reason string
}

func (e *HeaderError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: header: %s", e.Line, e.Reason)
	}
	return "header: " + e.Reason
}

// UnknownFieldError reports an override or lookup naming a column the
// header does not have.
type UnknownFieldError struct {
	Name string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("unknown field %q", e.Name)
}
