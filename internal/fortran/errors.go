package fortran

import (
	"errors"
	"fmt"
)

// FormatSyntaxError reports a malformed edit-descriptor string.
type FormatSyntaxError struct {
	Spec   string
	Pos    int
	Reason string
}

func (e *FormatSyntaxError) Error() string {
	return fmt.Sprintf("format %q: column %d: %s", e.Spec, e.Pos+1, e.Reason)
}

// RecordLengthError reports a line whose length does not cover the format.
type RecordLengthError struct {
	Line int
	Want int
	Got  int
}

func (e *RecordLengthError) Error() string {
	return fmt.Sprintf("%srecord has %d columns, format expects %d", linePrefix(e.Line), e.Got, e.Want)
}

// FieldFormatError reports a field whose text or value does not match the
// kind declared by its slot.
type FieldFormatError struct {
	Line   int
	Field  int
	Name   string
	Text   string
	Kind   Kind
	Reason string
}

func (e *FieldFormatError) Error() string {
	reason := e.Reason
	if reason == "" {
		reason = fmt.Sprintf("cannot read %q as %s", e.Text, e.Kind)
	}
	return fmt.Sprintf("%s%s: %s", linePrefix(e.Line), fieldLabel(e.Field, e.Name), reason)
}

// FieldOverflowError reports a value too wide for its slot.
type FieldOverflowError struct {
	Line  int
	Field int
	Name  string
	Value string
	Width int
}

func (e *FieldOverflowError) Error() string {
	return fmt.Sprintf("%s%s: value %s does not fit in %d columns", linePrefix(e.Line), fieldLabel(e.Field, e.Name), e.Value, e.Width)
}

// WithLine stamps a 1-based line number onto record-level errors. Other
// errors are returned unchanged.
func WithLine(err error, line int) error {
	var lengthErr *RecordLengthError
	var formatErr *FieldFormatError
	var overflowErr *FieldOverflowError
	switch {
	case errors.As(err, &lengthErr):
		lengthErr.Line = line
	case errors.As(err, &formatErr):
		formatErr.Line = line
	case errors.As(err, &overflowErr):
		overflowErr.Line = line
	}
	return err
}

// WithFieldNames fills in field names on field-level errors using names,
// which is indexed by value slot.
func WithFieldNames(err error, names []string) error {
	var formatErr *FieldFormatError
	var overflowErr *FieldOverflowError
	switch {
	case errors.As(err, &formatErr):
		formatErr.Name = nameAt(names, formatErr.Field)
	case errors.As(err, &overflowErr):
		overflowErr.Name = nameAt(names, overflowErr.Field)
	}
	return err
}

func nameAt(names []string, i int) string {
	if i < 0 || i >= len(names) {
		return ""
	}
	return names[i]
}

func linePrefix(line int) string {
	if line <= 0 {
		return ""
	}
	return fmt.Sprintf("line %d: ", line)
}

func fieldLabel(field int, name string) string {
	if name != "" {
		return fmt.Sprintf("field %d (%s)", field+1, name)
	}
	return fmt.Sprintf("field %d", field+1)
}
