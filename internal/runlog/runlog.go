package runlog

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gggkit/internal/fortran"
)

// Line numbers are 1-based.
const (
	directiveLine   = 3
	headerLine      = 4
	firstRecordLine = 5
)

const directivePrefix = "format="

// Overrides maps header names to replacement values.
type Overrides map[string]fortran.Value

// Set stores v under name, replacing any existing entry whose name differs
// only in case, since header lookup folds case.
func (o Overrides) Set(name string, v fortran.Value) {
	for existing := range o {
		if existing != name && strings.EqualFold(existing, name) {
			delete(o, existing)
		}
	}
	o[name] = v
}

// Runlog is a parsed runlog held entirely in memory. Every line is kept
// with its terminator; record lines are also kept decoded.
type Runlog struct {
	lines   []string
	format  fortran.Format
	header  *HeaderIndex
	records []entry
}

type entry struct {
	index int
	rec   fortran.Record
}

// ParseFile reads and parses the runlog at path.
func ParseFile(path string) (*Runlog, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return Parse(file)
}

// Parse reads a whole runlog. Blank lines after the header pass through
// untouched; every other line there must decode against the format.
func Parse(r io.Reader) (*Runlog, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, fmt.Errorf("read runlog: %w", err)
	}

	if len(lines) < directiveLine {
		return nil, &DirectiveError{Line: directiveLine, Reason: fmt.Sprintf("file has only %d lines", len(lines))}
	}
	format, err := parseDirective(lines[directiveLine-1])
	if err != nil {
		return nil, err
	}

	if len(lines) < headerLine {
		return nil, &HeaderError{Line: headerLine, Reason: "missing header line"}
	}
	header, err := NewHeaderIndex(strings.Fields(lines[headerLine-1]), format)
	if err != nil {
		var headerErr *HeaderError
		if errors.As(err, &headerErr) {
			headerErr.Line = headerLine
		}
		return nil, err
	}

	rl := &Runlog{lines: lines, format: format, header: header}
	names := header.Names()
	for i := firstRecordLine - 1; i < len(lines); i++ {
		text := trimEOL(lines[i])
		if strings.TrimSpace(text) == "" {
			continue
		}
		rec, err := format.Decode(text)
		if err != nil {
			return nil, fortran.WithFieldNames(fortran.WithLine(err, i+1), names)
		}
		rl.records = append(rl.records, entry{index: i, rec: rec})
	}
	return rl, nil
}

func parseDirective(line string) (fortran.Format, error) {
	text := strings.TrimSpace(trimEOL(line))
	if len(text) < len(directivePrefix) || !strings.EqualFold(text[:len(directivePrefix)], directivePrefix) {
		return fortran.Format{}, &DirectiveError{Line: directiveLine, Text: text, Reason: fmt.Sprintf("expected %q", directivePrefix+"...")}
	}
	spec := strings.TrimSpace(text[len(directivePrefix):])
	format, err := fortran.ParseFormat(spec)
	if err != nil {
		return fortran.Format{}, &DirectiveError{Line: directiveLine, Text: text, Reason: "invalid descriptor", Err: err}
	}
	return format, nil
}

func readLines(r io.Reader) ([]string, error) {
	reader := bufio.NewReader(r)
	var lines []string
	for {
		line, err := reader.ReadString('\n')
		if line != "" {
			lines = append(lines, line)
		}
		if errors.Is(err, io.EOF) {
			return lines, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

func trimEOL(line string) string {
	return strings.TrimRight(line, "\r\n")
}

func lineEnding(line string) string {
	return line[len(trimEOL(line)):]
}

// Format returns the record format declared by the file.
func (rl *Runlog) Format() fortran.Format { return rl.format }

// Header returns the column index built from the header line.
func (rl *Runlog) Header() *HeaderIndex { return rl.header }

// Len returns the number of records.
func (rl *Runlog) Len() int { return len(rl.records) }

// Record returns the i-th record and its 1-based line number.
func (rl *Runlog) Record(i int) (fortran.Record, int) {
	e := rl.records[i]
	return e.rec.Clone(), e.index + 1
}

// Column returns the named column across all records.
func (rl *Runlog) Column(name string) ([]fortran.Value, error) {
	field, err := rl.header.Lookup(name)
	if err != nil {
		return nil, err
	}
	values := make([]fortran.Value, len(rl.records))
	for i, e := range rl.records {
		values[i] = e.rec.Value(field)
	}
	return values, nil
}

// Apply sets every overridden field in every record and re-encodes the
// affected lines. On error the runlog is left as it was.
func (rl *Runlog) Apply(ov Overrides) error {
	bindings, err := rl.header.Resolve(ov)
	if err != nil {
		return err
	}
	if len(bindings) == 0 {
		return nil
	}

	names := rl.header.Names()
	lines := append([]string(nil), rl.lines...)
	records := make([]entry, len(rl.records))
	for i, e := range rl.records {
		rec := e.rec.Clone()
		for _, b := range bindings {
			rec.Set(b.Field, b.Value)
		}
		text, err := rl.format.Encode(rec)
		if err != nil {
			return fortran.WithFieldNames(fortran.WithLine(err, e.index+1), names)
		}
		lines[e.index] = text + lineEnding(rl.lines[e.index])
		records[i] = entry{index: e.index, rec: rec}
	}

	rl.lines = lines
	rl.records = records
	return nil
}

// Bytes returns the file contents.
func (rl *Runlog) Bytes() []byte {
	var b strings.Builder
	for _, line := range rl.lines {
		b.WriteString(line)
	}
	return []byte(b.String())
}

// WriteTo writes the file contents to w.
func (rl *Runlog) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(rl.Bytes())
	return int64(n), err
}
