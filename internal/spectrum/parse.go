package spectrum

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Positions of the solar zenith angle and observer altitude on the
// parameter line, counted from zero.
const (
	szaToken  = 4
	zobsToken = 5
)

const maxLineBytes = 1 << 20

// ParseFile reads and parses the spectrum file at path.
func ParseFile(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return Parse(file)
}

// Parse reads a whole spectrum file. Blank data lines are skipped.
func Parse(r io.Reader) (*Table, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var preamble [3]string
	line := 0
	for line < len(preamble) && scanner.Scan() {
		preamble[line] = scanner.Text()
		line++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read spectrum: %w", err)
	}
	if line < len(preamble) {
		return nil, &PreambleError{Line: line + 1, Reason: fmt.Sprintf("file ends after %d lines", line)}
	}

	t := &Table{
		Identifier: strings.TrimSpace(preamble[0]),
		Params:     strings.Fields(preamble[1]),
		Header:     strings.Fields(preamble[2]),
	}
	if err := t.readParams(); err != nil {
		return nil, err
	}
	if err := checkHeader(t.Header); err != nil {
		return nil, err
	}

	rows := make([][]float64, len(t.Header))
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) != len(t.Header) {
			return nil, &RowWidthError{Line: line, Want: len(t.Header), Got: len(fields)}
		}
		for j, token := range fields {
			v, err := parseNumber(token)
			if err != nil {
				return nil, &NumericParseError{Line: line, Column: t.Header[j], Token: token}
			}
			rows[j] = append(rows[j], v)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read spectrum: line %d: %w", line+1, err)
	}

	t.Columns = make(map[string][]float64, len(t.Header))
	for j, name := range t.Header {
		if rows[j] == nil {
			rows[j] = []float64{}
		}
		t.Columns[name] = rows[j]
	}
	t.Resid, t.RMSResid = residuals(t.Columns[ColumnTm], t.Columns[ColumnTc])
	return t, nil
}

func (t *Table) readParams() error {
	if len(t.Params) <= zobsToken {
		return &PreambleError{Line: 2, Reason: fmt.Sprintf("parameter line has %d values, need at least %d", len(t.Params), zobsToken+1)}
	}
	sza, err := parseNumber(t.Params[szaToken])
	if err != nil {
		return &PreambleError{Line: 2, Reason: fmt.Sprintf("solar zenith angle %q is not a number", t.Params[szaToken])}
	}
	zobs, err := parseNumber(t.Params[zobsToken])
	if err != nil {
		return &PreambleError{Line: 2, Reason: fmt.Sprintf("observer altitude %q is not a number", t.Params[zobsToken])}
	}
	t.SZA, t.Zobs = sza, zobs
	return nil
}

func checkHeader(header []string) error {
	if len(header) == 0 {
		return &PreambleError{Line: 3, Reason: "empty header"}
	}
	seen := make(map[string]struct{}, len(header))
	for _, name := range header {
		if _, dup := seen[name]; dup {
			return &PreambleError{Line: 3, Reason: fmt.Sprintf("column %q repeated", name)}
		}
		seen[name] = struct{}{}
	}
	for _, required := range []string{ColumnTm, ColumnTc} {
		if _, ok := seen[required]; !ok {
			return &MissingColumnError{Name: required}
		}
	}
	return nil
}

// parseNumber accepts Go float syntax plus the Fortran D exponent.
func parseNumber(token string) (float64, error) {
	v, err := strconv.ParseFloat(token, 64)
	if err == nil {
		return v, nil
	}
	if i := strings.IndexAny(token, "dD"); i > 0 {
		return strconv.ParseFloat(token[:i]+"e"+token[i+1:], 64)
	}
	return 0, err
}
