package fortran

import (
	"fmt"
	"strings"
)

// Record is one line decoded against a Format: a value per value slot plus
// the text found under each skip slot.
type Record struct {
	values []Value
	skips  []string
}

// Len returns the number of values in the record.
func (r Record) Len() int { return len(r.values) }

// Value returns the i-th value.
func (r Record) Value(i int) Value { return r.values[i] }

// Values returns a copy of the record's values.
func (r Record) Values() []Value {
	out := make([]Value, len(r.values))
	copy(out, r.values)
	return out
}

// Clone returns a copy of r that shares no storage with it.
func (r Record) Clone() Record {
	return Record{
		values: append([]Value(nil), r.values...),
		skips:  append([]string(nil), r.skips...),
	}
}

// Set replaces the i-th value. The replacement is formatted on encode.
func (r *Record) Set(i int, v Value) {
	v.raw, v.read = "", false
	r.values[i] = v
}

// NewRecord returns a record of blank values with blank skip columns.
func (f Format) NewRecord() Record {
	rec := Record{values: make([]Value, len(f.fields))}
	for i := range rec.values {
		rec.values[i] = Blank()
	}
	for _, slot := range f.slots {
		if slot.Kind == KindSkip {
			rec.skips = append(rec.skips, strings.Repeat(" ", slot.Width))
		}
	}
	return rec
}

// Decode reads line, without its terminator, slot by slot. Trailing skip
// columns may be absent; every value column must be present.
func (f Format) Decode(line string) (Record, error) {
	line = strings.TrimRight(line, "\r\n")
	if len(line) > f.width || len(line) < f.valueEnd() {
		return Record{}, &RecordLengthError{Want: f.width, Got: len(line)}
	}

	rec := Record{values: make([]Value, 0, len(f.fields))}
	for i, slot := range f.slots {
		start := f.offsets[i]
		end := min(start+slot.Width, len(line))
		if slot.Kind == KindSkip {
			text := ""
			if start < len(line) {
				text = line[start:end]
			}
			rec.skips = append(rec.skips, text)
			continue
		}
		v, err := readValue(slot, len(rec.values), line[start:end])
		if err != nil {
			return Record{}, err
		}
		rec.values = append(rec.values, v)
	}
	return rec, nil
}

// Encode writes rec as a single line without a terminator.
func (f Format) Encode(rec Record) (string, error) {
	if len(rec.values) != len(f.fields) {
		return "", fmt.Errorf("record has %d values, format expects %d", len(rec.values), len(f.fields))
	}
	var b strings.Builder
	b.Grow(f.width)
	field, skip := 0, 0
	for _, slot := range f.slots {
		if slot.Kind == KindSkip {
			text := strings.Repeat(" ", slot.Width)
			if skip < len(rec.skips) {
				text = rec.skips[skip]
			}
			b.WriteString(text)
			skip++
			continue
		}
		out, err := writeValue(slot, field, rec.values[field])
		if err != nil {
			return "", err
		}
		b.WriteString(out)
		field++
	}
	return b.String(), nil
}
