package fortran

import (
	"math"
	"strconv"
	"strings"
)

// Value is one typed field of a record.
//
// Values produced by Decode remember the columns they were read from; values
// built with Int, Float or Text do not and are formatted on encode. The zero
// Value is blank.
type Value struct {
	kind  Kind
	i     int64
	f     float64
	s     string
	blank bool
	raw   string
	read  bool
}

// Int returns an integer value.
func Int(v int64) Value { return Value{kind: KindInteger, i: v} }

// Float returns a floating-point value.
func Float(v float64) Value { return Value{kind: KindFloat, f: v} }

// Text returns a text value.
func Text(s string) Value { return Value{kind: KindText, s: s} }

// Blank returns a value that encodes as an all-blank field.
func Blank() Value { return Value{blank: true} }

// Kind reports the value's kind. Blank values report zero.
func (v Value) Kind() Kind {
	if v.blank {
		return 0
	}
	return v.kind
}

// IsBlank reports whether the value is an all-blank field.
func (v Value) IsBlank() bool { return v.blank || v.kind == 0 }

// Int returns the integer held by v. ok is false for non-integer values.
func (v Value) Int() (int64, bool) {
	if v.IsBlank() || v.kind != KindInteger {
		return 0, false
	}
	return v.i, true
}

// Float returns the numeric value of v, widening integers.
func (v Value) Float() (float64, bool) {
	if v.IsBlank() {
		return 0, false
	}
	switch v.kind {
	case KindFloat:
		return v.f, true
	case KindInteger:
		return float64(v.i), true
	default:
		return 0, false
	}
}

// Text returns the text of a text value with surrounding blanks removed.
func (v Value) Text() string {
	if v.kind != KindText {
		return ""
	}
	return strings.TrimSpace(v.s)
}

// Raw returns the source columns of a decoded value.
func (v Value) Raw() (string, bool) { return v.raw, v.read }

// String renders v for logs and listings.
func (v Value) String() string {
	if v.IsBlank() {
		return ""
	}
	switch v.kind {
	case KindInteger:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	default:
		return v.Text()
	}
}

// Equal reports whether v and o hold the same value, ignoring source text.
func (v Value) Equal(o Value) bool {
	if v.IsBlank() || o.IsBlank() {
		return v.IsBlank() && o.IsBlank()
	}
	switch {
	case v.kind == KindText || o.kind == KindText:
		return v.kind == o.kind && v.Text() == o.Text()
	case v.kind == KindInteger && o.kind == KindInteger:
		return v.i == o.i
	default:
		a, _ := v.Float()
		b, _ := o.Float()
		return a == b
	}
}

func readValue(d Descriptor, field int, text string) (Value, error) {
	trimmed := strings.TrimSpace(text)
	switch d.Kind {
	case KindText:
		return Value{kind: KindText, s: text, raw: text, read: true}, nil
	case KindInteger:
		if trimmed == "" {
			return Value{kind: KindInteger, blank: true, raw: text, read: true}, nil
		}
		n, err := strconv.ParseInt(trimmed, 10, 64)
		if err != nil {
			return Value{}, &FieldFormatError{Field: field, Text: text, Kind: d.Kind}
		}
		return Value{kind: KindInteger, i: n, raw: text, read: true}, nil
	case KindFloat:
		if trimmed == "" {
			return Value{kind: KindFloat, blank: true, raw: text, read: true}, nil
		}
		f, ok := readFloat(trimmed, d.Decimals)
		if !ok {
			return Value{}, &FieldFormatError{Field: field, Text: text, Kind: d.Kind}
		}
		return Value{kind: KindFloat, f: f, raw: text, read: true}, nil
	default:
		return Value{}, &FieldFormatError{Field: field, Text: text, Kind: d.Kind, Reason: "skip slot carries no value"}
	}
}

// readFloat parses Fortran F input: an optional sign, digits with an optional
// decimal point, and an optional E or D exponent. Without a decimal point the
// last decimals digits of the mantissa are the fraction.
func readFloat(s string, decimals int) (float64, bool) {
	mantissa, exponent := s, 0
	if i := strings.IndexAny(s, "EeDd"); i >= 0 {
		mantissa = s[:i]
		exp, err := strconv.Atoi(s[i+1:])
		if err != nil {
			return 0, false
		}
		exponent = exp
	}
	digits := strings.TrimLeft(mantissa, "+-")
	if len(mantissa)-len(digits) > 1 || digits == "" || digits == "." {
		return 0, false
	}
	for i := 0; i < len(digits); i++ {
		c := digits[i]
		if (c < '0' || c > '9') && c != '.' {
			return 0, false
		}
	}
	if strings.Count(digits, ".") > 1 {
		return 0, false
	}
	if !strings.Contains(digits, ".") {
		exponent -= decimals
	}
	f, err := strconv.ParseFloat(mantissa+"e"+strconv.Itoa(exponent), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func writeValue(d Descriptor, field int, v Value) (string, error) {
	if raw, ok := v.Raw(); ok && len(raw) == d.Width {
		return raw, nil
	}
	if v.IsBlank() {
		return strings.Repeat(" ", d.Width), nil
	}

	var out string
	switch d.Kind {
	case KindInteger:
		n, ok := v.Int()
		if !ok {
			f, isNum := v.Float()
			if !isNum || f != math.Trunc(f) || math.Abs(f) > math.MaxInt64 {
				return "", &FieldFormatError{Field: field, Kind: d.Kind, Reason: "value " + v.String() + " is not an integer"}
			}
			n = int64(f)
		}
		out = strconv.FormatInt(n, 10)
	case KindFloat:
		f, ok := v.Float()
		if !ok {
			return "", &FieldFormatError{Field: field, Kind: d.Kind, Reason: "value " + strconv.Quote(v.Text()) + " is not numeric"}
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return "", &FieldFormatError{Field: field, Kind: d.Kind, Reason: "value " + v.String() + " is not finite"}
		}
		out = formatFixed(f, d.Width, d.Decimals)
	case KindText:
		if v.kind != KindText {
			return "", &FieldFormatError{Field: field, Kind: d.Kind, Reason: "value " + v.String() + " is not text"}
		}
		out = v.s
	default:
		return strings.Repeat(" ", d.Width), nil
	}

	if len(out) > d.Width {
		return "", &FieldOverflowError{Field: field, Value: v.String(), Width: d.Width}
	}
	return strings.Repeat(" ", d.Width-len(out)) + out, nil
}

// formatFixed renders f with decimals fraction digits, rounding halves away
// from zero. The decimal point is always written, so F3.0 gives "3.". The
// optional leading zero is dropped when the result would not otherwise fit
// width.
func formatFixed(f float64, width, decimals int) string {
	if scaled := f * math.Pow10(decimals); math.Abs(scaled) < 1<<53 {
		f = math.Round(scaled) / math.Pow10(decimals)
	}
	out := strconv.FormatFloat(f, 'f', decimals, 64)
	if decimals == 0 {
		out += "."
	}
	if strings.Trim(out, "-0.") == "" {
		out = strings.TrimPrefix(out, "-")
	}
	if len(out) <= width {
		return out
	}
	switch {
	case strings.HasPrefix(out, "0.") && decimals > 0:
		return out[1:]
	case strings.HasPrefix(out, "-0.") && decimals > 0:
		return "-" + out[2:]
	}
	return out
}
