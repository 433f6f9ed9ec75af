package fortran

import (
	"fmt"
	"strconv"
)

// Kind identifies the edit descriptor of a slot.
type Kind int

const (
	KindInteger Kind = iota + 1
	KindFloat
	KindText
	KindSkip
)

func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "I"
	case KindFloat:
		return "F"
	case KindText:
		return "A"
	case KindSkip:
		return "X"
	default:
		return "?"
	}
}

// maxSlots bounds the expansion of repeat counts.
const maxSlots = 1 << 16

// Descriptor is one expanded, single-occurrence slot of a format.
type Descriptor struct {
	Kind     Kind
	Width    int
	Decimals int
}

func (d Descriptor) String() string {
	switch d.Kind {
	case KindFloat:
		return fmt.Sprintf("F%d.%d", d.Width, d.Decimals)
	case KindSkip:
		return fmt.Sprintf("%dX", d.Width)
	default:
		return fmt.Sprintf("%s%d", d.Kind, d.Width)
	}
}

// Format is a compiled edit-descriptor string. The zero value has no slots.
type Format struct {
	spec    string
	slots   []Descriptor
	offsets []int
	fields  []int
	width   int
}

// ParseFormat compiles spec into a Format. Groups and repeat counts are
// flattened so every slot is a single occurrence in declaration order.
func ParseFormat(spec string) (Format, error) {
	p := &parser{src: spec}
	if p.peek() == 0 {
		return Format{}, p.fail("empty format")
	}
	slots, err := p.list()
	if err != nil {
		return Format{}, err
	}
	if c := p.peek(); c != 0 {
		if c == ')' {
			return Format{}, p.fail("unbalanced ')'")
		}
		return Format{}, p.fail(fmt.Sprintf("unexpected %q", c))
	}
	return newFormat(spec, slots), nil
}

func newFormat(spec string, slots []Descriptor) Format {
	f := Format{
		spec:    spec,
		slots:   slots,
		offsets: make([]int, len(slots)),
	}
	for i, slot := range slots {
		f.offsets[i] = f.width
		f.width += slot.Width
		if slot.Kind != KindSkip {
			f.fields = append(f.fields, i)
		}
	}
	return f
}

// String returns the source format string.
func (f Format) String() string { return f.spec }

// Width returns the total number of columns covered by the format.
func (f Format) Width() int { return f.width }

// Fields returns the number of value (non-skip) slots.
func (f Format) Fields() int { return len(f.fields) }

// Slots returns a copy of the expanded slots, skips included.
func (f Format) Slots() []Descriptor {
	out := make([]Descriptor, len(f.slots))
	copy(out, f.slots)
	return out
}

// Field returns the descriptor of the i-th value slot.
func (f Format) Field(i int) Descriptor {
	return f.slots[f.fields[i]]
}

// FieldSpan returns the column range [start, end) of the i-th value slot.
func (f Format) FieldSpan(i int) (int, int) {
	slot := f.fields[i]
	return f.offsets[slot], f.offsets[slot] + f.slots[slot].Width
}

// valueEnd is the column just past the last value slot.
func (f Format) valueEnd() int {
	if len(f.fields) == 0 {
		return 0
	}
	_, end := f.FieldSpan(len(f.fields) - 1)
	return end
}

type parser struct {
	src string
	pos int
}

func (p *parser) fail(reason string) error {
	return &FormatSyntaxError{Spec: p.src, Pos: p.pos, Reason: reason}
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

func (p *parser) peek() byte {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

// number reads an unsigned decimal count. ok is false when no digits follow.
func (p *parser) number() (int, bool, error) {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
		p.pos++
	}
	if p.pos == start {
		return 0, false, nil
	}
	n, err := strconv.Atoi(p.src[start:p.pos])
	if err != nil || n > maxSlots {
		p.pos = start
		return 0, true, p.fail("count out of range")
	}
	return n, true, nil
}

// list parses comma-separated items up to a closing parenthesis or the end of
// input. The terminator is left for the caller.
func (p *parser) list() ([]Descriptor, error) {
	var out []Descriptor
	for {
		switch c := p.peek(); c {
		case 0, ')':
			return nil, p.fail("missing descriptor")
		}
		items, err := p.item()
		if err != nil {
			return nil, err
		}
		out = append(out, items...)
		if p.peek() != ',' {
			return out, nil
		}
		p.pos++
	}
}

func (p *parser) item() ([]Descriptor, error) {
	if c := p.peek(); c == '-' || c == '+' {
		return nil, p.fail("repeat count must be a positive integer")
	}
	countPos := p.pos
	count, hasCount, err := p.number()
	if err != nil {
		return nil, err
	}
	if hasCount && count == 0 {
		p.pos = countPos
		return nil, p.fail("repeat count must be a positive integer")
	}
	if !hasCount {
		count = 1
	}

	c := p.peek()
	switch {
	case c == '(':
		p.pos++
		inner, err := p.list()
		if err != nil {
			return nil, err
		}
		if p.peek() != ')' {
			return nil, p.fail("missing ')'")
		}
		p.pos++
		return p.repeat(inner, count)
	case c == 0:
		return nil, p.fail("missing descriptor")
	}

	tagPos := p.pos
	p.pos++
	switch upper(c) {
	case 'X':
		// nX is a skip of n columns, not n repetitions.
		return p.repeat([]Descriptor{{Kind: KindSkip, Width: count}}, 1)
	case 'I', 'A':
		kind := KindInteger
		if upper(c) == 'A' {
			kind = KindText
		}
		width, err := p.width()
		if err != nil {
			return nil, err
		}
		if p.peek() == '.' {
			return nil, p.fail(fmt.Sprintf("decimals are not allowed on %s descriptors", kind))
		}
		return p.repeat([]Descriptor{{Kind: kind, Width: width}}, count)
	case 'F':
		width, err := p.width()
		if err != nil {
			return nil, err
		}
		if p.peek() != '.' {
			return nil, p.fail("F descriptor requires .d decimals")
		}
		p.pos++
		decimals, ok, err := p.number()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, p.fail("F descriptor requires .d decimals")
		}
		if decimals > width {
			return nil, p.fail(fmt.Sprintf("%d decimals exceed field width %d", decimals, width))
		}
		return p.repeat([]Descriptor{{Kind: KindFloat, Width: width, Decimals: decimals}}, count)
	default:
		p.pos = tagPos
		return nil, p.fail(fmt.Sprintf("unknown edit descriptor %q", c))
	}
}

func (p *parser) width() (int, error) {
	width, ok, err := p.number()
	if err != nil {
		return 0, err
	}
	if !ok || width <= 0 {
		return 0, p.fail("field width must be a positive integer")
	}
	return width, nil
}

func (p *parser) repeat(items []Descriptor, count int) ([]Descriptor, error) {
	if len(items)*count > maxSlots {
		return nil, p.fail("format expands to too many slots")
	}
	out := make([]Descriptor, 0, len(items)*count)
	for i := 0; i < count; i++ {
		out = append(out, items...)
	}
	return out, nil
}

func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}
