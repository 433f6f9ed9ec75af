package runlog

import (
	"fmt"
	"sort"
	"strings"

	"gggkit/internal/fortran"
)

// HeaderIndex maps column names to value slot positions.
type HeaderIndex struct {
	names []string
	index map[string]int
}

// Binding is an override resolved to its value slot.
type Binding struct {
	Field int
	Name  string
	Value fortran.Value
}

// NewHeaderIndex aligns names with the value slots of format. Runlog headers
// do not name the leading one-character marker column, so when names is one
// short and the first slot is text, an unnamed column is inserted first.
func NewHeaderIndex(names []string, format fortran.Format) (*HeaderIndex, error) {
	fields := format.Fields()
	if len(names) == fields-1 && fields > 0 && format.Field(0).Kind == fortran.KindText {
		names = append([]string{""}, names...)
	}
	if len(names) != fields {
		return nil, &HeaderError{Reason: fmt.Sprintf("%d names for %d fields", len(names), fields)}
	}

	h := &HeaderIndex{
		names: append([]string(nil), names...),
		index: make(map[string]int, len(names)),
	}
	for i, name := range names {
		if name == "" {
			continue
		}
		if prev, ok := h.index[name]; ok {
			return nil, &HeaderError{Reason: fmt.Sprintf("name %q repeated in fields %d and %d", name, prev+1, i+1)}
		}
		h.index[name] = i
	}
	return h, nil
}

// Names returns the column names in slot order. The marker column, when
// present, has an empty name.
func (h *HeaderIndex) Names() []string {
	return append([]string(nil), h.names...)
}

// Len returns the number of columns.
func (h *HeaderIndex) Len() int { return len(h.names) }

// Lookup returns the slot position of name. An exact match wins; otherwise
// a single case-insensitive match is accepted.
func (h *HeaderIndex) Lookup(name string) (int, error) {
	if i, ok := h.index[name]; ok {
		return i, nil
	}
	found := -1
	for candidate, i := range h.index {
		if strings.EqualFold(candidate, name) {
			if found >= 0 {
				return 0, &UnknownFieldError{Name: name}
			}
			found = i
		}
	}
	if found < 0 {
		return 0, &UnknownFieldError{Name: name}
	}
	return found, nil
}

// Resolve binds every override to its slot, ordered by slot. It fails on
// the first unknown name, in name order, before any record is touched.
func (h *HeaderIndex) Resolve(ov Overrides) ([]Binding, error) {
	names := make([]string, 0, len(ov))
	for name := range ov {
		names = append(names, name)
	}
	sort.Strings(names)

	bindings := make([]Binding, 0, len(names))
	seen := make(map[int]string, len(names))
	for _, name := range names {
		field, err := h.Lookup(name)
		if err != nil {
			return nil, err
		}
		if other, dup := seen[field]; dup {
			return nil, &HeaderError{Reason: fmt.Sprintf("overrides %q and %q name the same field", other, name)}
		}
		seen[field] = name
		bindings = append(bindings, Binding{Field: field, Name: h.names[field], Value: ov[name]})
	}
	sort.Slice(bindings, func(i, j int) bool { return bindings[i].Field < bindings[j].Field })
	return bindings, nil
}
