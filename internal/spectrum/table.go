package spectrum

import "math"

// Reserved leading columns of every spectrum file.
const (
	ColumnFreq = "Freq"
	ColumnTm   = "Tm"
	ColumnTc   = "Tc"
	ColumnCont = "Cont"
)

const reservedColumns = 4

// Table is a parsed spectrum file. It is not modified after Parse returns.
type Table struct {
	Identifier string
	// Params holds every token of the parameter line.
	Params []string
	Header []string
	// Columns maps each header name to its values, one per data row.
	Columns map[string][]float64
	SZA     float64
	Zobs    float64
	// Resid is 100*(Tm-Tc), in percent transmittance.
	Resid    []float64
	RMSResid float64
}

// Column returns the named column.
func (t *Table) Column(name string) ([]float64, bool) {
	values, ok := t.Columns[name]
	return values, ok
}

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.Resid) }

// Species returns the fitted species names: the header after the reserved
// frequency, measured, calculated, and continuum columns.
func (t *Table) Species() []string {
	if len(t.Header) <= reservedColumns {
		return nil
	}
	return append([]string(nil), t.Header[reservedColumns:]...)
}

// FreqRange returns the first and last frequency, or false when the table
// has no rows or no Freq column.
func (t *Table) FreqRange() (float64, float64, bool) {
	freq, ok := t.Columns[ColumnFreq]
	if !ok || len(freq) == 0 {
		return 0, 0, false
	}
	return freq[0], freq[len(freq)-1], true
}

// MaxAbsResid returns the largest residual magnitude.
func (t *Table) MaxAbsResid() float64 {
	var m float64
	for _, r := range t.Resid {
		m = math.Max(m, math.Abs(r))
	}
	return m
}

func residuals(tm, tc []float64) ([]float64, float64) {
	resid := make([]float64, len(tm))
	if len(tm) == 0 {
		return resid, 0
	}
	var sum float64
	for i := range tm {
		resid[i] = 100 * (tm[i] - tc[i])
		sum += resid[i] * resid[i]
	}
	return resid, math.Sqrt(sum / float64(len(resid)))
}
