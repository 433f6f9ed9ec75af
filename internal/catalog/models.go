package catalog

import (
	"time"

	"golang.org/x/text/cases"

	"gggkit/internal/spectrum"
)

// Status records how a spectrum file fared in its last scan.
type Status string

const (
	// StatusParsed means the file parsed and its statistics are current.
	StatusParsed Status = "parsed"
	// StatusInvalid means the file is structurally malformed.
	StatusInvalid Status = "invalid"
	// StatusFailed means the file could not be read.
	StatusFailed Status = "failed"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusParsed, StatusInvalid, StatusFailed:
		return true
	}
	return false
}

// Entry is the catalog row for one spectrum file.
type Entry struct {
	Path       string    `json:"path"`
	ScanID     string    `json:"scan_id,omitempty"`
	Status     Status    `json:"status"`
	Error      string    `json:"error,omitempty"`
	Checksum   string    `json:"checksum"`
	Size       int64     `json:"size"`
	Identifier string    `json:"identifier,omitempty"`
	Window     float64   `json:"window,omitempty"`
	SZA        float64   `json:"sza"`
	Zobs       float64   `json:"zobs"`
	Rows       int       `json:"rows"`
	RMSResid   float64   `json:"rms_resid"`
	MaxResid   float64   `json:"max_resid"`
	FreqMin    float64   `json:"freq_min"`
	FreqMax    float64   `json:"freq_max"`
	Species    []string  `json:"species,omitempty"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// EntryFromTable summarizes a parsed table. window is zero when unknown.
func EntryFromTable(path, checksum string, size int64, table *spectrum.Table, window float64) Entry {
	e := Entry{
		Path:       path,
		Status:     StatusParsed,
		Checksum:   checksum,
		Size:       size,
		Identifier: table.Identifier,
		Window:     window,
		SZA:        table.SZA,
		Zobs:       table.Zobs,
		Rows:       table.Len(),
		RMSResid:   table.RMSResid,
		MaxResid:   table.MaxAbsResid(),
		Species:    table.Species(),
	}
	if lo, hi, ok := table.FreqRange(); ok {
		e.FreqMin, e.FreqMax = min(lo, hi), max(lo, hi)
	}
	return e
}

// Scan records one directory scan.
type Scan struct {
	ID         string     `json:"id"`
	Dir        string     `json:"dir"`
	Pattern    string     `json:"pattern"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Parsed     int        `json:"parsed"`
	Skipped    int        `json:"skipped"`
	Failed     int        `json:"failed"`
}

// ListOptions filters List.
type ListOptions struct {
	// Species keeps entries that fitted the named species, matched
	// case-insensitively.
	Species string
	Status  Status
	// Worst keeps the N parsed entries with the largest RMS residual,
	// largest first. Zero lists every entry by path.
	Worst int
}

// FoldSpecies returns the lookup key for a species name.
func FoldSpecies(name string) string {
	return cases.Fold().String(name)
}
