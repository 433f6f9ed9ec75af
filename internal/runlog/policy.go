package runlog

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"gggkit/internal/config"
	"gggkit/internal/fortran"
)

// Header names written by the synthetic policy.
const (
	FieldBPW     = "BPW"
	FieldPointer = "POINTER"
	FieldAPF     = "APF"
	FieldDeltaNu = "DELTA_NU"
	FieldIFirst  = "IFIRST"
	FieldILast   = "ILAST"
	FieldSNR     = "SNR"
)

// SyntheticPolicy describes the columns forced in a synthetic runlog.
// IFIRST and ILAST are derived from the spectral range and spacing.
type SyntheticPolicy struct {
	V0      float64
	V1      float64
	DeltaNu float64
	SNR     int64
	BPW     int64
	Pointer int64
	APF     string
	// Extra overrides applied after the derived ones; they win on conflict.
	Extra Overrides
}

// DefaultSyntheticPolicy returns the stock policy: 4750 to 8250 cm-1 at
// 0.0111111111 cm-1, SNR 1000, BPW 7, POINTER 0, APF N1.
func DefaultSyntheticPolicy() SyntheticPolicy {
	return PolicyFromConfig(config.Default().Runlog)
}

// PolicyFromConfig builds a policy from the [runlog] config section. The
// config is assumed validated, so extra override values convert cleanly;
// any that do not are skipped.
func PolicyFromConfig(cfg config.Runlog) SyntheticPolicy {
	p := SyntheticPolicy{
		V0:      cfg.V0,
		V1:      cfg.V1,
		DeltaNu: cfg.DeltaNu,
		SNR:     cfg.SNR,
		BPW:     cfg.BPW,
		Pointer: cfg.Pointer,
		APF:     cfg.APF,
	}
	if len(cfg.Overrides) > 0 {
		p.Extra = make(Overrides, len(cfg.Overrides))
		for name, raw := range cfg.Overrides {
			if v, err := ValueFromAny(raw); err == nil {
				p.Extra[name] = v
			}
		}
	}
	return p
}

// Validate reports policies that cannot produce a usable runlog.
func (p SyntheticPolicy) Validate() error {
	var errs []error
	if !(p.DeltaNu > 0) || math.IsInf(p.DeltaNu, 0) {
		errs = append(errs, fmt.Errorf("delta_nu must be positive, got %v", p.DeltaNu))
	}
	if p.V0 <= 0 || p.V1 <= p.V0 {
		errs = append(errs, fmt.Errorf("spectral range must satisfy 0 < v0 < v1, got %v..%v", p.V0, p.V1))
	}
	if p.SNR <= 0 {
		errs = append(errs, fmt.Errorf("snr must be positive, got %d", p.SNR))
	}
	if strings.TrimSpace(p.APF) == "" {
		errs = append(errs, errors.New("apf must be set"))
	}
	return errors.Join(errs...)
}

// Overrides returns the override set applied to every record.
func (p SyntheticPolicy) Overrides() Overrides {
	ov := Overrides{
		FieldBPW:     fortran.Int(p.BPW),
		FieldPointer: fortran.Int(p.Pointer),
		FieldAPF:     fortran.Text(p.APF),
		FieldDeltaNu: fortran.Float(p.DeltaNu),
		FieldIFirst:  fortran.Int(WavenumberIndex(p.V0, p.DeltaNu)),
		FieldILast:   fortran.Int(WavenumberIndex(p.V1, p.DeltaNu)),
		FieldSNR:     fortran.Int(p.SNR),
	}
	for name, v := range p.Extra {
		ov.Set(name, v)
	}
	return ov
}

// WavenumberIndex converts a wavenumber to a spectral point index,
// rounding halves away from zero.
func WavenumberIndex(nu, deltaNu float64) int64 {
	return int64(math.Round(nu / deltaNu))
}

// SyntheticPath inserts suffix before the extension of path:
// pa_ggg.grl becomes pa_ggg_syn.grl.
func SyntheticPath(path, suffix string) string {
	dir, base := filepath.Split(path)
	ext := filepath.Ext(base)
	if ext == base {
		ext = ""
	}
	return dir + strings.TrimSuffix(base, ext) + suffix + ext
}

// ParseValue reads a command-line override value. Integers and floats are
// recognized; anything else, or any quoted text, is text.
func ParseValue(s string) fortran.Value {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return fortran.Text(s[1 : len(s)-1])
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return fortran.Int(n)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return fortran.Float(f)
	}
	return fortran.Text(s)
}

// ParseAssignment splits NAME=VALUE.
func ParseAssignment(s string) (string, fortran.Value, error) {
	name, value, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return "", fortran.Value{}, fmt.Errorf("override %q: expected NAME=VALUE", s)
	}
	return name, ParseValue(strings.TrimSpace(value)), nil
}

// ValueFromAny converts a decoded TOML value.
func ValueFromAny(v any) (fortran.Value, error) {
	switch x := v.(type) {
	case int64:
		return fortran.Int(x), nil
	case int:
		return fortran.Int(int64(x)), nil
	case float64:
		return fortran.Float(x), nil
	case string:
		return fortran.Text(x), nil
	default:
		return fortran.Value{}, fmt.Errorf("unsupported override value %v (%T)", v, v)
	}
}
