package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateRunlog(); err != nil {
		return err
	}
	if err := c.validateSpectrum(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateRunlog() error {
	r := c.Runlog
	if r.DeltaNu <= 0 {
		return errors.New("runlog.delta_nu must be positive")
	}
	if r.V0 <= 0 {
		return errors.New("runlog.v0 must be positive")
	}
	if r.V1 <= r.V0 {
		return errors.New("runlog.v1 must be greater than runlog.v0")
	}
	if r.SNR <= 0 {
		return errors.New("runlog.snr must be positive")
	}
	if r.BPW <= 0 {
		return errors.New("runlog.bpw must be positive")
	}
	if strings.ContainsAny(r.OutputSuffix, `/\`) {
		return fmt.Errorf("runlog.output_suffix %q must not contain path separators", r.OutputSuffix)
	}

	names := make([]string, 0, len(r.Overrides))
	for name := range r.Overrides {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if name == "" {
			return errors.New("runlog.overrides: empty column name")
		}
		switch r.Overrides[name].(type) {
		case int64, float64, string:
		default:
			return fmt.Errorf("runlog.overrides.%s: unsupported value %v (want integer, float or string)", name, r.Overrides[name])
		}
	}
	return nil
}

func (c *Config) validateSpectrum() error {
	if c.Spectrum.Workers <= 0 {
		return errors.New("spectrum.workers must be positive")
	}
	for prefix, center := range c.Spectrum.Windows {
		if len(prefix) != 1 {
			return fmt.Errorf("spectrum.windows: key %q must be a single letter", prefix)
		}
		if center <= 0 {
			return fmt.Errorf("spectrum.windows.%s must be positive", prefix)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level %q must be one of debug, info, warn, error", c.Logging.Level)
	}
}
