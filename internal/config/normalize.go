package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeRunlog()
	c.normalizeSpectrum()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		if value, ok := os.LookupEnv("GGGPATH"); ok && strings.TrimSpace(value) != "" {
			c.Paths.DataDir = filepath.Join(strings.TrimSpace(value), "spt")
		}
	}
	if c.Paths.DataDir, err = expandPath(strings.TrimSpace(c.Paths.DataDir)); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.CatalogPath) == "" {
		c.Paths.CatalogPath = defaultCatalogPath
	}
	if c.Paths.CatalogPath, err = expandPath(c.Paths.CatalogPath); err != nil {
		return fmt.Errorf("paths.catalog_path: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeRunlog() {
	c.Runlog.OutputSuffix = strings.TrimSpace(c.Runlog.OutputSuffix)
	if c.Runlog.OutputSuffix == "" {
		c.Runlog.OutputSuffix = defaultOutputSuffix
	}
	c.Runlog.APF = strings.TrimSpace(c.Runlog.APF)
	if len(c.Runlog.Overrides) > 0 {
		overrides := make(map[string]any, len(c.Runlog.Overrides))
		for name, value := range c.Runlog.Overrides {
			overrides[strings.TrimSpace(name)] = value
		}
		c.Runlog.Overrides = overrides
	}
}

func (c *Config) normalizeSpectrum() {
	c.Spectrum.NamePattern = strings.TrimSpace(c.Spectrum.NamePattern)
	if c.Spectrum.Workers <= 0 {
		c.Spectrum.Workers = min(defaultSpectrumWorkers, runtime.NumCPU())
	}
	if len(c.Spectrum.Windows) == 0 {
		c.Spectrum.Windows = defaultWindows()
		return
	}
	windows := make(map[string]float64, len(c.Spectrum.Windows))
	for prefix, center := range c.Spectrum.Windows {
		prefix = strings.ToLower(strings.TrimSpace(prefix))
		if prefix == "" {
			continue
		}
		windows[prefix] = center
	}
	c.Spectrum.Windows = windows
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
