package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"gggkit/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("GGGPATH", "")
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantLogs := filepath.Join(tempHome, ".local", "share", "gggkit", "logs")
	if cfg.Paths.LogDir != wantLogs {
		t.Fatalf("unexpected log dir: got %q want %q", cfg.Paths.LogDir, wantLogs)
	}
	wantCatalog := filepath.Join(tempHome, ".local", "share", "gggkit", "catalog.db")
	if cfg.Paths.CatalogPath != wantCatalog {
		t.Fatalf("unexpected catalog path: got %q want %q", cfg.Paths.CatalogPath, wantCatalog)
	}
	if cfg.Paths.DataDir != "" {
		t.Fatalf("expected empty data dir without GGGPATH, got %q", cfg.Paths.DataDir)
	}
	if cfg.Runlog.OutputSuffix != "_syn" {
		t.Fatalf("unexpected output suffix %q", cfg.Runlog.OutputSuffix)
	}
	if cfg.Runlog.V0 != 4750 || cfg.Runlog.V1 != 8250 {
		t.Fatalf("unexpected synthetic range %v-%v", cfg.Runlog.V0, cfg.Runlog.V1)
	}
	if cfg.Runlog.DeltaNu != 0.0111111111 {
		t.Fatalf("unexpected delta_nu %v", cfg.Runlog.DeltaNu)
	}
	if cfg.Runlog.APF != "N1" || cfg.Runlog.BPW != 7 || cfg.Runlog.SNR != 1000 {
		t.Fatalf("unexpected runlog defaults %+v", cfg.Runlog)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults %+v", cfg.Logging)
	}
	if center, ok := cfg.Window("sfddaa.spt"); !ok || center != 4852 {
		t.Fatalf("expected s window 4852, got %v (ok=%v)", center, ok)
	}
}

func TestLoadUsesGGGPathForDataDir(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	ggg := t.TempDir()
	t.Setenv("GGGPATH", ggg)

	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Paths.DataDir != filepath.Join(ggg, "spt") {
		t.Fatalf("unexpected data dir %q", cfg.Paths.DataDir)
	}
}

func TestLoadCustomPath(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "gggkit.toml")

	type payload struct {
		Runlog struct {
			V0        float64        `toml:"v0"`
			V1        float64        `toml:"v1"`
			SNR       int64          `toml:"snr"`
			Suffix    string         `toml:"output_suffix"`
			Overrides map[string]any `toml:"overrides"`
		} `toml:"runlog"`
		Spectrum struct {
			Workers int                `toml:"workers"`
			Windows map[string]float64 `toml:"windows"`
		} `toml:"spectrum"`
		Logging struct {
			Format string `toml:"format"`
		} `toml:"logging"`
	}
	custom := payload{}
	custom.Runlog.V0 = 4000
	custom.Runlog.V1 = 4500
	custom.Runlog.SNR = 500
	custom.Runlog.Suffix = "-synthetic"
	custom.Runlog.Overrides = map[string]any{"LASF": 15798.0}
	custom.Spectrum.Workers = 2
	custom.Spectrum.Windows = map[string]float64{"Q": 7000}
	custom.Logging.Format = "JSON"
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Runlog.V0 != 4000 || cfg.Runlog.V1 != 4500 || cfg.Runlog.SNR != 500 {
		t.Fatalf("expected runlog overrides from file, got %+v", cfg.Runlog)
	}
	if cfg.Runlog.OutputSuffix != "-synthetic" {
		t.Fatalf("unexpected suffix %q", cfg.Runlog.OutputSuffix)
	}
	if cfg.Runlog.DeltaNu != 0.0111111111 {
		t.Fatalf("expected default delta_nu to survive, got %v", cfg.Runlog.DeltaNu)
	}
	if v, ok := cfg.Runlog.Overrides["LASF"].(float64); !ok || v != 15798 {
		t.Fatalf("unexpected extra override %#v", cfg.Runlog.Overrides["LASF"])
	}
	if cfg.Spectrum.Workers != 2 {
		t.Fatalf("unexpected workers %d", cfg.Spectrum.Workers)
	}
	if center, ok := cfg.Window("qx0001.spt"); !ok || center != 7000 {
		t.Fatalf("expected lower-cased custom window, got %v (ok=%v)", center, ok)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("expected json log format, got %q", cfg.Logging.Format)
	}
}

func TestLoadRejectsMalformedToml(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	configPath := filepath.Join(t.TempDir(), "broken.toml")
	if err := os.WriteFile(configPath, []byte("[runlog\nv0 = "), 0o644); err != nil {
		t.Fatal(err)
	}
	_, _, _, err := config.Load(configPath)
	if err == nil || !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	if cfg.Runlog.APF != "N1" {
		t.Fatalf("expected sample apf N1, got %q", cfg.Runlog.APF)
	}
	if cfg.Spectrum.Windows["y"] != 6339 {
		t.Fatalf("expected sample y window, got %v", cfg.Spectrum.Windows)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("sample config should validate: %v", err)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{name: "zero delta nu", mutate: func(c *config.Config) { c.Runlog.DeltaNu = 0 }},
		{name: "inverted range", mutate: func(c *config.Config) { c.Runlog.V1 = c.Runlog.V0 }},
		{name: "zero snr", mutate: func(c *config.Config) { c.Runlog.SNR = 0 }},
		{name: "suffix with separator", mutate: func(c *config.Config) { c.Runlog.OutputSuffix = "../x" }},
		{name: "unsupported override", mutate: func(c *config.Config) { c.Runlog.Overrides = map[string]any{"X": true} }},
		{name: "zero workers", mutate: func(c *config.Config) { c.Spectrum.Workers = 0 }},
		{name: "long window key", mutate: func(c *config.Config) { c.Spectrum.Windows = map[string]float64{"ab": 1} }},
		{name: "unknown level", mutate: func(c *config.Config) { c.Logging.Level = "verbose" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}
