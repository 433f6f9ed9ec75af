package main

import (
	"encoding/json"
	"math"
	"path/filepath"
	"testing"

	"gggkit/internal/catalog"
	"gggkit/internal/testsupport"
)

func TestSpectrumShowSummarizesFiles(t *testing.T) {
	env := setupCLITestEnv(t)
	path := testsupport.WriteFile(t, filepath.Join(env.cfg.Paths.DataDir, "sfddaa20040721.001"),
		testsupport.SpectrumText("sfddaa20040721.001", 45.5, []float64{0.9, 0.8}, []float64{0.88, 0.83}, "co2", "h2o"))

	out, _, err := runCLI(t, []string{"spectrum", "show", "--json", path}, env.configPath)
	if err != nil {
		t.Fatalf("spectrum show: %v", err)
	}
	var summaries []spectrumSummary
	if err := json.Unmarshal([]byte(out), &summaries); err != nil {
		t.Fatalf("decode json: %v\n%s", err, out)
	}
	if len(summaries) != 1 {
		t.Fatalf("expected one summary, got %d", len(summaries))
	}
	s := summaries[0]
	if s.SZA != 45.5 || s.Rows != 2 {
		t.Fatalf("unexpected summary %+v", s)
	}
	if math.Abs(s.RMSResid-math.Sqrt((4+9)/2.0)) > 1e-9 {
		t.Fatalf("unexpected rms %v", s.RMSResid)
	}
	if len(s.Species) != 2 || s.Species[0] != "co2" {
		t.Fatalf("unexpected species %v", s.Species)
	}
	if s.Window == nil || *s.Window != 4852 {
		t.Fatalf("expected s window 4852, got %v", s.Window)
	}

	out, _, err = runCLI(t, []string{"spectrum", "show", path}, env.configPath)
	if err != nil {
		t.Fatalf("spectrum show: %v", err)
	}
	requireContains(t, out, "sfddaa20040721.001")
	requireContains(t, out, "co2 h2o")
}

func TestSpectrumShowFailsOnBadFile(t *testing.T) {
	env := setupCLITestEnv(t)
	path := testsupport.WriteFile(t, filepath.Join(env.baseDir, "broken.spt"), "id\nparams only\n")

	if _, _, err := runCLI(t, []string{"spectrum", "show", path}, env.configPath); err == nil {
		t.Fatal("expected parse failure")
	}
}

func TestSpectrumScanAndList(t *testing.T) {
	env := setupCLITestEnv(t)
	dir := env.cfg.Paths.DataDir
	testsupport.WriteFile(t, filepath.Join(dir, "sfddaa20040721.001"),
		testsupport.SpectrumText("a", 30, []float64{0.9}, []float64{0.89}, "CO2"))
	testsupport.WriteFile(t, filepath.Join(dir, "wfddaa20040721.002"),
		testsupport.SpectrumText("b", 40, []float64{0.9}, []float64{0.8}, "h2o"))
	testsupport.WriteFile(t, filepath.Join(dir, "zfddaa20040721.003"), "truncated\n")
	testsupport.WriteFile(t, filepath.Join(dir, "notes.txt"), "ignored\n")

	out, _, err := runCLI(t, []string{"spectrum", "scan", "--pattern", "fddaa", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("spectrum scan: %v", err)
	}
	var report struct {
		Scan  catalog.Scan `json:"scan"`
		Files []struct {
			Path   string         `json:"path"`
			Status catalog.Status `json:"status"`
		} `json:"files"`
	}
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode json: %v\n%s", err, out)
	}
	if report.Scan.Parsed != 2 || report.Scan.Failed != 1 || len(report.Files) != 3 {
		t.Fatalf("unexpected scan report %+v", report)
	}

	out, _, err = runCLI(t, []string{"spectrum", "scan", "--pattern", "fddaa"}, env.configPath)
	if err != nil {
		t.Fatalf("second scan: %v", err)
	}
	requireContains(t, out, "unchanged")
	requireContains(t, out, "skipped 2")

	out, _, err = runCLI(t, []string{"spectrum", "list", "--worst", "1", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("spectrum list: %v", err)
	}
	var entries []catalog.Entry
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatalf("decode json: %v\n%s", err, out)
	}
	if len(entries) != 1 || filepath.Base(entries[0].Path) != "wfddaa20040721.002" {
		t.Fatalf("expected the w spectrum to be worst, got %+v", entries)
	}

	out, _, err = runCLI(t, []string{"spectrum", "list", "--species", "co2", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("spectrum list: %v", err)
	}
	entries = nil
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatalf("decode json: %v\n%s", err, out)
	}
	if len(entries) != 1 || filepath.Base(entries[0].Path) != "sfddaa20040721.001" {
		t.Fatalf("expected species filter to match CO2, got %+v", entries)
	}

	out, _, err = runCLI(t, []string{"spectrum", "list", "--status", "invalid"}, env.configPath)
	if err != nil {
		t.Fatalf("spectrum list: %v", err)
	}
	requireContains(t, out, "zfddaa20040721.003")

	if _, _, err := runCLI(t, []string{"spectrum", "list", "--status", "bogus"}, env.configPath); err == nil {
		t.Fatal("expected unknown status to be rejected")
	}
}

func TestSpectrumForget(t *testing.T) {
	env := setupCLITestEnv(t)
	path := testsupport.WriteFile(t, filepath.Join(env.cfg.Paths.DataDir, "sfddaa20040721.001"),
		testsupport.SpectrumText("a", 30, []float64{0.9}, []float64{0.89}))

	if _, _, err := runCLI(t, []string{"spectrum", "scan"}, env.configPath); err != nil {
		t.Fatalf("spectrum scan: %v", err)
	}
	out, _, err := runCLI(t, []string{"spectrum", "forget", path}, env.configPath)
	if err != nil {
		t.Fatalf("spectrum forget: %v", err)
	}
	requireContains(t, out, "Removed")

	out, _, err = runCLI(t, []string{"spectrum", "forget", path}, env.configPath)
	if err != nil {
		t.Fatalf("spectrum forget: %v", err)
	}
	requireContains(t, out, "not catalogued")
}
