package spectrum_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"gggkit/internal/spectrum"
)

func writeSpectrum(t *testing.T, dir, name, text string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatalf("write spectrum: %v", err)
	}
	return path
}

func TestDiscoverFiltersByPattern(t *testing.T) {
	dir := t.TempDir()
	writeSpectrum(t, dir, "zsfddaa20040721.spt", sampleSpectrum)
	writeSpectrum(t, dir, "asfddaa20040721.spt", sampleSpectrum)
	writeSpectrum(t, dir, "notes.txt", "x")
	if err := os.Mkdir(filepath.Join(dir, "sfddaa_dir"), 0o755); err != nil {
		t.Fatal(err)
	}

	paths, err := spectrum.Discover(dir, "sfddaa")
	if err != nil {
		t.Fatalf("Discover returned error: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("expected 2 spectra, got %v", paths)
	}
	if filepath.Base(paths[0]) != "asfddaa20040721.spt" {
		t.Fatalf("expected sorted paths, got %v", paths)
	}

	all, err := spectrum.Discover(dir, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Fatalf("expected empty pattern to match every file, got %v", all)
	}
}

func TestDiscoverMissingDirectory(t *testing.T) {
	if _, err := spectrum.Discover(filepath.Join(t.TempDir(), "missing"), "sfddaa"); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestParseManyKeepsOrder(t *testing.T) {
	dir := t.TempDir()
	a := writeSpectrum(t, dir, "a.spt", sampleSpectrum)
	b := writeSpectrum(t, dir, "b.spt", "id\n0 0 0 0 12.5 2\nFreq Tm Tc\n1 0.5 0.5\n")

	tables, err := spectrum.ParseMany(context.Background(), 2, a, b)
	if err != nil {
		t.Fatalf("ParseMany returned error: %v", err)
	}
	if len(tables) != 2 || tables[0].SZA != 45.5 || tables[1].SZA != 12.5 {
		t.Fatalf("unexpected tables %+v", tables)
	}
}

func TestParseManyFailsFast(t *testing.T) {
	dir := t.TempDir()
	good := writeSpectrum(t, dir, "good.spt", sampleSpectrum)
	bad := writeSpectrum(t, dir, "bad.spt", "id\n0 0 0 0 30 1\nFreq Tm\n")

	_, err := spectrum.ParseMany(context.Background(), 1, good, bad)
	var missing *spectrum.MissingColumnError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingColumnError, got %v", err)
	}
}

func TestParseEachReportsEveryFile(t *testing.T) {
	dir := t.TempDir()
	good := writeSpectrum(t, dir, "good.spt", sampleSpectrum)
	bad := writeSpectrum(t, dir, "bad.spt", "id\n0 0 0 0 30 1\nFreq Tm\n")

	outcomes := spectrum.ParseEach(context.Background(), 4, bad, good)
	if len(outcomes) != 2 {
		t.Fatalf("expected 2 outcomes, got %d", len(outcomes))
	}
	if outcomes[0].Path != bad || outcomes[0].Err == nil {
		t.Fatalf("expected failure for bad spectrum, got %+v", outcomes[0])
	}
	if outcomes[1].Path != good || outcomes[1].Err != nil || outcomes[1].Table == nil {
		t.Fatalf("expected success for good spectrum, got %+v", outcomes[1])
	}
}
