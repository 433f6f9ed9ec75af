package testsupport

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

// WriteFile writes content to path, creating parent directories.
func WriteFile(t testing.TB, path, content string) string {
	t.Helper()

	MkdirAll(t, filepath.Dir(path))
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// MkdirAll creates dir and its parents.
func MkdirAll(t testing.TB, dir string) {
	t.Helper()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
}

// SpectrumText renders a minimal spectrum file with one row per (tm, tc)
// pair and the given species columns, each filled with 1.
func SpectrumText(id string, sza float64, tm, tc []float64, species ...string) string {
	var b []byte
	b = append(b, id...)
	b = append(b, '\n')
	b = append(b, "4852.0 4900.0 1.0 0.2 "...)
	b = appendFloat(b, sza)
	b = append(b, " 0.442\nFreq Tm Tc Cont"...)
	for _, name := range species {
		b = append(b, ' ')
		b = append(b, name...)
	}
	b = append(b, '\n')
	for i := range tm {
		b = appendFloat(b, 4852+float64(i)*0.01)
		b = append(b, ' ')
		b = appendFloat(b, tm[i])
		b = append(b, ' ')
		b = appendFloat(b, tc[i])
		b = append(b, " 1.0"...)
		for range species {
			b = append(b, " 1.0"...)
		}
		b = append(b, '\n')
	}
	return string(b)
}

func appendFloat(b []byte, f float64) []byte {
	return strconv.AppendFloat(b, f, 'f', -1, 64)
}
