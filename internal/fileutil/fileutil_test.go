package fileutil

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofrs/flock"
)

func TestWriteFileAtomicCreatesFile(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "nested", "pa_ggg_syn.grl")

	if err := WriteFileAtomic(context.Background(), dst, []byte("hello world"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "hello world" {
		t.Fatalf("content mismatch: got %q", got)
	}
	entries, err := os.ReadDir(filepath.Dir(dst))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected the output and its lock file, got %d entries", len(entries))
	}
}

func TestWriteFileAtomicKeepsLockFile(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "out.grl")
	ctx := context.Background()

	if err := WriteFileAtomic(ctx, dst, []byte("first"), 0o644); err != nil {
		t.Fatal(err)
	}
	before, err := os.Stat(LockPath(dst))
	if err != nil {
		t.Fatalf("expected lock file to remain: %v", err)
	}

	if err := WriteFileAtomic(ctx, dst, []byte("second"), 0o644); err != nil {
		t.Fatalf("second write: %v", err)
	}
	after, err := os.Stat(LockPath(dst))
	if err != nil {
		t.Fatalf("expected lock file to remain: %v", err)
	}
	if !os.SameFile(before, after) {
		t.Fatal("expected writers to share one lock file")
	}
	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "second" {
		t.Fatalf("content mismatch: got %q", got)
	}
}

func TestWriteFileAtomicReplacesExisting(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "out.grl")
	if err := os.WriteFile(dst, []byte("old contents that are longer"), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := WriteFileAtomic(context.Background(), dst, []byte("new"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "new" {
		t.Fatalf("content mismatch: got %q", got)
	}
	info, err := os.Stat(dst)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm()&0o044 == 0 {
		t.Fatalf("expected requested mode to apply, got %o", info.Mode().Perm())
	}
}

func TestWriteFileAtomicHonorsHeldLock(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "out.grl")
	holder := flock.New(LockPath(dst))
	locked, err := holder.TryLock()
	if err != nil || !locked {
		t.Fatalf("acquire lock: locked=%v err=%v", locked, err)
	}
	defer holder.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()
	err = WriteFileAtomic(ctx, dst, []byte("data"), 0o644)
	if !errors.Is(err, ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
	if _, statErr := os.Stat(dst); !os.IsNotExist(statErr) {
		t.Fatalf("expected no output while locked, stat err=%v", statErr)
	}
}

func TestHashFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.spt")
	if err := os.WriteFile(path, []byte("abc"), 0o644); err != nil {
		t.Fatal(err)
	}
	sum, size, err := HashFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if size != 3 {
		t.Fatalf("unexpected size %d", size)
	}
	const want = "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if sum != want {
		t.Fatalf("unexpected hash %s", sum)
	}
}

func TestHashFileMissing(t *testing.T) {
	if _, _, err := HashFile(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
