package services_test

import (
	"errors"
	"strings"
	"testing"

	"gggkit/internal/catalog"
	"gggkit/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrTransient, "runlog", "write", "rename failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"runlog", "write", "rename failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapWithoutDetail(t *testing.T) {
	err := services.Wrap(nil, "", " ", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected default transient marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "pipeline failure") {
		t.Fatalf("expected placeholder detail, got %q", err.Error())
	}
}

func TestFailureStatusMapping(t *testing.T) {
	validationErr := services.Wrap(services.ErrValidation, "spectrum", "parse", "missing column", nil)
	if status := services.FailureStatus(validationErr); status != catalog.StatusInvalid {
		t.Fatalf("expected invalid for validation error, got %s", status)
	}

	transientErr := services.Wrap(services.ErrTransient, "spectrum", "read", "read failed", errors.New("io"))
	if status := services.FailureStatus(transientErr); status != catalog.StatusFailed {
		t.Fatalf("expected failed for transient error, got %s", status)
	}

	if status := services.FailureStatus(nil); status != catalog.StatusFailed {
		t.Fatalf("expected failed for nil error, got %s", status)
	}
}
