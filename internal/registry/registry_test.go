package registry_test

import (
	"testing"

	"github.com/tracemd/tmd/internal/registry"
)

func TestLookup_Known(t *testing.T) {
	status, ok := registry.Lookup("1.0")
	if !ok {
		t.Fatal("expected 1.0 to be known")
	}
	if status != registry.Current {
		t.Errorf("status: got %v, want Current", status)
	}
}

func TestLookup_Unknown(t *testing.T) {
	status, ok := registry.Lookup("9.9")
	if ok {
		t.Error("expected 9.9 to be unknown")
	}
	if status != registry.Obsolete {
		t.Errorf("unknown version status: got %v, want Obsolete", status)
	}
}

func TestKnown(t *testing.T) {
	if !registry.Known("2.0") {
		t.Error("expected 2.0 to be known")
	}
	if registry.Known("3.0") {
		t.Error("expected 3.0 to be unknown")
	}
}

func TestLatest(t *testing.T) {
	if got := registry.Latest(); got != "2.0" {
		t.Errorf("Latest() = %q, want %q", got, "2.0")
	}
}

func TestDefault(t *testing.T) {
	if registry.Default != "1.0" {
		t.Errorf("Default = %q, want %q", registry.Default, "1.0")
	}
}
