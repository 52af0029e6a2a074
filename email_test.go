package colfmt

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestGenerateEmails(t *testing.T) {
	collect := func(engine *Engine) []string {
		values, err := engine.GenerateEmails(5)
		if err != nil {
			t.Fatalf("GenerateEmails: %v", err)
		}
		var out []string
		for value := range values {
			out = append(out, value)
		}
		return out
	}

	first := collect(NewEngine(WithEngineSource(NewSource(7))))
	if len(first) != 5 {
		t.Fatalf("got %d addresses, want 5", len(first))
	}
	for _, value := range first {
		local, domain, ok := strings.Cut(value, "@")
		if !ok || local == "" || !strings.Contains(domain, ".") {
			t.Fatalf("%q is not an address", value)
		}
	}

	second := collect(NewEngine(WithEngineSource(NewSource(7))))
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("seeded engines differ (-first +second):\n%s", diff)
	}

	custom := collect(NewEngine(WithEngineSource(&countingSource{})))
	if len(custom) != 5 {
		t.Fatalf("got %d addresses from a custom source, want 5", len(custom))
	}
}

func TestGenerateEmailsInvalidCount(t *testing.T) {
	if _, err := NewEngine().GenerateEmails(0); !errors.Is(err, ErrInvalidCount) {
		t.Fatalf("expected ErrInvalidCount, got %v", err)
	}
}

func TestEmailIsGenerateOnly(t *testing.T) {
	for _, kind := range []string{"email", "Email", "email_address", "e-mail"} {
		if !IsGenerateOnly(kind) {
			t.Fatalf("IsGenerateOnly(%q) = false", kind)
		}
	}
	if IsGenerateOnly("phone") {
		t.Fatal("phone must be served by the registry")
	}

	data, err := DefaultRegistryData()
	if err != nil {
		t.Fatalf("DefaultRegistryData: %v", err)
	}
	registry, err := NewPatternRegistry(WithRegistryData(data))
	if err != nil {
		t.Fatalf("NewPatternRegistry: %v", err)
	}
	if _, err := registry.Lookup("en-US", KindEmail); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("email must have no registry pattern, got %v", err)
	}
}
