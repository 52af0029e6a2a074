package libphonenumber

import (
	"errors"
	"testing"

	"github.com/nyaruka/phonenumbers"

	"github.com/goliatone/go-colfmt"
)

func TestPatternFromExample(t *testing.T) {
	tests := []struct {
		formatted string
		code      int32
		want      string
	}{
		{formatted: "(201) 555-0123", code: 1, want: "(DDD) DDD-DDDD"},
		{formatted: "+44 20 7946 0958", code: 44, want: "+44 DD DDDD DDDD"},
		{formatted: "+1 201-555-0123", code: 1, want: "+1 DDD-DDD-DDDD"},
		{formatted: "0121 234 5678 ext. A", code: 44, want: `DDDD DDD DDDD ext. \A`},
	}

	for _, tt := range tests {
		if got := PatternFromExample(tt.formatted, tt.code); got != tt.want {
			t.Fatalf("PatternFromExample(%q) = %q, want %q", tt.formatted, got, tt.want)
		}
	}
}

func TestProviderSpec(t *testing.T) {
	provider := NewProvider()

	spec, ok := provider.Spec("en_US", "phone_number")
	if !ok {
		t.Fatal("expected a phone spec for en-US")
	}
	if spec.Pattern() != "(DDD) DDD-DDDD" {
		t.Fatalf("pattern = %q", spec.Pattern())
	}
	if spec.Locale() != "en-US" || spec.Kind() != colfmt.KindPhone {
		t.Fatalf("owner = %s/%s", spec.Locale(), spec.Kind())
	}

	again, _ := provider.Spec("en-US", "phone")
	if again != spec {
		t.Fatal("provider must cache derived specs")
	}

	if _, ok := provider.Spec("en-US", "zip"); ok {
		t.Fatal("provider must only serve phone specs")
	}
	if _, ok := provider.Spec("fr", "phone"); ok {
		t.Fatal("locales without a region must be skipped")
	}
}

func TestProviderSpecAcceptsExampleNumber(t *testing.T) {
	provider := NewProvider(WithFormat(phonenumbers.INTERNATIONAL))

	spec, ok := provider.Spec("en-AU", "phone")
	if !ok {
		t.Fatal("expected a phone spec for en-AU")
	}

	example := phonenumbers.GetExampleNumberForType("AU", phonenumbers.FIXED_LINE)
	formatted := phonenumbers.Format(example, phonenumbers.INTERNATIONAL)

	got, err := colfmt.Reformat(formatted, spec)
	if err != nil {
		t.Fatalf("Reformat(%q) with %s: %v", formatted, spec, err)
	}
	if got != formatted {
		t.Fatalf("Reformat(%q) = %q", formatted, got)
	}
}

func TestProviderExplicitRegion(t *testing.T) {
	provider := NewProvider(WithRegion("us"))

	spec, ok := provider.Spec("fr", "phone")
	if !ok {
		t.Fatal("explicit region should apply to any locale")
	}
	if spec.Pattern() != "(DDD) DDD-DDDD" {
		t.Fatalf("pattern = %q", spec.Pattern())
	}
}

func TestProviderInRegistry(t *testing.T) {
	cfg, err := colfmt.NewConfig(colfmt.WithSpecProvider(NewProvider()))
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}
	registry, err := cfg.Registry()
	if err != nil {
		t.Fatalf("Registry: %v", err)
	}

	spec, err := registry.Lookup("en-AU", "phone")
	if err != nil {
		t.Fatalf("Lookup(en-AU): %v", err)
	}
	if spec.Locale() != "en-AU" {
		t.Fatalf("owner = %s", spec.Locale())
	}

	static, err := registry.Lookup("de-DE", "phone")
	if err != nil {
		t.Fatalf("Lookup(de-DE): %v", err)
	}
	if static.Pattern() != "DDDD DDDDDDD" {
		t.Fatalf("static entries must win over the provider, got %q", static.Pattern())
	}
}

func TestValidator(t *testing.T) {
	validator := NewValidator()
	phone := colfmt.MustParsePattern("(DDD) DDD-DDDD", colfmt.WithSpecOwner("en-US", colfmt.KindPhone))
	short := colfmt.MustParsePattern("DDD", colfmt.WithSpecOwner("en-US", colfmt.KindPhone))
	zip := colfmt.MustParsePattern("DDD", colfmt.WithSpecOwner("en-US", colfmt.KindZip))

	if err := validator.Validate(phone, "(201) 555-0123"); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if err := validator.Validate(short, "555"); !errors.Is(err, colfmt.ErrRejected) {
		t.Fatalf("expected ErrRejected, got %v", err)
	}
	if err := validator.Validate(zip, "555"); err != nil {
		t.Fatalf("non phone specs must pass through, got %v", err)
	}
}

func TestValidatorWithEngine(t *testing.T) {
	engine := colfmt.NewEngine(colfmt.WithEngineValidators(NewValidator()))
	spec := colfmt.MustParsePattern("DDDD", colfmt.WithSpecOwner("en-GB", colfmt.KindPhone))

	if _, err := engine.Reformat("1234", spec); !errors.Is(err, colfmt.ErrRejected) {
		t.Fatalf("expected ErrRejected, got %v", err)
	}
}
