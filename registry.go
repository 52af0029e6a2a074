package colfmt

import (
	"fmt"
	"maps"
	"slices"
	"sort"
)

// SpecProvider supplies FormatSpecs the static registry entries do not cover.
type SpecProvider interface {
	Spec(locale, kind string) (*FormatSpec, bool)
}

// SpecProviderFunc adapts a bare function to the SpecProvider interface.
type SpecProviderFunc func(locale, kind string) (*FormatSpec, bool)

func (fn SpecProviderFunc) Spec(locale, kind string) (*FormatSpec, bool) {
	return fn(locale, kind)
}

// PatternRegistry maps (locale, kind) pairs to FormatSpecs. It is read only after
// construction and safe for concurrent use.
type PatternRegistry struct {
	specs         map[string]map[string]*FormatSpec
	defaultLocale string
	resolver      FallbackResolver
	providers     []SpecProvider
	locales       []string
}

type patternRegistryConfig struct {
	defaultLocale string
	resolver      FallbackResolver
	providers     []SpecProvider
	data          []*RegistryData
	layers        []specLayer
}

// specLayer yields the specs contributed by one option. Layers are applied in
// option order, so a later layer replaces earlier entries per (locale, kind).
type specLayer func() ([]*FormatSpec, error)

type RegistryOption func(*patternRegistryConfig)

// WithRegistryDefaultLocale sets the locale used when Lookup receives "".
func WithRegistryDefaultLocale(locale string) RegistryOption {
	return func(c *patternRegistryConfig) {
		c.defaultLocale = locale
	}
}

// WithRegistryResolver sets the fallback resolver consulted after a miss.
func WithRegistryResolver(resolver FallbackResolver) RegistryOption {
	return func(c *patternRegistryConfig) {
		c.resolver = resolver
	}
}

// WithRegistryProvider appends a SpecProvider. Providers are consulted in order
// after the static entries of a locale.
func WithRegistryProvider(provider SpecProvider) RegistryOption {
	return func(c *patternRegistryConfig) {
		if provider != nil {
			c.providers = append(c.providers, provider)
		}
	}
}

// WithRegistryData adds decoded definitions. Later data wins per (locale, kind).
func WithRegistryData(data *RegistryData) RegistryOption {
	return func(c *patternRegistryConfig) {
		if data != nil {
			c.data = append(c.data, data)
			c.layers = append(c.layers, data.specs)
		}
	}
}

// WithRegistrySpec registers a prebuilt spec under its owner locale and kind.
func WithRegistrySpec(spec *FormatSpec) RegistryOption {
	return func(c *patternRegistryConfig) {
		if spec == nil {
			return
		}
		c.layers = append(c.layers, func() ([]*FormatSpec, error) {
			if NormalizeLocale(spec.Locale()) == "" || NormalizeKind(spec.Kind()) == "" {
				return nil, fmt.Errorf("colfmt: spec %q has no owner locale/kind", spec.Pattern())
			}
			return []*FormatSpec{spec}, nil
		})
	}
}

// WithRegistryPhoneDialPlan registers an international phone spec for locale.
func WithRegistryPhoneDialPlan(locale string, plan PhoneDialPlan) RegistryOption {
	return func(c *patternRegistryConfig) {
		normalized := NormalizeLocale(locale)
		if normalized == "" {
			return
		}
		c.layers = append(c.layers, func() ([]*FormatSpec, error) {
			spec, err := plan.Spec(normalized)
			if err != nil {
				return nil, fmt.Errorf("colfmt: dial plan %s: %w", normalized, err)
			}
			return []*FormatSpec{spec}, nil
		})
	}
}

// NewPatternRegistry builds an immutable registry from the supplied options.
func NewPatternRegistry(opts ...RegistryOption) (*PatternRegistry, error) {
	cfg := patternRegistryConfig{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	merged := &RegistryData{}
	for _, data := range cfg.data {
		merged.Merge(data)
	}

	r := &PatternRegistry{
		specs:     make(map[string]map[string]*FormatSpec),
		resolver:  cfg.resolver,
		providers: append([]SpecProvider(nil), cfg.providers...),
	}

	for _, layer := range cfg.layers {
		specs, err := layer()
		if err != nil {
			return nil, err
		}
		for _, spec := range specs {
			r.put(spec)
		}
	}

	if len(merged.Fallbacks) > 0 {
		resolver, ok := r.resolver.(*StaticFallbackResolver)
		if !ok && r.resolver == nil {
			resolver = NewStaticFallbackResolver()
			r.resolver = resolver
			ok = true
		}
		if ok {
			for _, locale := range slices.Sorted(maps.Keys(merged.Fallbacks)) {
				if resolver.has(locale) {
					continue
				}
				resolver.Set(locale, merged.Fallbacks[locale]...)
			}
		}
	}

	r.defaultLocale = NormalizeLocale(cfg.defaultLocale)
	if r.defaultLocale == "" {
		r.defaultLocale = NormalizeLocale(merged.DefaultLocale)
	}
	if r.defaultLocale != "" && len(r.providers) == 0 {
		if _, ok := r.specs[r.defaultLocale]; !ok {
			return nil, fmt.Errorf("colfmt: default locale %q has no patterns", r.defaultLocale)
		}
	}

	locales := make([]string, 0, len(r.specs))
	for locale := range r.specs {
		locales = append(locales, locale)
	}
	r.locales = normalizeLocales(locales)

	return r, nil
}

func (r *PatternRegistry) put(spec *FormatSpec) {
	locale := NormalizeLocale(spec.Locale())
	kind := NormalizeKind(spec.Kind())
	if r.specs[locale] == nil {
		r.specs[locale] = make(map[string]*FormatSpec)
	}
	r.specs[locale][kind] = spec
}

// Lookup returns the FormatSpec for locale and kind.
//
// An empty locale resolves to the default locale. A locale without an entry is
// tried against the providers, then against the configured fallback chain. There
// is no implicit inheritance: "en-AU" does not match "en-US" unless a fallback
// says so.
func (r *PatternRegistry) Lookup(locale, kind string) (*FormatSpec, error) {
	requested := NormalizeLocale(locale)
	normalizedKind := NormalizeKind(kind)
	if r == nil {
		return nil, &UnknownFormatError{Locale: requested, Kind: normalizedKind}
	}
	if requested == "" {
		requested = r.defaultLocale
	}
	if requested == "" || normalizedKind == "" {
		return nil, &UnknownFormatError{Locale: requested, Kind: normalizedKind}
	}

	if spec, ok := r.lookupLocale(requested, normalizedKind); ok {
		return spec, nil
	}

	if r.resolver != nil {
		for _, candidate := range r.resolver.Resolve(requested) {
			if spec, ok := r.lookupLocale(candidate, normalizedKind); ok {
				return spec, nil
			}
		}
	}

	return nil, &UnknownFormatError{Locale: requested, Kind: normalizedKind}
}

func (r *PatternRegistry) lookupLocale(locale, kind string) (*FormatSpec, bool) {
	if kinds, ok := r.specs[locale]; ok {
		if spec, ok := kinds[kind]; ok {
			return spec, true
		}
	}
	for _, provider := range r.providers {
		if spec, ok := provider.Spec(locale, kind); ok && spec != nil {
			return spec, true
		}
	}
	return nil, false
}

// DefaultLocale returns the locale used for empty lookups.
func (r *PatternRegistry) DefaultLocale() string {
	if r == nil {
		return ""
	}
	return r.defaultLocale
}

// Locales returns every locale with static entries, sorted.
func (r *PatternRegistry) Locales() []string {
	if r == nil || len(r.locales) == 0 {
		return nil
	}
	out := make([]string, len(r.locales))
	copy(out, r.locales)
	return out
}

// Kinds returns the kinds registered for locale, sorted.
func (r *PatternRegistry) Kinds(locale string) []string {
	if r == nil {
		return nil
	}
	kinds, ok := r.specs[NormalizeLocale(locale)]
	if !ok || len(kinds) == 0 {
		return nil
	}
	out := make([]string, 0, len(kinds))
	for kind := range kinds {
		out = append(out, kind)
	}
	sort.Strings(out)
	return out
}
