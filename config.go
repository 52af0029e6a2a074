package colfmt

import (
	"errors"
	"fmt"
	"maps"
	"runtime"
	"slices"

	"github.com/rs/zerolog"
)

// Config captures registry and engine setup
type Config struct {
	DefaultLocale  string
	FallbackLocale string
	Loader         Loader
	Resolver       FallbackResolver
	Providers      []SpecProvider
	Validators     []Validator
	Seed           int64
	Workers        int
	Logger         zerolog.Logger

	skipBuiltins bool
	loggerSet    bool
	dialPlans    []localeDialPlan
	registry     *PatternRegistry
}

type localeDialPlan struct {
	locale string
	plan   PhoneDialPlan
}

// Option mutates Config during construction
type Option func(*Config) error

// NewConfig builds Config via supplied options
func NewConfig(opts ...Option) (*Config, error) {
	cfg := &Config{}

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	cfg.DefaultLocale = NormalizeLocale(cfg.DefaultLocale)
	cfg.FallbackLocale = NormalizeLocale(cfg.FallbackLocale)

	if cfg.Resolver == nil {
		cfg.Resolver = NewStaticFallbackResolver()
	}

	if cfg.FallbackLocale != "" {
		resolver, ok := cfg.Resolver.(*StaticFallbackResolver)
		if !ok {
			return nil, errors.New("colfmt: fallback locale requires the static fallback resolver")
		}
		resolver.Set(wildcardLocale, cfg.FallbackLocale)
	}

	if cfg.Workers == 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}

	if !cfg.loggerSet {
		cfg.Logger = zerolog.Nop()
	}

	return cfg, nil
}

// WithDefaultLocale sets the locale used when no locale is requested.
func WithDefaultLocale(locale string) Option {
	return func(c *Config) error {
		c.DefaultLocale = locale
		return nil
	}
}

// WithFallbackLocale sets the locale tried for every locale without an entry.
// Unset by default, so unknown locales fail.
func WithFallbackLocale(locale string) Option {
	return func(c *Config) error {
		c.FallbackLocale = locale
		return nil
	}
}

// WithFallback configures an explicit fallback chain for one locale.
func WithFallback(locale string, fallbacks ...string) Option {
	return func(c *Config) error {
		if locale == "" {
			return nil
		}
		resolver, ok := c.Resolver.(*StaticFallbackResolver)
		if !ok {
			if c.Resolver != nil {
				return nil
			}
			resolver = NewStaticFallbackResolver()
			c.Resolver = resolver
		}
		resolver.Set(locale, fallbacks...)
		return nil
	}
}

func WithFallbackResolver(resolver FallbackResolver) Option {
	return func(c *Config) error {
		c.Resolver = resolver
		return nil
	}
}

func WithLoader(loader Loader) Option {
	return func(c *Config) error {
		c.Loader = loader
		return nil
	}
}

// WithRegistryFiles loads registry definitions from YAML or JSON files on top of
// the built-in patterns.
func WithRegistryFiles(paths ...string) Option {
	return func(c *Config) error {
		if len(paths) == 0 {
			return nil
		}
		c.Loader = NewFileLoader(paths...)
		return nil
	}
}

// WithoutBuiltinPatterns skips the embedded patterns and dial plans.
func WithoutBuiltinPatterns() Option {
	return func(c *Config) error {
		c.skipBuiltins = true
		return nil
	}
}

func WithSpecProvider(provider SpecProvider) Option {
	return func(c *Config) error {
		if provider != nil {
			c.Providers = append(c.Providers, provider)
		}
		return nil
	}
}

func WithValidator(validator Validator) Option {
	return func(c *Config) error {
		if validator != nil {
			c.Validators = append(c.Validators, validator)
		}
		return nil
	}
}

// WithPhoneDialPlan registers an international phone spec for locale. It
// replaces the built-in plan and any phone_intl entry from registry files; when
// called twice for the same locale the last call wins.
func WithPhoneDialPlan(locale string, plan PhoneDialPlan) Option {
	return func(c *Config) error {
		normalized := NormalizeLocale(locale)
		if normalized == "" {
			return errors.New("colfmt: dial plan needs a locale")
		}
		if _, err := plan.Pattern(); err != nil {
			return fmt.Errorf("colfmt: dial plan %s: %w", normalized, err)
		}
		c.dialPlans = append(c.dialPlans, localeDialPlan{locale: normalized, plan: plan})
		return nil
	}
}

// WithSeed makes generation reproducible. Zero keeps a random seed.
func WithSeed(seed int64) Option {
	return func(c *Config) error {
		c.Seed = seed
		return nil
	}
}

// WithWorkers bounds the number of rows reformatted concurrently.
func WithWorkers(workers int) Option {
	return func(c *Config) error {
		if workers < 0 {
			return fmt.Errorf("colfmt: workers must not be negative, got %d", workers)
		}
		c.Workers = workers
		return nil
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Config) error {
		c.Logger = logger
		c.loggerSet = true
		return nil
	}
}

// Registry builds the pattern registry once and returns the cached instance on
// later calls.
func (cfg *Config) Registry() (*PatternRegistry, error) {
	if cfg == nil {
		return nil, errors.New("colfmt: nil config")
	}
	if cfg.registry != nil {
		return cfg.registry, nil
	}

	// Layer order decides precedence: built-in patterns, built-in dial plans,
	// registry files, then dial plans set through options.
	options := []RegistryOption{
		WithRegistryDefaultLocale(cfg.DefaultLocale),
		WithRegistryResolver(cfg.Resolver),
	}

	if !cfg.skipBuiltins {
		data, err := DefaultRegistryData()
		if err != nil {
			return nil, err
		}
		options = append(options, WithRegistryData(data))
		plans := DefaultPhoneDialPlans()
		for _, locale := range slices.Sorted(maps.Keys(plans)) {
			options = append(options, WithRegistryPhoneDialPlan(locale, plans[locale]))
		}
	}

	if cfg.Loader != nil {
		data, err := cfg.Loader.Load()
		if err != nil {
			return nil, err
		}
		options = append(options, WithRegistryData(data))
	}

	for _, entry := range cfg.dialPlans {
		options = append(options, WithRegistryPhoneDialPlan(entry.locale, entry.plan))
	}

	for _, provider := range cfg.Providers {
		options = append(options, WithRegistryProvider(provider))
	}

	registry, err := NewPatternRegistry(options...)
	if err != nil {
		return nil, err
	}

	cfg.Logger.Debug().
		Strs("locales", registry.Locales()).
		Str("default_locale", registry.DefaultLocale()).
		Msg("pattern registry loaded")

	cfg.registry = registry
	return registry, nil
}

// BuildEngine returns an engine seeded and validated per the config.
func (cfg *Config) BuildEngine() *Engine {
	if cfg == nil {
		return NewEngine()
	}
	return NewEngine(
		WithEngineSource(NewSource(cfg.Seed)),
		WithEngineValidators(cfg.Validators...),
	)
}

// BatchOptions returns the batch settings carried by the config.
func (cfg *Config) BatchOptions() BatchOptions {
	if cfg == nil {
		return BatchOptions{}
	}
	logger := cfg.Logger
	return BatchOptions{Workers: cfg.Workers, Logger: &logger}
}
