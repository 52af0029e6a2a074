// Package libphonenumber plugs libphonenumber metadata into colfmt: a spec
// provider that derives phone patterns for regions without a static entry, and a
// validator that rejects phone values libphonenumber considers impossible.
package libphonenumber

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/goliatone/go-colfmt"
	"github.com/nyaruka/phonenumbers"
)

type options struct {
	region     string
	format     phonenumbers.PhoneNumberFormat
	numberType phonenumbers.PhoneNumberType
}

// Option configures the provider and validator.
type Option func(*options)

// WithRegion forces the provided ISO 3166-1 alpha-2 country code.
func WithRegion(region string) Option {
	return func(o *options) {
		o.region = strings.ToUpper(strings.TrimSpace(region))
	}
}

// WithFormat selects the libphonenumber output format used to derive patterns
// (defaults to NATIONAL).
func WithFormat(format phonenumbers.PhoneNumberFormat) Option {
	return func(o *options) {
		o.format = format
	}
}

// WithNumberType selects which example number patterns are derived from
// (defaults to FIXED_LINE).
func WithNumberType(numberType phonenumbers.PhoneNumberType) Option {
	return func(o *options) {
		o.numberType = numberType
	}
}

func buildOptions(opts []Option) options {
	cfg := options{
		format:     phonenumbers.NATIONAL,
		numberType: phonenumbers.FIXED_LINE,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// Provider derives phone FormatSpecs from libphonenumber example numbers.
type Provider struct {
	opts options

	mu    sync.Mutex
	cache map[string]*colfmt.FormatSpec
}

var _ colfmt.SpecProvider = &Provider{}

func NewProvider(opts ...Option) *Provider {
	return &Provider{
		opts:  buildOptions(opts),
		cache: make(map[string]*colfmt.FormatSpec),
	}
}

// Spec serves the phone kind only.
func (p *Provider) Spec(locale, kind string) (*colfmt.FormatSpec, bool) {
	if p == nil || colfmt.NormalizeKind(kind) != colfmt.KindPhone {
		return nil, false
	}

	normalized := colfmt.NormalizeLocale(locale)
	region := determineRegion(normalized, p.opts.region)
	if region == "" {
		return nil, false
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if spec, ok := p.cache[normalized]; ok {
		return spec, spec != nil
	}

	spec := p.derive(normalized, region)
	p.cache[normalized] = spec
	return spec, spec != nil
}

func (p *Provider) derive(locale, region string) *colfmt.FormatSpec {
	number := phonenumbers.GetExampleNumberForType(region, p.opts.numberType)
	if number == nil {
		number = phonenumbers.GetExampleNumber(region)
	}
	if number == nil {
		return nil
	}

	formatted := phonenumbers.Format(number, p.opts.format)
	if formatted == "" {
		return nil
	}

	pattern := PatternFromExample(formatted, number.GetCountryCode())
	spec, err := colfmt.ParsePattern(pattern, colfmt.WithSpecOwner(locale, colfmt.KindPhone))
	if err != nil {
		return nil
	}
	return spec
}

// PatternFromExample turns a formatted example number into a colfmt pattern.
// Digits become digit slots; a leading "+<countryCode>" stays literal.
func PatternFromExample(formatted string, countryCode int32) string {
	var b strings.Builder

	rest := formatted
	if prefix := "+" + strconv.Itoa(int(countryCode)); countryCode > 0 && strings.HasPrefix(formatted, prefix) {
		b.WriteString(prefix)
		rest = formatted[len(prefix):]
	}

	for _, r := range rest {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune('D')
		case r == 'D' || r == 'A' || r == '\\':
			b.WriteRune('\\')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Validator rejects phone values that libphonenumber reports as impossible for
// the region of the FormatSpec. Specs of other kinds pass through.
type Validator struct {
	opts options
}

var _ colfmt.Validator = &Validator{}

func NewValidator(opts ...Option) *Validator {
	return &Validator{opts: buildOptions(opts)}
}

func (v *Validator) Validate(spec *colfmt.FormatSpec, value string) error {
	if v == nil || spec == nil {
		return nil
	}
	switch colfmt.NormalizeKind(spec.Kind()) {
	case colfmt.KindPhone, colfmt.KindPhoneInternational:
	default:
		return nil
	}

	region := determineRegion(spec.Locale(), v.opts.region)
	if region == "" {
		return nil
	}

	number, err := phonenumbers.Parse(value, region)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", colfmt.ErrRejected, value, err)
	}
	if !phonenumbers.IsPossibleNumber(number) {
		return fmt.Errorf("%w: %q is not a possible %s phone number", colfmt.ErrRejected, value, region)
	}
	return nil
}

func determineRegion(locale, explicitRegion string) string {
	if explicitRegion != "" {
		return explicitRegion
	}

	if region := colfmt.LocaleRegion(locale); region != "" {
		return region
	}

	if plan, ok := colfmt.DefaultPhoneDialPlan(locale); ok {
		return regionFromDialPlan(plan)
	}

	return ""
}

func regionFromDialPlan(plan colfmt.PhoneDialPlan) string {
	code, err := strconv.Atoi(plan.CountryCode)
	if err != nil || code <= 0 {
		return ""
	}
	region := phonenumbers.GetRegionCodeForCountryCode(code)
	if region == "ZZ" {
		return ""
	}
	return strings.ToUpper(region)
}
