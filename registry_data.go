package colfmt

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed data/default_patterns.yaml
var defaultPatternsYAML []byte

// RegistryData is the decoded form of a registry definition file.
type RegistryData struct {
	DefaultLocale string                                  `json:"default_locale" yaml:"default_locale"`
	Fallbacks     map[string][]string                     `json:"fallbacks" yaml:"fallbacks"`
	Locales       map[string]map[string]PatternDefinition `json:"locales" yaml:"locales"`
}

// PatternDefinition describes one (locale, kind) entry. In files it is either a
// bare pattern string or a mapping with the fields below.
type PatternDefinition struct {
	Pattern     string `json:"pattern" yaml:"pattern"`
	Alphabet    string `json:"alphabet,omitempty" yaml:"alphabet,omitempty"`
	Checksum    string `json:"checksum,omitempty" yaml:"checksum,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

type patternDefinitionFields PatternDefinition

func (d *PatternDefinition) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var pattern string
		if err := node.Decode(&pattern); err != nil {
			return err
		}
		*d = PatternDefinition{Pattern: pattern}
		return nil
	case yaml.MappingNode:
		var fields patternDefinitionFields
		if err := node.Decode(&fields); err != nil {
			return err
		}
		*d = PatternDefinition(fields)
		return nil
	default:
		return fmt.Errorf("pattern definition must be a string or mapping, line %d", node.Line)
	}
}

func (d *PatternDefinition) UnmarshalJSON(data []byte) error {
	var pattern string
	if err := json.Unmarshal(data, &pattern); err == nil {
		*d = PatternDefinition{Pattern: pattern}
		return nil
	}

	var fields patternDefinitionFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("pattern definition must be a string or object: %w", err)
	}
	*d = PatternDefinition(fields)
	return nil
}

// Spec compiles the definition for the given owner.
func (d PatternDefinition) Spec(locale, kind string) (*FormatSpec, error) {
	return ParsePattern(d.Pattern,
		WithSpecAlphabet(d.Alphabet),
		WithSpecChecksum(Checksum(strings.ToLower(strings.TrimSpace(d.Checksum)))),
		WithSpecOwner(locale, kind),
	)
}

// specs compiles every definition. Keys are normalized first so "en_US" and
// "en-US" in one file collapse to a single entry.
func (d *RegistryData) specs() ([]*FormatSpec, error) {
	normalized := &RegistryData{}
	normalized.Merge(d)

	var out []*FormatSpec
	for _, locale := range slices.Sorted(maps.Keys(normalized.Locales)) {
		kinds := normalized.Locales[locale]
		for _, kind := range slices.Sorted(maps.Keys(kinds)) {
			spec, err := kinds[kind].Spec(locale, kind)
			if err != nil {
				return nil, fmt.Errorf("colfmt: %s/%s: %w", locale, kind, err)
			}
			out = append(out, spec)
		}
	}
	return out, nil
}

// DefaultRegistryData decodes the embedded built-in definitions.
func DefaultRegistryData() (*RegistryData, error) {
	data, err := decodeRegistryYAML(defaultPatternsYAML)
	if err != nil {
		return nil, fmt.Errorf("colfmt: parse default patterns: %w", err)
	}
	return data, nil
}

// Merge copies source into d. Entries in source win per (locale, kind); a non
// empty default locale replaces the current one; fallback chains are replaced per
// locale.
func (d *RegistryData) Merge(source *RegistryData) {
	if d == nil || source == nil {
		return
	}

	if source.DefaultLocale != "" {
		d.DefaultLocale = source.DefaultLocale
	}

	if source.Fallbacks != nil {
		if d.Fallbacks == nil {
			d.Fallbacks = make(map[string][]string)
		}
		for _, locale := range slices.Sorted(maps.Keys(source.Fallbacks)) {
			key := locale
			if key != wildcardLocale {
				key = NormalizeLocale(locale)
			}
			d.Fallbacks[key] = append([]string(nil), source.Fallbacks[locale]...)
		}
	}

	if source.Locales != nil {
		if d.Locales == nil {
			d.Locales = make(map[string]map[string]PatternDefinition)
		}
		for _, locale := range slices.Sorted(maps.Keys(source.Locales)) {
			key := NormalizeLocale(locale)
			if d.Locales[key] == nil {
				d.Locales[key] = make(map[string]PatternDefinition)
			}
			kinds := source.Locales[locale]
			for _, kind := range slices.Sorted(maps.Keys(kinds)) {
				d.Locales[key][NormalizeKind(kind)] = kinds[kind]
			}
		}
	}
}
