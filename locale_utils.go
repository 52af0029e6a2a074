package colfmt

import (
	"sort"
	"strings"

	"golang.org/x/text/language"
)

// Canonical field kinds served by the built-in registry.
const (
	KindPhone      = "phone"
	KindZip        = "zip"
	KindSSN        = "ssn"
	KindCreditCard = "credit_card"
)

var kindAliases = map[string]string{
	"phone_number":       KindPhone,
	"telephone":          KindPhone,
	"tel":                KindPhone,
	"zip_code":           KindZip,
	"zipcode":            KindZip,
	"postcode":           KindZip,
	"postal_code":        KindZip,
	"credit_card_number": KindCreditCard,
	"card":               KindCreditCard,
	"card_number":        KindCreditCard,
	"email_address":      KindEmail,
	"e_mail":             KindEmail,
}

// NormalizeLocale canonicalizes a locale identifier: underscores become hyphens
// and well formed BCP 47 tags get their canonical casing ("en_us" -> "en-US").
// Tags x/text does not know are returned trimmed and hyphenated but otherwise
// untouched, so lookups for them still fail instead of silently matching.
func NormalizeLocale(locale string) string {
	normalized := strings.ReplaceAll(strings.TrimSpace(locale), "_", "-")
	if normalized == "" {
		return ""
	}
	tag, err := language.Parse(normalized)
	if err != nil {
		return normalized
	}
	return tag.String()
}

// NormalizeKind lower cases kind and resolves known aliases.
func NormalizeKind(kind string) string {
	normalized := strings.ToLower(strings.TrimSpace(kind))
	normalized = strings.ReplaceAll(normalized, "-", "_")
	if canonical, ok := kindAliases[normalized]; ok {
		return canonical
	}
	return normalized
}

// LocaleRegion returns the upper case ISO 3166 region of locale, or "" when the
// tag carries no explicit region.
func LocaleRegion(locale string) string {
	normalized := strings.ReplaceAll(strings.TrimSpace(locale), "_", "-")
	if normalized == "" {
		return ""
	}
	tag, err := language.Parse(normalized)
	if err != nil {
		return ""
	}
	region, confidence := tag.Region()
	if confidence != language.Exact {
		return ""
	}
	return strings.ToUpper(region.String())
}

func normalizeLocales(locales []string) []string {
	if len(locales) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(locales))
	result := make([]string, 0, len(locales))
	for _, locale := range locales {
		normalized := NormalizeLocale(locale)
		if normalized == "" {
			continue
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		result = append(result, normalized)
	}

	sort.Strings(result)
	return result
}
