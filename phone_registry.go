package colfmt

import (
	"fmt"
	"strings"
)

// KindPhoneInternational is the kind under which dial plans are registered.
const KindPhoneInternational = "phone_intl"

// PhoneDialPlan describes the international form of a locale's phone numbers.
// CountryCode should be digits without the leading plus sign.
// Groups defines the digit grouping for the national significant number.
type PhoneDialPlan struct {
	CountryCode string
	Groups      []int
}

var defaultPhoneDialPlans = map[string]PhoneDialPlan{
	"en-US": {CountryCode: "1", Groups: []int{3, 3, 4}},
	"en-CA": {CountryCode: "1", Groups: []int{3, 3, 4}},
	"en-GB": {CountryCode: "44", Groups: []int{4, 6}},
	"en-IN": {CountryCode: "91", Groups: []int{5, 5}},
	"de-DE": {CountryCode: "49", Groups: []int{3, 7}},
	"es-ES": {CountryCode: "34", Groups: []int{3, 3, 3}},
	"fr-FR": {CountryCode: "33", Groups: []int{1, 2, 2, 2, 2}},
	"nl-NL": {CountryCode: "31", Groups: []int{2, 3, 4}},
	"pt-BR": {CountryCode: "55", Groups: []int{2, 5, 4}},
	"ja-JP": {CountryCode: "81", Groups: []int{2, 4, 4}},
}

// DefaultPhoneDialPlan exposes the built-in dial plan for a locale if available.
func DefaultPhoneDialPlan(locale string) (PhoneDialPlan, bool) {
	plan, ok := defaultPhoneDialPlans[NormalizeLocale(locale)]
	if !ok {
		return PhoneDialPlan{}, false
	}
	plan.Groups = append([]int(nil), plan.Groups...)
	return plan, true
}

// DefaultPhoneDialPlans returns a copy of every built-in dial plan keyed by locale.
func DefaultPhoneDialPlans() map[string]PhoneDialPlan {
	out := make(map[string]PhoneDialPlan, len(defaultPhoneDialPlans))
	for locale := range defaultPhoneDialPlans {
		out[locale], _ = DefaultPhoneDialPlan(locale)
	}
	return out
}

// Pattern renders the plan as "+<country> <group> <group>...".
func (plan PhoneDialPlan) Pattern() (string, error) {
	code := strings.TrimPrefix(strings.TrimSpace(plan.CountryCode), "+")
	if code == "" {
		return "", fmt.Errorf("%w: dial plan without country code", ErrInvalidPattern)
	}
	for _, r := range code {
		if !isASCIIDigit(r) {
			return "", fmt.Errorf("%w: country code %q is not numeric", ErrInvalidPattern, plan.CountryCode)
		}
	}

	groups := normalizePhoneGroups(plan.Groups)
	if len(groups) == 0 {
		return "", fmt.Errorf("%w: dial plan without digit groups", ErrInvalidPattern)
	}

	var b strings.Builder
	b.WriteString("+")
	b.WriteString(code)
	for _, group := range groups {
		b.WriteString(" ")
		b.WriteString(strings.Repeat(string(patternDigit), group))
	}
	return b.String(), nil
}

// Spec compiles the plan into a FormatSpec owned by locale.
func (plan PhoneDialPlan) Spec(locale string) (*FormatSpec, error) {
	pattern, err := plan.Pattern()
	if err != nil {
		return nil, err
	}
	return ParsePattern(pattern, WithSpecOwner(locale, KindPhoneInternational))
}

func normalizePhoneGroups(groups []int) []int {
	if len(groups) == 0 {
		return nil
	}
	result := make([]int, 0, len(groups))
	for _, g := range groups {
		if g > 0 {
			result = append(result, g)
		}
	}
	return result
}
