package colfmt

import (
	"fmt"
	"strings"
	"unicode"
)

const (
	patternDigit  = 'D'
	patternAlpha  = 'A'
	patternEscape = '\\'
)

// ParsePattern compiles a pattern into a FormatSpec.
//
// Grammar: D is a digit slot, A is an alpha slot, a backslash escapes the next
// rune as a literal, and every other rune is a literal. "(DDD) DDD-DDDD" is a US
// phone number, "AAD DAA" a British style postcode, "\D-DDD" a literal D followed
// by a dash and three digits.
func ParsePattern(pattern string, opts ...SpecOption) (*FormatSpec, error) {
	if strings.TrimSpace(pattern) == "" {
		return nil, fmt.Errorf("%w: empty pattern", ErrInvalidPattern)
	}

	var tokens []Token
	escaped := false
	for _, r := range pattern {
		if escaped {
			tokens = append(tokens, LiteralToken(r))
			escaped = false
			continue
		}
		switch r {
		case patternEscape:
			escaped = true
		case patternDigit:
			tokens = append(tokens, DigitToken())
		case patternAlpha:
			tokens = append(tokens, AlphaToken())
		default:
			tokens = append(tokens, LiteralToken(r))
		}
	}
	if escaped {
		return nil, fmt.Errorf("%w: dangling escape in %q", ErrInvalidPattern, pattern)
	}

	spec := NewFormatSpec(tokens, opts...)
	for _, r := range spec.alphabet {
		if !unicode.IsLetter(r) {
			return nil, fmt.Errorf("%w: alphabet rune %q is not a letter", ErrInvalidPattern, r)
		}
	}
	if spec.checksum != ChecksumNone && spec.checksum != ChecksumLuhn {
		return nil, fmt.Errorf("%w: unsupported checksum %q", ErrInvalidPattern, spec.checksum)
	}
	if spec.checksum == ChecksumLuhn && spec.countKind(TokenDigit) < 2 {
		return nil, fmt.Errorf("%w: luhn checksum needs at least two digit slots", ErrInvalidPattern)
	}
	return spec, nil
}

// MustParsePattern is like ParsePattern but panics on error. Intended for
// package level tables.
func MustParsePattern(pattern string, opts ...SpecOption) *FormatSpec {
	spec, err := ParsePattern(pattern, opts...)
	if err != nil {
		panic(err)
	}
	return spec
}

func (s *FormatSpec) countKind(kind TokenKind) int {
	count := 0
	for _, token := range s.tokens {
		if token.Kind == kind {
			count++
		}
	}
	return count
}

func needsEscape(r rune) bool {
	return r == patternDigit || r == patternAlpha || r == patternEscape
}

// isSignificant reports whether r carries value rather than separating groups.
func isSignificant(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isASCIIDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func equalFoldRune(a, b rune) bool {
	return unicode.ToUpper(a) == unicode.ToUpper(b) || unicode.ToLower(a) == unicode.ToLower(b)
}
