package colfmt

import "strings"

type TokenKind int

const (
	TokenLiteral TokenKind = iota
	TokenDigit
	TokenAlpha
)

func (k TokenKind) String() string {
	switch k {
	case TokenDigit:
		return "digit"
	case TokenAlpha:
		return "alpha"
	default:
		return "literal"
	}
}

// Token is one slot of a FormatSpec. Literal is only meaningful for TokenLiteral.
type Token struct {
	Kind    TokenKind
	Literal rune
}

func LiteralToken(r rune) Token {
	return Token{Kind: TokenLiteral, Literal: r}
}

func DigitToken() Token {
	return Token{Kind: TokenDigit}
}

func AlphaToken() Token {
	return Token{Kind: TokenAlpha}
}

// Width is the number of runes the token occupies in a normalized value.
func (t Token) Width() int {
	return 1
}

func (t Token) IsPlaceholder() bool {
	return t.Kind == TokenDigit || t.Kind == TokenAlpha
}

// Checksum names a check digit algorithm applied during generation.
type Checksum string

const (
	ChecksumNone Checksum = ""
	ChecksumLuhn Checksum = "luhn"
)

// DefaultAlphabet is used by alpha slots when a spec does not declare one.
const DefaultAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// FormatSpec is an immutable token sequence describing a normalized value.
type FormatSpec struct {
	locale       string
	kind         string
	pattern      string
	tokens       []Token
	alphabet     []rune
	checksum     Checksum
	placeholders int
	significant  int
}

// SpecOption customizes a FormatSpec at construction time.
type SpecOption func(*FormatSpec)

// WithSpecAlphabet sets the runes allowed in alpha slots.
func WithSpecAlphabet(alphabet string) SpecOption {
	return func(s *FormatSpec) {
		if alphabet == "" {
			return
		}
		s.alphabet = uniqueRunes(alphabet)
	}
}

// WithSpecChecksum enables a check digit algorithm for generated values.
func WithSpecChecksum(checksum Checksum) SpecOption {
	return func(s *FormatSpec) {
		s.checksum = checksum
	}
}

// WithSpecOwner records the locale and kind the FormatSpec was registered for.
func WithSpecOwner(locale, kind string) SpecOption {
	return func(s *FormatSpec) {
		s.locale = locale
		s.kind = kind
	}
}

// NewFormatSpec builds a FormatSpec from an explicit token list.
func NewFormatSpec(tokens []Token, opts ...SpecOption) *FormatSpec {
	spec := &FormatSpec{
		tokens:   append([]Token(nil), tokens...),
		alphabet: []rune(DefaultAlphabet),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(spec)
		}
	}

	var b strings.Builder
	for _, token := range spec.tokens {
		switch token.Kind {
		case TokenDigit:
			spec.placeholders++
			b.WriteRune(patternDigit)
		case TokenAlpha:
			spec.placeholders++
			b.WriteRune(patternAlpha)
		default:
			if isSignificant(token.Literal) {
				spec.significant++
			}
			if needsEscape(token.Literal) {
				b.WriteRune(patternEscape)
			}
			b.WriteRune(token.Literal)
		}
	}
	spec.pattern = b.String()
	return spec
}

func (s *FormatSpec) Locale() string {
	if s == nil {
		return ""
	}
	return s.locale
}

func (s *FormatSpec) Kind() string {
	if s == nil {
		return ""
	}
	return s.kind
}

// Pattern returns the pattern source in the D/A grammar.
func (s *FormatSpec) Pattern() string {
	if s == nil {
		return ""
	}
	return s.pattern
}

func (s *FormatSpec) String() string {
	return s.Pattern()
}

// Tokens returns a copy of the token sequence.
func (s *FormatSpec) Tokens() []Token {
	if s == nil || len(s.tokens) == 0 {
		return nil
	}
	out := make([]Token, len(s.tokens))
	copy(out, s.tokens)
	return out
}

// Alphabet returns the runes allowed in alpha slots.
func (s *FormatSpec) Alphabet() string {
	if s == nil {
		return ""
	}
	return string(s.alphabet)
}

func (s *FormatSpec) Checksum() Checksum {
	if s == nil {
		return ChecksumNone
	}
	return s.checksum
}

// Placeholders returns the number of digit and alpha slots.
func (s *FormatSpec) Placeholders() int {
	if s == nil {
		return 0
	}
	return s.placeholders
}

// Width is the rune length of every value produced from this spec.
func (s *FormatSpec) Width() int {
	if s == nil {
		return 0
	}
	total := 0
	for _, token := range s.tokens {
		total += token.Width()
	}
	return total
}

// Matches reports whether value already has the exact shape of s.
func (s *FormatSpec) Matches(value string) bool {
	if s == nil {
		return false
	}
	runes := []rune(value)
	if len(runes) != len(s.tokens) {
		return false
	}
	for i, token := range s.tokens {
		r := runes[i]
		switch token.Kind {
		case TokenDigit:
			if !isASCIIDigit(r) {
				return false
			}
		case TokenAlpha:
			if !s.inAlphabet(r) {
				return false
			}
		default:
			if r != token.Literal {
				return false
			}
		}
	}
	return true
}

func (s *FormatSpec) inAlphabet(r rune) bool {
	for _, candidate := range s.alphabet {
		if candidate == r {
			return true
		}
	}
	return false
}

// canonicalAlpha maps r onto the alphabet, trying the other letter case when the
// exact rune is not present.
func (s *FormatSpec) canonicalAlpha(r rune) (rune, bool) {
	if s.inAlphabet(r) {
		return r, true
	}
	for _, candidate := range s.alphabet {
		if equalFoldRune(candidate, r) {
			return candidate, true
		}
	}
	return 0, false
}

func uniqueRunes(input string) []rune {
	seen := make(map[rune]struct{}, len(input))
	result := make([]rune, 0, len(input))
	for _, r := range input {
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		result = append(result, r)
	}
	return result
}
