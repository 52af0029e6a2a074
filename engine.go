package colfmt

import (
	"fmt"
	"iter"
	"strings"

	"golang.org/x/text/width"
)

// Validator inspects a normalized value after reformatting. Implementations
// should ignore specs they do not care about and wrap ErrRejected on refusal.
type Validator interface {
	Validate(spec *FormatSpec, value string) error
}

// ValidatorFunc adapts a bare function to the Validator interface.
type ValidatorFunc func(spec *FormatSpec, value string) error

func (fn ValidatorFunc) Validate(spec *FormatSpec, value string) error {
	return fn(spec, value)
}

// Engine reformats and generates values for FormatSpecs.
//
// Reformat is safe for concurrent use. Generate draws from the engine Source and
// must not be used concurrently unless the Source is.
type Engine struct {
	source     Source
	validators []Validator
}

type EngineOption func(*Engine)

// WithEngineSource sets the random source used by Generate.
func WithEngineSource(source Source) EngineOption {
	return func(e *Engine) {
		if source != nil {
			e.source = source
		}
	}
}

// WithEngineValidators appends validators that run after every Reformat.
func WithEngineValidators(validators ...Validator) EngineOption {
	return func(e *Engine) {
		for _, v := range validators {
			if v != nil {
				e.validators = append(e.validators, v)
			}
		}
	}
}

func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	if e.source == nil {
		e.source = NewSource(0)
	}
	return e
}

// Reformat normalizes value into the shape of spec and runs the configured
// validators on the result.
func (e *Engine) Reformat(value string, spec *FormatSpec) (string, error) {
	normalized, err := Reformat(value, spec)
	if err != nil {
		return "", err
	}
	if e == nil {
		return normalized, nil
	}
	for _, v := range e.validators {
		if err := v.Validate(spec, normalized); err != nil {
			return "", err
		}
	}
	return normalized, nil
}

// Generate returns a lazy sequence of exactly count synthetic values.
func (e *Engine) Generate(spec *FormatSpec, count int) (iter.Seq[string], error) {
	if spec == nil {
		return nil, fmt.Errorf("%w: nil spec", ErrUnknownFormat)
	}
	if count < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCount, count)
	}

	source := NewSource(0)
	if e != nil && e.source != nil {
		source = e.source
	}

	return func(yield func(string) bool) {
		for range count {
			if !yield(generateValue(spec, source)) {
				return
			}
		}
	}, nil
}

// Reformat extracts the significant characters of value and re-inserts them into
// the slots of spec.
//
// Whitespace around value is trimmed, full width runes are folded to their
// narrow form, and every rune that is neither a letter nor a digit is treated as
// a separator and dropped. The remaining characters must either match the
// placeholder count exactly, or also include the significant literals of the
// spec (the "1" of "+1 DDD DDD DDDD") in their positions.
func Reformat(value string, spec *FormatSpec) (string, error) {
	if spec == nil {
		return "", fmt.Errorf("%w: nil spec", ErrUnknownFormat)
	}

	significant := significantRunes(value)

	withLiterals := false
	switch len(significant) {
	case spec.placeholders:
	case spec.placeholders + spec.significant:
		withLiterals = true
	default:
		return "", &LengthMismatchError{Value: value, Want: spec.placeholders, Got: len(significant)}
	}

	var b strings.Builder
	b.Grow(len(spec.tokens))

	pos := 0
	for _, token := range spec.tokens {
		switch token.Kind {
		case TokenDigit:
			r := significant[pos]
			if !isASCIIDigit(r) {
				return "", &InvalidCharacterError{Value: value, Char: r, Position: pos, Want: TokenDigit}
			}
			b.WriteRune(r)
			pos++
		case TokenAlpha:
			r, ok := spec.canonicalAlpha(significant[pos])
			if !ok {
				return "", &InvalidCharacterError{Value: value, Char: significant[pos], Position: pos, Want: TokenAlpha}
			}
			b.WriteRune(r)
			pos++
		default:
			if withLiterals && isSignificant(token.Literal) {
				r := significant[pos]
				if !equalFoldRune(r, token.Literal) {
					return "", &InvalidCharacterError{Value: value, Char: r, Position: pos, Want: TokenLiteral}
				}
				pos++
			}
			b.WriteRune(token.Literal)
		}
	}

	return b.String(), nil
}

func significantRunes(value string) []rune {
	folded := width.Narrow.String(strings.TrimSpace(value))
	result := make([]rune, 0, len(folded))
	for _, r := range folded {
		if isSignificant(r) {
			result = append(result, r)
		}
	}
	return result
}

func generateValue(spec *FormatSpec, source Source) string {
	runes := make([]rune, len(spec.tokens))
	lastDigit := -1
	var digits []byte

	for i, token := range spec.tokens {
		switch token.Kind {
		case TokenDigit:
			d := byte('0' + source.Intn(10))
			runes[i] = rune(d)
			digits = append(digits, d)
			lastDigit = i
		case TokenAlpha:
			runes[i] = spec.alphabet[source.Intn(len(spec.alphabet))]
		default:
			runes[i] = token.Literal
		}
	}

	if spec.checksum == ChecksumLuhn && lastDigit >= 0 {
		runes[lastDigit] = rune(luhnCheckDigit(digits[:len(digits)-1]))
	}

	return string(runes)
}
