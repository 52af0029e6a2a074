package colfmt

import (
	"errors"
	"fmt"
)

// ErrUnknownFormat indicates that no FormatSpec exists for a locale/kind pair.
var ErrUnknownFormat = errors.New("colfmt: unknown format")

// ErrLengthMismatch indicates the significant character count of a value does not
// match the placeholder count of the FormatSpec.
var ErrLengthMismatch = errors.New("colfmt: length mismatch")

// ErrInvalidCharacter indicates a character of the wrong class for its slot.
var ErrInvalidCharacter = errors.New("colfmt: invalid character")

// ErrInvalidCount is returned by Generate when count < 1.
var ErrInvalidCount = errors.New("colfmt: count must be a positive integer")

// ErrInvalidPattern marks pattern definitions that cannot be parsed.
var ErrInvalidPattern = errors.New("colfmt: invalid pattern")

// ErrRejected is wrapped by validators that refuse an otherwise well formed value.
var ErrRejected = errors.New("colfmt: value rejected")

// UnknownFormatError reports the locale/kind pair that failed to resolve.
type UnknownFormatError struct {
	Locale string
	Kind   string
}

func (e *UnknownFormatError) Error() string {
	return fmt.Sprintf("colfmt: unknown format for locale %q and kind %q", e.Locale, e.Kind)
}

func (e *UnknownFormatError) Is(target error) bool {
	return target == ErrUnknownFormat
}

// LengthMismatchError reports how many significant characters were found versus
// how many the FormatSpec expects.
type LengthMismatchError struct {
	Value string
	Want  int
	Got   int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("colfmt: value %q has %d significant characters, want %d", e.Value, e.Got, e.Want)
}

func (e *LengthMismatchError) Is(target error) bool {
	return target == ErrLengthMismatch
}

// InvalidCharacterError reports the offending rune and the slot it landed in.
// Position is the zero based index among the significant characters.
type InvalidCharacterError struct {
	Value    string
	Char     rune
	Position int
	Want     TokenKind
}

func (e *InvalidCharacterError) Error() string {
	return fmt.Sprintf("colfmt: value %q has %q at position %d, want %s", e.Value, e.Char, e.Position, e.Want)
}

func (e *InvalidCharacterError) Is(target error) bool {
	return target == ErrInvalidCharacter
}
