// Package alphabet maps the 27-symbol classroom alphabet (A-Z and space)
// onto the integers 0..26 and back.
package alphabet

import (
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	toyrsa "github.com/BackendStack21/toyrsa-go"
)

// Placeholder stands in for any integer that is not a symbol code.
const Placeholder = '?'

// ErrInvalidSymbol is returned for characters outside A-Z and space.
var ErrInvalidSymbol = errors.New("character is not in the alphabet")

// Normalize uppercases text with full Unicode case mapping (so "ß" becomes
// "SS"), turns every character outside A-Z and space into a space, collapses
// whitespace runs and trims the result. Non-letter content is not preserved.
func Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	pendingSpace := false
	for _, r := range cases.Upper(language.Und).String(text) {
		if r >= 'A' && r <= 'Z' {
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(r)
			continue
		}
		pendingSpace = true
	}
	return b.String()
}

// SymbolToInt returns the code of a normalized character: 'A'..'Z' map to
// 0..25 and space maps to 26.
func SymbolToInt(ch rune) (int, error) {
	switch {
	case ch == ' ':
		return toyrsa.SpaceCode, nil
	case ch >= 'A' && ch <= 'Z':
		return int(ch - 'A'), nil
	default:
		return 0, errors.Wrapf(ErrInvalidSymbol, "%q", ch)
	}
}

// IntToSymbol returns the character for a code. Codes outside [0, 26]
// yield Placeholder and ok == false.
func IntToSymbol(v int64) (ch rune, ok bool) {
	switch {
	case v == toyrsa.SpaceCode:
		return ' ', true
	case v >= 0 && v <= 25:
		return rune('A' + v), true
	default:
		return Placeholder, false
	}
}

// Valid reports whether v is a symbol code.
func Valid(v int64) bool {
	return v >= 0 && v < toyrsa.AlphabetSize
}

// Encode normalizes text and returns its symbol codes.
func Encode(text string) []int64 {
	norm := Normalize(text)
	codes := make([]int64, 0, len(norm))
	for _, r := range norm {
		// Normalize only emits A-Z and single spaces.
		v, _ := SymbolToInt(r)
		codes = append(codes, int64(v))
	}
	return codes
}

// Decode maps codes back to text, one character per code.
// Invalid codes become Placeholder so the output length always matches.
func Decode(codes []int64) string {
	var b strings.Builder
	b.Grow(len(codes))
	for _, v := range codes {
		ch, _ := IntToSymbol(v)
		b.WriteRune(ch)
	}
	return b.String()
}
