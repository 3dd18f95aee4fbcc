// Package cipher encrypts and decrypts text symbol by symbol with a toyrsa key.
//
// Every symbol is encrypted on its own with no chaining, so equal plaintext
// symbols always give equal ciphertext tokens. This is the weakness the
// attack package exploits.
package cipher

import (
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/pkg/errors"

	toyrsa "github.com/BackendStack21/toyrsa-go"
	"github.com/BackendStack21/toyrsa-go/alphabet"
	"github.com/BackendStack21/toyrsa-go/numtheory"
)

// TokenError describes a ciphertext token that was skipped while parsing.
type TokenError struct {
	Index int    // position among the raw tokens
	Token string // the raw token text
	Err   error
}

func (e TokenError) Error() string {
	return "token " + strconv.Itoa(e.Index) + " (" + strconv.Quote(e.Token) + "): " + e.Err.Error()
}

func (e TokenError) Unwrap() error { return e.Err }

// Encrypt normalizes text and encrypts each symbol code as code^e mod n.
func Encrypt(text string, e, n int64) (toyrsa.Ciphertext, error) {
	if err := checkKey(e, n); err != nil {
		return nil, err
	}
	codes := alphabet.Encode(text)
	ct := make(toyrsa.Ciphertext, len(codes))
	for i, m := range codes {
		ct[i] = numtheory.MustModPow(m, e, n)
	}
	return ct, nil
}

// Decrypt computes c^d mod n for every token and maps the results to text.
// Tokens outside [0, n-1] and values that are not symbol codes decode to
// alphabet.Placeholder.
func Decrypt(ct toyrsa.Ciphertext, d, n int64) (string, error) {
	if err := checkKey(d, n); err != nil {
		return "", err
	}
	codes := make([]int64, len(ct))
	for i, c := range ct {
		if c < 0 || c >= n {
			codes[i] = -1
			continue
		}
		codes[i] = numtheory.MustModPow(c, d, n)
	}
	return alphabet.Decode(codes), nil
}

// DecryptString parses s for modulus n and decrypts the valid tokens.
// Skipped tokens are returned alongside the plaintext; they are never fatal.
func DecryptString(s string, d, n int64) (string, []TokenError, error) {
	if err := checkKey(d, n); err != nil {
		return "", nil, err
	}
	ct, skipped := ParseCiphertextFor(s, n)
	plain, err := Decrypt(ct, d, n)
	return plain, skipped, err
}

// ParseCiphertext reads integers separated by Unicode whitespace or commas.
// Tokens that are not integers are dropped and reported.
func ParseCiphertext(s string) (toyrsa.Ciphertext, []TokenError) {
	return parse(s, 0)
}

// ParseCiphertextFor is ParseCiphertext for modulus n. Integers outside
// [0, n-1] are dropped and reported as well.
func ParseCiphertextFor(s string, n int64) (toyrsa.Ciphertext, []TokenError) {
	return parse(s, n)
}

// parse splits s into tokens; n > 0 enables the range check.
func parse(s string, n int64) (toyrsa.Ciphertext, []TokenError) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
	ct := make(toyrsa.Ciphertext, 0, len(fields))
	var skipped []TokenError
	for i, f := range fields {
		v, err := strconv.ParseInt(f, 10, 64)
		if err != nil {
			skipped = append(skipped, TokenError{Index: i, Token: f, Err: toyrsa.ErrInvalidCiphertextToken})
			continue
		}
		if n > 0 && (v < 0 || v >= n) {
			skipped = append(skipped, TokenError{
				Index: i,
				Token: f,
				Err:   errors.Wrapf(toyrsa.ErrInvalidCiphertextToken, "outside [0, %d]", n-1),
			})
			continue
		}
		ct = append(ct, v)
	}
	return ct, skipped
}

// TokenHistogram counts each distinct token. Labels are sorted numerically.
func TokenHistogram(ct toyrsa.Ciphertext) toyrsa.Histogram {
	freq := make(map[int64]int)
	for _, c := range ct {
		freq[c]++
	}
	keys := make([]int64, 0, len(freq))
	for k := range freq {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	h := toyrsa.Histogram{
		Labels: make([]string, len(keys)),
		Counts: make([]int, len(keys)),
	}
	for i, k := range keys {
		h.Labels[i] = strconv.FormatInt(k, 10)
		h.Counts[i] = freq[k]
	}
	return h
}

func checkKey(exp, n int64) error {
	if n < toyrsa.MinModulus {
		return errors.Wrapf(toyrsa.ErrModulusTooSmall, "n = %d", n)
	}
	if exp < 0 {
		return errors.Errorf("exponent must be non-negative, got %d", exp)
	}
	return nil
}
