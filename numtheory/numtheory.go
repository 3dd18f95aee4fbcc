// Package numtheory implements the integer arithmetic behind toyrsa keys:
// gcd, modular inverse, modular exponentiation, primality and prime sampling.
//
// All arithmetic is exact. Intermediate products of ModPow are computed with
// 128-bit precision, so any modulus that fits in an int64 is safe.
package numtheory

import (
	"io"
	"math/bits"

	"github.com/pkg/errors"

	toyrsa "github.com/BackendStack21/toyrsa-go"
	"github.com/BackendStack21/toyrsa-go/utils"
)

// PreferredExponents are tried in order before falling back to an odd scan.
var PreferredExponents = []int64{3, 5, 17, 257}

// maxSampleAttempts bounds random draws before RandomPrime falls back to a scan.
const maxSampleAttempts = 10000

// GCD returns the non-negative greatest common divisor of a and b.
// GCD(0, 0) is defined as 0.
func GCD(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	if a < 0 {
		return -a
	}
	return a
}

// ExtendedGCD returns g, x, y such that a*x + b*y = g.
func ExtendedGCD(a, b int64) (g, x, y int64) {
	x, lastX := int64(0), int64(1)
	y, lastY := int64(1), int64(0)
	for b != 0 {
		q := a / b
		a, b = b, a%b
		x, lastX = lastX-q*x, x
		y, lastY = lastY-q*y, y
	}
	return a, lastX, lastY
}

// ModInverse returns the unique d in [0, phi-1] with e*d ≡ 1 (mod phi).
func ModInverse(e, phi int64) (int64, error) {
	if phi < 1 {
		return 0, errors.Wrapf(toyrsa.ErrNotInvertible, "modulus %d", phi)
	}
	g, x, _ := ExtendedGCD(e, phi)
	if g != 1 && g != -1 {
		return 0, errors.Wrapf(toyrsa.ErrNotInvertible, "gcd(%d, %d) = %d", e, phi, GCD(e, phi))
	}
	if g == -1 {
		x = -x
	}
	return ((x % phi) + phi) % phi, nil
}

// ModPow computes base^exp mod m by repeated squaring.
// The result is always in [0, m-1]. exp must be >= 0 and m must be >= 1.
func ModPow(base, exp, m int64) (int64, error) {
	if m < 1 {
		return 0, errors.Errorf("modulus must be positive, got %d", m)
	}
	if exp < 0 {
		return 0, errors.Errorf("exponent must be non-negative, got %d", exp)
	}
	return int64(modPow(reduce(base, m), uint64(exp), uint64(m))), nil
}

// MustModPow is ModPow for callers that have already validated exp and m.
func MustModPow(base, exp, m int64) int64 {
	v, err := ModPow(base, exp, m)
	if err != nil {
		panic(err)
	}
	return v
}

func reduce(v, m int64) uint64 {
	r := v % m
	if r < 0 {
		r += m
	}
	return uint64(r)
}

func modPow(base, exp, m uint64) uint64 {
	if m == 1 {
		return 0
	}
	result := uint64(1)
	for exp > 0 {
		if exp&1 == 1 {
			result = mulMod(result, base, m)
		}
		base = mulMod(base, base, m)
		exp >>= 1
	}
	return result
}

// MulMod returns a*b mod m in [0, m-1] without overflow. m must be >= 1.
func MulMod(a, b, m int64) int64 {
	return int64(mulMod(reduce(a, m), reduce(b, m), uint64(m)))
}

func mulMod(a, b, m uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	return bits.Rem64(hi, lo, m)
}

// IsPrime reports whether n is prime using trial division up to √n.
func IsPrime(n int64) bool {
	if n < 2 {
		return false
	}
	if n%2 == 0 {
		return n == 2
	}
	for i := int64(3); i <= n/i; i += 2 {
		if n%i == 0 {
			return false
		}
	}
	return true
}

// NextPrime returns the smallest prime in [from, to], or false if there is none.
func NextPrime(from, to int64) (int64, bool) {
	if from <= 2 && to >= 2 {
		return 2, true
	}
	if from < 3 {
		from = 3
	}
	if from%2 == 0 {
		from++
	}
	for c := from; c <= to; c += 2 {
		if IsPrime(c) {
			return c, true
		}
	}
	return 0, false
}

// PrevPrime returns the largest prime in [from, to], or false if there is none.
func PrevPrime(from, to int64) (int64, bool) {
	for c := to; c >= from && c >= 2; c-- {
		if IsPrime(c) {
			return c, true
		}
	}
	return 0, false
}

// RandomPrime samples integers uniformly in [min, max], bumping even draws to
// the next odd number, until one is prime. It fails with ErrNoPrimeInRange
// rather than looping when the interval contains no prime.
func RandomPrime(r io.Reader, min, max int64) (int64, error) {
	first, ok := NextPrime(min, max)
	if !ok {
		return 0, errors.Wrapf(toyrsa.ErrNoPrimeInRange, "[%d, %d]", min, max)
	}
	if first == 2 {
		if _, more := NextPrime(3, max); !more {
			return 2, nil
		}
	}

	for attempt := 0; attempt < maxSampleAttempts; attempt++ {
		c, err := utils.RandomIntRange(r, min, max)
		if err != nil {
			return 0, err
		}
		if c%2 == 0 && c != 2 {
			c++
		}
		if c <= max && IsPrime(c) {
			return c, nil
		}
	}

	// Sparse ranges: scan forward from a random start, wrapping once.
	start, err := utils.RandomIntRange(r, min, max)
	if err != nil {
		return 0, err
	}
	if p, ok := NextPrime(start, max); ok {
		return p, nil
	}
	return first, nil
}

// CountPrimes returns the number of primes in [min, max], stopping at limit.
func CountPrimes(min, max int64, limit int) int {
	count := 0
	for c, ok := NextPrime(min, max); ok && count < limit; c, ok = NextPrime(c+1, max) {
		count++
	}
	return count
}

// ChooseE picks a public exponent coprime to phi.
// The preferred exponents are tried first, then odd integers from 3 upward.
func ChooseE(phi int64) (int64, error) {
	if phi <= 2 {
		return 0, errors.Wrapf(toyrsa.ErrNoValidExponent, "phi = %d", phi)
	}
	for _, c := range PreferredExponents {
		if c < phi && GCD(c, phi) == 1 {
			return c, nil
		}
	}
	for e := int64(3); e < phi; e += 2 {
		if GCD(e, phi) == 1 {
			return e, nil
		}
	}
	return 0, errors.Wrapf(toyrsa.ErrNoValidExponent, "phi = %d", phi)
}
