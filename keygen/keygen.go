// Package keygen builds small-modulus RSA key pairs.
package keygen

import (
	"encoding/binary"
	"encoding/hex"
	"io"

	"github.com/pkg/errors"

	toyrsa "github.com/BackendStack21/toyrsa-go"
	"github.com/BackendStack21/toyrsa-go/core"
	"github.com/BackendStack21/toyrsa-go/numtheory"
	"github.com/BackendStack21/toyrsa-go/utils"
)

const (
	// DomainFingerprint separates public key fingerprints from other hashes.
	DomainFingerprint = "toyrsa-fingerprint-v1"

	maxKeyAttempts  = 1000
	maxDistinctDraw = 1000
)

// GenerateKeyPair draws a random key pair whose primes lie in [minPrime, maxPrime].
func GenerateKeyPair(minPrime, maxPrime int64) (*toyrsa.KeyPair, error) {
	return GenerateKeyPairFrom(utils.RandReader, minPrime, maxPrime)
}

// GenerateKeyPairFromSeed generates a deterministic key pair from seed.
func GenerateKeyPairFromSeed(params core.ParamSet, seed []byte) (*toyrsa.KeyPair, error) {
	if err := core.ValidateParams(params); err != nil {
		return nil, err
	}
	if err := utils.ValidateSeed(seed); err != nil {
		return nil, err
	}
	r := utils.NewShakeReader(utils.DomainKeygen, seed)
	return GenerateKeyPairFrom(r, params.MinPrime, params.MaxPrime)
}

// GenerateKeyPairFrom draws a key pair using r as the only source of randomness.
//
// Two distinct primes p and q are drawn until n = p*q reaches MinModulus.
// Ranges that can never satisfy this fail immediately instead of looping.
func GenerateKeyPairFrom(r io.Reader, minPrime, maxPrime int64) (*toyrsa.KeyPair, error) {
	if err := checkRange(minPrime, maxPrime); err != nil {
		return nil, err
	}

	for attempt := 0; attempt < maxKeyAttempts; attempt++ {
		p, err := numtheory.RandomPrime(r, minPrime, maxPrime)
		if err != nil {
			return nil, err
		}
		q, err := distinctPrime(r, p, minPrime, maxPrime)
		if err != nil {
			return nil, err
		}
		if q == 0 {
			continue
		}
		n, err := utils.SafeMultiply(p, q)
		if err != nil {
			return nil, err
		}
		if n < toyrsa.MinModulus {
			continue
		}
		return FromPrimes(p, q, 0)
	}
	return nil, errors.Wrapf(toyrsa.ErrModulusTooSmall, "no key with n >= %d after %d attempts", toyrsa.MinModulus, maxKeyAttempts)
}

// checkRange fails fast on ranges holding fewer than two primes or whose two
// largest primes multiply to less than MinModulus.
func checkRange(minPrime, maxPrime int64) error {
	if err := utils.CheckRange(maxPrime, 2, utils.MaxPrimeBound, "max prime"); err != nil {
		return errors.Wrap(toyrsa.ErrNoPrimeInRange, err.Error())
	}
	hi, ok := numtheory.PrevPrime(minPrime, maxPrime)
	if !ok {
		return errors.Wrapf(toyrsa.ErrNoPrimeInRange, "[%d, %d]", minPrime, maxPrime)
	}
	next, ok := numtheory.PrevPrime(minPrime, hi-1)
	if !ok {
		return errors.Wrapf(toyrsa.ErrNoPrimeInRange, "[%d, %d] holds only the prime %d", minPrime, maxPrime, hi)
	}
	if hi*next < toyrsa.MinModulus {
		return errors.Wrapf(toyrsa.ErrModulusTooSmall, "largest modulus in [%d, %d] is %d", minPrime, maxPrime, hi*next)
	}
	return nil
}

// distinctPrime draws a prime different from p. It returns 0 if the draw
// budget runs out, which only happens for pathological random sources.
func distinctPrime(r io.Reader, p, minPrime, maxPrime int64) (int64, error) {
	for i := 0; i < maxDistinctDraw; i++ {
		q, err := numtheory.RandomPrime(r, minPrime, maxPrime)
		if err != nil {
			return 0, err
		}
		if q != p {
			return q, nil
		}
	}
	return 0, nil
}

// FromPrimes builds a key pair from two distinct primes.
// If e is 0 the public exponent is chosen with numtheory.ChooseE.
func FromPrimes(p, q, e int64) (*toyrsa.KeyPair, error) {
	if !numtheory.IsPrime(p) || !numtheory.IsPrime(q) {
		return nil, errors.Errorf("p=%d and q=%d must both be prime", p, q)
	}
	if p == q {
		return nil, errors.Errorf("p and q must be distinct, both are %d", p)
	}
	if p > utils.MaxPrimeBound || q > utils.MaxPrimeBound {
		return nil, errors.Wrapf(utils.ErrOverflow, "primes must not exceed %d", int64(utils.MaxPrimeBound))
	}

	n := p * q
	if n < toyrsa.MinModulus {
		return nil, errors.Wrapf(toyrsa.ErrModulusTooSmall, "n = %d", n)
	}
	phi := (p - 1) * (q - 1)

	if e == 0 {
		var err error
		if e, err = numtheory.ChooseE(phi); err != nil {
			return nil, err
		}
	} else if e <= 1 || e >= phi {
		return nil, errors.Errorf("e=%d must lie in (1, %d)", e, phi)
	}

	d, err := numtheory.ModInverse(e, phi)
	if err != nil {
		return nil, err
	}

	return &toyrsa.KeyPair{P: p, Q: q, N: n, Phi: phi, E: e, D: d}, nil
}

// Validate checks every key pair invariant.
func Validate(kp *toyrsa.KeyPair) error {
	if kp == nil {
		return errors.New("nil key pair")
	}
	if !numtheory.IsPrime(kp.P) || !numtheory.IsPrime(kp.Q) || kp.P == kp.Q {
		return errors.Errorf("p=%d, q=%d must be distinct primes", kp.P, kp.Q)
	}
	if kp.N != kp.P*kp.Q {
		return errors.Errorf("n=%d != p*q", kp.N)
	}
	if kp.N < toyrsa.MinModulus {
		return errors.Wrapf(toyrsa.ErrModulusTooSmall, "n = %d", kp.N)
	}
	if kp.Phi != (kp.P-1)*(kp.Q-1) {
		return errors.Errorf("phi=%d != (p-1)(q-1)", kp.Phi)
	}
	if numtheory.GCD(kp.E, kp.Phi) != 1 {
		return errors.Wrapf(toyrsa.ErrNotInvertible, "gcd(e, phi) = %d", numtheory.GCD(kp.E, kp.Phi))
	}
	if kp.D < 0 || kp.D >= kp.Phi {
		return errors.Errorf("d=%d outside [0, phi)", kp.D)
	}
	if numtheory.MulMod(kp.E, kp.D, kp.Phi) != 1 {
		return errors.Errorf("e*d is not 1 mod phi")
	}
	return nil
}

// ValidatePublicKey checks that a public key can carry the alphabet.
func ValidatePublicKey(pk toyrsa.PublicKey) error {
	if pk.N < toyrsa.MinModulus {
		return errors.Wrapf(toyrsa.ErrModulusTooSmall, "n = %d", pk.N)
	}
	if pk.E < 1 {
		return errors.Errorf("e must be positive, got %d", pk.E)
	}
	return nil
}

// SerializePublicKey encodes (e, n) as 16 big-endian bytes.
func SerializePublicKey(pk toyrsa.PublicKey) []byte {
	buf := make([]byte, 16)
	binary.BigEndian.PutUint64(buf[0:], uint64(pk.E))
	binary.BigEndian.PutUint64(buf[8:], uint64(pk.N))
	return buf
}

// Fingerprint returns the hex SHA3-256 fingerprint of a public key.
func Fingerprint(pk toyrsa.PublicKey) string {
	return hex.EncodeToString(utils.HashWithDomain(DomainFingerprint, SerializePublicKey(pk)))
}
