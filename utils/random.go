package utils

import (
	"crypto/rand"
	"io"

	"github.com/pkg/errors"
)

// RandReader is the default entropy source for key generation.
var RandReader io.Reader = rand.Reader

// MinSeedLength is the shortest seed accepted for reproducible key generation.
const MinSeedLength = 16

// SecureRandomBytes generates n cryptographically secure random bytes.
// It uses crypto/rand, which relies on the operating system's CSPRNG.
func SecureRandomBytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(RandReader, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// RandomInt generates a cryptographically secure random integer in [0, max).
func RandomInt(max int64) (int64, error) {
	return RandomIntFrom(RandReader, max)
}

// RandomIntFrom draws a uniform integer in [0, max) from r.
// It uses rejection sampling to ensure a uniform distribution.
func RandomIntFrom(r io.Reader, max int64) (int64, error) {
	if max <= 0 {
		return 0, errors.New("max must be positive")
	}
	if max == 1 {
		return 0, nil
	}

	bitsNeeded := 0
	for m := max - 1; m > 0; m >>= 1 {
		bitsNeeded++
	}
	bytesNeeded := (bitsNeeded + 7) / 8
	mask := uint64(1)<<uint(bitsNeeded) - 1
	buf := make([]byte, bytesNeeded)

	for {
		if _, err := io.ReadFull(r, buf); err != nil {
			return 0, errors.Wrap(err, "read random bytes")
		}

		var value uint64
		for _, b := range buf {
			value = value<<8 | uint64(b)
		}
		value &= mask

		if value < uint64(max) {
			return int64(value), nil
		}
	}
}

// RandomIntRange draws a uniform integer in the closed interval [min, max].
func RandomIntRange(r io.Reader, min, max int64) (int64, error) {
	if max < min {
		return 0, errors.Errorf("empty range [%d, %d]", min, max)
	}
	v, err := RandomIntFrom(r, max-min+1)
	if err != nil {
		return 0, err
	}
	return min + v, nil
}

// ValidateSeed rejects seeds that are too short or obviously degenerate.
// This is a sanity check, not a rigorous randomness test.
func ValidateSeed(seed []byte) error {
	if len(seed) < MinSeedLength {
		return errors.Errorf("seed must be at least %d bytes", MinSeedLength)
	}

	unique := make(map[byte]struct{})
	for _, b := range seed {
		unique[b] = struct{}{}
		if len(unique) >= 4 {
			return nil
		}
	}
	return errors.New("seed has low entropy: insufficient byte diversity")
}
