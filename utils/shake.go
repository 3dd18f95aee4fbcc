package utils

import (
	"io"

	"golang.org/x/crypto/sha3"
)

// DomainKeygen separates the seeded key generation stream from other uses of a seed.
const DomainKeygen = "toyrsa-keygen-v1"

// NewShakeReader returns an endless deterministic byte stream derived from seed.
// The stream is the SHAKE256 XOF over a domain-separated seed, so the same
// seed always yields the same sequence of draws.
func NewShakeReader(domain string, seed []byte) io.Reader {
	h := sha3.NewShake256()
	writeDomain(h, domain)
	h.Write(seed)
	return h
}

// SHA3256 computes the SHA3-256 cryptographic hash of the input.
// It returns a 32-byte hash.
func SHA3256(input []byte) []byte {
	h := sha3.New256()
	h.Write(input)
	return h.Sum(nil)
}

// HashWithDomain computes a domain-separated SHA3-256 hash.
// Panics if domain is longer than 255 bytes.
func HashWithDomain(domain string, data []byte) []byte {
	h := sha3.New256()
	writeDomain(h, domain)
	h.Write(data)
	return h.Sum(nil)
}

func writeDomain(w io.Writer, domain string) {
	if len(domain) > 255 {
		panic("domain string must be at most 255 bytes")
	}
	w.Write([]byte{byte(len(domain))})
	w.Write([]byte(domain))
}
