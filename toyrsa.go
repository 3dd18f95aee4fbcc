// Package toyrsa implements a small-modulus RSA cryptosystem for classroom use,
// together with a ciphertext-only cryptanalysis attack that scores candidate
// decryptions by their letter-frequency distance to English.
//
// WARNING: Keys are built from two-digit primes so that brute force is
// feasible. This package is a teaching aid and is NOT cryptographically secure.
package toyrsa

// Version of the toyrsa Go implementation.
const Version = "1.0.0"

// API summary:
//
// Key Generation:
//   - keygen.GenerateKeyPair(minPrime, maxPrime) - Random key pair with n >= 29
//   - keygen.GenerateKeyPairFromSeed(params, seed) - Reproducible key pair
//   - keygen.FromPrimes(p, q, e) - Key pair from caller-supplied values
//
// Encryption:
//   - cipher.Encrypt(text, e, n) - Encrypt a message symbol by symbol
//   - cipher.Decrypt(ct, d, n) - Decrypt a ciphertext
//   - cipher.ParseCiphertext(s) - Parse whitespace/comma separated integers
//
// Cryptanalysis:
//   - attack.Exhaustive(ct, e, n, searchCap) - Try every private exponent
//   - attack.PhiRestricted(ct, e, n, attemptCap, threshold) - Scan totient guesses
//
// Parameters:
//   - core.GetParams(name) - Get a named parameter set ("classroom", "tiny", "wide")
